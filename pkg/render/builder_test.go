package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bagoum/exprtext/pkg/expr"
)

func addLambda() *expr.LambdaExpr {
	a := expr.Parameter(expr.IntType, "a")
	b := expr.Parameter(expr.IntType, "b")
	return expr.Lambda(expr.FuncOf(expr.IntType, expr.IntType, expr.IntType), expr.Add(a, b), a, b)
}

func TestBuilderAddLambda(t *testing.T) {
	got, regs := RenderBuilder(addLambda())

	want := `var p = new ParameterExpression[2]; // the unique parameter expressions
var e = new Expression[1]; // the unique expressions
var l = new LabelTarget[0]; // the unique label targets
var expr = Lambda(
  typeof(System.Func<int, int, int>),
  e[0]=Add(
    p[0]=Parameter(typeof(int), "a"),
    p[1]=Parameter(typeof(int), "b")),
  p[0 // (int a)
    ],
  p[1 // (int b)
    ]);`
	require.Equal(t, want, got)
	require.Len(t, regs.Params, 2)
	require.Len(t, regs.Exprs, 1)
	require.Empty(t, regs.Labels)
}

func TestBuilderDeterministic(t *testing.T) {
	tree := addLambda()
	first := ToBuilderString(tree)
	second := ToBuilderString(tree)
	require.Equal(t, first, second)
}

func TestBuilderSharedNodeDeclaredOnce(t *testing.T) {
	a := expr.Parameter(expr.IntType, "a")
	shared := expr.Add(a, expr.Constant(1, expr.IntType))
	tree := expr.Multiply(shared, shared)

	got, regs := RenderBuilder(tree)

	// One declaration, one back-reference carrying the kind and type.
	require.Equal(t, 1, strings.Count(got, "e[0]=Add("))
	require.Contains(t, got, "e[0 // Add of int")
	require.Len(t, regs.Exprs, 2) // the shared Add and its constant

	// Equal-but-distinct nodes stay distinct.
	c1 := expr.Constant(0, expr.IntType)
	c2 := expr.Constant(0, expr.IntType)
	_, regs = RenderBuilder(expr.Add(c1, c2))
	require.Len(t, regs.Exprs, 2)
}

func TestBuilderDeclarationBeforeUse(t *testing.T) {
	got := ToBuilderString(addLambda())
	decl := strings.Index(got, `p[0]=Parameter(`)
	use := strings.Index(got, "p[0 // (int a)")
	require.GreaterOrEqual(t, decl, 0)
	require.GreaterOrEqual(t, use, 0)
	require.Less(t, decl, use)
}

func TestBuilderLabelRegistry(t *testing.T) {
	brk := expr.Label(expr.VoidType, "done")
	loop := expr.Loop(expr.Break(brk), brk, nil)

	got, regs := RenderBuilder(loop)
	require.Len(t, regs.Labels, 1)
	require.Contains(t, got, `l[0]=Label(typeof(void), "done")`)
	require.Contains(t, got, "l[0 // done")
	require.Contains(t, got, "var l = new LabelTarget[1];")
}

func TestBuilderMakeBinaryFallback(t *testing.T) {
	a := expr.Parameter(expr.IntType, "a")
	got := ToBuilderString(expr.MakeBinary(expr.KindLeftShift, a, expr.Constant(2, expr.IntType)))
	require.Contains(t, got, "MakeBinary(")
	require.Contains(t, got, "ExpressionType.LeftShift")
}

func TestBuilderCallLookup(t *testing.T) {
	parse := &expr.MethodRef{
		Declaring: expr.IntType,
		Name:      "Parse",
		Static:    true,
		Params:    []expr.Param{{Type: expr.StringType, Name: "s"}},
		Return:    expr.IntType,
	}
	got := ToBuilderString(expr.Call(nil, parse, expr.Constant("42", expr.StringType)))

	require.Contains(t, got, "Call(")
	require.Contains(t, got, `typeof(int).GetMethods(BindingFlags.Public | BindingFlags.Static).Single(m => m.Name == "Parse"`)
	require.Contains(t, got, "m.GetGenericArguments().Length == 0")
	require.Contains(t, got, "SequenceEqual(new[] { typeof(string) })")
}

func TestBuilderGenericMethodLookup(t *testing.T) {
	cast := &expr.MethodRef{
		Declaring: expr.Named("System.Linq", "Enumerable"),
		Name:      "Cast",
		Static:    true,
		TypeArgs:  []*expr.TypeDesc{expr.StringType},
		Params:    []expr.Param{{Type: expr.ObjectType}},
		Return:    expr.Named("System.Collections.Generic", "IEnumerable", expr.StringType),
	}
	got := ToBuilderString(expr.Call(nil, cast, expr.Constant(nil, expr.ObjectType)))

	require.Contains(t, got, "m.GetGenericArguments().Length == 1")
	require.Contains(t, got, ".MakeGenericMethod(typeof(string))")
}

func TestBuilderUnsupportedKinds(t *testing.T) {
	// Quote degrades to a marker plus its operand; the render never fails.
	q := expr.Quote(expr.Lambda(expr.FuncOf(expr.IntType), expr.Constant(1, expr.IntType)))
	got := ToBuilderString(q)
	require.Contains(t, got, "NOT SUPPORTED: Quote")
	require.Contains(t, got, "Lambda(")

	dyn := &expr.UnsupportedExpr{K: expr.KindDynamic, Typ: expr.ObjectType}
	got = ToBuilderString(dyn)
	require.Contains(t, got, "NOT SUPPORTED: Dynamic")
	require.Contains(t, got, "Default(typeof(object))")
}

func TestBuilderConditionalForms(t *testing.T) {
	test := expr.Parameter(expr.BoolType, "ok")

	got := ToBuilderString(expr.IfThen(test, expr.Constant(1, expr.IntType)))
	require.Contains(t, got, "IfThen(")

	got = ToBuilderString(expr.Condition(test,
		expr.Constant(1, expr.IntType), expr.Constant(2, expr.IntType)))
	require.Contains(t, got, "Condition(")
	require.Contains(t, got, "typeof(int))")
}

func TestBuilderBlockVars(t *testing.T) {
	x := expr.Variable(expr.IntType, "x")
	blk := expr.Block([]*expr.ParameterExpr{x},
		expr.Assign(x, expr.Constant(5, expr.IntType)), x)

	got, regs := RenderBuilder(blk)
	require.Contains(t, got, "Block(")
	require.Contains(t, got, "typeof(int)")
	require.Contains(t, got, "new[] {")
	require.Contains(t, got, `p[0]=Parameter(typeof(int), "x")`)
	require.Len(t, regs.Params, 1)

	got = ToBuilderString(expr.Block(nil, expr.Constant(1, expr.IntType)))
	require.Contains(t, got, "new ParameterExpression[0]")
}

func TestBuilderTryCatch(t *testing.T) {
	ex := expr.Parameter(expr.ExceptionType, "ex")
	tree := expr.TryCatch(
		expr.Constant(1, expr.IntType),
		expr.CatchVar(ex, expr.Constant(0, expr.IntType)))

	got := ToBuilderString(tree)
	require.Contains(t, got, "TryCatchFinally(")
	require.Contains(t, got, "MakeCatchBlock(")
	require.Contains(t, got, "typeof(System.Exception)")
}

func TestBuilderSynthesizedNames(t *testing.T) {
	// Unnamed parameters get a stable synthesized name derived from the type
	// and the node's identity.
	p := expr.Parameter(expr.IntType, "")
	got := ToBuilderString(expr.Add(p, p))
	require.Contains(t, got, `Parameter(typeof(int), "int32__`)

	again := ToBuilderString(expr.Add(p, p))
	require.Equal(t, got, again)
}

func TestBuilderIndentOption(t *testing.T) {
	got := ToBuilderString(addLambda(), IdentSpaces(4))
	require.Contains(t, got, "\n    typeof(System.Func<int, int, int>)")
}

func TestBuilderStripNamespace(t *testing.T) {
	got := ToBuilderString(addLambda(), StripNamespace())
	require.Contains(t, got, "typeof(Func<int, int, int>)")
	require.NotContains(t, got, "System.Func")
}
