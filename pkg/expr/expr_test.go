package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkPreOrder(t *testing.T) {
	a := Parameter(IntType, "a")
	b := Parameter(IntType, "b")
	lambda := Lambda(FuncOf(IntType, IntType, IntType), Add(a, b), a, b)

	var kinds []Kind
	lambda.Walk(func(e Expr) bool {
		kinds = append(kinds, e.Kind())
		return true
	})

	require.Equal(t, []Kind{
		KindLambda, KindAdd, KindParameter, KindParameter,
		KindParameter, KindParameter,
	}, kinds)
}

func TestWalkSkipsChildren(t *testing.T) {
	a := Parameter(IntType, "a")
	tree := Add(Add(a, Constant(1, IntType)), Constant(2, IntType))

	var visited int
	tree.Walk(func(e Expr) bool {
		visited++
		// Stop at the first nested binary node.
		return e != tree.Left
	})
	require.Equal(t, 3, visited)
}

func TestBlockTypeIsTailType(t *testing.T) {
	x := Variable(IntType, "x")
	blk := Block([]*ParameterExpr{x}, Assign(x, Constant(5, IntType)), x)
	require.Equal(t, IntType, blk.Type())
	require.Equal(t, x, blk.Result())

	empty := Block(nil)
	require.True(t, empty.Type().IsVoid())
	require.Nil(t, empty.Result())
}

func TestBinaryTypes(t *testing.T) {
	a := Parameter(IntType, "a")
	require.Equal(t, IntType, Add(a, Constant(1, IntType)).Type())
	require.Equal(t, BoolType, Equal(a, Constant(1, IntType)).Type())
	require.Equal(t, BoolType, TypeIs(a, StringType).Type())

	c := Coalesce(Parameter(NullableOf(IntType), "n"), Constant(0, IntType))
	require.Equal(t, IntType, c.Type())
}

func TestLambdaReturnType(t *testing.T) {
	fn := Lambda(FuncOf(IntType, StringType), Constant("", StringType), Parameter(IntType, "i"))
	require.Equal(t, StringType, fn.ReturnType)

	act := Lambda(ActionOf(IntType), Block(nil), Parameter(IntType, "i"))
	require.True(t, act.ReturnType.IsVoid())
}

func TestInvokeMethodFunc(t *testing.T) {
	r := &MetaResolver{}
	del := FuncOf(IntType, StringType, BoolType)

	m, err := r.InvokeMethod(del)
	require.NoError(t, err)
	require.Equal(t, "Invoke", m.Name)
	require.Len(t, m.Params, 2)
	require.Equal(t, IntType, m.Params[0].Type)
	require.Equal(t, StringType, m.Params[1].Type)
	require.Equal(t, BoolType, m.Return)

	// The lookup is memoized per descriptor identity.
	again, err := r.InvokeMethod(del)
	require.NoError(t, err)
	require.Same(t, m, again)
}

func TestInvokeMethodAction(t *testing.T) {
	r := &MetaResolver{}
	m, err := r.InvokeMethod(ActionOf(StringType))
	require.NoError(t, err)
	require.Len(t, m.Params, 1)
	require.True(t, m.Return.IsVoid())
}

func TestInvokeMethodRegisteredDelegate(t *testing.T) {
	r := &MetaResolver{}
	del := Named("MyApp", "RefHandler", IntType)
	invoke := &MethodRef{
		Declaring: del,
		Name:      "Invoke",
		Params:    []Param{{Type: IntType, RefKind: ByRef, Name: "value"}},
		Return:    VoidType,
	}
	r.RegisterDelegate(del, invoke)

	m, err := r.InvokeMethod(del)
	require.NoError(t, err)
	require.Same(t, invoke, m)
	require.Equal(t, ByRef, m.Params[0].RefKind)
}

func TestInvokeMethodUnknownType(t *testing.T) {
	r := &MetaResolver{}
	_, err := r.InvokeMethod(Named("MyApp", "Widget"))
	require.Error(t, err)
}

// doubled is an extension node that reduces to operand + operand.
type doubled struct {
	operand Expr
}

func (d *doubled) Kind() Kind      { return KindExtension }
func (d *doubled) Type() *TypeDesc { return d.operand.Type() }
func (d *doubled) Walk(fn func(Expr) bool) {
	if fn(d) {
		d.operand.Walk(fn)
	}
}
func (d *doubled) Reduce() Expr { return Add(d.operand, d.operand) }

// opaque claims to be an extension but cannot reduce.
type opaque struct{}

func (o *opaque) Kind() Kind            { return KindExtension }
func (o *opaque) Type() *TypeDesc       { return ObjectType }
func (o *opaque) Walk(fn func(Expr) bool) { fn(o) }

func TestMustReduce(t *testing.T) {
	a := Parameter(IntType, "a")
	red, err := MustReduce(&doubled{operand: a})
	require.NoError(t, err)
	require.Equal(t, KindAdd, red.Kind())

	_, err = MustReduce(&opaque{})
	require.Error(t, err)
}

func TestGotoKindNames(t *testing.T) {
	require.Equal(t, "Return", GotoReturn.String())
	require.Equal(t, "Break", GotoBreak.String())
	require.Equal(t, "Continue", GotoContinue.String())
	require.Equal(t, "Goto", GotoGoto.String())
}

func TestKindClassification(t *testing.T) {
	require.True(t, KindAssign.IsAssignOp())
	require.True(t, KindRightShiftAssign.IsAssignOp())
	require.False(t, KindAdd.IsAssignOp())

	require.True(t, KindDynamic.IsUnsupported())
	require.True(t, KindQuote.IsUnsupported())
	require.False(t, KindCall.IsUnsupported())

	require.Equal(t, "GreaterThanOrEqual", KindGreaterThanOrEqual.String())
}
