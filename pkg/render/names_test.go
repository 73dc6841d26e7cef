package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bagoum/exprtext/pkg/expr"
)

func testConfig(opts ...Option) config {
	return newConfig(2, opts)
}

func TestTypeNameBuiltins(t *testing.T) {
	cfg := testConfig()
	for want, typ := range map[string]*expr.TypeDesc{
		"void":    expr.VoidType,
		"bool":    expr.BoolType,
		"char":    expr.CharType,
		"string":  expr.StringType,
		"object":  expr.ObjectType,
		"int":     expr.IntType,
		"uint":    expr.UIntType,
		"long":    expr.LongType,
		"ulong":   expr.ULongType,
		"short":   expr.ShortType,
		"ushort":  expr.UShortType,
		"sbyte":   expr.SByteType,
		"byte":    expr.ByteType,
		"float":   expr.FloatType,
		"double":  expr.DoubleType,
		"decimal": expr.DecimalType,
	} {
		require.Equal(t, want, typeName(typ, cfg))
	}
}

func TestTypeNameComposites(t *testing.T) {
	cfg := testConfig()

	require.Equal(t, "int[]", typeName(expr.ArrayOf(expr.IntType, 1), cfg))
	require.Equal(t, "string[,]", typeName(expr.ArrayOf(expr.StringType, 2), cfg))
	require.Equal(t, "int[][]", typeName(expr.ArrayOf(expr.ArrayOf(expr.IntType, 1), 1), cfg))
	require.Equal(t, "int?", typeName(expr.NullableOf(expr.IntType), cfg))
	require.Equal(t, "System.Func<int, string>", typeName(expr.FuncOf(expr.IntType, expr.StringType), cfg))
	require.Equal(t, "System.Action<int>", typeName(expr.ActionOf(expr.IntType), cfg))
	require.Equal(t, "void", typeName(nil, cfg))
}

func TestTypeNameNestedGenerics(t *testing.T) {
	cfg := testConfig()

	// The inner descriptor carries the full argument list; each enclosing
	// segment consumes the arguments it declares.
	outer := expr.Named("App", "Outer", expr.StringType)
	inner := expr.Nested(outer, "Inner", expr.StringType, expr.IntType)
	require.Equal(t, "App.Outer<string>.Inner<int>", typeName(inner, cfg))

	plain := expr.Nested(expr.Named("App", "Box"), "Item")
	require.Equal(t, "App.Box.Item", typeName(plain, cfg))
}

func TestTypeNameOptions(t *testing.T) {
	typ := expr.Named("System.Collections.Generic", "List", expr.IntType)

	require.Equal(t, "System.Collections.Generic.List<int>", typeName(typ, testConfig()))
	require.Equal(t, "List<int>", typeName(typ, testConfig(StripNamespace())))

	// The override sees the computed name and has the final word.
	cfg := testConfig(PrintType(func(t *expr.TypeDesc, computed string) string {
		if t.Name == "List" {
			return "IList<int>"
		}
		return computed
	}))
	require.Equal(t, "IList<int>", typeName(typ, cfg))
}

func TestTypeOfByRef(t *testing.T) {
	cfg := testConfig()
	byref := *expr.IntType
	byref.ByRef = true

	require.Equal(t, "typeof(int).MakeByRefType()", typeOf(&byref, cfg))
	require.Equal(t, "int", typeName(&byref, cfg))
	require.Equal(t, "typeof(void)", typeOf(nil, cfg))
}

func TestBindingFlags(t *testing.T) {
	require.Equal(t, "BindingFlags.Public | BindingFlags.Instance", bindingFlags(false, false))
	require.Equal(t, "BindingFlags.Public | BindingFlags.Static", bindingFlags(true, false))
	require.Equal(t, "BindingFlags.NonPublic | BindingFlags.Instance", bindingFlags(false, true))
	require.Equal(t, "BindingFlags.NonPublic | BindingFlags.Static", bindingFlags(true, true))
}

func TestMethodLookupOverloadNarrowing(t *testing.T) {
	cfg := testConfig()
	m := &expr.MethodRef{
		Declaring: expr.StringType,
		Name:      "IndexOf",
		Params: []expr.Param{
			{Type: expr.CharType},
			{Type: expr.IntType},
		},
		Return: expr.IntType,
	}

	got := methodLookup(m, cfg)
	require.Contains(t, got, `typeof(string).GetMethods(BindingFlags.Public | BindingFlags.Instance)`)
	require.Contains(t, got, `m.Name == "IndexOf"`)
	require.Contains(t, got, "m.GetGenericArguments().Length == 0")
	require.Contains(t, got, "SequenceEqual(new[] { typeof(char), typeof(int) })")
	require.NotContains(t, got, "MakeGenericMethod")

	noArgs := &expr.MethodRef{Declaring: expr.StringType, Name: "Trim", Return: expr.StringType}
	require.Contains(t, methodLookup(noArgs, cfg), "m.GetParameters().Length == 0")
}

func TestCtorLookup(t *testing.T) {
	cfg := testConfig()
	c := &expr.CtorRef{
		Declaring: expr.ExceptionType,
		Params:    []expr.Param{{Type: expr.StringType}},
	}
	got := ctorLookup(c, cfg)
	require.Contains(t, got, "typeof(System.Exception).GetConstructors(BindingFlags.Public | BindingFlags.Instance)")
	require.Contains(t, got, "SequenceEqual(new[] { typeof(string) })")

	empty := &expr.CtorRef{Declaring: expr.ExceptionType}
	require.Contains(t, ctorLookup(empty, cfg), "c.GetParameters().Length == 0")
}

func TestLiteralScalars(t *testing.T) {
	cfg := testConfig()

	require.Equal(t, "true", literal(true, expr.BoolType, cfg))
	require.Equal(t, `"hi"`, literal("hi", expr.StringType, cfg))
	require.Equal(t, `"say \"hi\"\n"`, literal("say \"hi\"\n", expr.StringType, cfg))
	require.Equal(t, "42", literal(42, expr.IntType, cfg))
	require.Equal(t, "42L", literal(int64(42), expr.LongType, cfg))
	require.Equal(t, "42u", literal(uint32(42), expr.UIntType, cfg))
	require.Equal(t, "42UL", literal(uint64(42), expr.ULongType, cfg))
	require.Equal(t, "(short)42", literal(int16(42), expr.ShortType, cfg))
	require.Equal(t, "(sbyte)42", literal(int8(42), expr.SByteType, cfg))
	require.Equal(t, "(byte)42", literal(uint8(42), expr.ByteType, cfg))
	require.Equal(t, "(ushort)42", literal(uint16(42), expr.UShortType, cfg))
	require.Equal(t, "1.5f", literal(float32(1.5), expr.FloatType, cfg))
	require.Equal(t, "2.0d", literal(2.0, expr.DoubleType, cfg))
	require.Equal(t, "3.14m", literal(3.14, expr.DecimalType, cfg))
	require.Equal(t, "'x'", literal('x', expr.CharType, cfg))
	require.Equal(t, `'\n'`, literal('\n', expr.CharType, cfg))
}

func TestLiteralNull(t *testing.T) {
	cfg := testConfig()

	require.Equal(t, "null", literal(nil, expr.StringType, cfg))
	require.Equal(t, "(System.Exception)null", literal(nil, expr.ExceptionType, cfg))
}

func TestLiteralEnumAndNullable(t *testing.T) {
	cfg := testConfig()

	color := expr.Enum("App", "Color")
	require.Equal(t, "App.Color.Red",
		literal(expr.EnumValue{Type: color, Member: "Red"}, color, cfg))

	// Nullable wrappers unwrap to the underlying literal.
	require.Equal(t, "7", literal(7, expr.NullableOf(expr.IntType), cfg))
}

func TestLiteralSequence(t *testing.T) {
	cfg := testConfig()

	got := literal([]any{1, 2, 3}, expr.ArrayOf(expr.IntType, 1), cfg)
	require.Equal(t, "new int[] { 1, 2, 3 }", got)

	// Multi-dimensional arrays have no elementwise form here.
	got = literal([]any{1, 2}, expr.ArrayOf(expr.IntType, 2), cfg)
	require.Contains(t, got, "provide it manually")
}

func TestLiteralEnvironmentBound(t *testing.T) {
	cfg := testConfig()

	got := literal(func() {}, expr.FuncOf(expr.IntType), cfg)
	require.Contains(t, got, "default(System.Func<int>)")
	require.Contains(t, got, "provide it manually")
}

func TestLiteralObjectToCode(t *testing.T) {
	type vec struct{ X, Y int }
	cfg := testConfig(WithObjectToCode(ObjectToCodeFunc(
		func(v any, typ *expr.TypeDesc) (string, bool) {
			if w, ok := v.(vec); ok && w.X == 1 {
				return "new Vec(1, 2)", true
			}
			return "", false
		})))

	typ := expr.Named("App", "Vec")
	require.Equal(t, "new Vec(1, 2)", literal(vec{1, 2}, typ, cfg))

	// Declined values fall through to the placeholder path.
	require.Contains(t, literal(vec{3, 4}, typ, cfg), "default(App.Vec)")
}

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "2.0", formatFloat(2, 64))
	require.Equal(t, "0.5", formatFloat(0.5, 64))
	require.Equal(t, "1e+20", formatFloat(1e20, 64))
}
