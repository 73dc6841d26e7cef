package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bagoum/exprtext/pkg/expr"
)

// builtinAliases is the fixed table of primitive source-level aliases.
var builtinAliases = map[expr.Builtin]string{
	expr.BuiltinVoid:    "void",
	expr.BuiltinBool:    "bool",
	expr.BuiltinChar:    "char",
	expr.BuiltinString:  "string",
	expr.BuiltinObject:  "object",
	expr.BuiltinSByte:   "sbyte",
	expr.BuiltinByte:    "byte",
	expr.BuiltinShort:   "short",
	expr.BuiltinUShort:  "ushort",
	expr.BuiltinInt:     "int",
	expr.BuiltinUInt:    "uint",
	expr.BuiltinLong:    "long",
	expr.BuiltinULong:   "ulong",
	expr.BuiltinFloat:   "float",
	expr.BuiltinDouble:  "double",
	expr.BuiltinDecimal: "decimal",
}

// typeName renders the canonical source-level name of a type. The
// user-supplied PrintType override is consulted last for every computed
// name.
func typeName(t *expr.TypeDesc, cfg config) string {
	name := computeTypeName(t, cfg)
	if cfg.printType != nil {
		name = cfg.printType(t, name)
	}
	return name
}

func computeTypeName(t *expr.TypeDesc, cfg config) string {
	if t == nil {
		return "void"
	}
	if t.ByRef {
		inner := *t
		inner.ByRef = false
		return computeTypeName(&inner, cfg)
	}
	if alias, ok := builtinAliases[t.Builtin]; ok && t.Builtin != expr.NotBuiltin {
		return alias
	}
	if t.IsArray() {
		return typeName(t.Elem, cfg) + "[" + strings.Repeat(",", t.Rank-1) + "]"
	}
	if under, ok := t.IsNullable(); ok {
		return typeName(under, cfg) + "?"
	}

	// Nested types render outward-to-inward; each enclosing type consumes
	// the leading generic arguments it declares, and the nested type keeps
	// only what remains.
	segments := declaringChain(t)
	consumed := 0
	var parts []string
	for _, seg := range segments {
		arity := len(seg.TypeArgs)
		if seg.Declaring != nil {
			// Arguments of nested segments include everything the chain
			// consumed so far.
			arity -= consumed
		}
		name := seg.Name
		if arity > 0 {
			args := t.TypeArgs
			if len(seg.TypeArgs) <= len(args) {
				// Thread the outermost concrete arguments through the
				// chain so each segment renders only its own.
				args = args[consumed : consumed+arity]
			} else {
				args = seg.TypeArgs[consumed : consumed+arity]
			}
			names := make([]string, len(args))
			for i, a := range args {
				names[i] = typeName(a, cfg)
			}
			name += "<" + strings.Join(names, ", ") + ">"
			consumed += arity
		}
		parts = append(parts, name)
	}
	full := strings.Join(parts, ".")
	if !cfg.stripNamespace && t.Namespace != "" {
		full = t.Namespace + "." + full
	}
	return full
}

// declaringChain lists a type's enclosing types outermost first, ending at
// the type itself.
func declaringChain(t *expr.TypeDesc) []*expr.TypeDesc {
	var chain []*expr.TypeDesc
	for cur := t; cur != nil; cur = cur.Declaring {
		chain = append([]*expr.TypeDesc{cur}, chain...)
	}
	return chain
}

// typeOf renders the unique lookup expression for a type, as used by the
// builder form.
func typeOf(t *expr.TypeDesc, cfg config) string {
	if t == nil {
		return "typeof(void)"
	}
	if t.ByRef {
		inner := *t
		inner.ByRef = false
		return typeOf(&inner, cfg) + ".MakeByRefType()"
	}
	return "typeof(" + typeName(t, cfg) + ")"
}

func typeOfList(ts []*expr.TypeDesc, cfg config) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeOf(t, cfg)
	}
	return strings.Join(parts, ", ")
}

func bindingFlags(static, nonPublic bool) string {
	vis := "BindingFlags.Public"
	if nonPublic {
		vis = "BindingFlags.NonPublic"
	}
	if static {
		return vis + " | BindingFlags.Static"
	}
	return vis + " | BindingFlags.Instance"
}

// fieldLookup renders a reflective lookup expression for a field.
func fieldLookup(f *expr.FieldRef, cfg config) string {
	return fmt.Sprintf("%s.GetField(%s, %s)",
		typeOf(f.Declaring, cfg), escapeString(f.Name), bindingFlags(f.Static, f.NonPublic))
}

// propertyLookup renders a reflective lookup expression for a property.
func propertyLookup(p *expr.PropertyRef, cfg config) string {
	return fmt.Sprintf("%s.GetProperty(%s, %s)",
		typeOf(p.Declaring, cfg), escapeString(p.Name), bindingFlags(p.Static, p.NonPublic))
}

func memberLookup(m expr.MemberRef, cfg config) string {
	switch m := m.(type) {
	case *expr.FieldRef:
		return fieldLookup(m, cfg)
	case *expr.PropertyRef:
		return propertyLookup(m, cfg)
	default:
		return fmt.Sprintf("/* %s: unknown member %T */", notSupported, m)
	}
}

// methodLookup renders a reflective lookup expression narrowed to exactly
// one overload: name, generic arity, and the full parameter-type sequence.
// Generic methods get a materialization step supplying concrete arguments.
// The renderer only emits the lookup text; whether the member actually
// exists is the consumer's problem at compile time.
func methodLookup(m *expr.MethodRef, cfg config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.GetMethods(%s).Single(m => m.Name == %s",
		typeOf(m.Declaring, cfg), bindingFlags(m.Static, m.NonPublic), escapeString(m.Name))
	fmt.Fprintf(&b, " && m.GetGenericArguments().Length == %d", len(m.TypeArgs))
	if len(m.Params) == 0 {
		b.WriteString(" && m.GetParameters().Length == 0)")
	} else {
		types := make([]*expr.TypeDesc, len(m.Params))
		for i, p := range m.Params {
			types[i] = p.Type
		}
		fmt.Fprintf(&b, " && m.GetParameters().Select(p => p.ParameterType).SequenceEqual(new[] { %s }))",
			typeOfList(types, cfg))
	}
	if m.IsGeneric() {
		fmt.Fprintf(&b, ".MakeGenericMethod(%s)", typeOfList(m.TypeArgs, cfg))
	}
	return b.String()
}

// ctorLookup renders a reflective lookup expression for a constructor
// overload.
func ctorLookup(c *expr.CtorRef, cfg config) string {
	flags := "BindingFlags.Public | BindingFlags.Instance"
	if c.NonPublic {
		flags = "BindingFlags.NonPublic | BindingFlags.Instance"
	}
	if len(c.Params) == 0 {
		return fmt.Sprintf("%s.GetConstructors(%s).Single(c => c.GetParameters().Length == 0)",
			typeOf(c.Declaring, cfg), flags)
	}
	types := make([]*expr.TypeDesc, len(c.Params))
	for i, p := range c.Params {
		types[i] = p.Type
	}
	return fmt.Sprintf("%s.GetConstructors(%s).Single(c => c.GetParameters().Select(p => p.ParameterType).SequenceEqual(new[] { %s }))",
		typeOf(c.Declaring, cfg), flags, typeOfList(types, cfg))
}

// valueNeeded flags constants bound to process-local state that cannot be
// reproduced as a literal.
const valueNeeded = "/* (!) value is bound to the live environment, provide it manually */"

// literal renders a constant value in source syntax, dispatching on the
// value's runtime category. Values with no faithful literal form degrade to
// a type-correct placeholder plus a completion comment; never a guess.
func literal(v any, t *expr.TypeDesc, cfg config) string {
	if v == nil {
		if t != nil && t.Builtin == expr.NotBuiltin && !t.IsArray() {
			return "(" + typeName(t, cfg) + ")null"
		}
		return "null"
	}
	if ev, ok := v.(expr.EnumValue); ok {
		return typeName(ev.Type, cfg) + "." + ev.Member
	}
	if under, ok := t.IsNullable(); ok {
		return literal(v, under, cfg)
	}
	if t != nil && t.Builtin == expr.BuiltinChar {
		switch c := v.(type) {
		case rune:
			return escapeChar(c)
		case byte:
			return escapeChar(rune(c))
		}
	}
	if t != nil && t.Builtin == expr.BuiltinDecimal {
		return fmt.Sprintf("%v", v) + "m"
	}

	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case string:
		return escapeString(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case int16:
		return "(short)" + strconv.FormatInt(int64(v), 10)
	case int8:
		return "(sbyte)" + strconv.FormatInt(int64(v), 10)
	case uint8:
		return "(byte)" + strconv.FormatUint(uint64(v), 10)
	case uint16:
		return "(ushort)" + strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10) + "u"
	case uint64:
		return strconv.FormatUint(v, 10) + "UL"
	case uint:
		return strconv.FormatUint(uint64(v), 10) + "u"
	case float32:
		return formatFloat(float64(v), 32) + "f"
	case float64:
		return formatFloat(v, 64) + "d"
	}

	if elems, ok := sequenceElems(v, t); ok {
		elemType := t.Elem
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = literal(e, elemType, cfg)
		}
		return "new " + typeName(elemType, cfg) + "[] { " + strings.Join(parts, ", ") + " }"
	}

	if cfg.objectToCode != nil {
		if s, ok := cfg.objectToCode.ToCode(v, t); ok {
			return s
		}
	}

	if isEnvironmentBound(v) {
		if t != nil {
			return "default(" + typeName(t, cfg) + ") " + valueNeeded
		}
		return "null " + valueNeeded
	}

	return fmt.Sprintf("%v", v)
}

// formatFloat is locale-invariant and keeps a decimal point so the suffix
// parses as a floating literal.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// sequenceElems unpacks a value into elements, but only when the constant's
// declared type is itself an indexed sequence; other collection shapes have
// no compatible literal form.
func sequenceElems(v any, t *expr.TypeDesc) ([]any, bool) {
	if t == nil || !t.IsArray() || t.Rank != 1 {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// isEnvironmentBound reports values that only exist in this process:
// functions, channels, live objects reached by pointer. Their text form
// cannot reproduce them.
func isEnvironmentBound(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer,
		reflect.Map, reflect.Slice, reflect.Struct, reflect.Interface:
		return true
	}
	return false
}
