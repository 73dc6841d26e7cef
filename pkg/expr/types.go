package expr

// Builtin tags the primitive types that have a source-level alias.
type Builtin int

const (
	NotBuiltin Builtin = iota
	BuiltinVoid
	BuiltinBool
	BuiltinChar
	BuiltinString
	BuiltinObject
	BuiltinSByte
	BuiltinByte
	BuiltinShort
	BuiltinUShort
	BuiltinInt
	BuiltinUInt
	BuiltinLong
	BuiltinULong
	BuiltinFloat
	BuiltinDouble
	BuiltinDecimal
)

// TypeDesc identifies a type by namespace-qualified name, generic arguments
// (threaded through the Declaring chain for nested types), array shape, or
// builtin tag. Descriptors are immutable once constructed; reuse the same
// pointer for the same type so resolver caches can key on identity.
type TypeDesc struct {
	Namespace string
	Name      string

	// TypeArgs is the full generic argument list, including arguments
	// consumed by enclosing types in the Declaring chain.
	TypeArgs  []*TypeDesc
	Declaring *TypeDesc

	// Elem and Rank describe arrays; Rank >= 1 when Elem is set.
	Elem *TypeDesc
	Rank int

	Builtin Builtin
	IsEnum  bool
	ByRef   bool
}

var (
	VoidType    = &TypeDesc{Namespace: "System", Name: "Void", Builtin: BuiltinVoid}
	BoolType    = &TypeDesc{Namespace: "System", Name: "Boolean", Builtin: BuiltinBool}
	CharType    = &TypeDesc{Namespace: "System", Name: "Char", Builtin: BuiltinChar}
	StringType  = &TypeDesc{Namespace: "System", Name: "String", Builtin: BuiltinString}
	ObjectType  = &TypeDesc{Namespace: "System", Name: "Object", Builtin: BuiltinObject}
	SByteType   = &TypeDesc{Namespace: "System", Name: "SByte", Builtin: BuiltinSByte}
	ByteType    = &TypeDesc{Namespace: "System", Name: "Byte", Builtin: BuiltinByte}
	ShortType   = &TypeDesc{Namespace: "System", Name: "Int16", Builtin: BuiltinShort}
	UShortType  = &TypeDesc{Namespace: "System", Name: "UInt16", Builtin: BuiltinUShort}
	IntType     = &TypeDesc{Namespace: "System", Name: "Int32", Builtin: BuiltinInt}
	UIntType    = &TypeDesc{Namespace: "System", Name: "UInt32", Builtin: BuiltinUInt}
	LongType    = &TypeDesc{Namespace: "System", Name: "Int64", Builtin: BuiltinLong}
	ULongType   = &TypeDesc{Namespace: "System", Name: "UInt64", Builtin: BuiltinULong}
	FloatType   = &TypeDesc{Namespace: "System", Name: "Single", Builtin: BuiltinFloat}
	DoubleType  = &TypeDesc{Namespace: "System", Name: "Double", Builtin: BuiltinDouble}
	DecimalType = &TypeDesc{Namespace: "System", Name: "Decimal", Builtin: BuiltinDecimal}

	ExceptionType = &TypeDesc{Namespace: "System", Name: "Exception"}
)

// Named builds a descriptor for a (possibly generic) top-level type.
func Named(namespace, name string, args ...*TypeDesc) *TypeDesc {
	return &TypeDesc{Namespace: namespace, Name: name, TypeArgs: args}
}

// Nested builds a descriptor for a type nested inside declaring. args is the
// full generic argument list, including the arguments the declaring chain
// already consumes.
func Nested(declaring *TypeDesc, name string, args ...*TypeDesc) *TypeDesc {
	return &TypeDesc{
		Namespace: declaring.Namespace,
		Name:      name,
		TypeArgs:  args,
		Declaring: declaring,
	}
}

// Enum builds a descriptor for an enum type.
func Enum(namespace, name string) *TypeDesc {
	return &TypeDesc{Namespace: namespace, Name: name, IsEnum: true}
}

// ArrayOf builds a rank-dimensional array descriptor over elem.
func ArrayOf(elem *TypeDesc, rank int) *TypeDesc {
	return &TypeDesc{Elem: elem, Rank: rank}
}

// NullableOf wraps t in the nullable value wrapper.
func NullableOf(t *TypeDesc) *TypeDesc {
	return Named("System", "Nullable", t)
}

// FuncOf builds a Func delegate descriptor; the last argument is the return
// type.
func FuncOf(argsAndReturn ...*TypeDesc) *TypeDesc {
	return Named("System", "Func", argsAndReturn...)
}

// ActionOf builds an Action delegate descriptor (void return).
func ActionOf(args ...*TypeDesc) *TypeDesc {
	return Named("System", "Action", args...)
}

func (t *TypeDesc) IsArray() bool { return t != nil && t.Elem != nil }

func (t *TypeDesc) IsVoid() bool { return t == nil || t.Builtin == BuiltinVoid }

// IsNullable reports whether t is the nullable value wrapper; the second
// result is the underlying type.
func (t *TypeDesc) IsNullable() (*TypeDesc, bool) {
	if t != nil && t.Namespace == "System" && t.Name == "Nullable" && len(t.TypeArgs) == 1 {
		return t.TypeArgs[0], true
	}
	return nil, false
}

// IsDelegate reports whether t looks like a callable delegate type. Custom
// delegates registered with a MetaResolver also count; this covers the
// built-in Func/Action families.
func (t *TypeDesc) IsDelegate() bool {
	return t != nil && t.Namespace == "System" && (t.Name == "Func" || t.Name == "Action")
}

// EnumValue is a constant drawn from an enum type; it renders by member name
// rather than by underlying integer.
type EnumValue struct {
	Type   *TypeDesc
	Member string
}
