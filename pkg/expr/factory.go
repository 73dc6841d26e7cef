package expr

// Constructor functions for every node kind. The structural printer emits
// reconstruction code in terms of these names, so their shapes (argument
// order included) are part of the output contract.

// Constant wraps a value; typ may be nil for ordinary literals, in which
// case renderers infer it from the value.
func Constant(value any, typ *TypeDesc) *ConstantExpr {
	return &ConstantExpr{Value: value, Typ: typ}
}

// Parameter declares a variable or lambda parameter. The returned pointer
// is the parameter's identity; pass the same pointer everywhere it occurs.
func Parameter(typ *TypeDesc, name string) *ParameterExpr {
	return &ParameterExpr{Typ: typ, Name: name}
}

// Variable is Parameter under the name block-variable declarations use.
func Variable(typ *TypeDesc, name string) *ParameterExpr {
	return Parameter(typ, name)
}

func Call(object Expr, method *MethodRef, args ...Expr) *CallExpr {
	return &CallExpr{Object: object, Method: method, Args: args}
}

func Field(object Expr, field *FieldRef) *MemberExpr {
	return &MemberExpr{Object: object, Member: field}
}

func Property(object Expr, prop *PropertyRef) *MemberExpr {
	return &MemberExpr{Object: object, Member: prop}
}

func New(ctor *CtorRef, args ...Expr) *NewExpr {
	return &NewExpr{Ctor: ctor, Args: args}
}

func NewArrayInit(elem *TypeDesc, elems ...Expr) *NewArrayExpr {
	return &NewArrayExpr{Op: KindNewArrayInit, ElemType: elem, Elems: elems}
}

func NewArrayBounds(elem *TypeDesc, bounds ...Expr) *NewArrayExpr {
	return &NewArrayExpr{Op: KindNewArrayBounds, ElemType: elem, Elems: bounds}
}

// Condition is a value-producing conditional.
func Condition(test, ifTrue, ifFalse Expr) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Typ: ifTrue.Type()}
}

// ConditionTyped is Condition with an explicit result type.
func ConditionTyped(test, ifTrue, ifFalse Expr, typ *TypeDesc) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Typ: typ}
}

// IfThen is a statement conditional with no else branch.
func IfThen(test, ifTrue Expr) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, Typ: VoidType}
}

// IfThenElse is a statement conditional.
func IfThenElse(test, ifTrue, ifFalse Expr) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, Typ: VoidType}
}

// Block declares vars and runs exprs in sequence; its type is the last
// expression's type.
func Block(vars []*ParameterExpr, exprs ...Expr) *BlockExpr {
	typ := VoidType
	if len(exprs) > 0 {
		typ = exprs[len(exprs)-1].Type()
	}
	return &BlockExpr{Vars: vars, Exprs: exprs, Typ: typ}
}

// BlockTyped is Block with an explicit result type.
func BlockTyped(typ *TypeDesc, vars []*ParameterExpr, exprs ...Expr) *BlockExpr {
	return &BlockExpr{Vars: vars, Exprs: exprs, Typ: typ}
}

// Label declares a jump target.
func Label(typ *TypeDesc, name string) *LabelTarget {
	return &LabelTarget{Name: name, Typ: typ}
}

// LabelAt marks the position of a target in the tree.
func LabelAt(target *LabelTarget, defaultValue Expr) *LabelExpr {
	return &LabelExpr{Target: target, DefaultValue: defaultValue}
}

func Goto(target *LabelTarget, value Expr) *GotoExpr {
	return &GotoExpr{GotoKind: GotoGoto, Target: target, Value: value}
}

func Return(target *LabelTarget, value Expr) *GotoExpr {
	return &GotoExpr{GotoKind: GotoReturn, Target: target, Value: value}
}

func Break(target *LabelTarget) *GotoExpr {
	return &GotoExpr{GotoKind: GotoBreak, Target: target}
}

func Continue(target *LabelTarget) *GotoExpr {
	return &GotoExpr{GotoKind: GotoContinue, Target: target}
}

func Loop(body Expr, breakLabel, continueLabel *LabelTarget) *LoopExpr {
	return &LoopExpr{Body: body, BreakLabel: breakLabel, ContinueLabel: continueLabel}
}

func Catch(test *TypeDesc, body Expr) *CatchBlock {
	return &CatchBlock{Test: test, Body: body}
}

func CatchVar(variable *ParameterExpr, body Expr) *CatchBlock {
	return &CatchBlock{Test: variable.Typ, Variable: variable, Body: body}
}

// MakeCatchBlock is the fully general handler constructor.
func MakeCatchBlock(test *TypeDesc, variable *ParameterExpr, body, filter Expr) *CatchBlock {
	return &CatchBlock{Test: test, Variable: variable, Filter: filter, Body: body}
}

func TryCatch(body Expr, handlers ...*CatchBlock) *TryExpr {
	return &TryExpr{Body: body, Handlers: handlers, Typ: body.Type()}
}

func TryFinally(body, finally Expr) *TryExpr {
	return &TryExpr{Body: body, Finally: finally, Typ: body.Type()}
}

func TryCatchFinally(body, finally Expr, handlers ...*CatchBlock) *TryExpr {
	return &TryExpr{Body: body, Handlers: handlers, Finally: finally, Typ: body.Type()}
}

func Case(body Expr, testValues ...Expr) *SwitchCase {
	return &SwitchCase{TestValues: testValues, Body: body}
}

func Switch(value Expr, defaultBody Expr, cases ...*SwitchCase) *SwitchExpr {
	typ := VoidType
	if defaultBody != nil {
		typ = defaultBody.Type()
	} else if len(cases) > 0 {
		typ = cases[0].Body.Type()
	}
	return &SwitchExpr{Value: value, Cases: cases, Default: defaultBody, Typ: typ}
}

// Lambda wraps body and params into a function of the given delegate type.
func Lambda(delegateType *TypeDesc, body Expr, params ...*ParameterExpr) *LambdaExpr {
	ret := VoidType
	if delegateType != nil && delegateType.Name == "Func" && len(delegateType.TypeArgs) > 0 {
		ret = delegateType.TypeArgs[len(delegateType.TypeArgs)-1]
	}
	return &LambdaExpr{DelegateType: delegateType, Body: body, Params: params, ReturnType: ret}
}

func Invoke(target Expr, args ...Expr) *InvokeExpr {
	typ := VoidType
	if t := target.Type(); t != nil && t.Name == "Func" && len(t.TypeArgs) > 0 {
		typ = t.TypeArgs[len(t.TypeArgs)-1]
	}
	return &InvokeExpr{Target: target, Args: args, Typ: typ}
}

// ArrayIndex is single-dimensional array access, a binary node.
func ArrayIndex(array, index Expr) *BinaryExpr {
	typ := ObjectType
	if t := array.Type(); t.IsArray() {
		typ = t.Elem
	}
	return &BinaryExpr{Op: KindArrayIndex, Left: array, Right: index, Typ: typ}
}

// MakeIndex is indexer or multi-dimensional array access.
func MakeIndex(object Expr, indexer *PropertyRef, args ...Expr) *IndexExpr {
	return &IndexExpr{Object: object, Indexer: indexer, Args: args}
}

func Default(typ *TypeDesc) *DefaultExpr { return &DefaultExpr{Typ: typ} }

func Throw(value Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindThrow, Operand: value, Typ: VoidType}
}

// Rethrow is a throw with no operand, valid only inside a handler.
func Rethrow() *UnaryExpr {
	return &UnaryExpr{Op: KindThrow, Typ: VoidType}
}

func Quote(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindQuote, Operand: operand, Typ: operand.Type()}
}

func ElementInitOf(addMethod *MethodRef, args ...Expr) *ElementInit {
	return &ElementInit{AddMethod: addMethod, Args: args}
}

func ListInit(newExpr *NewExpr, inits ...*ElementInit) *ListInitExpr {
	return &ListInitExpr{New: newExpr, Inits: inits}
}

func Bind(member MemberRef, value Expr) *MemberAssignment {
	return &MemberAssignment{Member: member, Value: value}
}

func ListBind(member MemberRef, inits ...*ElementInit) *MemberListBinding {
	return &MemberListBinding{Member: member, Inits: inits}
}

func MemberBind(member MemberRef, bindings ...MemberBinding) *MemberMemberBinding {
	return &MemberMemberBinding{Member: member, Bindings: bindings}
}

func MemberInit(newExpr *NewExpr, bindings ...MemberBinding) *MemberInitExpr {
	return &MemberInitExpr{New: newExpr, Bindings: bindings}
}

// Binary operators. Arithmetic kinds take the left operand's type,
// comparisons are boolean.

func MakeBinary(op Kind, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, Typ: binaryType(op, left)}
}

func binaryType(op Kind, left Expr) *TypeDesc {
	switch op {
	case KindEqual, KindNotEqual, KindLessThan, KindLessThanOrEqual,
		KindGreaterThan, KindGreaterThanOrEqual, KindAndAlso, KindOrElse,
		KindTypeIs, KindTypeEqual, KindIsTrue, KindIsFalse:
		return BoolType
	default:
		return left.Type()
	}
}

func Assign(left, right Expr) *BinaryExpr          { return MakeBinary(KindAssign, left, right) }
func Add(left, right Expr) *BinaryExpr             { return MakeBinary(KindAdd, left, right) }
func AddChecked(left, right Expr) *BinaryExpr      { return MakeBinary(KindAddChecked, left, right) }
func AddAssign(left, right Expr) *BinaryExpr       { return MakeBinary(KindAddAssign, left, right) }
func Subtract(left, right Expr) *BinaryExpr        { return MakeBinary(KindSubtract, left, right) }
func SubtractChecked(left, right Expr) *BinaryExpr { return MakeBinary(KindSubtractChecked, left, right) }
func Multiply(left, right Expr) *BinaryExpr        { return MakeBinary(KindMultiply, left, right) }
func MultiplyChecked(left, right Expr) *BinaryExpr { return MakeBinary(KindMultiplyChecked, left, right) }
func Divide(left, right Expr) *BinaryExpr          { return MakeBinary(KindDivide, left, right) }
func Modulo(left, right Expr) *BinaryExpr          { return MakeBinary(KindModulo, left, right) }
func Power(left, right Expr) *BinaryExpr           { return MakeBinary(KindPower, left, right) }
func And(left, right Expr) *BinaryExpr             { return MakeBinary(KindAnd, left, right) }
func Or(left, right Expr) *BinaryExpr              { return MakeBinary(KindOr, left, right) }
func ExclusiveOr(left, right Expr) *BinaryExpr     { return MakeBinary(KindExclusiveOr, left, right) }
func LeftShift(left, right Expr) *BinaryExpr       { return MakeBinary(KindLeftShift, left, right) }
func RightShift(left, right Expr) *BinaryExpr      { return MakeBinary(KindRightShift, left, right) }
func Equal(left, right Expr) *BinaryExpr           { return MakeBinary(KindEqual, left, right) }
func NotEqual(left, right Expr) *BinaryExpr        { return MakeBinary(KindNotEqual, left, right) }
func LessThan(left, right Expr) *BinaryExpr        { return MakeBinary(KindLessThan, left, right) }
func LessThanOrEqual(left, right Expr) *BinaryExpr { return MakeBinary(KindLessThanOrEqual, left, right) }
func GreaterThan(left, right Expr) *BinaryExpr     { return MakeBinary(KindGreaterThan, left, right) }
func GreaterThanOrEqual(left, right Expr) *BinaryExpr {
	return MakeBinary(KindGreaterThanOrEqual, left, right)
}
func AndAlso(left, right Expr) *BinaryExpr { return MakeBinary(KindAndAlso, left, right) }
func OrElse(left, right Expr) *BinaryExpr  { return MakeBinary(KindOrElse, left, right) }
func Coalesce(left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: KindCoalesce, Left: left, Right: right, Typ: right.Type()}
}

// Unary operators.

func MakeUnary(op Kind, operand Expr, typ *TypeDesc) *UnaryExpr {
	if typ == nil {
		typ = operand.Type()
	}
	return &UnaryExpr{Op: op, Operand: operand, Typ: typ}
}

func Not(operand Expr) *UnaryExpr           { return MakeUnary(KindNot, operand, BoolType) }
func Negate(operand Expr) *UnaryExpr        { return MakeUnary(KindNegate, operand, nil) }
func NegateChecked(operand Expr) *UnaryExpr { return MakeUnary(KindNegateChecked, operand, nil) }
func OnesComplement(operand Expr) *UnaryExpr {
	return MakeUnary(KindOnesComplement, operand, nil)
}
func IsTrue(operand Expr) *UnaryExpr  { return MakeUnary(KindIsTrue, operand, BoolType) }
func IsFalse(operand Expr) *UnaryExpr { return MakeUnary(KindIsFalse, operand, BoolType) }
func UnaryPlus(operand Expr) *UnaryExpr {
	return MakeUnary(KindUnaryPlus, operand, nil)
}
func Increment(operand Expr) *UnaryExpr { return MakeUnary(KindIncrement, operand, nil) }
func Decrement(operand Expr) *UnaryExpr { return MakeUnary(KindDecrement, operand, nil) }
func PreIncrementAssign(operand Expr) *UnaryExpr {
	return MakeUnary(KindPreIncrementAssign, operand, nil)
}
func PostIncrementAssign(operand Expr) *UnaryExpr {
	return MakeUnary(KindPostIncrementAssign, operand, nil)
}
func PreDecrementAssign(operand Expr) *UnaryExpr {
	return MakeUnary(KindPreDecrementAssign, operand, nil)
}
func PostDecrementAssign(operand Expr) *UnaryExpr {
	return MakeUnary(KindPostDecrementAssign, operand, nil)
}
func ArrayLength(array Expr) *UnaryExpr { return MakeUnary(KindArrayLength, array, IntType) }

func Convert(operand Expr, typ *TypeDesc) *UnaryExpr {
	return MakeUnary(KindConvert, operand, typ)
}

func TypeAs(operand Expr, typ *TypeDesc) *UnaryExpr {
	return MakeUnary(KindTypeAs, operand, typ)
}

func TypeIs(operand Expr, typ *TypeDesc) *TypeBinaryExpr {
	return &TypeBinaryExpr{Op: KindTypeIs, Operand: operand, TypeOperand: typ}
}

func TypeEqual(operand Expr, typ *TypeDesc) *TypeBinaryExpr {
	return &TypeBinaryExpr{Op: KindTypeEqual, Operand: operand, TypeOperand: typ}
}
