package expr

// Kind tags every node in the tree. The set is closed: anything outside it
// must come in as KindExtension and reduce itself to one of these before a
// printer will touch it.
type Kind int

const (
	KindAdd Kind = iota
	KindAddAssign
	KindAddAssignChecked
	KindAddChecked
	KindAnd
	KindAndAlso
	KindAndAssign
	KindArrayIndex
	KindArrayLength
	KindAssign
	KindBlock
	KindCall
	KindCoalesce
	KindConditional
	KindConstant
	KindConvert
	KindConvertChecked
	KindDebugInfo
	KindDecrement
	KindDefault
	KindDivide
	KindDivideAssign
	KindDynamic
	KindEqual
	KindExclusiveOr
	KindExclusiveOrAssign
	KindExtension
	KindGoto
	KindGreaterThan
	KindGreaterThanOrEqual
	KindIncrement
	KindIndex
	KindInvoke
	KindIsFalse
	KindIsTrue
	KindLabel
	KindLambda
	KindLeftShift
	KindLeftShiftAssign
	KindLessThan
	KindLessThanOrEqual
	KindListInit
	KindLoop
	KindMemberAccess
	KindMemberInit
	KindModulo
	KindModuloAssign
	KindMultiply
	KindMultiplyAssign
	KindMultiplyChecked
	KindNegate
	KindNegateChecked
	KindNew
	KindNewArrayBounds
	KindNewArrayInit
	KindNot
	KindNotEqual
	KindOnesComplement
	KindOr
	KindOrAssign
	KindOrElse
	KindParameter
	KindPostDecrementAssign
	KindPostIncrementAssign
	KindPower
	KindPowerAssign
	KindPreDecrementAssign
	KindPreIncrementAssign
	KindQuote
	KindRightShift
	KindRightShiftAssign
	KindRuntimeVariables
	KindSubtract
	KindSubtractAssign
	KindSubtractChecked
	KindSwitch
	KindThrow
	KindTry
	KindTypeAs
	KindTypeEqual
	KindTypeIs
	KindUnaryPlus
	KindUnbox
)

var kindNames = [...]string{
	KindAdd:                "Add",
	KindAddAssign:          "AddAssign",
	KindAddAssignChecked:   "AddAssignChecked",
	KindAddChecked:         "AddChecked",
	KindAnd:                "And",
	KindAndAlso:            "AndAlso",
	KindAndAssign:          "AndAssign",
	KindArrayIndex:         "ArrayIndex",
	KindArrayLength:        "ArrayLength",
	KindAssign:             "Assign",
	KindBlock:              "Block",
	KindCall:               "Call",
	KindCoalesce:           "Coalesce",
	KindConditional:        "Conditional",
	KindConstant:           "Constant",
	KindConvert:            "Convert",
	KindConvertChecked:     "ConvertChecked",
	KindDebugInfo:          "DebugInfo",
	KindDecrement:          "Decrement",
	KindDefault:            "Default",
	KindDivide:             "Divide",
	KindDivideAssign:       "DivideAssign",
	KindDynamic:            "Dynamic",
	KindEqual:              "Equal",
	KindExclusiveOr:        "ExclusiveOr",
	KindExclusiveOrAssign:  "ExclusiveOrAssign",
	KindExtension:          "Extension",
	KindGoto:               "Goto",
	KindGreaterThan:        "GreaterThan",
	KindGreaterThanOrEqual: "GreaterThanOrEqual",
	KindIncrement:          "Increment",
	KindIndex:              "Index",
	KindInvoke:             "Invoke",
	KindIsFalse:            "IsFalse",
	KindIsTrue:             "IsTrue",
	KindLabel:              "Label",
	KindLambda:             "Lambda",
	KindLeftShift:          "LeftShift",
	KindLeftShiftAssign:    "LeftShiftAssign",
	KindLessThan:           "LessThan",
	KindLessThanOrEqual:    "LessThanOrEqual",
	KindListInit:           "ListInit",
	KindLoop:               "Loop",
	KindMemberAccess:       "MemberAccess",
	KindMemberInit:         "MemberInit",
	KindModulo:             "Modulo",
	KindModuloAssign:       "ModuloAssign",
	KindMultiply:           "Multiply",
	KindMultiplyAssign:     "MultiplyAssign",
	KindMultiplyChecked:    "MultiplyChecked",
	KindNegate:             "Negate",
	KindNegateChecked:      "NegateChecked",
	KindNew:                "New",
	KindNewArrayBounds:     "NewArrayBounds",
	KindNewArrayInit:       "NewArrayInit",
	KindNot:                "Not",
	KindNotEqual:           "NotEqual",
	KindOnesComplement:     "OnesComplement",
	KindOr:                 "Or",
	KindOrAssign:           "OrAssign",
	KindOrElse:             "OrElse",
	KindParameter:          "Parameter",
	KindPostDecrementAssign: "PostDecrementAssign",
	KindPostIncrementAssign: "PostIncrementAssign",
	KindPower:               "Power",
	KindPowerAssign:         "PowerAssign",
	KindPreDecrementAssign:  "PreDecrementAssign",
	KindPreIncrementAssign:  "PreIncrementAssign",
	KindQuote:               "Quote",
	KindRightShift:          "RightShift",
	KindRightShiftAssign:    "RightShiftAssign",
	KindRuntimeVariables:    "RuntimeVariables",
	KindSubtract:            "Subtract",
	KindSubtractAssign:      "SubtractAssign",
	KindSubtractChecked:     "SubtractChecked",
	KindSwitch:              "Switch",
	KindThrow:               "Throw",
	KindTry:                 "Try",
	KindTypeAs:              "TypeAs",
	KindTypeEqual:           "TypeEqual",
	KindTypeIs:              "TypeIs",
	KindUnaryPlus:           "UnaryPlus",
	KindUnbox:               "Unbox",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsAssignOp reports whether the kind writes to its left operand.
func (k Kind) IsAssignOp() bool {
	switch k {
	case KindAssign, KindAddAssign, KindAddAssignChecked, KindSubtractAssign,
		KindMultiplyAssign, KindDivideAssign, KindModuloAssign, KindAndAssign,
		KindOrAssign, KindExclusiveOrAssign, KindLeftShiftAssign,
		KindRightShiftAssign, KindPowerAssign:
		return true
	}
	return false
}

// IsUnsupported reports whether the kind has no faithful textual rendering.
// Printers emit a marker comment for these instead of failing.
func (k Kind) IsUnsupported() bool {
	switch k {
	case KindDynamic, KindRuntimeVariables, KindDebugInfo, KindQuote:
		return true
	}
	return false
}
