package render

import (
	"bytes"
	"fmt"

	"github.com/bagoum/exprtext/pkg/expr"
)

// registry is an identity-keyed, insertion-ordered arena. Membership is by
// pointer identity: structurally identical but distinct nodes get distinct
// slots.
type registry[T comparable] struct {
	index map[T]int
	items []T
}

func (r *registry[T]) get(v T) (int, bool) {
	i, ok := r.index[v]
	return i, ok
}

func (r *registry[T]) add(v T) int {
	if r.index == nil {
		r.index = map[T]int{}
	}
	i := len(r.items)
	r.index[v] = i
	r.items = append(r.items, v)
	return i
}

// builderPrinter emits reconstruction code: one constructor call per node,
// with parameters, shared sub-expressions and label targets declared on
// first sight and back-referenced by arena index afterwards.
type builderPrinter struct {
	printer
	params registry[*expr.ParameterExpr]
	exprs  registry[expr.Expr]
	labels registry[*expr.LabelTarget]
}

// ToBuilderString renders the tree as builder-form reconstruction code.
func ToBuilderString(e expr.Expr, opts ...Option) string {
	s, _ := RenderBuilder(e, opts...)
	return s
}

// RenderBuilder renders builder form and additionally returns the populated
// registries so callers can pre-size the three arrays the code indexes.
func RenderBuilder(e expr.Expr, opts ...Option) (string, *Registries) {
	b := &builderPrinter{printer: printer{cfg: newConfig(2, opts)}}
	b.node(e, 0, true)
	body := b.buf.String()

	var out bytes.Buffer
	fmt.Fprintf(&out, "var p = new ParameterExpression[%d]; // the unique parameter expressions\n", len(b.params.items))
	fmt.Fprintf(&out, "var e = new Expression[%d]; // the unique expressions\n", len(b.exprs.items))
	fmt.Fprintf(&out, "var l = new LabelTarget[%d]; // the unique label targets\n", len(b.labels.items))
	out.WriteString("var expr = ")
	out.WriteString(body)
	out.WriteString(";")

	return out.String(), &Registries{
		Params: b.params.items,
		Exprs:  b.exprs.items,
		Labels: b.labels.items,
	}
}

// node renders one node. Non-root, non-parameter nodes go through the
// sub-expression arena: first sight declares e[i]=, later sights emit a
// back-reference and do not re-descend.
func (b *builderPrinter) node(e expr.Expr, depth int, root bool) {
	if e == nil {
		b.write("null")
		return
	}
	for e.Kind() == expr.KindExtension {
		red, err := expr.MustReduce(e)
		if err != nil {
			b.writef("null /* %s: Extension (%v) */", notSupported, err)
			return
		}
		e = red
	}
	if p, ok := e.(*expr.ParameterExpr); ok {
		b.param(p, depth)
		return
	}
	if !root {
		if i, ok := b.exprs.get(e); ok {
			b.backref("e", i, fmt.Sprintf("%s of %s", e.Kind(), typeName(e.Type(), b.cfg)), depth)
			return
		}
		b.writef("e[%d]=", b.exprs.add(e))
	}
	b.form(e, depth)
}

func (b *builderPrinter) backref(arena string, i int, comment string, depth int) {
	b.writef("%s[%d // %s", arena, i, comment)
	b.line(depth + 1)
	b.write("]")
}

func (b *builderPrinter) param(p *expr.ParameterExpr, depth int) {
	name := p.Name
	if name == "" {
		name = synthName(p.Typ, p)
	}
	if i, ok := b.params.get(p); ok {
		b.backref("p", i, fmt.Sprintf("(%s %s)", typeName(p.Typ, b.cfg), name), depth)
		return
	}
	b.writef("p[%d]=Parameter(%s, %s)", b.params.add(p), typeOf(p.Typ, b.cfg), escapeString(name))
}

func (b *builderPrinter) labelTarget(l *expr.LabelTarget, depth int) {
	name := l.Name
	if name == "" {
		name = synthName(l.Typ, l)
	}
	if i, ok := b.labels.get(l); ok {
		b.backref("l", i, name, depth)
		return
	}
	typ := l.Typ
	if typ == nil {
		typ = expr.VoidType
	}
	b.writef("l[%d]=Label(%s, %s)", b.labels.add(l), typeOf(typ, b.cfg), escapeString(name))
}

// call emits name(arg, arg, ...) with each argument on its own line one
// level deeper.
func (b *builderPrinter) call(name string, depth int, args ...func()) {
	b.write(name)
	b.write("(")
	for i, arg := range args {
		if i > 0 {
			b.write(",")
		}
		b.line(depth + 1)
		arg()
	}
	b.write(")")
}

func (b *builderPrinter) childArg(c expr.Expr, depth int) func() {
	return func() { b.node(c, depth+1, false) }
}

func (b *builderPrinter) textArg(s string) func() {
	return func() { b.write(s) }
}

// dedicatedBinary lists the binary kinds with a constructor of their own;
// everything else goes through MakeBinary with the kind tag spelled out.
var dedicatedBinary = map[expr.Kind]bool{
	expr.KindAssign: true, expr.KindAdd: true, expr.KindAddChecked: true,
	expr.KindSubtract: true, expr.KindSubtractChecked: true,
	expr.KindMultiply: true, expr.KindMultiplyChecked: true,
	expr.KindDivide: true, expr.KindModulo: true, expr.KindPower: true,
	expr.KindAnd: true, expr.KindOr: true, expr.KindExclusiveOr: true,
	expr.KindLeftShift: true, expr.KindRightShift: true,
	expr.KindAndAlso: true, expr.KindOrElse: true,
	expr.KindEqual: true, expr.KindNotEqual: true,
	expr.KindGreaterThan: true, expr.KindGreaterThanOrEqual: true,
	expr.KindLessThan: true, expr.KindLessThanOrEqual: true,
	expr.KindCoalesce: true, expr.KindArrayIndex: true,
}

var dedicatedUnary = map[expr.Kind]bool{
	expr.KindNot: true, expr.KindNegate: true, expr.KindNegateChecked: true,
	expr.KindUnaryPlus: true, expr.KindOnesComplement: true,
	expr.KindArrayLength: true, expr.KindIncrement: true, expr.KindDecrement: true,
	expr.KindPreIncrementAssign: true, expr.KindPostIncrementAssign: true,
	expr.KindPreDecrementAssign: true, expr.KindPostDecrementAssign: true,
	expr.KindIsTrue: true, expr.KindIsFalse: true,
}

func (b *builderPrinter) form(e expr.Expr, depth int) {
	switch e := e.(type) {
	case *expr.ConstantExpr:
		b.constant(e)

	case *expr.BinaryExpr:
		if dedicatedBinary[e.Op] {
			b.call(e.Op.String(), depth, b.childArg(e.Left, depth), b.childArg(e.Right, depth))
		} else {
			b.call("MakeBinary", depth,
				b.textArg("ExpressionType."+e.Op.String()),
				b.childArg(e.Left, depth), b.childArg(e.Right, depth))
		}

	case *expr.UnaryExpr:
		b.unary(e, depth)

	case *expr.TypeBinaryExpr:
		b.call(e.Op.String(), depth, b.childArg(e.Operand, depth), b.textArg(typeOf(e.TypeOperand, b.cfg)))

	case *expr.CallExpr:
		args := []func(){b.childArg(e.Object, depth), b.textArg(methodLookup(e.Method, b.cfg))}
		for _, a := range e.Args {
			args = append(args, b.childArg(a, depth))
		}
		b.call("Call", depth, args...)

	case *expr.MemberExpr:
		name := "Field"
		if _, ok := e.Member.(*expr.PropertyRef); ok {
			name = "Property"
		}
		b.call(name, depth, b.childArg(e.Object, depth), b.textArg(memberLookup(e.Member, b.cfg)))

	case *expr.IndexExpr:
		args := []func(){b.childArg(e.Object, depth)}
		if e.Indexer != nil {
			args = append(args, b.textArg(propertyLookup(e.Indexer, b.cfg)))
		} else {
			args = append(args, b.textArg("null"))
		}
		for _, a := range e.Args {
			args = append(args, b.childArg(a, depth))
		}
		b.call("MakeIndex", depth, args...)

	case *expr.NewExpr:
		args := []func(){b.textArg(ctorLookup(e.Ctor, b.cfg))}
		for _, a := range e.Args {
			args = append(args, b.childArg(a, depth))
		}
		b.call("New", depth, args...)

	case *expr.NewArrayExpr:
		args := []func(){b.textArg(typeOf(e.ElemType, b.cfg))}
		for _, el := range e.Elems {
			args = append(args, b.childArg(el, depth))
		}
		b.call(e.Op.String(), depth, args...)

	case *expr.ConditionalExpr:
		if e.IfFalse == nil {
			b.call("IfThen", depth, b.childArg(e.Test, depth), b.childArg(e.IfTrue, depth))
			return
		}
		b.call("Condition", depth,
			b.childArg(e.Test, depth), b.childArg(e.IfTrue, depth),
			b.childArg(e.IfFalse, depth), b.textArg(typeOf(e.Typ, b.cfg)))

	case *expr.BlockExpr:
		args := []func(){
			b.textArg(typeOf(e.Typ, b.cfg)),
			func() { b.blockVars(e.Vars, depth) },
		}
		for _, c := range e.Exprs {
			args = append(args, b.childArg(c, depth))
		}
		b.call("Block", depth, args...)

	case *expr.LambdaExpr:
		args := []func(){
			b.textArg(typeOf(e.DelegateType, b.cfg)),
			b.childArg(e.Body, depth),
		}
		for _, p := range e.Params {
			p := p
			args = append(args, func() { b.param(p, depth+1) })
		}
		b.call("Lambda", depth, args...)

	case *expr.InvokeExpr:
		args := []func(){b.childArg(e.Target, depth)}
		for _, a := range e.Args {
			args = append(args, b.childArg(a, depth))
		}
		b.call("Invoke", depth, args...)

	case *expr.LabelExpr:
		target := e.Target
		b.call("Label", depth,
			func() { b.labelTarget(target, depth+1) },
			b.childArg(e.DefaultValue, depth))

	case *expr.GotoExpr:
		target := e.Target
		args := []func(){func() { b.labelTarget(target, depth+1) }}
		if e.Value != nil {
			args = append(args, b.childArg(e.Value, depth))
		}
		b.call(e.GotoKind.String(), depth, args...)

	case *expr.LoopExpr:
		if e.BreakLabel == nil && e.ContinueLabel == nil {
			b.call("Loop", depth, b.childArg(e.Body, depth))
			return
		}
		brk, cont := e.BreakLabel, e.ContinueLabel
		args := []func(){b.childArg(e.Body, depth)}
		args = append(args, func() {
			if brk == nil {
				b.write("null")
				return
			}
			b.labelTarget(brk, depth+1)
		})
		args = append(args, func() {
			if cont == nil {
				b.write("null")
				return
			}
			b.labelTarget(cont, depth+1)
		})
		b.call("Loop", depth, args...)

	case *expr.SwitchExpr:
		args := []func(){b.childArg(e.Value, depth), b.childArg(e.Default, depth)}
		for _, c := range e.Cases {
			c := c
			args = append(args, func() { b.switchCase(c, depth+1) })
		}
		b.call("Switch", depth, args...)

	case *expr.TryExpr:
		args := []func(){b.childArg(e.Body, depth), b.childArg(e.Finally, depth)}
		for _, h := range e.Handlers {
			h := h
			args = append(args, func() { b.catchBlock(h, depth+1) })
		}
		b.call("TryCatchFinally", depth, args...)

	case *expr.DefaultExpr:
		b.writef("Default(%s)", typeOf(e.Typ, b.cfg))

	case *expr.ListInitExpr:
		args := []func(){b.childArg(e.New, depth)}
		for _, init := range e.Inits {
			init := init
			args = append(args, func() { b.elementInit(init, depth+1) })
		}
		b.call("ListInit", depth, args...)

	case *expr.MemberInitExpr:
		args := []func(){b.childArg(e.New, depth)}
		for _, bind := range e.Bindings {
			bind := bind
			args = append(args, func() { b.memberBinding(bind, depth+1) })
		}
		b.call("MemberInit", depth, args...)

	case *expr.UnsupportedExpr:
		b.writef("Default(%s) /* %s: %s */", typeOf(e.Type(), b.cfg), notSupported, e.Kind())

	default:
		b.writef("null /* %s: %s */", notSupported, e.Kind())
	}
}

func (b *builderPrinter) constant(c *expr.ConstantExpr) {
	lit := literal(c.Value, c.Typ, b.cfg)
	if constantNeedsType(c) {
		b.writef("Constant(%s, %s)", lit, typeOf(c.Typ, b.cfg))
		return
	}
	b.writef("Constant(%s)", lit)
}

// constantNeedsType reports whether the literal alone does not pin the
// constant's static type.
func constantNeedsType(c *expr.ConstantExpr) bool {
	if c.Typ == nil {
		return false
	}
	if c.Value == nil {
		return true
	}
	if _, ok := c.Value.(expr.EnumValue); ok {
		return false
	}
	switch c.Typ.Builtin {
	case expr.BuiltinBool, expr.BuiltinString, expr.BuiltinChar, expr.BuiltinInt,
		expr.BuiltinLong, expr.BuiltinFloat, expr.BuiltinDouble:
		return false
	}
	return true
}

func (b *builderPrinter) unary(u *expr.UnaryExpr, depth int) {
	switch u.Op {
	case expr.KindConvert, expr.KindConvertChecked, expr.KindTypeAs, expr.KindUnbox:
		b.call(u.Op.String(), depth, b.childArg(u.Operand, depth), b.textArg(typeOf(u.Typ, b.cfg)))
	case expr.KindThrow:
		if u.Operand == nil {
			b.write("Rethrow()")
			return
		}
		b.call("Throw", depth, b.childArg(u.Operand, depth))
	case expr.KindQuote:
		// No faithful builder form; keep the operand visible.
		b.writef("/* %s: %s */ ", notSupported, u.Op)
		b.node(u.Operand, depth, false)
	default:
		if dedicatedUnary[u.Op] {
			b.call(u.Op.String(), depth, b.childArg(u.Operand, depth))
			return
		}
		b.call("MakeUnary", depth,
			b.textArg("ExpressionType."+u.Op.String()),
			b.childArg(u.Operand, depth),
			b.textArg(typeOf(u.Typ, b.cfg)))
	}
}

func (b *builderPrinter) blockVars(vars []*expr.ParameterExpr, depth int) {
	if len(vars) == 0 {
		b.write("new ParameterExpression[0]")
		return
	}
	b.write("new[] { ")
	for i, v := range vars {
		if i > 0 {
			b.write(", ")
		}
		b.param(v, depth)
	}
	b.write(" }")
}

func (b *builderPrinter) switchCase(c *expr.SwitchCase, depth int) {
	args := []func(){b.childArg(c.Body, depth)}
	for _, tv := range c.TestValues {
		args = append(args, b.childArg(tv, depth))
	}
	b.call("SwitchCase", depth, args...)
}

func (b *builderPrinter) catchBlock(h *expr.CatchBlock, depth int) {
	v, filter := h.Variable, h.Filter
	b.call("MakeCatchBlock", depth,
		b.textArg(typeOf(h.Test, b.cfg)),
		func() {
			if v == nil {
				b.write("null")
				return
			}
			b.param(v, depth+1)
		},
		b.childArg(h.Body, depth),
		func() {
			if filter == nil {
				b.write("null")
				return
			}
			b.node(filter, depth+1, false)
		})
}

func (b *builderPrinter) elementInit(init *expr.ElementInit, depth int) {
	args := []func(){b.textArg(methodLookup(init.AddMethod, b.cfg))}
	for _, a := range init.Args {
		args = append(args, b.childArg(a, depth))
	}
	b.call("ElementInit", depth, args...)
}

// memberBinding renders a member assignment; the list- and member-binding
// forms have no slot in the strict builder grammar and degrade to a marker.
func (b *builderPrinter) memberBinding(bind expr.MemberBinding, depth int) {
	switch bind := bind.(type) {
	case *expr.MemberAssignment:
		b.call("Bind", depth,
			b.textArg(memberLookup(bind.Member, b.cfg)),
			b.childArg(bind.Value, depth))
	case *expr.MemberListBinding:
		b.writef("null /* %s: MemberListBinding of %s */", notSupported, bind.Member.MemberName())
	case *expr.MemberMemberBinding:
		b.writef("null /* %s: MemberMemberBinding of %s */", notSupported, bind.Member.MemberName())
	default:
		b.writef("null /* %s: %T */", notSupported, bind)
	}
}
