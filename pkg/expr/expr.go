package expr

import "github.com/pkg/errors"

// Expr is one node of the tree. Nodes are immutable after construction and
// safe to share between trees; sharing is by pointer, and the printers treat
// pointer identity as node identity.
type Expr interface {
	// Kind returns the node's variant tag.
	Kind() Kind

	// Type returns the node's static result type. Statement-like nodes
	// (loops, void blocks) return VoidType.
	Type() *TypeDesc

	// Walk recursively visits this node and all its children in pre-order,
	// calling fn for each node. The callback returns true to continue
	// walking into children, false to skip them.
	Walk(fn func(Expr) bool)
}

// Reducible is the capability contract for extension nodes: any node kind
// outside the closed set must reduce itself to a node inside it. Printers
// call Reduce exactly once before dispatching.
type Reducible interface {
	Expr
	Reduce() Expr
}

// MustReduce resolves an extension node to a closed-set node, erroring when
// the node does not implement the capability or reduces to itself.
func MustReduce(e Expr) (Expr, error) {
	r, ok := e.(Reducible)
	if !ok {
		return nil, errors.Errorf("extension node %T does not implement Reduce", e)
	}
	red := r.Reduce()
	if red == nil || red == e {
		return nil, errors.Errorf("extension node %T did not reduce", e)
	}
	return red, nil
}

// ConstantExpr holds a literal or captured value.
type ConstantExpr struct {
	Value any
	Typ   *TypeDesc
}

func (c *ConstantExpr) Kind() Kind       { return KindConstant }
func (c *ConstantExpr) Type() *TypeDesc  { return c.Typ }
func (c *ConstantExpr) Walk(fn func(Expr) bool) { fn(c) }

// ParameterExpr is a reference-identity object: the same pointer may occur
// at many positions in a tree, and the first pre-order occurrence is its
// declaration site.
type ParameterExpr struct {
	Typ  *TypeDesc
	Name string
}

func (p *ParameterExpr) Kind() Kind       { return KindParameter }
func (p *ParameterExpr) Type() *TypeDesc  { return p.Typ }
func (p *ParameterExpr) Walk(fn func(Expr) bool) { fn(p) }

// BinaryExpr covers every two-operand kind, operators and assignments alike.
type BinaryExpr struct {
	Op    Kind
	Left  Expr
	Right Expr
	Typ   *TypeDesc
}

func (b *BinaryExpr) Kind() Kind      { return b.Op }
func (b *BinaryExpr) Type() *TypeDesc { return b.Typ }
func (b *BinaryExpr) Walk(fn func(Expr) bool) {
	if fn(b) {
		b.Left.Walk(fn)
		b.Right.Walk(fn)
	}
}

// UnaryExpr covers every one-operand kind, including conversions, throw and
// array length.
type UnaryExpr struct {
	Op      Kind
	Operand Expr
	Typ     *TypeDesc
}

func (u *UnaryExpr) Kind() Kind      { return u.Op }
func (u *UnaryExpr) Type() *TypeDesc { return u.Typ }
func (u *UnaryExpr) Walk(fn func(Expr) bool) {
	if fn(u) && u.Operand != nil {
		u.Operand.Walk(fn)
	}
}

// TypeBinaryExpr is a type test (is) or type equality check.
type TypeBinaryExpr struct {
	Op          Kind
	Operand     Expr
	TypeOperand *TypeDesc
}

func (t *TypeBinaryExpr) Kind() Kind      { return t.Op }
func (t *TypeBinaryExpr) Type() *TypeDesc { return BoolType }
func (t *TypeBinaryExpr) Walk(fn func(Expr) bool) {
	if fn(t) {
		t.Operand.Walk(fn)
	}
}

// CallExpr invokes a method; Object is nil for static calls.
type CallExpr struct {
	Object Expr
	Method *MethodRef
	Args   []Expr
}

func (c *CallExpr) Kind() Kind      { return KindCall }
func (c *CallExpr) Type() *TypeDesc { return c.Method.Return }
func (c *CallExpr) Walk(fn func(Expr) bool) {
	if fn(c) {
		if c.Object != nil {
			c.Object.Walk(fn)
		}
		for _, a := range c.Args {
			a.Walk(fn)
		}
	}
}

// MemberExpr reads a field or property; Object is nil for static members.
type MemberExpr struct {
	Object Expr
	Member MemberRef
}

func (m *MemberExpr) Kind() Kind      { return KindMemberAccess }
func (m *MemberExpr) Type() *TypeDesc { return m.Member.MemberType() }
func (m *MemberExpr) Walk(fn func(Expr) bool) {
	if fn(m) && m.Object != nil {
		m.Object.Walk(fn)
	}
}

// IndexExpr reads an indexer or array element; Indexer is nil for plain
// array access.
type IndexExpr struct {
	Object  Expr
	Indexer *PropertyRef
	Args    []Expr
}

func (i *IndexExpr) Kind() Kind { return KindIndex }
func (i *IndexExpr) Type() *TypeDesc {
	if i.Indexer != nil {
		return i.Indexer.Type
	}
	if t := i.Object.Type(); t.IsArray() {
		return t.Elem
	}
	return ObjectType
}
func (i *IndexExpr) Walk(fn func(Expr) bool) {
	if fn(i) {
		i.Object.Walk(fn)
		for _, a := range i.Args {
			a.Walk(fn)
		}
	}
}

// NewExpr constructs an object.
type NewExpr struct {
	Ctor *CtorRef
	Args []Expr
}

func (n *NewExpr) Kind() Kind      { return KindNew }
func (n *NewExpr) Type() *TypeDesc { return n.Ctor.Declaring }
func (n *NewExpr) Walk(fn func(Expr) bool) {
	if fn(n) {
		for _, a := range n.Args {
			a.Walk(fn)
		}
	}
}

// NewArrayExpr is either an initialized single-dimensional array
// (NewArrayInit, Elems are the elements) or a bounds allocation
// (NewArrayBounds, Elems are the dimension lengths).
type NewArrayExpr struct {
	Op       Kind
	ElemType *TypeDesc
	Elems    []Expr
}

func (n *NewArrayExpr) Kind() Kind { return n.Op }
func (n *NewArrayExpr) Type() *TypeDesc {
	rank := 1
	if n.Op == KindNewArrayBounds {
		rank = len(n.Elems)
	}
	return ArrayOf(n.ElemType, rank)
}
func (n *NewArrayExpr) Walk(fn func(Expr) bool) {
	if fn(n) {
		for _, e := range n.Elems {
			e.Walk(fn)
		}
	}
}

// ConditionalExpr carries a value when Typ is non-void, otherwise it is an
// if/else statement.
type ConditionalExpr struct {
	Test    Expr
	IfTrue  Expr
	IfFalse Expr
	Typ     *TypeDesc
}

func (c *ConditionalExpr) Kind() Kind      { return KindConditional }
func (c *ConditionalExpr) Type() *TypeDesc { return c.Typ }
func (c *ConditionalExpr) Walk(fn func(Expr) bool) {
	if fn(c) {
		c.Test.Walk(fn)
		c.IfTrue.Walk(fn)
		if c.IfFalse != nil {
			c.IfFalse.Walk(fn)
		}
	}
}

// BlockExpr is a scope: declared variables plus a statement sequence. Its
// value is the value of its last expression.
type BlockExpr struct {
	Vars  []*ParameterExpr
	Exprs []Expr
	Typ   *TypeDesc
}

func (b *BlockExpr) Kind() Kind      { return KindBlock }
func (b *BlockExpr) Type() *TypeDesc { return b.Typ }
func (b *BlockExpr) Walk(fn func(Expr) bool) {
	if fn(b) {
		for _, v := range b.Vars {
			v.Walk(fn)
		}
		for _, e := range b.Exprs {
			e.Walk(fn)
		}
	}
}

// Result returns the block's tail expression, nil when empty.
func (b *BlockExpr) Result() Expr {
	if len(b.Exprs) == 0 {
		return nil
	}
	return b.Exprs[len(b.Exprs)-1]
}

// LabelTarget is a reference-identity jump target shared by label and goto
// nodes. It is not itself a node.
type LabelTarget struct {
	Name string
	Typ  *TypeDesc
}

// LabelExpr marks a position a goto can jump to; DefaultValue supplies the
// label's value when execution falls through to it.
type LabelExpr struct {
	Target       *LabelTarget
	DefaultValue Expr
}

func (l *LabelExpr) Kind() Kind { return KindLabel }
func (l *LabelExpr) Type() *TypeDesc {
	if l.Target.Typ == nil {
		return VoidType
	}
	return l.Target.Typ
}
func (l *LabelExpr) Walk(fn func(Expr) bool) {
	if fn(l) && l.DefaultValue != nil {
		l.DefaultValue.Walk(fn)
	}
}

// GotoKind narrows a goto node to its surface idiom.
type GotoKind int

const (
	GotoGoto GotoKind = iota
	GotoReturn
	GotoBreak
	GotoContinue
)

func (g GotoKind) String() string {
	switch g {
	case GotoReturn:
		return "Return"
	case GotoBreak:
		return "Break"
	case GotoContinue:
		return "Continue"
	default:
		return "Goto"
	}
}

// GotoExpr is an unconditional jump, optionally carrying a value to its
// target.
type GotoExpr struct {
	GotoKind GotoKind
	Target   *LabelTarget
	Value    Expr
}

func (g *GotoExpr) Kind() Kind      { return KindGoto }
func (g *GotoExpr) Type() *TypeDesc { return VoidType }
func (g *GotoExpr) Walk(fn func(Expr) bool) {
	if fn(g) && g.Value != nil {
		g.Value.Walk(fn)
	}
}

// LoopExpr repeats its body forever; exits happen via gotos to BreakLabel.
type LoopExpr struct {
	Body          Expr
	BreakLabel    *LabelTarget
	ContinueLabel *LabelTarget
}

func (l *LoopExpr) Kind() Kind      { return KindLoop }
func (l *LoopExpr) Type() *TypeDesc { return VoidType }
func (l *LoopExpr) Walk(fn func(Expr) bool) {
	if fn(l) {
		l.Body.Walk(fn)
	}
}

// CatchBlock is one handler of a try node. Variable binds the caught
// exception when non-nil; Filter is an optional boolean guard.
type CatchBlock struct {
	Test     *TypeDesc
	Variable *ParameterExpr
	Filter   Expr
	Body     Expr
}

// TryExpr is a protected region with handlers and an optional finally.
type TryExpr struct {
	Body     Expr
	Handlers []*CatchBlock
	Finally  Expr
	Typ      *TypeDesc
}

func (t *TryExpr) Kind() Kind      { return KindTry }
func (t *TryExpr) Type() *TypeDesc { return t.Typ }
func (t *TryExpr) Walk(fn func(Expr) bool) {
	if fn(t) {
		t.Body.Walk(fn)
		for _, h := range t.Handlers {
			if h.Variable != nil {
				h.Variable.Walk(fn)
			}
			if h.Filter != nil {
				h.Filter.Walk(fn)
			}
			h.Body.Walk(fn)
		}
		if t.Finally != nil {
			t.Finally.Walk(fn)
		}
	}
}

// SwitchCase is one arm of a switch node.
type SwitchCase struct {
	TestValues []Expr
	Body       Expr
}

// SwitchExpr dispatches on a value; Default is optional.
type SwitchExpr struct {
	Value   Expr
	Cases   []*SwitchCase
	Default Expr
	Typ     *TypeDesc
}

func (s *SwitchExpr) Kind() Kind      { return KindSwitch }
func (s *SwitchExpr) Type() *TypeDesc { return s.Typ }
func (s *SwitchExpr) Walk(fn func(Expr) bool) {
	if fn(s) {
		s.Value.Walk(fn)
		for _, c := range s.Cases {
			for _, tv := range c.TestValues {
				tv.Walk(fn)
			}
			c.Body.Walk(fn)
		}
		if s.Default != nil {
			s.Default.Walk(fn)
		}
	}
}

// LambdaExpr is an anonymous function of a concrete delegate type.
type LambdaExpr struct {
	DelegateType *TypeDesc
	Body         Expr
	Params       []*ParameterExpr
	ReturnType   *TypeDesc
}

func (l *LambdaExpr) Kind() Kind      { return KindLambda }
func (l *LambdaExpr) Type() *TypeDesc { return l.DelegateType }
func (l *LambdaExpr) Walk(fn func(Expr) bool) {
	if fn(l) {
		l.Body.Walk(fn)
		for _, p := range l.Params {
			p.Walk(fn)
		}
	}
}

// InvokeExpr applies a delegate-valued expression to arguments.
type InvokeExpr struct {
	Target Expr
	Args   []Expr
	Typ    *TypeDesc
}

func (i *InvokeExpr) Kind() Kind      { return KindInvoke }
func (i *InvokeExpr) Type() *TypeDesc { return i.Typ }
func (i *InvokeExpr) Walk(fn func(Expr) bool) {
	if fn(i) {
		i.Target.Walk(fn)
		for _, a := range i.Args {
			a.Walk(fn)
		}
	}
}

// DefaultExpr is the zero value of a type.
type DefaultExpr struct {
	Typ *TypeDesc
}

func (d *DefaultExpr) Kind() Kind       { return KindDefault }
func (d *DefaultExpr) Type() *TypeDesc  { return d.Typ }
func (d *DefaultExpr) Walk(fn func(Expr) bool) { fn(d) }

// ListInitExpr is a constructor call followed by collection Add calls.
type ListInitExpr struct {
	New   *NewExpr
	Inits []*ElementInit
}

func (l *ListInitExpr) Kind() Kind      { return KindListInit }
func (l *ListInitExpr) Type() *TypeDesc { return l.New.Type() }
func (l *ListInitExpr) Walk(fn func(Expr) bool) {
	if fn(l) {
		l.New.Walk(fn)
		for _, init := range l.Inits {
			for _, a := range init.Args {
				a.Walk(fn)
			}
		}
	}
}

// MemberBinding is one initializer inside a member-init node.
type MemberBinding interface {
	BindingMember() MemberRef
}

// MemberAssignment sets a member to a value.
type MemberAssignment struct {
	Member MemberRef
	Value  Expr
}

func (m *MemberAssignment) BindingMember() MemberRef { return m.Member }

// MemberListBinding initializes a collection-valued member with Add calls.
type MemberListBinding struct {
	Member MemberRef
	Inits  []*ElementInit
}

func (m *MemberListBinding) BindingMember() MemberRef { return m.Member }

// MemberMemberBinding recursively initializes the members of a
// member-valued member.
type MemberMemberBinding struct {
	Member   MemberRef
	Bindings []MemberBinding
}

func (m *MemberMemberBinding) BindingMember() MemberRef { return m.Member }

// MemberInitExpr is a constructor call followed by member initializers.
type MemberInitExpr struct {
	New      *NewExpr
	Bindings []MemberBinding
}

func (m *MemberInitExpr) Kind() Kind      { return KindMemberInit }
func (m *MemberInitExpr) Type() *TypeDesc { return m.New.Type() }
func (m *MemberInitExpr) Walk(fn func(Expr) bool) {
	if fn(m) {
		m.New.Walk(fn)
		walkBindings(m.Bindings, fn)
	}
}

func walkBindings(bs []MemberBinding, fn func(Expr) bool) {
	for _, b := range bs {
		switch b := b.(type) {
		case *MemberAssignment:
			b.Value.Walk(fn)
		case *MemberListBinding:
			for _, init := range b.Inits {
				for _, a := range init.Args {
					a.Walk(fn)
				}
			}
		case *MemberMemberBinding:
			walkBindings(b.Bindings, fn)
		}
	}
}

// UnsupportedExpr stands in for node kinds with no faithful textual form:
// dynamic dispatch, captured runtime variables, debug markers. Printers
// degrade these to a visible marker.
type UnsupportedExpr struct {
	K        Kind
	Children []Expr
	Typ      *TypeDesc
}

func (u *UnsupportedExpr) Kind() Kind { return u.K }
func (u *UnsupportedExpr) Type() *TypeDesc {
	if u.Typ == nil {
		return ObjectType
	}
	return u.Typ
}
func (u *UnsupportedExpr) Walk(fn func(Expr) bool) {
	if fn(u) {
		for _, c := range u.Children {
			c.Walk(fn)
		}
	}
}
