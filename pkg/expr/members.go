package expr

import (
	"sync"

	"github.com/pkg/errors"
)

// RefKind distinguishes how a parameter is passed.
type RefKind int

const (
	ByValue RefKind = iota
	ByRef
	In
	Out
)

// Param is one parameter slot in a method or delegate signature.
type Param struct {
	Type    *TypeDesc
	RefKind RefKind
	Name    string
}

// MemberRef is a field or property reference attached to member-access and
// member-init nodes.
type MemberRef interface {
	MemberName() string
	MemberType() *TypeDesc
	DeclaringType() *TypeDesc
	IsStatic() bool
}

// FieldRef identifies a field on a type.
type FieldRef struct {
	Declaring *TypeDesc
	Name      string
	Type      *TypeDesc
	Static    bool
	NonPublic bool
}

func (f *FieldRef) MemberName() string        { return f.Name }
func (f *FieldRef) MemberType() *TypeDesc     { return f.Type }
func (f *FieldRef) DeclaringType() *TypeDesc  { return f.Declaring }
func (f *FieldRef) IsStatic() bool            { return f.Static }

// PropertyRef identifies a property (including indexers) on a type.
type PropertyRef struct {
	Declaring *TypeDesc
	Name      string
	Type      *TypeDesc
	Static    bool
	NonPublic bool
	// IndexParams is non-empty for indexers.
	IndexParams []Param
}

func (p *PropertyRef) MemberName() string       { return p.Name }
func (p *PropertyRef) MemberType() *TypeDesc    { return p.Type }
func (p *PropertyRef) DeclaringType() *TypeDesc { return p.Declaring }
func (p *PropertyRef) IsStatic() bool           { return p.Static }

// MethodRef identifies a method overload exactly: name, staticness,
// visibility, generic arity, and the full parameter-type sequence.
type MethodRef struct {
	Declaring *TypeDesc
	Name      string
	Static    bool
	NonPublic bool
	// TypeArgs holds the concrete type arguments of an instantiated
	// generic method; empty for non-generic methods.
	TypeArgs []*TypeDesc
	Params   []Param
	Return   *TypeDesc
}

// IsGeneric reports whether the method was instantiated from a generic
// definition.
func (m *MethodRef) IsGeneric() bool { return len(m.TypeArgs) > 0 }

// CtorRef identifies a constructor overload by its parameter-type sequence.
type CtorRef struct {
	Declaring *TypeDesc
	Params    []Param
	NonPublic bool
}

// ElementInit is one Add-call of a list-init node.
type ElementInit struct {
	AddMethod *MethodRef
	Args      []Expr
}

// MetaResolver answers reflection-level questions the printers need but the
// tree itself does not carry, chiefly the invoke signature of a delegate
// type. It memoizes internally; share one resolver across renders to share
// the cache. The zero value is usable.
type MetaResolver struct {
	mu        sync.Mutex
	delegates map[*TypeDesc]*MethodRef
	invokes   map[*TypeDesc]*MethodRef
}

// RegisterDelegate teaches the resolver the invoke signature of a custom
// delegate type, including ref/in/out parameter modifiers that the
// Func/Action families cannot express.
func (r *MetaResolver) RegisterDelegate(t *TypeDesc, invoke *MethodRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delegates == nil {
		r.delegates = map[*TypeDesc]*MethodRef{}
	}
	r.delegates[t] = invoke
}

// InvokeMethod resolves the invoke signature of a delegate type. Registered
// delegates win; Func/Action descriptors are derived from their generic
// arguments.
func (r *MetaResolver) InvokeMethod(t *TypeDesc) (*MethodRef, error) {
	if t == nil {
		return nil, errors.New("no delegate type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.delegates[t]; ok {
		return m, nil
	}
	if m, ok := r.invokes[t]; ok {
		return m, nil
	}
	m, err := deriveInvoke(t)
	if err != nil {
		return nil, err
	}
	if r.invokes == nil {
		r.invokes = map[*TypeDesc]*MethodRef{}
	}
	r.invokes[t] = m
	return m, nil
}

func deriveInvoke(t *TypeDesc) (*MethodRef, error) {
	if !t.IsDelegate() {
		return nil, errors.Errorf("%s.%s is not a known delegate type", t.Namespace, t.Name)
	}
	args := t.TypeArgs
	ret := VoidType
	if t.Name == "Func" {
		if len(args) == 0 {
			return nil, errors.New("Func delegate with no type arguments")
		}
		ret = args[len(args)-1]
		args = args[:len(args)-1]
	}
	params := make([]Param, len(args))
	for i, a := range args {
		kind := ByValue
		if a.ByRef {
			kind = ByRef
		}
		params[i] = Param{Type: a, RefKind: kind}
	}
	return &MethodRef{Declaring: t, Name: "Invoke", Params: params, Return: ret}, nil
}
