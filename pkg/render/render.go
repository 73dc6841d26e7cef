// Package render turns expression trees into text, two ways: builder form
// (reconstruction code that rebuilds an identical tree through the pkg/expr
// constructor functions, with shared nodes declared once and back-referenced
// by index) and surface form (directly compilable statement/expression
// source, with block-valued constructs linearized into statement sequences).
//
// Both renderers are pure over their input: the tree is never mutated, all
// scratch state lives in per-call printers, and concurrent renders of the
// same tree are safe.
package render

import (
	"github.com/bagoum/exprtext/pkg/expr"
)

// ObjectToCode renders constant values the built-in literal renderer does
// not recognize. Returning false falls through to a plain string conversion.
type ObjectToCode interface {
	ToCode(value any, typ *expr.TypeDesc) (string, bool)
}

// ObjectToCodeFunc adapts a function to ObjectToCode.
type ObjectToCodeFunc func(value any, typ *expr.TypeDesc) (string, bool)

func (f ObjectToCodeFunc) ToCode(value any, typ *expr.TypeDesc) (string, bool) {
	return f(value, typ)
}

type config struct {
	stripNamespace bool
	printType      func(*expr.TypeDesc, string) string
	identSpaces    int
	objectToCode   ObjectToCode
	meta           *expr.MetaResolver
}

// Option configures a single render call.
type Option func(*config)

// StripNamespace drops namespace qualifiers from every rendered type name.
func StripNamespace() Option {
	return func(c *config) { c.stripNamespace = true }
}

// PrintType overrides every computed type name. The override receives the
// descriptor and the name the renderer computed for it and returns the name
// to use.
func PrintType(fn func(t *expr.TypeDesc, computed string) string) Option {
	return func(c *config) { c.printType = fn }
}

// IdentSpaces sets the indentation width. Defaults differ per form: 2 for
// builder output, 4 for surface output.
func IdentSpaces(n int) Option {
	return func(c *config) { c.identSpaces = n }
}

// WithObjectToCode installs a fallback renderer for constant values the
// literal renderer does not recognize.
func WithObjectToCode(otc ObjectToCode) Option {
	return func(c *config) { c.objectToCode = otc }
}

// WithMetaResolver supplies the resolver used for delegate invoke-method
// lookups. One resolver per process is typical; its cache is internal.
func WithMetaResolver(m *expr.MetaResolver) Option {
	return func(c *config) { c.meta = m }
}

func newConfig(defaultIndent int, opts []Option) config {
	c := config{identSpaces: defaultIndent}
	for _, o := range opts {
		o(&c)
	}
	if c.identSpaces <= 0 {
		c.identSpaces = defaultIndent
	}
	if c.meta == nil {
		c.meta = &expr.MetaResolver{}
	}
	return c
}

// Registries exposes the three identity arenas a builder render populated,
// in declaration order, so callers can pre-size the arrays the emitted code
// indexes into.
type Registries struct {
	Params []*expr.ParameterExpr
	Exprs  []expr.Expr
	Labels []*expr.LabelTarget
}

// notSupported is the marker every unsupported construct degrades to. The
// kind name follows the marker in the output.
const notSupported = "NOT SUPPORTED"
