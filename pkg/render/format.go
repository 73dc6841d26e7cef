package render

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/bagoum/exprtext/pkg/expr"
)

// printer is the shared emission state both renderers build on: one output
// buffer per render call, indentation proportional to depth.
type printer struct {
	buf bytes.Buffer
	cfg config
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) writef(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

// line breaks the line and indents to depth.
func (p *printer) line(depth int) {
	p.buf.WriteByte('\n')
	for i := 0; i < depth*p.cfg.identSpaces; i++ {
		p.buf.WriteByte(' ')
	}
}

// identityHash derives a short non-negative suffix from an object's pointer
// identity. Two renders of the same tree in one process see the same
// pointers, so the suffix is stable per tree.
func identityHash(v any) uint32 {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return 0
	}
	// Drop alignment zeros, keep it short.
	return uint32(rv.Pointer()>>3) & 0xffff
}

// synthName makes a human-meaningful identifier for an unnamed parameter or
// label: lowercased, namespace-stripped type name with generic and array
// punctuation replaced, plus an identity-derived suffix.
func synthName(t *expr.TypeDesc, owner any) string {
	base := "value"
	if t != nil {
		base = sanitizeIdent(simpleTypeName(t))
	}
	return fmt.Sprintf("%s__%d", strcase.ToLowerCamel(base), identityHash(owner))
}

func simpleTypeName(t *expr.TypeDesc) string {
	if t.IsArray() {
		return simpleTypeName(t.Elem) + "Array"
	}
	name := t.Name
	if len(t.TypeArgs) > 0 {
		parts := make([]string, 0, len(t.TypeArgs))
		for _, a := range t.TypeArgs {
			parts = append(parts, simpleTypeName(a))
		}
		name += "_" + strings.Join(parts, "_")
	}
	return name
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "value"
	}
	return b.String()
}

// escapeString renders s as a double-quoted source literal.
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(escapeRune(r, '"'))
	}
	b.WriteByte('"')
	return b.String()
}

// escapeChar renders r as a single-quoted character literal.
func escapeChar(r rune) string {
	return "'" + escapeRune(r, '\'') + "'"
}

func escapeRune(r rune, quote rune) string {
	switch r {
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\x00':
		return `\0`
	case quote:
		return `\` + string(quote)
	}
	if r < 0x20 {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}
