package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bagoum/exprtext/pkg/expr"
)

func TestEscapeString(t *testing.T) {
	require.Equal(t, `""`, escapeString(""))
	require.Equal(t, `"plain"`, escapeString("plain"))
	require.Equal(t, `"a\"b"`, escapeString(`a"b`))
	require.Equal(t, `"back\\slash"`, escapeString(`back\slash`))
	require.Equal(t, `"line\nbreak\ttab"`, escapeString("line\nbreak\ttab"))
	require.Equal(t, `"nul\0"`, escapeString("nul\x00"))
	require.Equal(t, `"bell"`, escapeString("bell\a"))
}

func TestEscapeChar(t *testing.T) {
	require.Equal(t, `'x'`, escapeChar('x'))
	require.Equal(t, `'\''`, escapeChar('\''))
	require.Equal(t, `'"'`, escapeChar('"'))
	require.Equal(t, `'\\'`, escapeChar('\\'))
}

func TestSynthName(t *testing.T) {
	p1 := expr.Parameter(expr.IntType, "")
	p2 := expr.Parameter(expr.IntType, "")

	n1 := synthName(p1.Typ, p1)
	n2 := synthName(p2.Typ, p2)
	require.Regexp(t, `^int32__\d+$`, n1)
	require.NotEqual(t, n1, n2)

	// Stable across calls for the same node.
	require.Equal(t, n1, synthName(p1.Typ, p1))

	// Composite types flatten into identifier-safe text.
	list := expr.Named("System.Collections.Generic", "List", expr.IntType)
	require.Regexp(t, `^listInt32__\d+$`, synthName(list, p1))
	require.Regexp(t, `^int32Array__\d+$`, synthName(expr.ArrayOf(expr.IntType, 1), p1))

	require.Regexp(t, `^value__\d+$`, synthName(nil, p1))
}

func TestSanitizeIdent(t *testing.T) {
	require.Equal(t, "Foo_Bar_", sanitizeIdent("Foo<Bar>"))
	require.Equal(t, "value", sanitizeIdent(""))
}

func TestLineIndent(t *testing.T) {
	p := &printer{cfg: config{identSpaces: 3}}
	p.write("a")
	p.line(2)
	p.write("b")
	require.Equal(t, "a\n      b", p.buf.String())
}
