package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/internal/arena"
)

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	a := arena.New(0)
	l := New(src, "t.sn", a)
	var out []Kind
	for {
		tok := l.NextToken()
		out = append(out, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	return out
}

func TestIndentDedentBasic(t *testing.T) {
	src := "fn main =>\n    var x = 1\n    var y = 2\n"
	ks := kinds(t, src)
	require.Contains(t, ks, INDENT)
	require.Contains(t, ks, DEDENT)
	assert.Equal(t, EOF, ks[len(ks)-1])
}

func TestNestedIndentMultipleDedent(t *testing.T) {
	src := "fn main =>\n    if true =>\n        var x = 1\n    var y = 2\n"
	ks := kinds(t, src)
	indentCount, dedentCount := 0, 0
	for _, k := range ks {
		if k == INDENT {
			indentCount++
		}
		if k == DEDENT {
			dedentCount++
		}
	}
	assert.Equal(t, 2, indentCount)
	assert.Equal(t, 2, dedentCount)
}

func TestBlankAndCommentLinesIgnored(t *testing.T) {
	src := "fn main =>\n    var x = 1\n\n    // a comment\n    var y = 2\n"
	ks := kinds(t, src)
	newlineCount := 0
	for _, k := range ks {
		if k == NEWLINE {
			newlineCount++
		}
	}
	assert.Equal(t, 3, newlineCount)
}

func TestTabsRejected(t *testing.T) {
	src := "fn main =>\n\tvar x = 1\n"
	ks := kinds(t, src)
	assert.Contains(t, ks, ERROR)
}

func TestInconsistentDedent(t *testing.T) {
	src := "fn main =>\n        var x = 1\n    var y = 2\n"
	ks := kinds(t, src)
	assert.Contains(t, ks, ERROR)
}

func TestIntLongDoubleLiterals(t *testing.T) {
	a := arena.New(0)
	l := New("1 2l 3.14 4.5d", "t.sn", a)
	tok := l.NextToken()
	assert.Equal(t, INT, tok.Kind)
	assert.EqualValues(t, 1, tok.Literal.Int)
	tok = l.NextToken()
	assert.Equal(t, LONG, tok.Kind)
	assert.EqualValues(t, 2, tok.Literal.Int)
	tok = l.NextToken()
	assert.Equal(t, DOUBLE, tok.Kind)
	assert.InDelta(t, 3.14, tok.Literal.Double, 1e-9)
	tok = l.NextToken()
	assert.Equal(t, DOUBLE, tok.Kind)
}

func TestStringEscapes(t *testing.T) {
	a := arena.New(0)
	l := New(`"hi\n\"there\""`, "t.sn", a)
	tok := l.NextToken()
	assert.Equal(t, STRING, tok.Kind)
	assert.Equal(t, "hi\n\"there\"", tok.Literal.String)
}

func TestInterpolatedStringPreservesBraces(t *testing.T) {
	a := arena.New(0)
	l := New(`$"v={x+1} and {"nested"}"`, "t.sn", a)
	tok := l.NextToken()
	assert.Equal(t, INTERPOL_STRING, tok.Kind)
	assert.Contains(t, tok.Literal.String, "{x+1}")
	assert.Contains(t, tok.Literal.String, `{"nested"}`)
}

func TestEmptyCharLiteralErrors(t *testing.T) {
	a := arena.New(0)
	l := New(`''`, "t.sn", a)
	tok := l.NextToken()
	assert.Equal(t, ERROR, tok.Kind)
}

func TestOperators(t *testing.T) {
	ks := kinds(t, "a == b != c <= d >= e && f || !g ++ -- => .. ...")
	want := []Kind{IDENT, EQ, IDENT, NEQ, IDENT, LTE, IDENT, GTE, IDENT, AND, IDENT, OR, BANG, IDENT, INCR, DECR, FARROW, DOTDOT, ELLIPSIS, EOF}
	assert.Equal(t, want, ks)
}

func TestPragmas(t *testing.T) {
	ks := kinds(t, "#include \"stdio.h\"\n#link \"m\"\n")
	assert.Contains(t, ks, PRAGMA_INCLUDE)
	assert.Contains(t, ks, PRAGMA_LINK)
}

func TestSpawnMarker(t *testing.T) {
	ks := kinds(t, "var h = @spawn work()\n")
	assert.Contains(t, ks, SPAWN)
}
