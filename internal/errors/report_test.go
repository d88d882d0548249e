package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndAsReport(t *testing.T) {
	r := New("typecheck", TYP001, "type mismatch", &Span{File: "main.sn", Line: 3})
	err := WrapReport(r)
	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, TYP001, got.Code)
}

func TestAsReportFailsForPlainError(t *testing.T) {
	_, ok := AsReport(errors.New("boom"))
	assert.False(t, ok)
}

func TestParserMessageFormat(t *testing.T) {
	r := New("parser", PAR001, "unexpected token", &Span{File: "a.sn", Line: 5})
	assert.Equal(t, "[a.sn:5] Error at 'fn': unexpected token", r.ParserMessage("fn"))
}

func TestTypeMessageFormat(t *testing.T) {
	r := New("typecheck", TYP001, "cannot assign str to int", &Span{File: "a.sn", Line: 7})
	assert.Equal(t, "a.sn:7: Type error: cannot assign str to int", r.TypeMessage())
}

func TestToJSONDeterministic(t *testing.T) {
	r := New("typecheck", TYP001, "boom", nil).WithData("b", 2).WithData("a", 1)
	s1, err := r.ToJSON(true)
	require.NoError(t, err)
	s2, err := r.ToJSON(true)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, []string{"a", "b"}, r.SortedDataKeys())
}

func TestCollectorAccumulates(t *testing.T) {
	var c Collector
	assert.False(t, c.HasErrors())
	c.Add(New("typecheck", TYP002, "undefined variable x", nil))
	c.Add(New("typecheck", TYP001, "type mismatch", nil))
	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Count())
}
