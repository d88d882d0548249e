package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/parser"
	"github.com/arenalang/snc/internal/symtab"
	"github.com/arenalang/snc/internal/types"
)

func check(t *testing.T, src string) *errors.Collector {
	t.Helper()
	a := arena.New(1 << 16)
	errs := &errors.Collector{}
	mod := parser.ParseModule(src, "t.sn", a, errs)
	require.False(t, errs.HasErrors(), "parse errors: %v", errs.Reports())
	table := symtab.New(a)
	types.New(table, errs, "t.sn").Check(mod)
	return errs
}

func hasCode(errs *errors.Collector, code string) bool {
	for _, r := range errs.Reports() {
		if r.Code == code {
			return true
		}
	}
	return false
}

func TestNumericPromotionIsClean(t *testing.T) {
	errs := check(t, "fn main =>\n    var pi: double = 3.14\n    var x: double = pi * 2\n")
	assert.False(t, errs.HasErrors(), "%v", errs.Reports())
}

func TestUndefinedVariableReported(t *testing.T) {
	errs := check(t, "fn main =>\n    var x: int = y\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP002"), "%v", errs.Reports())
}

func TestArityMismatchReported(t *testing.T) {
	errs := check(t, "fn add(a: int, b: int): int =>\n    return a + b\nfn main =>\n    var x: int = add(1)\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP003"), "%v", errs.Reports())
}

func TestPrivateBlockEscapeReported(t *testing.T) {
	errs := check(t, "fn main =>\n    var s: str = \"\"\n    private =>\n        s = \"hello\"\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP007"), "%v", errs.Reports())
}

func TestAsValOptsOutOfEscapeCheck(t *testing.T) {
	errs := check(t, "fn main =>\n    var s: str = \"\"\n    private =>\n        s = \"hello\" as val\n")
	assert.False(t, errs.HasErrors(), "%v", errs.Reports())
}

func TestPendingThreadHandleUseReported(t *testing.T) {
	errs := check(t, "fn work(): int =>\n    return 42\nfn main =>\n    var h = @spawn work()\n    var r: int = h\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP009"), "%v", errs.Reports())
}

func TestSyncedThreadHandleIsClean(t *testing.T) {
	errs := check(t, "fn work(): int =>\n    return 42\nfn main =>\n    var h = @spawn work()\n    var r: int = h!\n")
	assert.False(t, errs.HasErrors(), "%v", errs.Reports())
}

func TestBreakOutsideLoopReported(t *testing.T) {
	errs := check(t, "fn main =>\n    break\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP012"), "%v", errs.Reports())
}

func TestNonNumericOperandReported(t *testing.T) {
	errs := check(t, "fn main =>\n    var x: bool = true\n    var y: int = x - 1\n")
	require.True(t, errs.HasErrors())
	assert.True(t, hasCode(errs, "TYP004"), "%v", errs.Reports())
}
