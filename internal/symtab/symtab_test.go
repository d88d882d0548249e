package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
)

func TestBuiltinsRegistered(t *testing.T) {
	tbl := New(arena.New(0))
	printSym := tbl.LookupSymbol("print")
	require.NotNil(t, printSym)
	assert.True(t, printSym.IsFunction)
}

func TestPushPopScopeRefusesGlobal(t *testing.T) {
	tbl := New(arena.New(0))
	assert.Panics(t, func() { tbl.PopScope() })
}

func TestLookupWalksChain(t *testing.T) {
	tbl := New(arena.New(0))
	tbl.AddSymbol("x", ast.TInt)
	tbl.PushScope(false)
	sym := tbl.LookupSymbol("x")
	require.NotNil(t, sym)
	assert.Nil(t, tbl.LookupSymbolCurrent("x"))
}

func TestRedeclareUpdatesInPlace(t *testing.T) {
	tbl := New(arena.New(0))
	tbl.AddSymbol("x", ast.TInt)
	tbl.AddSymbol("x", ast.TString)
	sym := tbl.LookupSymbolCurrent("x")
	require.NotNil(t, sym)
	assert.True(t, ast.TypeEquals(sym.Type, ast.TString))
}

func TestThreadStateTransitions(t *testing.T) {
	tbl := New(arena.New(0))
	tbl.AddSymbol("h", ast.TInt)
	require.NoError(t, tbl.MarkPending("h"))
	assert.Error(t, tbl.MarkPending("h"))
	require.NoError(t, tbl.MarkSynchronized("h"))
	assert.Error(t, tbl.MarkSynchronized("h"))
}

func TestFreezeUnfreeze(t *testing.T) {
	tbl := New(arena.New(0))
	tbl.AddSymbol("x", ast.TInt)
	tbl.FreezeSymbol("x")
	tbl.FreezeSymbol("x")
	sym := tbl.LookupSymbol("x")
	assert.True(t, sym.Frozen)
	assert.Equal(t, 2, sym.FreezeCount)
	tbl.UnfreezeSymbol("x")
	assert.True(t, sym.Frozen)
	tbl.UnfreezeSymbol("x")
	assert.False(t, sym.Frozen)
}

func TestPopScopeReportsPendingHandles(t *testing.T) {
	tbl := New(arena.New(0))
	tbl.PushScope(false)
	tbl.AddSymbol("h", ast.TInt)
	require.NoError(t, tbl.MarkPending("h"))
	pending := tbl.PopScope()
	assert.Equal(t, []string{"h"}, pending)
}

func TestNamespaceLookup(t *testing.T) {
	tbl := New(arena.New(0))
	ns := tbl.AddNamespace("mathlib")
	tbl.AddFunctionToNamespace(ns, "sqrt", []ast.Type{ast.TDouble}, ast.TDouble)
	assert.True(t, tbl.IsNamespace("mathlib"))
	sym := tbl.LookupInNamespace("mathlib", "sqrt")
	require.NotNil(t, sym)
	assert.True(t, sym.IsFunction)
}
