package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
)

func parse(t *testing.T, src string) (*ast.Module, *errors.Collector) {
	t.Helper()
	a := arena.New(4096)
	var errs errors.Collector
	mod := ParseModule(src, "test.sn", a, &errs)
	require.NotNil(t, mod)
	return mod, &errs
}

func TestParseVarDeclWithTypeAndInit(t *testing.T) {
	mod, errs := parse(t, "var x: int = 1\n")
	require.False(t, errs.HasErrors())
	require.Len(t, mod.Stmts, 1)
	v, ok := mod.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, "int", v.Type.String())
	lit, ok := v.Init.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Literal.Int)
}

func TestParseVarDeclAsRef(t *testing.T) {
	mod, errs := parse(t, "var buf: str as ref\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	assert.Equal(t, ast.MemQualRef, v.MemQual)
}

func TestParseFunctionDecl(t *testing.T) {
	src := "fn add(a: int, b: int): int =>\n  return a + b\n"
	mod, errs := parse(t, src)
	require.False(t, errs.HasErrors())
	fn, ok := mod.Stmts[0].(*ast.FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseFunctionSingleStatementBody(t *testing.T) {
	mod, errs := parse(t, "fn zero(): int => return 0\n")
	require.False(t, errs.HasErrors())
	fn := mod.Stmts[0].(*ast.FunctionStmt)
	require.Len(t, fn.Body, 1)
	_, ok := fn.Body[0].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestParseNativeFnDecl(t *testing.T) {
	mod, errs := parse(t, "native fn puts(s: str): int\n")
	require.False(t, errs.HasErrors())
	fn := mod.Stmts[0].(*ast.FunctionStmt)
	assert.True(t, fn.IsNative)
	assert.Equal(t, "puts", fn.Name)
}

func TestParseTypeDeclOpaque(t *testing.T) {
	mod, errs := parse(t, "type Handle = opaque\n")
	require.False(t, errs.HasErrors())
	td := mod.Stmts[0].(*ast.TypeDeclStmt)
	assert.Equal(t, "Handle", td.Name)
	_, ok := td.Type.(*ast.OpaqueType)
	assert.True(t, ok)
}

func TestParseImportWithNamespace(t *testing.T) {
	mod, errs := parse(t, "import \"mathlib\" as math\n")
	require.False(t, errs.HasErrors())
	im := mod.Stmts[0].(*ast.ImportStmt)
	assert.Equal(t, "mathlib", im.ModulePath)
	assert.Equal(t, "math", im.Namespace)
}

func TestParsePragmaInclude(t *testing.T) {
	mod, errs := parse(t, "#include \"stdio.h\"\n")
	require.False(t, errs.HasErrors())
	pr := mod.Stmts[0].(*ast.PragmaStmt)
	assert.Equal(t, "include", pr.Kind)
	assert.Equal(t, "stdio.h", pr.Value)
}

func TestParseIfElse(t *testing.T) {
	src := "if x > 0 =>\n  return 1\nelse =>\n  return 0\n"
	mod, errs := parse(t, src)
	require.False(t, errs.HasErrors())
	ifs := mod.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Else)
}

func TestParseWhileShared(t *testing.T) {
	mod, errs := parse(t, "shared while running =>\n  i = i + 1\n")
	require.False(t, errs.HasErrors())
	ws := mod.Stmts[0].(*ast.WhileStmt)
	assert.True(t, ws.IsShared)
}

func TestParseForCStyle(t *testing.T) {
	src := "for var i: int = 0; i < 10; i++ =>\n  print(i)\n"
	mod, errs := parse(t, src)
	require.False(t, errs.HasErrors())
	fs := mod.Stmts[0].(*ast.ForStmt)
	require.NotNil(t, fs.Init)
	require.NotNil(t, fs.Cond)
	require.NotNil(t, fs.Incr)
}

func TestParseForEach(t *testing.T) {
	mod, errs := parse(t, "for item in items =>\n  print(item)\n")
	require.False(t, errs.HasErrors())
	fe := mod.Stmts[0].(*ast.ForEachStmt)
	assert.Equal(t, "item", fe.Var)
}

func TestParseBreakContinue(t *testing.T) {
	src := "while true =>\n  break\n  continue\n"
	mod, errs := parse(t, src)
	require.False(t, errs.HasErrors())
	ws := mod.Stmts[0].(*ast.WhileStmt)
	blk := ws.Body.(*ast.BlockStmt)
	require.Len(t, blk.Stmts, 2)
	_, ok1 := blk.Stmts[0].(*ast.BreakStmt)
	_, ok2 := blk.Stmts[1].(*ast.ContinueStmt)
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	mod, errs := parse(t, "var a = [1, 2, 3]\nvar b = a[0]\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	arr, ok := v.Init.(*ast.ArrayExpr)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)
	v2 := mod.Stmts[1].(*ast.VarDeclStmt)
	idx, ok := v2.Init.(*ast.ArrayAccessExpr)
	require.True(t, ok)
	assert.NotNil(t, idx.Index)
}

func TestParseArraySlice(t *testing.T) {
	mod, errs := parse(t, "var b = a[1..3..1]\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	sl, ok := v.Init.(*ast.ArraySliceExpr)
	require.True(t, ok)
	assert.NotNil(t, sl.Start)
	assert.NotNil(t, sl.End)
	assert.NotNil(t, sl.Step)
}

func TestParseLambdaExpressionBody(t *testing.T) {
	mod, errs := parse(t, "var f = (x: int): int => x + 1\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	lam, ok := v.Init.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	assert.NotNil(t, lam.Body)
	assert.Nil(t, lam.BodyStmts)
}

func TestParseLambdaStatementBody(t *testing.T) {
	src := "var f = (x: int): int =>\n  return x + 1\n"
	mod, errs := parse(t, src)
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	lam := v.Init.(*ast.LambdaExpr)
	require.Len(t, lam.BodyStmts, 1)
}

func TestParseThreadSpawnAndSync(t *testing.T) {
	mod, errs := parse(t, "var h = @spawn worker(1)\nvar r = h!\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	spawn, ok := v.Init.(*ast.ThreadSpawnExpr)
	require.True(t, ok)
	call, ok := spawn.Call.(*ast.CallExpr)
	require.True(t, ok)
	assert.Len(t, call.Args, 1)

	v2 := mod.Stmts[1].(*ast.VarDeclStmt)
	sync, ok := v2.Init.(*ast.ThreadSyncExpr)
	require.True(t, ok)
	assert.False(t, sync.IsArray)
}

func TestParseThreadSyncList(t *testing.T) {
	mod, errs := parse(t, "var r = [h1, h2]!\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	sync, ok := v.Init.(*ast.ThreadSyncExpr)
	require.True(t, ok)
	assert.True(t, sync.IsArray)
	list, ok := sync.Handle.(*ast.SyncListExpr)
	require.True(t, ok)
	assert.Len(t, list.Elems, 2)
}

func TestParseMemberAndMethodCall(t *testing.T) {
	mod, errs := parse(t, "var n = items.length\nvar m = items.push(3)\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	mem, ok := v.Init.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "length", mem.Name)

	v2 := mod.Stmts[1].(*ast.VarDeclStmt)
	call, ok := v2.Init.(*ast.CallExpr)
	require.True(t, ok)
	callee := call.Callee.(*ast.MemberExpr)
	assert.Equal(t, "push", callee.Name)
}

func TestParseStaticCall(t *testing.T) {
	mod, errs := parse(t, "var n = int.parse(\"42\")\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	sc, ok := v.Init.(*ast.StaticCallExpr)
	require.True(t, ok)
	assert.Equal(t, "int", sc.TypeName)
	assert.Equal(t, "parse", sc.Method)
}

func TestParseInterpolatedString(t *testing.T) {
	mod, errs := parse(t, "var s = $\"count={n}, twice={n*2}\"\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	interp, ok := v.Init.(*ast.InterpolatedExpr)
	require.True(t, ok)
	require.Len(t, interp.Exprs, 2)
	require.Len(t, interp.Parts, 3)
	_, ok = interp.Exprs[0].(*ast.VariableExpr)
	assert.True(t, ok)
	_, ok = interp.Exprs[1].(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseIncrementDecrement(t *testing.T) {
	mod, errs := parse(t, "var a = ++i\nvar b = i--\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	inc, ok := v.Init.(*ast.IncrementExpr)
	require.True(t, ok)
	assert.True(t, inc.Prefix)

	v2 := mod.Stmts[1].(*ast.VarDeclStmt)
	dec, ok := v2.Init.(*ast.DecrementExpr)
	require.True(t, ok)
	assert.False(t, dec.Prefix)
}

func TestParseSizedArrayAlloc(t *testing.T) {
	mod, errs := parse(t, "var buf: int[10] = 0\n")
	require.False(t, errs.HasErrors())
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	alloc, ok := v.Init.(*ast.SizedArrayAllocExpr)
	require.True(t, ok)
	assert.NotNil(t, alloc.Size)
	assert.NotNil(t, alloc.Default)
	_, ok = v.Type.(*ast.ArrayType)
	assert.True(t, ok)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	src := "var = = =\nvar ok: int = 1\n"
	mod, errs := parse(t, src)
	assert.True(t, errs.HasErrors())
	found := false
	for _, s := range mod.Stmts {
		if v, ok := s.(*ast.VarDeclStmt); ok && v.Name == "ok" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse the following declaration")
}

func TestParserMessageShape(t *testing.T) {
	_, errs := parse(t, "var = 1\n")
	require.True(t, errs.HasErrors())
	msg := ParserMessage(errs.Reports()[0])
	assert.Contains(t, msg, "test.sn:")
	assert.Contains(t, msg, "Error at")
}

func TestParseAssignmentAsValSuffix(t *testing.T) {
	mod, errs := parse(t, "fn main =>\n    s = \"hello\" as val\n")
	require.False(t, errs.HasErrors(), "%v", errs.Reports())
	fn := mod.Stmts[0].(*ast.FunctionStmt)
	assign := fn.Body[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	av, ok := assign.Value.(*ast.AsValExpr)
	require.True(t, ok)
	assert.False(t, av.IsNoop)
}

func TestParseAssignmentAsRefSuffix(t *testing.T) {
	mod, errs := parse(t, "fn main =>\n    s = buf as ref\n")
	require.False(t, errs.HasErrors(), "%v", errs.Reports())
	fn := mod.Stmts[0].(*ast.FunctionStmt)
	assign := fn.Body[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	av, ok := assign.Value.(*ast.AsValExpr)
	require.True(t, ok)
	assert.True(t, av.IsNoop)
}
