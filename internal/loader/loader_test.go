package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSplicesImportInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mathlib.sn", "fn square(x: int): int => return x * x\n")
	main := writeFile(t, dir, "main.sn", "import \"./mathlib\"\nvar y = square(3)\n")

	a := arena.New(4096)
	var errs errors.Collector
	l := New(a, &errs, nil)
	mod, err := l.Load(main)
	require.NoError(t, err)
	require.False(t, errs.HasErrors())

	require.Len(t, mod.Stmts, 2)
	_, ok := mod.Stmts[0].(*ast.FunctionStmt)
	assert.True(t, ok, "imported function should be spliced before the importer's own statement")
	_, ok = mod.Stmts[1].(*ast.VarDeclStmt)
	assert.True(t, ok)
}

func TestLoadDedupsDiamondImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.sn", "fn one(): int => return 1\n")
	writeFile(t, dir, "left.sn", "import \"./base\"\n")
	writeFile(t, dir, "right.sn", "import \"./base\"\n")
	main := writeFile(t, dir, "main.sn", "import \"./left\"\nimport \"./right\"\nvar x = one()\n")

	a := arena.New(4096)
	var errs errors.Collector
	l := New(a, &errs, nil)
	mod, err := l.Load(main)
	require.NoError(t, err)
	require.False(t, errs.HasErrors())

	count := 0
	for _, s := range mod.Stmts {
		if fn, ok := s.(*ast.FunctionStmt); ok && fn.Name == "one" {
			count++
		}
	}
	assert.Equal(t, 1, count, "base.sn reached via two paths must be spliced only once")
}

func TestLoadReportsCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sn", "import \"./b\"\n")
	b := writeFile(t, dir, "b.sn", "import \"./a\"\n")
	_ = b
	main := filepath.Join(dir, "a.sn")

	a := arena.New(4096)
	var errs errors.Collector
	l := New(a, &errs, nil)
	_, err := l.Load(main)
	require.NoError(t, err)
	require.True(t, errs.HasErrors())
	found := false
	for _, r := range errs.Reports() {
		if r.Code == errors.LDR002 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadReportsMissingImport(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.sn", "import \"./nope\"\n")

	a := arena.New(4096)
	var errs errors.Collector
	l := New(a, &errs, nil)
	_, err := l.Load(main)
	require.NoError(t, err)
	require.True(t, errs.HasErrors())
	assert.Equal(t, errors.LDR003, errs.Reports()[0].Code)
}
