// Package loader resolves and splices `import` statements across files,
// adapted from the teacher's internal/module loader: a path-keyed cache, an
// explicit load stack for cycle detection, and search-path based resolution,
// reworked around snc's single flattened ast.Module rather than AILANG's
// module/program pair (spec.md section 4.4).
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/parser"
)

const sourceExt = ".sn"

// Loader parses an entry file and recursively splices its imports into one
// flattened Module.
type Loader struct {
	arena       *arena.Arena
	errs        *errors.Collector
	searchPaths []string

	cache   map[string]*ast.Module
	loading map[string]bool
	stack   []string
}

// New creates a Loader. searchPaths is consulted, in order, for bare
// (non-relative) import paths; a project's .snc.yml search_paths (see
// internal/config) is the usual source of this list.
func New(a *arena.Arena, errs *errors.Collector, searchPaths []string) *Loader {
	return &Loader{
		arena:       a,
		errs:        errs,
		searchPaths: searchPaths,
		cache:       make(map[string]*ast.Module),
		loading:     make(map[string]bool),
	}
}

// Load parses entryFile and returns it with every transitively imported
// module spliced in, each imported module's statements inserted in place of
// the `import` statement that pulled it in, and each distinct module
// spliced at most once (spec.md: "importing the same module twice has no
// additional effect").
func (l *Loader) Load(entryFile string) (*ast.Module, error) {
	abs, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return l.load(abs)
}

func (l *Loader) load(path string) (*ast.Module, error) {
	canon := canonicalize(path)
	if mod, ok := l.cache[canon]; ok {
		return mod, nil
	}
	if l.loading[canon] {
		l.report(errors.LDR002, fmt.Sprintf("import cycle detected: %s -> %s", strings.Join(l.stack, " -> "), canon), canon, 0)
		return &ast.Module{Filename: canon}, nil
	}

	l.loading[canon] = true
	l.stack = append(l.stack, canon)
	defer func() {
		l.loading[canon] = false
		l.stack = l.stack[:len(l.stack)-1]
	}()

	src, err := os.ReadFile(canon)
	if err != nil {
		l.report(errors.LDR001, fmt.Sprintf("imported file not found: %s", canon), canon, 0)
		return nil, fmt.Errorf("loader: %w", err)
	}

	mod := parser.ParseModule(string(src), canon, l.arena, l.errs)
	mod.Stmts = l.spliceImports(mod, canon)
	l.cache[canon] = mod
	return mod, nil
}

// spliceImports walks mod's top-level statements in order, replacing each
// ImportStmt with its resolved module's (already-spliced) statements. A
// module already spliced earlier in this same file is marked
// AlsoImportedDirectly on the later ImportStmt but contributes no further
// statements, implementing the dedup rule.
func (l *Loader) spliceImports(mod *ast.Module, canon string) []ast.Stmt {
	dir := filepath.Dir(canon)
	seen := map[string]bool{canon: true}
	added := make(map[ast.Stmt]bool)
	out := make([]ast.Stmt, 0, len(mod.Stmts))

	for _, stmt := range mod.Stmts {
		imp, ok := stmt.(*ast.ImportStmt)
		if !ok {
			out = append(out, stmt)
			continue
		}
		resolved, rerr := l.resolve(imp.ModulePath, dir)
		if rerr != nil {
			l.report(errors.LDR003, fmt.Sprintf("cannot resolve import %q: %v", imp.ModulePath, rerr), canon, imp.Position().Line)
			continue
		}
		resolvedCanon := canonicalize(resolved)
		importedMod, lerr := l.load(resolved)
		if lerr != nil {
			continue
		}
		imp.ImportedStmts = importedMod.Stmts
		if seen[resolvedCanon] {
			imp.AlsoImportedDirectly = true
			continue
		}
		seen[resolvedCanon] = true
		// Cached modules share statement pointers, so a module reached
		// through two different imports is only spliced the first time.
		for _, s := range importedMod.Stmts {
			if !added[s] {
				added[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// resolve turns an import path into an absolute file path: relative paths
// (`./x`, `../x`) are joined against the importing file's directory; bare
// paths are searched across searchPaths in order. A trailing ".sn" is
// appended when the path doesn't already carry an extension.
func (l *Loader) resolve(importPath, relativeTo string) (string, error) {
	withExt := importPath
	if filepath.Ext(withExt) == "" {
		withExt += sourceExt
	}

	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		candidate := filepath.Join(relativeTo, withExt)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("no such file: %s", candidate)
	}

	for _, root := range l.searchPaths {
		candidate := filepath.Join(root, withExt)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	// Fall back to resolving relative to the importing file, so a project
	// with no configured search paths can still import sibling files.
	candidate := filepath.Join(relativeTo, withExt)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("not found in any search path: %s", importPath)
}

func (l *Loader) report(code, msg, file string, line int) {
	l.errs.Add(errors.New("loader", code, msg, &errors.Span{File: file, Line: line}))
}

func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
