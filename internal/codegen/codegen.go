// Package codegen lowers a type-checked Module to a single C translation
// unit, per spec.md section 4.6: arena plumbing per construct, control-flow
// lowering through a per-function exit label, and runtime-helper dispatch
// selected by element type. Grounded on the generator-struct-plus-buffer
// idiom common to Go-to-C/Go-to-bytecode emitters in the retrieved corpus
// (bytes.Buffer + printf-style helper methods, forward-declare-then-define).
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/symtab"
)

// fixedHeader is the §6 output-file header block.
const fixedHeader = `#include <stdlib.h>
#include <string.h>
#include <stdio.h>
#include <stdbool.h>
#include <limits.h>
#include <setjmp.h>
#include "runtime.h"
`

// lambdaUnit is a fully-lowered lambda body awaiting emission at the end of
// the translation unit (spec.md section 4.6, "Lambdas... emitted after the
// last user function").
type lambdaUnit struct {
	forward string
	body    string
}

// funcCtx tracks the state codegen needs while lowering a single function
// or lambda body: its exit label, whether it owns an arena, and the arena
// variable name in scope.
type funcCtx struct {
	name       string
	exitLabel  string
	ownsArena  bool
	arenaVar   string
	returnType ast.Type
}

// Generator walks a spliced, type-checked Module and renders C source.
type Generator struct {
	table *symtab.Table
	errs  *errors.Collector
	file  string

	buf     bytes.Buffer
	lambdas []lambdaUnit
	links   []string // #link pragma values, for the driver's linker step
	fn      *funcCtx

	arenaStack []string  // innermost-last; top is the arena new allocations use
	loops      []*loopCtx

	arenaCounter   int
	loopCounter    int
	lambdaCounter  int
	scratchCounter int
}

// New creates a Generator sharing the checked Table and reporting internal
// inconsistencies (spec.md section 4.6, "abort with a descriptive message")
// into errs.
func New(table *symtab.Table, errs *errors.Collector, file string) *Generator {
	return &Generator{table: table, errs: errs, file: file}
}

// Links returns the accumulated `#link` pragma values in source order, for
// the driver's downstream linker invocation.
func (g *Generator) Links() []string { return g.links }

// Generate renders mod into a single C translation unit. Returns an error
// only for an internal inconsistency (GEN001); caller is responsible for
// having skipped code generation on any prior checker/parser error, per
// spec.md section 7's "on any accumulated error, skip code generation".
func (g *Generator) Generate(mod *ast.Module) (string, error) {
	g.buf.WriteString(fixedHeader)
	g.buf.WriteByte('\n')

	var includes, fns []ast.Stmt
	for _, s := range mod.Stmts {
		switch p := s.(type) {
		case *ast.PragmaStmt:
			if p.Kind == "include" {
				includes = append(includes, p)
			} else {
				g.links = append(g.links, p.Value)
			}
		case *ast.FunctionStmt:
			fns = append(fns, p)
		}
	}
	for _, s := range includes {
		p := s.(*ast.PragmaStmt)
		fmt.Fprintf(&g.buf, "#include %s\n", p.Value)
	}
	g.buf.WriteByte('\n')

	g.buf.WriteString(runtimeExternBlock)
	g.buf.WriteByte('\n')

	for _, s := range fns {
		g.forwardDeclare(s.(*ast.FunctionStmt))
	}
	g.buf.WriteByte('\n')

	for _, s := range fns {
		g.emitFunction(s.(*ast.FunctionStmt))
		g.buf.WriteByte('\n')
	}

	for _, l := range g.lambdas {
		g.buf.WriteString(l.forward)
		g.buf.WriteByte('\n')
	}
	g.buf.WriteByte('\n')
	for _, l := range g.lambdas {
		g.buf.WriteString(l.body)
		g.buf.WriteByte('\n')
	}

	if g.errs.HasErrors() {
		return "", fmt.Errorf("codegen: internal inconsistency, see collected %s reports", errors.GEN001)
	}
	return g.buf.String(), nil
}

func (g *Generator) reportf(pos ast.Pos, format string, args ...any) {
	g.errs.Add(errors.New("codegen", errors.GEN001, fmt.Sprintf(format, args...), &errors.Span{File: pos.File, Line: pos.Line}))
}

func (g *Generator) nextArenaName() string {
	g.arenaCounter++
	return fmt.Sprintf("__arena_%d__", g.arenaCounter)
}

func (g *Generator) nextLoopLabel(prefix string) string {
	g.loopCounter++
	return fmt.Sprintf("%s_%d__", prefix, g.loopCounter)
}

func (g *Generator) nextScratch(prefix string) string {
	g.scratchCounter++
	return fmt.Sprintf("__%s_%d__", prefix, g.scratchCounter)
}

// isHeapReturning reports whether f's declared return type forces implicit
// promotion to `shared` (spec.md section 4.6: "Function returning
// str/array/function implicitly promoted to shared").
func isHeapReturning(t ast.Type) bool {
	return ast.IsReferenceType(t)
}

func cIdent(name string) string { return name }

func joinC(parts []string, sep string) string { return strings.Join(parts, sep) }
