// Package types implements the type checker of spec.md section 4.5:
// numeric promotion, memory-qualifier escape analysis for `private`
// scopes, and the thread-handle state machine, all reported through the
// same errors.Collector the parser uses (spec.md section 7, "collect as
// many user-visible errors as possible in one run; on any accumulated
// error, skip code generation").
package types

import (
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/symtab"
)

// threadHandleType is the opaque nominal type assigned to a `@spawn`
// expression's result; the runtime's actual RtThreadHandle * representation is
// outside the checker's concern (internal/runtime only emits its extern
// contract).
var threadHandleType = ast.NewOpaque(ast.Pos{}, "ThreadHandle")

// Checker walks a spliced, parsed Module and annotates every Expr's type in
// place via Expr.SetType, per the invariant that no Expr may reach
// internal/codegen with a nil type.
type Checker struct {
	table *symtab.Table
	errs  *errors.Collector
	file  string

	funcReturnType []ast.Type // stack, one entry per enclosing function
	privateDepth   int        // >0 while inside a `private` fn/block
	loopDepth      int
}

// New creates a Checker sharing table (already primed with built-ins by
// symtab.New) and reporting into errs.
func New(table *symtab.Table, errs *errors.Collector, file string) *Checker {
	return &Checker{table: table, errs: errs, file: file}
}

// Check runs the two-phase walk spec.md section 4.4 describes: first
// register every top-level function/type signature (so mutual recursion
// and out-of-order calls resolve), then type-check every statement body.
func (c *Checker) Check(mod *ast.Module) {
	c.declareTopLevel(mod.Stmts)
	for _, s := range mod.Stmts {
		c.checkStmt(s)
	}
	for _, sym := range c.table.Global.Symbols {
		if sym.ThreadState == symtab.ThreadPending {
			c.report(errors.TYP009, "thread handle "+sym.Name+" left module scope without sync", ast.Pos{File: c.file})
		}
	}
}

func (c *Checker) report(code, msg string, pos ast.Pos) {
	c.errs.Add(errors.New("typecheck", code, msg, &errors.Span{File: pos.File, Line: pos.Line}))
}

// declareTopLevel pre-registers every function and type declaration so
// forward references resolve during the body-checking pass.
func (c *Checker) declareTopLevel(stmts []ast.Stmt) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.FunctionStmt:
			params := make([]ast.Type, len(d.Params))
			for i, p := range d.Params {
				params[i] = p.Type
			}
			if d.IsNative {
				c.table.AddNativeFunction(d.Name, params, d.ReturnType, d.IsVariadic)
			} else {
				c.table.AddFunction(d.Name, params, d.ReturnType, false)
			}
		case *ast.TypeDeclStmt:
			c.table.AddSymbolWithKind(d.Name, d.Type, symtab.KindType)
		case *ast.ImportStmt:
			if d.Namespace != "" {
				c.table.AddNamespace(d.Namespace)
			}
		}
	}
}
