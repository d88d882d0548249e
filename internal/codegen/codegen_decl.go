package codegen

import (
	"fmt"
	"strings"

	"github.com/arenalang/snc/internal/ast"
)

// isShared reports whether f receives the caller's arena directly rather
// than owning its own (spec.md section 4.6: explicit `shared` modifier, or
// implicit promotion for a function returning a heap type).
func isShared(f *ast.FunctionStmt) bool {
	return f.Modifier == ast.ModShared || isHeapReturning(f.ReturnType)
}

// signature renders f's C parameter list, including the leading
// `RtArena *` for shared functions (spec.md section 4.6/6, invariant 5).
func (g *Generator) signature(f *ast.FunctionStmt) string {
	var parts []string
	if isShared(f) {
		parts = append(parts, "RtArena *__arena__")
	}
	for _, p := range f.Params {
		parts = append(parts, fmt.Sprintf("%s %s", cType(p.Type), cIdent(p.Name)))
	}
	if f.IsVariadic {
		parts = append(parts, "...")
	}
	if len(parts) == 0 {
		return "void"
	}
	return joinC(parts, ", ")
}

func (g *Generator) returnCType(f *ast.FunctionStmt) string {
	if f.Name == "main" && (f.ReturnType == nil || f.ReturnType.String() == "void") {
		return "int"
	}
	if f.ReturnType == nil {
		return "void"
	}
	return cType(f.ReturnType)
}

func (g *Generator) forwardDeclare(f *ast.FunctionStmt) {
	if f.IsNative {
		return
	}
	fmt.Fprintf(&g.buf, "%s %s(%s);\n", g.returnCType(f), cIdent(f.Name), g.signature(f))
}

// emitFunction lowers a single top-level function, per spec.md section 4.6:
// a private/default function creates its own arena at entry and destroys it
// at a single exit label; a shared function reuses the caller's.
func (g *Generator) emitFunction(f *ast.FunctionStmt) {
	if f.IsNative {
		return
	}
	prevFn := g.fn
	shared := isShared(f)
	ctx := &funcCtx{
		name:       f.Name,
		exitLabel:  f.Name + "_return",
		ownsArena:  !shared,
		returnType: f.ReturnType,
	}
	if shared {
		ctx.arenaVar = "__arena__"
	} else {
		ctx.arenaVar = g.nextArenaName()
	}
	g.fn = ctx

	g.table.PushScope(true)
	for _, p := range f.Params {
		g.table.AddParam(p.Name, p.Type, p.MemQual)
	}

	retC := g.returnCType(f)
	fmt.Fprintf(&g.buf, "%s %s(%s) {\n", retC, cIdent(f.Name), g.signature(f))
	if retC != "void" {
		fmt.Fprintf(&g.buf, "\t%s _return_value;\n", retC)
	}
	if ctx.ownsArena {
		fmt.Fprintf(&g.buf, "\tRtArena *%s = rt_arena_create(NULL);\n", ctx.arenaVar)
	}
	g.pushArena(ctx.arenaVar)

	for _, s := range f.Body {
		g.emitStmt(s, 1)
	}
	g.popArena()

	fmt.Fprintf(&g.buf, "%s:\n", ctx.exitLabel)
	if ctx.ownsArena {
		fmt.Fprintf(&g.buf, "\trt_arena_destroy(%s);\n", ctx.arenaVar)
	}
	switch {
	case f.Name == "main":
		g.buf.WriteString("\treturn 0;\n")
	case retC == "void":
		g.buf.WriteString("\treturn;\n")
	default:
		g.buf.WriteString("\treturn _return_value;\n")
	}
	g.buf.WriteString("}\n")

	g.table.PopScope()
	g.fn = prevFn
}

func indent(depth int) string { return strings.Repeat("\t", depth) }
