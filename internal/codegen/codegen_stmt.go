package codegen

import (
	"fmt"

	"github.com/arenalang/snc/internal/ast"
)

// loopCtx tracks the per-iteration arena (if any) and the labels break and
// continue must route through, per spec.md section 4.6's control-flow
// lowering table.
type loopCtx struct {
	arenaVar      string
	hasArena      bool
	cleanupLabel  string
	continueLabel string // set only for C-style for, else == cleanupLabel
}

func (g *Generator) pushArena(name string) { g.arenaStack = append(g.arenaStack, name) }
func (g *Generator) popArena()             { g.arenaStack = g.arenaStack[:len(g.arenaStack)-1] }
func (g *Generator) curArena() string {
	if len(g.arenaStack) == 0 {
		return "NULL"
	}
	return g.arenaStack[len(g.arenaStack)-1]
}

func (g *Generator) emitStmt(s ast.Stmt, depth int) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		g.emitVarDecl(n, depth)
	case *ast.ExprStmt:
		fmt.Fprintf(&g.buf, "%s%s;\n", indent(depth), g.cExpr(n.X))
	case *ast.ReturnStmt:
		g.emitReturn(n, depth)
	case *ast.BlockStmt:
		g.emitBlock(n, depth)
	case *ast.IfStmt:
		g.emitIf(n, depth)
	case *ast.WhileStmt:
		g.emitWhile(n, depth)
	case *ast.ForStmt:
		g.emitFor(n, depth)
	case *ast.ForEachStmt:
		g.emitForEach(n, depth)
	case *ast.BreakStmt:
		g.emitBreak(depth)
	case *ast.ContinueStmt:
		g.emitContinue(depth)
	case *ast.FunctionStmt, *ast.ImportStmt, *ast.PragmaStmt, *ast.TypeDeclStmt:
		// top-level only / already consumed.
	}
}

func (g *Generator) emitVarDecl(n *ast.VarDeclStmt, depth int) {
	sym := g.table.AddSymbol(n.Name, n.Type)
	sym.MemQual = n.MemQual
	ct := cType(n.Type)

	if n.Init == nil {
		fmt.Fprintf(&g.buf, "%s%s %s;\n", indent(depth), ct, cIdent(n.Name))
		return
	}

	init := g.cExpr(n.Init)
	if isStringPrim(n.Type) {
		init = fmt.Sprintf("rt_to_string_string(%s, %s)", g.curArena(), init)
	} else if n.MemQual == ast.MemQualVal {
		if arr, ok := n.Type.(*ast.ArrayType); ok {
			init = fmt.Sprintf("rt_array_clone_%s(%s, %s)", suffix(arr.Elem), g.curArena(), init)
		} else if isStringPrim(n.Type) {
			init = fmt.Sprintf("rt_to_string_string(%s, %s)", g.curArena(), init)
		}
	}

	if n.MemQual == ast.MemQualRef {
		fmt.Fprintf(&g.buf, "%s%s *%s = rt_arena_alloc(%s, sizeof(%s));\n", indent(depth), ct, cIdent(n.Name), g.curArena(), ct)
		fmt.Fprintf(&g.buf, "%s*%s = %s;\n", indent(depth), cIdent(n.Name), init)
		return
	}

	fmt.Fprintf(&g.buf, "%s%s %s = %s;\n", indent(depth), ct, cIdent(n.Name), init)

	if spawn, ok := n.Init.(*ast.ThreadSpawnExpr); ok {
		_ = spawn // handle lowering already emitted the wrapper in cExpr
	}
}

func isStringPrim(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PString
}

func (g *Generator) emitReturn(n *ast.ReturnStmt, depth int) {
	if n.Value != nil {
		fmt.Fprintf(&g.buf, "%s_return_value = %s;\n", indent(depth), g.cExpr(n.Value))
	}
	if g.fn != nil {
		fmt.Fprintf(&g.buf, "%sgoto %s;\n", indent(depth), g.fn.exitLabel)
	}
}

func (g *Generator) emitBlock(n *ast.BlockStmt, depth int) {
	switch n.Modifier {
	case ast.ModPrivate:
		g.table.PushScope(true)
		arenaVar := g.nextArenaName()
		fmt.Fprintf(&g.buf, "%s{\n", indent(depth))
		fmt.Fprintf(&g.buf, "%sRtArena *%s = rt_arena_create(%s);\n", indent(depth+1), arenaVar, g.curArena())
		g.pushArena(arenaVar)
		for _, s := range n.Stmts {
			g.emitStmt(s, depth+1)
		}
		g.popArena()
		fmt.Fprintf(&g.buf, "%srt_arena_destroy(%s);\n", indent(depth+1), arenaVar)
		fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
		g.table.PopScope()
	case ast.ModShared:
		g.table.PushScope(false)
		fmt.Fprintf(&g.buf, "%s{\n", indent(depth))
		for _, s := range n.Stmts {
			g.emitStmt(s, depth+1)
		}
		fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
		g.table.PopScope()
	default:
		g.table.PushScope(false)
		fmt.Fprintf(&g.buf, "%s{\n", indent(depth))
		for _, s := range n.Stmts {
			g.emitStmt(s, depth+1)
		}
		fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
		g.table.PopScope()
	}
}

func (g *Generator) emitIf(n *ast.IfStmt, depth int) {
	fmt.Fprintf(&g.buf, "%sif (%s) {\n", indent(depth), g.cExpr(n.Cond))
	g.emitAsBlockBody(n.Then, depth)
	fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
	if n.Else != nil {
		fmt.Fprintf(&g.buf, "%selse {\n", indent(depth))
		g.emitAsBlockBody(n.Else, depth)
		fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
	}
}

// emitAsBlockBody emits s's statements indented one level deeper, unwrapping
// a BlockStmt wrapper so `if`/`else` bodies don't get doubly-braced.
func (g *Generator) emitAsBlockBody(s ast.Stmt, depth int) {
	if b, ok := s.(*ast.BlockStmt); ok && b.Modifier == ast.ModNone {
		g.table.PushScope(false)
		for _, st := range b.Stmts {
			g.emitStmt(st, depth+1)
		}
		g.table.PopScope()
		return
	}
	g.emitStmt(s, depth+1)
}

func (g *Generator) emitWhile(n *ast.WhileStmt, depth int) {
	lc := g.beginLoop(n.IsShared)
	fmt.Fprintf(&g.buf, "%swhile (%s) {\n", indent(depth), g.cExpr(n.Cond))
	g.emitLoopArenaEntry(lc, depth+1)
	g.emitAsBlockBody(n.Body, depth)
	g.emitLoopArenaCleanup(lc, depth+1)
	fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
	g.endLoop(lc)
}

// emitFor lowers the C-style for statement as a while loop so that
// `continue` can route through the per-iteration cleanup label and still
// run the increment, per spec.md section 4.6's `__for_continue_<n>__` label.
func (g *Generator) emitFor(n *ast.ForStmt, depth int) {
	g.table.PushScope(false)
	fmt.Fprintf(&g.buf, "%s{\n", indent(depth))
	if n.Init != nil {
		g.emitStmt(n.Init, depth+1)
	}
	cond := "1"
	if n.Cond != nil {
		cond = g.cExpr(n.Cond)
	}
	lc := g.beginLoop(n.IsShared)
	if n.Incr != nil {
		lc.continueLabel = g.nextLoopLabel("__for_continue")
	}
	fmt.Fprintf(&g.buf, "%swhile (%s) {\n", indent(depth+1), cond)
	g.emitLoopArenaEntry(lc, depth+2)
	g.emitAsBlockBody(n.Body, depth+1)
	g.emitLoopArenaCleanup(lc, depth+2)
	if n.Incr != nil {
		fmt.Fprintf(&g.buf, "%s%s:\n", indent(depth+2), lc.continueLabel)
		fmt.Fprintf(&g.buf, "%s%s;\n", indent(depth+2), g.cExpr(n.Incr))
	}
	fmt.Fprintf(&g.buf, "%s}\n", indent(depth+1))
	g.endLoop(lc)
	fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
	g.table.PopScope()
}

// emitForEach lowers `for x in xs => body` per spec.md section 4.6's
// for-each template: array/length scratch vars, an index-driven C for,
// optional per-iteration arena.
func (g *Generator) emitForEach(n *ast.ForEachStmt, depth int) {
	g.table.PushScope(false)
	iterType := g.inferredType(n.Iterable)
	elemType := ast.Type(ast.TAny)
	if arr, ok := iterType.(*ast.ArrayType); ok {
		elemType = arr.Elem
	}
	arrVar := g.nextScratch("arr")
	lenVar := g.nextScratch("len")
	idxVar := g.nextScratch("idx")

	fmt.Fprintf(&g.buf, "%s{\n", indent(depth))
	fmt.Fprintf(&g.buf, "%s%s %s = %s;\n", indent(depth+1), cType(iterType), arrVar, g.cExpr(n.Iterable))
	fmt.Fprintf(&g.buf, "%slong %s = rt_array_length(%s);\n", indent(depth+1), lenVar, arrVar)
	fmt.Fprintf(&g.buf, "%sfor (long %s = 0; %s < %s; %s++) {\n", indent(depth+1), idxVar, idxVar, lenVar, idxVar)

	lc := g.beginLoop(n.IsShared)
	g.emitLoopArenaEntry(lc, depth+2)
	fmt.Fprintf(&g.buf, "%s%s %s = %s[%s];\n", indent(depth+2), cType(elemType), cIdent(n.Var), arrVar, idxVar)
	g.table.AddSymbol(n.Var, elemType)
	g.emitAsBlockBody(n.Body, depth+1)
	g.emitLoopArenaCleanup(lc, depth+2)
	g.endLoop(lc)

	fmt.Fprintf(&g.buf, "%s}\n", indent(depth+1))
	fmt.Fprintf(&g.buf, "%s}\n", indent(depth))
	g.table.PopScope()
}

func (g *Generator) beginLoop(isShared bool) *loopCtx {
	lc := &loopCtx{hasArena: !isShared}
	if lc.hasArena {
		lc.arenaVar = g.nextLoopLabel("__loop_arena")
		lc.cleanupLabel = g.nextLoopLabel("__loop_cleanup")
	}
	lc.continueLabel = lc.cleanupLabel
	g.loops = append(g.loops, lc)
	if lc.hasArena {
		g.pushArena(lc.arenaVar)
	}
	return lc
}

func (g *Generator) endLoop(lc *loopCtx) {
	if lc.hasArena {
		g.popArena()
	}
	g.loops = g.loops[:len(g.loops)-1]
}

func (g *Generator) emitLoopArenaEntry(lc *loopCtx, depth int) {
	if lc.hasArena {
		fmt.Fprintf(&g.buf, "%sRtArena *%s = rt_arena_create(%s);\n", indent(depth), lc.arenaVar, g.arenaStack[len(g.arenaStack)-2])
	}
}

func (g *Generator) emitLoopArenaCleanup(lc *loopCtx, depth int) {
	if lc.hasArena {
		fmt.Fprintf(&g.buf, "%s%s:\n", indent(depth), lc.cleanupLabel)
		fmt.Fprintf(&g.buf, "%srt_arena_destroy(%s);\n", indent(depth), lc.arenaVar)
	}
}

func (g *Generator) currentLoop() *loopCtx {
	if len(g.loops) == 0 {
		return nil
	}
	return g.loops[len(g.loops)-1]
}

func (g *Generator) emitBreak(depth int) {
	lc := g.currentLoop()
	if lc != nil && lc.hasArena {
		fmt.Fprintf(&g.buf, "%s{ rt_arena_destroy(%s); break; }\n", indent(depth), lc.arenaVar)
		return
	}
	fmt.Fprintf(&g.buf, "%sbreak;\n", indent(depth))
}

func (g *Generator) emitContinue(depth int) {
	lc := g.currentLoop()
	if lc != nil && lc.hasArena {
		fmt.Fprintf(&g.buf, "%sgoto %s;\n", indent(depth), lc.cleanupLabel)
		return
	}
	if lc != nil && lc.continueLabel != "" && lc.continueLabel != lc.cleanupLabel {
		fmt.Fprintf(&g.buf, "%sgoto %s;\n", indent(depth), lc.continueLabel)
		return
	}
	fmt.Fprintf(&g.buf, "%scontinue;\n", indent(depth))
}

// inferredType recovers an Expr's checker-assigned type for the scratch
// declarations emitted in for-each lowering.
func (g *Generator) inferredType(e ast.Expr) ast.Type {
	return e.GetType()
}
