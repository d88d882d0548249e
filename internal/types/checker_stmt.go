package types

import (
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/symtab"
)

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		c.checkVarDecl(n)
	case *ast.FunctionStmt:
		c.checkFunction(n)
	case *ast.ExprStmt:
		c.checkExpr(n.X)
	case *ast.ReturnStmt:
		c.checkReturn(n)
	case *ast.BlockStmt:
		c.checkBlock(n)
	case *ast.IfStmt:
		c.checkIf(n)
	case *ast.WhileStmt:
		c.checkWhile(n)
	case *ast.ForStmt:
		c.checkFor(n)
	case *ast.ForEachStmt:
		c.checkForEach(n)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.report(errors.TYP012, "'break' outside a loop", n.Pos)
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.report(errors.TYP012, "'continue' outside a loop", n.Pos)
		}
	case *ast.ImportStmt, *ast.PragmaStmt, *ast.TypeDeclStmt:
		// nothing further to check; resolved during declareTopLevel.
	}
}

func (c *Checker) checkVarDecl(n *ast.VarDeclStmt) {
	var initType ast.Type
	if n.Init != nil {
		initType = c.checkExpr(n.Init)
	}
	if n.Type == nil {
		n.Type = initType
	} else if initType != nil && !assignable(n.Type, initType) {
		c.report(errors.TYP001, "cannot initialise "+n.Type.String()+" variable with "+initType.String(), n.Pos)
	} else if lit, ok := n.Init.(*ast.ArrayExpr); ok && len(lit.Elements) == 0 {
		// An empty array literal infers element type `any` on its own; once
		// it's known to initialise a concretely-typed declaration, adopt
		// that element type so codegen lowers it to the declared type's
		// runtime array helpers rather than the generic `any` ones.
		if want, ok := n.Type.(*ast.ArrayType); ok {
			lit.SetType(want)
			initType = want
		}
	}
	sym := c.table.AddSymbolFull(n.Name, n.Type, symtab.KindLocal, n.MemQual)
	if spawn, ok := n.Init.(*ast.ThreadSpawnExpr); ok {
		_ = spawn
		if err := c.table.MarkPending(n.Name); err != nil {
			c.report(errors.TYP010, err.Error(), n.Pos)
		}
		sym.FrozenArgs = c.spawnCaptures(spawn)
	}
}

// spawnCaptures freezes every plain-variable argument of a spawned call and
// returns their names, so the later sync can unfreeze them (spec.md
// section 5).
func (c *Checker) spawnCaptures(spawn *ast.ThreadSpawnExpr) []string {
	call, ok := spawn.Call.(*ast.CallExpr)
	if !ok {
		return nil
	}
	var names []string
	for _, arg := range call.Args {
		if v, ok := arg.(*ast.VariableExpr); ok {
			c.table.FreezeSymbol(v.Name)
			names = append(names, v.Name)
		}
	}
	return names
}

func (c *Checker) checkFunction(n *ast.FunctionStmt) {
	c.table.PushScope(true)
	defer c.reportPendingOnPop(n.Pos)

	for _, p := range n.Params {
		c.table.AddParam(p.Name, p.Type, p.MemQual)
	}
	c.funcReturnType = append(c.funcReturnType, n.ReturnType)
	if n.Modifier == ast.ModPrivate {
		c.privateDepth++
	}

	for _, s := range n.Body {
		c.checkStmt(s)
	}

	if n.Modifier == ast.ModPrivate {
		c.privateDepth--
	}
	c.funcReturnType = c.funcReturnType[:len(c.funcReturnType)-1]
}

func (c *Checker) reportPendingOnPop(pos ast.Pos) {
	for _, name := range c.table.PopScope() {
		c.report(errors.TYP009, "thread handle "+name+" left scope without sync", pos)
	}
}

func (c *Checker) checkReturn(n *ast.ReturnStmt) {
	var retType ast.Type
	if n.Value != nil {
		retType = c.checkExpr(n.Value)
	}
	if len(c.funcReturnType) == 0 {
		return
	}
	want := c.funcReturnType[len(c.funcReturnType)-1]
	switch {
	case want == nil || want.String() == "void":
		if n.Value != nil {
			c.report(errors.TYP006, "function declared void cannot return a value", n.Pos)
		}
	case n.Value == nil:
		c.report(errors.TYP006, "function declared "+want.String()+" must return a value", n.Pos)
	case !assignable(want, retType):
		c.report(errors.TYP006, "cannot return "+retType.String()+" from a function declared "+want.String(), n.Pos)
	default:
		if c.privateDepth > 0 && ast.IsReferenceType(retType) && !c.valOptedOut(n.Value) {
			c.report(errors.TYP007, "reference-typed value escapes a 'private' scope; annotate the variable 'as val' to deep-copy it out", n.Pos)
		}
	}
}

// valOptedOut reports whether expr's value is exempt from the private
// escape check: either a variable declared `as val` (already deep-copied
// on assignment) or an explicit as-val conversion.
func (c *Checker) valOptedOut(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.AsValExpr:
		return true
	case *ast.VariableExpr:
		sym := c.table.LookupSymbol(e.Name)
		return sym != nil && sym.MemQual == ast.MemQualVal
	}
	return false
}

func (c *Checker) checkBlock(n *ast.BlockStmt) {
	c.table.PushScope(n.Modifier != ast.ModNone)
	if n.Modifier == ast.ModPrivate {
		c.privateDepth++
	}
	for _, s := range n.Stmts {
		c.checkStmt(s)
	}
	if n.Modifier == ast.ModPrivate {
		c.privateDepth--
	}
	c.reportPendingOnPop(n.Pos)
}

func (c *Checker) checkCondition(cond ast.Expr, pos ast.Pos) {
	t := c.checkExpr(cond)
	if t == nil {
		return
	}
	if p, ok := t.(*ast.PrimitiveType); !ok || (p.Kind != ast.PBool && p.Kind != ast.PAny) {
		c.report(errors.TYP005, "condition must be 'bool', got "+t.String(), pos)
	}
}

func (c *Checker) checkIf(n *ast.IfStmt) {
	c.checkCondition(n.Cond, n.Pos)
	c.checkStmt(n.Then)
	if n.Else != nil {
		c.checkStmt(n.Else)
	}
}

func (c *Checker) checkWhile(n *ast.WhileStmt) {
	c.checkCondition(n.Cond, n.Pos)
	c.loopDepth++
	c.table.PushScope(n.IsShared)
	c.checkStmt(n.Body)
	c.reportPendingOnPop(n.Pos)
	c.loopDepth--
}

func (c *Checker) checkFor(n *ast.ForStmt) {
	c.table.PushScope(n.IsShared)
	if n.Init != nil {
		c.checkStmt(n.Init)
	}
	if n.Cond != nil {
		c.checkCondition(n.Cond, n.Pos)
	}
	if n.Incr != nil {
		c.checkExpr(n.Incr)
	}
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.reportPendingOnPop(n.Pos)
}

func (c *Checker) checkForEach(n *ast.ForEachStmt) {
	iterType := c.checkExpr(n.Iterable)
	c.table.PushScope(n.IsShared)
	elemType := ast.Type(ast.TAny)
	if arr, ok := iterType.(*ast.ArrayType); ok {
		elemType = arr.Elem
	} else if iterType != nil {
		c.report(errors.TYP001, "'for ... in' requires an array, got "+iterType.String(), n.Pos)
	}
	c.table.AddSymbol(n.Var, elemType)
	c.loopDepth++
	c.checkStmt(n.Body)
	c.loopDepth--
	c.reportPendingOnPop(n.Pos)
}
