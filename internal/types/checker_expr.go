package types

import (
	"strconv"

	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/symtab"
)

// assignable reports whether a value of type from may be stored into a
// location declared as type want: structural equality, `any` wildcard, or
// numeric widening (spec.md section 4.5's promotion rules apply to
// assignment as well as arithmetic).
func assignable(want, from ast.Type) bool {
	if want == nil || from == nil {
		return true
	}
	if ast.TypeEquals(want, from) {
		return true
	}
	if ast.IsNumeric(want) && ast.IsNumeric(from) {
		return ast.PromotionRank(want.(*ast.PrimitiveType).Kind) >= ast.PromotionRank(from.(*ast.PrimitiveType).Kind)
	}
	return false
}

// checkExpr type-checks e, memoises the result on e via SetType, and
// returns it.
func (c *Checker) checkExpr(e ast.Expr) ast.Type {
	if e == nil {
		return nil
	}
	t := c.infer(e)
	e.SetType(t)
	return t
}

func (c *Checker) infer(e ast.Expr) ast.Type {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return ast.NewPrimitive(n.Pos, n.Kind)
	case *ast.VariableExpr:
		return c.inferVariable(n)
	case *ast.AssignExpr:
		return c.inferAssign(n)
	case *ast.IndexAssignExpr:
		return c.inferIndexAssign(n)
	case *ast.BinaryExpr:
		return c.inferBinary(n)
	case *ast.UnaryExpr:
		return c.inferUnary(n)
	case *ast.IncrementExpr:
		return c.inferIncDec(n.Target, n.Pos)
	case *ast.DecrementExpr:
		return c.inferIncDec(n.Target, n.Pos)
	case *ast.CallExpr:
		return c.inferCall(n)
	case *ast.ArrayExpr:
		return c.inferArray(n)
	case *ast.ArrayAccessExpr:
		return c.inferArrayAccess(n)
	case *ast.ArraySliceExpr:
		return c.inferArraySlice(n)
	case *ast.RangeExpr:
		c.checkExpr(n.Start)
		c.checkExpr(n.End)
		return ast.NewArray(n.Pos, ast.TInt)
	case *ast.SpreadExpr:
		return c.checkExpr(n.Operand)
	case *ast.InterpolatedExpr:
		return c.inferInterpolated(n)
	case *ast.MemberExpr:
		return c.inferMember(n)
	case *ast.StaticCallExpr:
		return c.inferStaticCall(n)
	case *ast.SizedArrayAllocExpr:
		if n.Size != nil {
			c.checkExpr(n.Size)
		}
		if n.Default != nil {
			c.checkExpr(n.Default)
		}
		return ast.NewArray(n.Pos, n.ElemType)
	case *ast.ThreadSpawnExpr:
		c.checkExpr(n.Call)
		return threadHandleType
	case *ast.ThreadSyncExpr:
		return c.inferSync(n)
	case *ast.SyncListExpr:
		for _, el := range n.Elems {
			c.checkExpr(el)
		}
		return ast.NewArray(n.Pos, threadHandleType)
	case *ast.AsValExpr:
		return c.checkExpr(n.Operand)
	case *ast.LambdaExpr:
		return c.inferLambda(n)
	default:
		return nil
	}
}

func (c *Checker) inferVariable(n *ast.VariableExpr) ast.Type {
	sym := c.table.LookupSymbol(n.Name)
	if sym == nil {
		c.report(errors.TYP002, "undefined variable "+n.Name, n.Pos)
		return ast.TAny
	}
	if sym.ThreadState == 1 {
		c.report(errors.TYP009, "thread handle "+n.Name+" used before being synced with '!'", n.Pos)
	}
	return sym.Type
}

func (c *Checker) inferAssign(n *ast.AssignExpr) ast.Type {
	v, ok := n.Target.(*ast.VariableExpr)
	var targetType ast.Type
	var targetSym *symtab.Symbol
	if ok {
		sym := c.table.LookupSymbol(v.Name)
		if sym == nil {
			c.report(errors.TYP002, "undefined variable "+v.Name, n.Pos)
		} else {
			if sym.Frozen {
				c.report(errors.TYP008, "cannot assign to "+v.Name+": captured by a pending thread spawn", n.Pos)
			}
			targetType = sym.Type
			targetSym = sym
		}
	} else {
		targetType = c.checkExpr(n.Target)
	}
	valType := c.checkExpr(n.Value)
	if targetType != nil && valType != nil && !assignable(targetType, valType) {
		c.report(errors.TYP001, "cannot assign "+valType.String()+" to "+targetType.String(), n.Pos)
	}
	if c.privateDepth > 0 && targetSym != nil && targetSym.ArenaDepth < c.table.Current().ArenaDepth &&
		ast.IsReferenceType(valType) && !c.valOptedOut(n.Value) {
		c.report(errors.TYP007, "reference-typed value escapes a 'private' scope; annotate the value 'as val' to deep-copy it out", n.Pos)
	}
	if targetType != nil {
		return targetType
	}
	return valType
}

func (c *Checker) inferIndexAssign(n *ast.IndexAssignExpr) ast.Type {
	arrType := c.checkExpr(n.Array)
	c.checkExpr(n.Index)
	valType := c.checkExpr(n.Value)
	arr, ok := arrType.(*ast.ArrayType)
	if !ok {
		if arrType != nil {
			c.report(errors.TYP001, "cannot index into non-array type "+arrType.String(), n.Pos)
		}
		return valType
	}
	if valType != nil && !assignable(arr.Elem, valType) {
		c.report(errors.TYP001, "cannot assign "+valType.String()+" into "+arr.Elem.String()+"[]", n.Pos)
	}
	return arr.Elem
}

func (c *Checker) inferIncDec(target ast.Expr, pos ast.Pos) ast.Type {
	t := c.checkExpr(target)
	if t != nil && !ast.IsNumeric(t) {
		c.report(errors.TYP004, "'++'/'--' require a numeric operand, got "+t.String(), pos)
	}
	return t
}

func (c *Checker) inferBinary(n *ast.BinaryExpr) ast.Type {
	lt := c.checkExpr(n.Left)
	rt := c.checkExpr(n.Right)
	switch n.Op {
	case "+":
		if isStringType(lt) || isStringType(rt) {
			if !ast.IsPrintable(lt) || !ast.IsPrintable(rt) {
				c.report(errors.TYP004, "operands of string '+' must be printable", n.Pos)
			}
			return ast.TString
		}
		fallthrough
	case "-", "*", "/", "%":
		if !ast.IsNumeric(lt) || !ast.IsNumeric(rt) {
			c.report(errors.TYP004, "arithmetic operator '"+n.Op+"' requires numeric operands", n.Pos)
			return ast.TAny
		}
		if p := ast.Promote(lt, rt); p != nil {
			return p
		}
		return lt
	case "<", "<=", ">", ">=":
		if !ast.IsNumeric(lt) || !ast.IsNumeric(rt) {
			c.report(errors.TYP004, "comparison '"+n.Op+"' requires numeric operands", n.Pos)
		}
		return ast.TBool
	case "==", "!=":
		return ast.TBool
	case "&&", "||":
		if !isBoolType(lt) || !isBoolType(rt) {
			c.report(errors.TYP004, "'"+n.Op+"' requires bool operands", n.Pos)
		}
		return ast.TBool
	}
	return ast.TAny
}

func (c *Checker) inferUnary(n *ast.UnaryExpr) ast.Type {
	t := c.checkExpr(n.Operand)
	switch n.Op {
	case "!":
		if t != nil && !isBoolType(t) {
			c.report(errors.TYP004, "'!' requires a bool operand", n.Pos)
		}
		return ast.TBool
	case "-":
		if t != nil && !ast.IsNumeric(t) {
			c.report(errors.TYP004, "unary '-' requires a numeric operand", n.Pos)
		}
		return t
	}
	return t
}

func (c *Checker) inferCall(n *ast.CallExpr) ast.Type {
	if mem, ok := n.Callee.(*ast.MemberExpr); ok {
		return c.inferMethodCall(mem, n)
	}
	v, ok := n.Callee.(*ast.VariableExpr)
	if !ok {
		c.checkExpr(n.Callee)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return ast.TAny
	}
	sym := c.table.LookupSymbol(v.Name)
	if sym == nil {
		c.report(errors.TYP002, "undefined function "+v.Name, n.Pos)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return ast.TAny
	}
	ft, ok := sym.Type.(*ast.FunctionType)
	if !ok {
		c.report(errors.TYP001, v.Name+" is not callable", n.Pos)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return ast.TAny
	}
	c.checkArgs(ft, n.Args, n.Pos, v.Name)
	return ft.Return
}

func (c *Checker) checkArgs(ft *ast.FunctionType, args []ast.Expr, pos ast.Pos, name string) {
	if ft.IsVariadic {
		if len(args) < len(ft.Params) {
			c.report(errors.TYP003, "too few arguments to "+name, pos)
		}
	} else if len(args) != len(ft.Params) {
		c.report(errors.TYP003, "wrong number of arguments to "+name, pos)
	}
	for i, a := range args {
		at := c.checkExpr(a)
		if i < len(ft.Params) && at != nil && !assignable(ft.Params[i], at) {
			c.report(errors.TYP001, "argument "+name+" expects "+ft.Params[i].String()+", got "+at.String(), pos)
		}
	}
}

func (c *Checker) inferArray(n *ast.ArrayExpr) ast.Type {
	var elem ast.Type
	for _, el := range n.Elements {
		t := c.checkExpr(el)
		if elem == nil {
			elem = t
		}
	}
	if elem == nil {
		elem = ast.TAny
	}
	return ast.NewArray(n.Pos, elem)
}

func (c *Checker) inferArrayAccess(n *ast.ArrayAccessExpr) ast.Type {
	at := c.checkExpr(n.Array)
	c.checkExpr(n.Index)
	if arr, ok := at.(*ast.ArrayType); ok {
		return arr.Elem
	}
	if at != nil {
		c.report(errors.TYP001, "cannot index into non-array type "+at.String(), n.Pos)
	}
	return ast.TAny
}

func (c *Checker) inferArraySlice(n *ast.ArraySliceExpr) ast.Type {
	at := c.checkExpr(n.Array)
	if n.Start != nil {
		c.checkExpr(n.Start)
	}
	if n.End != nil {
		c.checkExpr(n.End)
	}
	if n.Step != nil {
		c.checkExpr(n.Step)
	}
	if _, ok := at.(*ast.ArrayType); !ok && at != nil {
		c.report(errors.TYP001, "cannot slice non-array type "+at.String(), n.Pos)
		return ast.TAny
	}
	return at
}

func (c *Checker) inferInterpolated(n *ast.InterpolatedExpr) ast.Type {
	for i, e := range n.Exprs {
		t := c.checkExpr(e)
		if t != nil && !ast.IsPrintable(t) {
			c.report(errors.TYP004, "interpolated expression #"+strconv.Itoa(i)+" is not printable", n.Pos)
		}
	}
	return ast.TString
}

func (c *Checker) inferMember(n *ast.MemberExpr) ast.Type {
	ot := c.checkExpr(n.Object)
	if arr, ok := ot.(*ast.ArrayType); ok {
		switch n.Name {
		case "length":
			return ast.TInt
		}
		_ = arr
	}
	c.report(errors.TYP011, "unknown member '"+n.Name+"' on "+typeStringOrAny(ot), n.Pos)
	return ast.TAny
}

func (c *Checker) inferMethodCall(mem *ast.MemberExpr, call *ast.CallExpr) ast.Type {
	ot := c.checkExpr(mem.Object)
	arr, isArray := ot.(*ast.ArrayType)
	if !isArray {
		if ot != nil {
			c.report(errors.TYP011, "unknown method '"+mem.Name+"' on "+ot.String(), call.Pos)
		}
		for _, a := range call.Args {
			c.checkExpr(a)
		}
		return ast.TAny
	}
	switch mem.Name {
	case "push":
		c.checkArgsExact([]ast.Type{arr.Elem}, call.Args, call.Pos, "push")
		return ast.TVoid
	case "pop":
		c.checkArgsExact(nil, call.Args, call.Pos, "pop")
		return arr.Elem
	case "clear":
		c.checkArgsExact(nil, call.Args, call.Pos, "clear")
		return ast.TVoid
	case "concat":
		c.checkArgsExact([]ast.Type{arr}, call.Args, call.Pos, "concat")
		return arr
	default:
		c.report(errors.TYP011, "unknown array method '"+mem.Name+"'", call.Pos)
		for _, a := range call.Args {
			c.checkExpr(a)
		}
		return ast.TAny
	}
}

func (c *Checker) checkArgsExact(want []ast.Type, args []ast.Expr, pos ast.Pos, name string) {
	if len(args) != len(want) {
		c.report(errors.TYP003, "wrong number of arguments to ."+name, pos)
	}
	for i, a := range args {
		at := c.checkExpr(a)
		if i < len(want) && at != nil && !assignable(want[i], at) {
			c.report(errors.TYP001, "argument to ."+name+" expects "+want[i].String()+", got "+at.String(), pos)
		}
	}
}

// inferStaticCall type-checks `TypeName.method(args)` calls (e.g.
// `int.parse("42")`); these resolve against a small fixed table of
// conversion/parse methods on the primitive types rather than the symbol
// table, since primitives carry no declaration site of their own.
func (c *Checker) inferStaticCall(n *ast.StaticCallExpr) ast.Type {
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	switch n.TypeName + "." + n.Method {
	case "int.parse", "long.parse":
		return ast.TInt
	case "double.parse":
		return ast.TDouble
	case "str.from":
		return ast.TString
	default:
		c.report(errors.TYP011, "unknown static method "+n.TypeName+"."+n.Method, n.Pos)
		return ast.TAny
	}
}

func (c *Checker) inferSync(n *ast.ThreadSyncExpr) ast.Type {
	if list, ok := n.Handle.(*ast.SyncListExpr); ok {
		for _, el := range list.Elems {
			if v, ok := el.(*ast.VariableExpr); ok {
				c.syncVariable(v)
			} else {
				c.checkExpr(el)
			}
		}
		return ast.NewArray(n.Pos, ast.TAny)
	}
	if v, ok := n.Handle.(*ast.VariableExpr); ok {
		return c.syncVariable(v)
	}
	return c.checkExpr(n.Handle)
}

func (c *Checker) syncVariable(v *ast.VariableExpr) ast.Type {
	sym := c.table.LookupSymbol(v.Name)
	if sym == nil {
		c.report(errors.TYP002, "undefined variable "+v.Name, v.Pos)
		return ast.TAny
	}
	if err := c.table.SyncVariable(v.Name, sym.FrozenArgs); err != nil {
		c.report(errors.TYP010, err.Error(), v.Pos)
	}
	v.SetType(sym.Type)
	return sym.Type
}

func (c *Checker) inferLambda(n *ast.LambdaExpr) ast.Type {
	c.table.PushScope(true)
	for _, p := range n.Params {
		c.table.AddParam(p.Name, p.Type, p.MemQual)
	}
	var ret ast.Type = ast.TAny
	if n.Body != nil {
		ret = c.checkExpr(n.Body)
	} else {
		c.funcReturnType = append(c.funcReturnType, n.ReturnType)
		for _, s := range n.BodyStmts {
			c.checkStmt(s)
		}
		c.funcReturnType = c.funcReturnType[:len(c.funcReturnType)-1]
		if n.ReturnType != nil {
			ret = n.ReturnType
		}
	}
	c.reportPendingOnPop(n.Pos)
	params := make([]ast.Type, len(n.Params))
	quals := make([]ast.MemQual, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Type
		quals[i] = p.MemQual
	}
	return ast.NewFunction(n.Pos, ret, params, quals, false, n.IsNative, "")
}

func isStringType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.PString
}

func isBoolType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && (p.Kind == ast.PBool || p.Kind == ast.PAny)
}

func typeStringOrAny(t ast.Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

