package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/arenalang/snc/internal/ast"
)

// cExpr renders e as a C expression fragment, dispatching on its
// checker-assigned type for runtime-helper suffix selection (spec.md
// section 4.6).
func (g *Generator) cExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return cLiteral(n)
	case *ast.VariableExpr:
		return cIdent(n.Name)
	case *ast.AssignExpr:
		return fmt.Sprintf("(%s = %s)", g.cExpr(n.Target), g.cExpr(n.Value))
	case *ast.IndexAssignExpr:
		return fmt.Sprintf("(%s[%s] = %s)", g.cExpr(n.Array), g.cExpr(n.Index), g.cExpr(n.Value))
	case *ast.BinaryExpr:
		return g.cBinary(n)
	case *ast.UnaryExpr:
		return g.cUnary(n)
	case *ast.IncrementExpr:
		if n.Prefix {
			return fmt.Sprintf("(++%s)", g.cExpr(n.Target))
		}
		return fmt.Sprintf("(%s++)", g.cExpr(n.Target))
	case *ast.DecrementExpr:
		if n.Prefix {
			return fmt.Sprintf("(--%s)", g.cExpr(n.Target))
		}
		return fmt.Sprintf("(%s--)", g.cExpr(n.Target))
	case *ast.CallExpr:
		return g.cCall(n)
	case *ast.ArrayExpr:
		return g.cArrayLiteral(n)
	case *ast.ArrayAccessExpr:
		return fmt.Sprintf("%s[%s]", g.cExpr(n.Array), g.cExpr(n.Index))
	case *ast.ArraySliceExpr:
		return g.cArraySlice(n)
	case *ast.RangeExpr:
		return fmt.Sprintf("/* range */ %s, %s", g.cExpr(n.Start), g.cExpr(n.End))
	case *ast.SpreadExpr:
		return fmt.Sprintf("/* spread */ %s", g.cExpr(n.Operand))
	case *ast.InterpolatedExpr:
		return g.cInterpolated(n)
	case *ast.MemberExpr:
		return g.cMember(n)
	case *ast.StaticCallExpr:
		return g.cStaticCall(n)
	case *ast.SizedArrayAllocExpr:
		return g.cSizedAlloc(n)
	case *ast.ThreadSpawnExpr:
		return g.cThreadSpawn(n)
	case *ast.ThreadSyncExpr:
		return g.cThreadSync(n)
	case *ast.SyncListExpr:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = g.cExpr(el)
		}
		return "{" + joinC(parts, ", ") + "}"
	case *ast.AsValExpr:
		return g.cAsVal(n)
	case *ast.LambdaExpr:
		return g.cLambda(n)
	default:
		return "/* GEN001: unhandled expr */"
	}
}

func cLiteral(n *ast.LiteralExpr) string {
	lit := n.Literal
	if lit == nil {
		return "0"
	}
	switch {
	case lit.HasString:
		return strconv.Quote(lit.String)
	case lit.HasDouble:
		return strconv.FormatFloat(lit.Double, 'g', -1, 64)
	case lit.HasInt:
		return strconv.FormatInt(lit.Int, 10) + "L"
	case lit.HasChar:
		return "'" + strings.ReplaceAll(string(lit.Char), "'", "\\'") + "'"
	case lit.HasBool:
		if lit.Bool {
			return "1"
		}
		return "0"
	default:
		return "0"
	}
}

func (g *Generator) cBinary(n *ast.BinaryExpr) string {
	lt := g.inferredType(n.Left)
	rt := g.inferredType(n.Right)
	l := g.cExpr(n.Left)
	r := g.cExpr(n.Right)
	switch n.Op {
	case "+":
		if isStringPrim(lt) || isStringPrim(rt) {
			ls, rs := l, r
			if !isStringPrim(lt) {
				ls = fmt.Sprintf("rt_to_string_%s(%s, %s)", suffix(lt), g.curArena(), l)
			}
			if !isStringPrim(rt) {
				rs = fmt.Sprintf("rt_to_string_%s(%s, %s)", suffix(rt), g.curArena(), r)
			}
			return fmt.Sprintf("rt_string_concat(%s, %s, %s)", g.curArena(), ls, rs)
		}
		return fmt.Sprintf("rt_add_%s(%s, %s)", suffix(promoted(lt, rt)), l, r)
	case "-":
		return fmt.Sprintf("rt_sub_%s(%s, %s)", suffix(promoted(lt, rt)), l, r)
	case "*":
		return fmt.Sprintf("rt_mul_%s(%s, %s)", suffix(promoted(lt, rt)), l, r)
	case "/":
		return fmt.Sprintf("rt_div_%s(%s, %s)", suffix(promoted(lt, rt)), l, r)
	case "%":
		return fmt.Sprintf("rt_mod_long(%s, %s)", l, r)
	case "<", "<=", ">", ">=", "==", "!=":
		return fmt.Sprintf("(%s %s %s)", l, n.Op, r)
	case "&&", "||":
		return fmt.Sprintf("(%s %s %s)", l, n.Op, r)
	default:
		return fmt.Sprintf("(%s %s %s)", l, n.Op, r)
	}
}

func promoted(a, b ast.Type) ast.Type {
	if p := ast.Promote(a, b); p != nil {
		return p
	}
	return a
}

func (g *Generator) cUnary(n *ast.UnaryExpr) string {
	x := g.cExpr(n.Operand)
	switch n.Op {
	case "-":
		return fmt.Sprintf("rt_neg_%s(%s)", suffix(g.inferredType(n.Operand)), x)
	case "!":
		return fmt.Sprintf("(!%s)", x)
	default:
		return fmt.Sprintf("(%s%s)", n.Op, x)
	}
}

func (g *Generator) cCall(n *ast.CallExpr) string {
	if mem, ok := n.Callee.(*ast.MemberExpr); ok {
		return g.cMethodCall(mem, n)
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.cExpr(a)
	}
	if v, ok := n.Callee.(*ast.VariableExpr); ok {
		if sym := g.table.LookupSymbol(v.Name); sym != nil {
			if ft, ok := sym.Type.(*ast.FunctionType); ok {
				shared := sym.FuncMod == ast.ModShared || isHeapReturning(ft.Return)
				if shared && !sym.IsNative {
					args = append([]string{g.curArena()}, args...)
				}
			}
		}
	}
	return fmt.Sprintf("%s(%s)", cIdent(calleeName(n.Callee)), joinC(args, ", "))
}

func calleeName(e ast.Expr) string {
	if v, ok := e.(*ast.VariableExpr); ok {
		return v.Name
	}
	return "/* GEN001: indirect call */"
}

func (g *Generator) cMethodCall(mem *ast.MemberExpr, call *ast.CallExpr) string {
	obj := g.cExpr(mem.Object)
	elemSuffix := arraySuffix(g.inferredType(mem.Object))
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = g.cExpr(a)
	}
	switch mem.Name {
	case "push":
		return fmt.Sprintf("(%s = rt_array_push_%s(%s, %s, %s))", obj, elemSuffix, g.curArena(), obj, joinC(args, ", "))
	case "pop":
		return fmt.Sprintf("rt_array_pop_%s(%s, NULL)", elemSuffix, obj)
	case "clear":
		return fmt.Sprintf("(%s = rt_array_create_%s(%s, 0, NULL))", obj, elemSuffix, g.curArena())
	case "concat":
		return fmt.Sprintf("rt_array_concat_%s(%s, %s, %s)", elemSuffix, g.curArena(), obj, joinC(args, ", "))
	default:
		return fmt.Sprintf("/* GEN001: unknown method .%s */", mem.Name)
	}
}

func (g *Generator) cArrayLiteral(n *ast.ArrayExpr) string {
	elemType := ast.Type(ast.TAny)
	if len(n.Elements) > 0 {
		elemType = g.inferredType(n.Elements[0])
	} else if arr, ok := g.inferredType(n).(*ast.ArrayType); ok {
		// An empty literal's own element type is `any` unless checkVarDecl
		// narrowed it to the declared variable's element type.
		elemType = arr.Elem
	}
	parts := make([]string, len(n.Elements))
	for i, el := range n.Elements {
		parts[i] = g.cExpr(el)
	}
	init := fmt.Sprintf("(%s[]){%s}", cArrayElemType(elemType), joinC(parts, ", "))
	return fmt.Sprintf("rt_array_create_%s(%s, %d, %s)", suffix(elemType), g.curArena(), len(n.Elements), init)
}

func (g *Generator) cArraySlice(n *ast.ArraySliceExpr) string {
	elemSuffix := arraySuffix(g.inferredType(n.Array))
	start, end, step := "0", "-1", "1"
	if n.Start != nil {
		start = g.cExpr(n.Start)
	}
	if n.End != nil {
		end = g.cExpr(n.End)
	}
	if n.Step != nil {
		step = g.cExpr(n.Step)
	}
	return fmt.Sprintf("rt_array_slice_%s(%s, %s, %s, %s, %s)", elemSuffix, g.curArena(), g.cExpr(n.Array), start, end, step)
}

func (g *Generator) cInterpolated(n *ast.InterpolatedExpr) string {
	var parts []string
	for i, lit := range n.Parts {
		if lit != "" {
			parts = append(parts, strconv.Quote(lit))
		}
		if i < len(n.Exprs) {
			t := g.inferredType(n.Exprs[i])
			val := g.cExpr(n.Exprs[i])
			if !isStringPrim(t) {
				val = fmt.Sprintf("rt_to_string_%s(%s, %s)", suffix(t), g.curArena(), val)
			}
			parts = append(parts, val)
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	result := parts[0]
	for _, p := range parts[1:] {
		result = fmt.Sprintf("rt_string_concat(%s, %s, %s)", g.curArena(), result, p)
	}
	return result
}

func (g *Generator) cMember(n *ast.MemberExpr) string {
	if n.Name == "length" {
		return fmt.Sprintf("rt_array_length(%s)", g.cExpr(n.Object))
	}
	return fmt.Sprintf("/* GEN001: unknown member .%s */", n.Name)
}

func (g *Generator) cStaticCall(n *ast.StaticCallExpr) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.cExpr(a)
	}
	return fmt.Sprintf("%s_%s(%s)", n.TypeName, n.Method, joinC(args, ", "))
}

func (g *Generator) cSizedAlloc(n *ast.SizedArrayAllocExpr) string {
	size := g.cExpr(n.Size)
	def := "NULL"
	if n.Default != nil {
		def = g.cExpr(n.Default)
	}
	return fmt.Sprintf("rt_array_create_%s(%s, %s, %s)", suffix(n.ElemType), g.curArena(), size, def)
}

// cThreadSpawn emits the spawn wrapper call (spec.md section 4.6: "Each
// thread_spawn gets a wrapper function taking a captured-arg struct").
func (g *Generator) cThreadSpawn(n *ast.ThreadSpawnExpr) string {
	call, ok := n.Call.(*ast.CallExpr)
	if !ok {
		return "/* GEN001: spawn of non-call */"
	}
	g.lambdaCounter++
	id := g.lambdaCounter
	wrapper := fmt.Sprintf("__thread_wrapper_%d__", id)
	argsStruct := fmt.Sprintf("__thread_args_%d__", id)
	name := calleeName(call.Callee)

	var fields []string
	for i, a := range call.Args {
		fields = append(fields, fmt.Sprintf("\t%s arg%d;", cType(g.inferredType(a)), i))
	}
	var fwd strings.Builder
	fmt.Fprintf(&fwd, "typedef struct { %s } %s;\n", joinC(fields, " "), argsStruct)
	fmt.Fprintf(&fwd, "void *%s(void *raw);\n", wrapper)

	var body strings.Builder
	fmt.Fprintf(&body, "void *%s(void *raw) {\n", wrapper)
	fmt.Fprintf(&body, "\t%s *a = (%s *)raw;\n", argsStruct, argsStruct)
	var callArgs []string
	for i := range call.Args {
		callArgs = append(callArgs, fmt.Sprintf("a->arg%d", i))
	}
	fmt.Fprintf(&body, "\treturn (void *)%s(%s);\n", cIdent(name), joinC(callArgs, ", "))
	body.WriteString("}\n")
	g.lambdas = append(g.lambdas, lambdaUnit{forward: fwd.String(), body: body.String()})

	var initFields []string
	for i, a := range call.Args {
		initFields = append(initFields, fmt.Sprintf(".arg%d = %s", i, g.cExpr(a)))
	}
	argsLit := fmt.Sprintf("(%s){%s}", argsStruct, joinC(initFields, ", "))
	return fmt.Sprintf("rt_thread_spawn(%s, &%s)", wrapper, argsLit)
}

func (g *Generator) cThreadSync(n *ast.ThreadSyncExpr) string {
	if list, ok := n.Handle.(*ast.SyncListExpr); ok {
		parts := make([]string, len(list.Elems))
		for i, el := range list.Elems {
			parts[i] = fmt.Sprintf("rt_thread_join(%s)", g.cExpr(el))
		}
		return "{" + joinC(parts, ", ") + "}"
	}
	return fmt.Sprintf("rt_thread_join(%s)", g.cExpr(n.Handle))
}

func (g *Generator) cAsVal(n *ast.AsValExpr) string {
	x := g.cExpr(n.Operand)
	switch {
	case n.IsNoop:
		return x
	case n.IsCstrToStr:
		return fmt.Sprintf("rt_to_string_string(%s, %s)", g.curArena(), x)
	default:
		t := g.inferredType(n.Operand)
		if arr, ok := t.(*ast.ArrayType); ok {
			return fmt.Sprintf("rt_array_clone_%s(%s, %s)", suffix(arr.Elem), g.curArena(), x)
		}
		return x
	}
}

// cLambda emits a lambda as a synthesized top-level function plus a
// __Closure__ value carrying the function pointer and the current arena.
// Captured variables are not lowered: `.captures` is always NULL, and the
// synthesized function receives only the lambda's own parameters.
func (g *Generator) cLambda(n *ast.LambdaExpr) string {
	g.lambdaCounter++
	n.LambdaID = g.lambdaCounter
	name := fmt.Sprintf("__lambda_%d__", n.LambdaID)

	var params []string
	for _, p := range n.Params {
		params = append(params, fmt.Sprintf("%s %s", cType(p.Type), cIdent(p.Name)))
	}
	retC := "void"
	if n.ReturnType != nil {
		retC = cType(n.ReturnType)
	}

	prevFn := g.fn
	g.fn = &funcCtx{name: name, exitLabel: name + "_return", returnType: n.ReturnType}
	arenaVar := g.nextArenaName()
	g.pushArena(arenaVar)

	var fwd strings.Builder
	fmt.Fprintf(&fwd, "%s %s(%s);\n", retC, name, joinC(params, ", "))

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s(%s) {\n", retC, name, joinC(params, ", "))
	if retC != "void" {
		fmt.Fprintf(&body, "\t%s _return_value;\n", retC)
	}
	fmt.Fprintf(&body, "\tRtArena *%s = rt_arena_create(NULL);\n", arenaVar)

	prevBuf := g.buf
	g.buf = bytes.Buffer{}
	g.table.PushScope(true)
	for _, p := range n.Params {
		g.table.AddParam(p.Name, p.Type, p.MemQual)
	}
	if n.Body != nil {
		fmt.Fprintf(&g.buf, "\t_return_value = %s;\n", g.cExpr(n.Body))
	} else {
		for _, s := range n.BodyStmts {
			g.emitStmt(s, 1)
		}
	}
	inner := g.buf.String()
	g.table.PopScope()
	g.buf = prevBuf

	body.WriteString(inner)
	fmt.Fprintf(&body, "%s:\n", g.fn.exitLabel)
	fmt.Fprintf(&body, "\trt_arena_destroy(%s);\n", arenaVar)
	if retC == "void" {
		body.WriteString("\treturn;\n")
	} else {
		body.WriteString("\treturn _return_value;\n")
	}
	body.WriteString("}\n")

	g.lambdas = append(g.lambdas, lambdaUnit{forward: fwd.String(), body: body.String()})
	g.popArena()
	g.fn = prevFn

	return fmt.Sprintf("((__Closure__){ .fn = (void *)%s, .arena = %s, .captures = NULL })", name, g.curArena())
}
