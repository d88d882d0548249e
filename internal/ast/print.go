package ast

import (
	"fmt"
	"strings"
)

// Dump renders a compact, human-readable form of an expression tree. It is
// used by test golden output and by diagnostic hints, not by code
// generation.
func Dump(n Node) string {
	switch v := n.(type) {
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", Dump(v.Left), v.Op, Dump(v.Right))
	case *UnaryExpr:
		return fmt.Sprintf("(%s%s)", v.Op, Dump(v.Operand))
	case *LiteralExpr:
		return fmt.Sprintf("<%s literal>", v.Kind)
	case *VariableExpr:
		return v.Name
	case *AssignExpr:
		return fmt.Sprintf("(%s = %s)", Dump(v.Target), Dump(v.Value))
	case *CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = Dump(a)
		}
		return fmt.Sprintf("%s(%s)", Dump(v.Callee), strings.Join(args, ", "))
	case *MemberExpr:
		return fmt.Sprintf("%s.%s", Dump(v.Object), v.Name)
	case *ArrayExpr:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = Dump(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ArrayAccessExpr:
		return fmt.Sprintf("%s[%s]", Dump(v.Array), Dump(v.Index))
	case *ThreadSpawnExpr:
		return "@spawn " + Dump(v.Call)
	case *ThreadSyncExpr:
		return Dump(v.Handle) + "!"
	case *AsValExpr:
		return fmt.Sprintf("(%s as val)", Dump(v.Operand))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", n)
	}
}
