package ast

import "github.com/arenalang/snc/internal/lexer"

// Expr is the tagged sum over expression variants (spec.md section 3).
// ExprType is a nullable memoisation cache the type checker sets exactly
// once per node (spec.md invariant: "for every Expr reaching code
// generation, expr_type != null").
type Expr interface {
	Node
	exprNode()
	GetType() Type
	SetType(Type)
}

type ExprBase struct {
	Pos Pos
	Typ Type
}

func (e *ExprBase) Position() Pos   { return e.Pos }
func (e *ExprBase) GetType() Type   { return e.Typ }
func (e *ExprBase) SetType(t Type)  { e.Typ = t }
func (*ExprBase) exprNode()         {}

type BinaryExpr struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	ExprBase
	Op      string
	Operand Expr
}

// LiteralExpr carries the decoded literal value from the lexer's tagged
// union plus the primitive kind it denotes (spec.md section 3).
type LiteralExpr struct {
	ExprBase
	Kind    PrimKind
	Literal *lexer.Literal
}

type VariableExpr struct {
	ExprBase
	Name string
}

type AssignExpr struct {
	ExprBase
	Target Expr
	Value  Expr
}

type IndexAssignExpr struct {
	ExprBase
	Array Expr
	Index Expr
	Value Expr
}

type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

type ArrayExpr struct {
	ExprBase
	Elements []Expr
}

type ArrayAccessExpr struct {
	ExprBase
	Array Expr
	Index Expr
}

// ArraySliceExpr is `a[start..end..step]`; IsFromPointer marks a slice
// taken through a boxed `as ref` pointer rather than a plain array value.
type ArraySliceExpr struct {
	ExprBase
	Array         Expr
	Start         Expr
	End           Expr
	Step          Expr
	IsFromPointer bool
}

type RangeExpr struct {
	ExprBase
	Start Expr
	End   Expr
}

type SpreadExpr struct {
	ExprBase
	Operand Expr
}

type IncrementExpr struct {
	ExprBase
	Target Expr
	Prefix bool
}

type DecrementExpr struct {
	ExprBase
	Target Expr
	Prefix bool
}

// InterpolatedExpr is a `$"...{expr}..."` literal: alternating literal
// string Parts and the Exprs parsed out of each brace fragment, plus a
// per-fragment format spec placeholder (spec.md section 4.3/4.6).
type InterpolatedExpr struct {
	ExprBase
	Parts       []string
	Exprs       []Expr
	FormatSpecs []string
}

type MemberExpr struct {
	ExprBase
	Object Expr
	Name   string
}

type StaticCallExpr struct {
	ExprBase
	TypeName string
	Method   string
	Args     []Expr
}

// SizedArrayAllocExpr is the desugaring of `var x: T[expr] = default`
// (spec.md section 4.3).
type SizedArrayAllocExpr struct {
	ExprBase
	ElemType Type
	Size     Expr
	Default  Expr
}

type ThreadSpawnExpr struct {
	ExprBase
	Call     Expr
	Modifier FuncMod
}

type ThreadSyncExpr struct {
	ExprBase
	Handle  Expr
	IsArray bool
}

type SyncListExpr struct {
	ExprBase
	Elems []Expr
}

// AsValExpr is `as val`: the operand is either already an array (noop), a
// `*char` to be turned into `str` (IsCstrToStr), or a value requiring a
// deep clone (spec.md section 4.5).
type AsValExpr struct {
	ExprBase
	Operand     Expr
	IsCstrToStr bool
	IsNoop      bool
}

// Param is a function/lambda parameter.
type Param struct {
	Name    string
	Type    Type
	MemQual MemQual
}

// LambdaExpr is `(params) [mod] [: ret] => expr|suite`. Exactly one of Body
// / BodyStmts is set depending on the expression vs. statement form.
type LambdaExpr struct {
	ExprBase
	Params     []Param
	ReturnType Type
	Body       Expr
	BodyStmts  []Stmt
	Modifier   FuncMod
	IsNative   bool
	Captures   []string
	LambdaID   int
}

func NewBinary(pos Pos, op string, l, r Expr) *BinaryExpr { return &BinaryExpr{ExprBase{Pos: pos}, op, l, r} }
func NewUnary(pos Pos, op string, x Expr) *UnaryExpr       { return &UnaryExpr{ExprBase{Pos: pos}, op, x} }
func NewVariable(pos Pos, name string) *VariableExpr       { return &VariableExpr{ExprBase{Pos: pos}, name} }
func NewLiteral(pos Pos, kind PrimKind, lit *lexer.Literal) *LiteralExpr {
	return &LiteralExpr{ExprBase{Pos: pos}, kind, lit}
}
