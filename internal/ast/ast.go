// Package ast defines the tagged-sum AST (Type, Expr, Stmt, Module) that the
// parser builds and the type checker annotates in place, per spec.md
// section 3. Every node is allocated from a single compile-time Arena
// (internal/arena) and lives for the entire compilation.
package ast

import "fmt"

// Pos is a source position, carried by every node for diagnostics
// ("<file>:<line>" per spec.md section 6/7).
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d", p.File, p.Line) }

// Node is the base interface shared by Type, Expr, and Stmt.
type Node interface {
	Position() Pos
}

// Module is the unit of translation: an ordered sequence of Stmt plus the
// originating filename, after import splicing (spec.md section 3/4.3).
type Module struct {
	Filename string
	Stmts    []Stmt
}
