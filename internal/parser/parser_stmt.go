package parser

import (
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/lexer"
)

// statement parses the non-declaration statement forms of spec.md section
// 4.3: if/else, while, for, for-each, break, continue, return, bare blocks,
// and expression statements (including assignment/increment/call forms
// reached via the Pratt expression parser).
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.check(lexer.IF):
		return p.ifStmt()
	case p.check(lexer.WHILE):
		return p.whileStmt(false)
	case p.check(lexer.FOR):
		return p.forStmt(false)
	case p.check(lexer.SHARED) && p.checkPeek(lexer.WHILE):
		p.advance()
		return p.whileStmt(true)
	case p.check(lexer.SHARED) && p.checkPeek(lexer.FOR):
		p.advance()
		return p.forStmt(true)
	case p.check(lexer.SHARED) && p.checkPeek(lexer.FARROW):
		return p.modifiedBlock(ast.ModShared)
	case p.check(lexer.PRIVATE) && p.checkPeek(lexer.FARROW):
		return p.modifiedBlock(ast.ModPrivate)
	case p.check(lexer.BREAK):
		return p.breakStmt()
	case p.check(lexer.CONTINUE):
		return p.continueStmt()
	case p.check(lexer.RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) modifiedBlock(mod ast.FuncMod) ast.Stmt {
	pos := p.pos()
	p.advance() // 'shared' | 'private'
	p.expect(lexer.FARROW, "expected '=>' after block modifier")
	stmts := p.suiteStmts()
	return &ast.BlockStmt{StmtBase: ast.StmtBase{Pos: pos}, Stmts: stmts, Modifier: mod}
}

// ifStmt := 'if' expr '=>' suite ('else' (if | '=>' suite))?
func (p *Parser) ifStmt() ast.Stmt {
	pos := p.pos()
	p.advance() // 'if'
	cond := p.expression()
	p.expect(lexer.FARROW, "expected '=>' after 'if' condition")
	then := p.suite()
	var els ast.Stmt
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			els = p.ifStmt()
		} else {
			p.expect(lexer.FARROW, "expected '=>' after 'else'")
			els = p.suite()
		}
	}
	return &ast.IfStmt{StmtBase: ast.StmtBase{Pos: pos}, Cond: cond, Then: then, Else: els}
}

// whileStmt := ['shared'] 'while' expr '=>' suite
func (p *Parser) whileStmt(shared bool) ast.Stmt {
	pos := p.pos()
	p.advance() // 'while'
	cond := p.expression()
	p.expect(lexer.FARROW, "expected '=>' after 'while' condition")
	body := p.suite()
	return &ast.WhileStmt{StmtBase: ast.StmtBase{Pos: pos}, Cond: cond, Body: body, IsShared: shared}
}

// forStmt covers both the C-style and for-each forms:
//   for := ['shared'] 'for' (varDecl | exprInit)? ';' expr? ';' expr? '=>' suite
//   forEach := ['shared'] 'for' IDENT 'in' expr '=>' suite
func (p *Parser) forStmt(shared bool) ast.Stmt {
	pos := p.pos()
	p.advance() // 'for'

	if p.check(lexer.IDENT) && p.checkPeek(lexer.IN) {
		name := p.cur.Lexeme
		p.advance()
		p.advance() // 'in'
		iterable := p.expression()
		p.expect(lexer.FARROW, "expected '=>' after 'for ... in' iterable")
		body := p.suite()
		return &ast.ForEachStmt{StmtBase: ast.StmtBase{Pos: pos}, Var: name, Iterable: iterable, Body: body, IsShared: shared}
	}

	var init ast.Stmt
	if p.check(lexer.VAR) {
		init = p.varDecl()
	} else if !p.check(lexer.SEMI) {
		x := p.expression()
		p.terminator()
		init = &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: pos}, X: x}
	} else {
		p.match(lexer.SEMI)
	}

	var cond ast.Expr
	if !p.check(lexer.SEMI) {
		cond = p.expression()
	}
	p.expect(lexer.SEMI, "expected ';' after 'for' condition")

	var incr ast.Expr
	if !p.check(lexer.FARROW) {
		incr = p.expression()
	}
	p.expect(lexer.FARROW, "expected '=>' after 'for' clauses")
	body := p.suite()
	return &ast.ForStmt{StmtBase: ast.StmtBase{Pos: pos}, Init: init, Cond: cond, Incr: incr, Body: body, IsShared: shared}
}

func (p *Parser) breakStmt() ast.Stmt {
	pos := p.pos()
	p.advance()
	p.terminator()
	return &ast.BreakStmt{StmtBase: ast.StmtBase{Pos: pos}}
}

func (p *Parser) continueStmt() ast.Stmt {
	pos := p.pos()
	p.advance()
	p.terminator()
	return &ast.ContinueStmt{StmtBase: ast.StmtBase{Pos: pos}}
}

func (p *Parser) returnStmt() ast.Stmt {
	pos := p.pos()
	p.advance()
	var val ast.Expr
	if !p.check(lexer.NEWLINE) && !p.check(lexer.SEMI) && !p.check(lexer.EOF) && !p.check(lexer.DEDENT) {
		val = p.expression()
	}
	p.terminator()
	return &ast.ReturnStmt{StmtBase: ast.StmtBase{Pos: pos}, Value: val}
}

func (p *Parser) exprStmt() ast.Stmt {
	pos := p.pos()
	x := p.expression()
	p.terminator()
	return &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: pos}, X: x}
}
