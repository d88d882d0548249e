package parser

import (
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/lexer"
)

// declaration dispatches the top-level/suite-level grammar:
// declaration := varDecl | fnDecl | nativeFnDecl | typeDecl | pragma
//              | import | statement   (spec.md section 4.3).
func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.check(lexer.VAR):
		return p.varDecl()
	case p.check(lexer.FN):
		return p.fnDecl()
	case p.check(lexer.NATIVE):
		return p.nativeFnDecl()
	case p.check(lexer.TYPE):
		return p.typeDecl()
	case p.check(lexer.IMPORT):
		return p.importDecl()
	case p.check(lexer.PRAGMA_INCLUDE), p.check(lexer.PRAGMA_LINK):
		return p.pragmaDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) terminator() {
	switch {
	case p.match(lexer.SEMI):
	case p.match(lexer.NEWLINE):
	case p.check(lexer.EOF), p.check(lexer.DEDENT):
	default:
		p.errorAt(p.cur, "PAR004", "expected end of statement")
	}
}

// varDecl := 'var' IDENT (':' type ('as' ('val'|'ref'))?)? ('=' expr)? terminator
func (p *Parser) varDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'var'
	name := p.expect(lexer.IDENT, "expected variable name after 'var'").Lexeme

	var typ ast.Type
	q := ast.MemQualNone
	if p.match(lexer.COLON) {
		typ = p.parseType()
		if p.match(lexer.AS) {
			switch {
			case p.match(lexer.VAL):
				q = ast.MemQualVal
			case p.match(lexer.REF):
				q = ast.MemQualRef
			default:
				p.errorAt(p.cur, "PAR004", "expected 'val' or 'ref' after 'as'")
			}
		}
	}

	var init ast.Expr
	// Sized-array-alloc sugar: var x: T[expr] = default (spec.md 4.3).
	if typ != nil && p.check(lexer.LBRACKET) && !p.checkPeek(lexer.RBRACKET) {
		p.advance()
		size := p.expression()
		p.expect(lexer.RBRACKET, "expected ']' to close sized-array size")
		var def ast.Expr
		if p.match(lexer.ASSIGN) {
			def = p.expression()
		}
		init = &ast.SizedArrayAllocExpr{ExprBase: ast.ExprBase{Pos: pos}, ElemType: typ, Size: size, Default: def}
		typ = ast.NewArray(pos, typ)
		p.terminator()
		return ast.NewVarDecl(pos, name, typ, init, q)
	}

	if p.match(lexer.ASSIGN) {
		init = p.expression()
	}
	p.terminator()
	return ast.NewVarDecl(pos, name, typ, init, q)
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		pname := p.expect(lexer.IDENT, "expected parameter name").Lexeme
		var ptype ast.Type
		q := ast.MemQualNone
		if p.match(lexer.COLON) {
			ptype = p.parseType()
		}
		if p.match(lexer.AS) {
			switch {
			case p.match(lexer.VAL):
				q = ast.MemQualVal
			case p.match(lexer.REF):
				q = ast.MemQualRef
			}
		}
		params = append(params, ast.Param{Name: pname, Type: ptype, MemQual: q})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) parseModifier() ast.FuncMod {
	switch {
	case p.match(lexer.SHARED):
		return ast.ModShared
	case p.match(lexer.PRIVATE):
		return ast.ModPrivate
	default:
		return ast.ModNone
	}
}

// fnDecl := 'fn' IDENT ('(' params? ')')? ['shared'|'private'] (':' type)? '=>' suite
func (p *Parser) fnDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'fn'
	name := p.expect(lexer.IDENT, "expected function name after 'fn'").Lexeme
	var params []ast.Param
	if p.match(lexer.LPAREN) {
		params = p.parseParams()
		p.expect(lexer.RPAREN, "expected ')' to close parameter list")
	}
	mod := p.parseModifier()
	var ret ast.Type = ast.NewPrimitive(pos, ast.PVoid)
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	p.expect(lexer.FARROW, "expected '=>' before function body")
	body := p.suiteStmts()
	return ast.NewFunction(pos, name, params, ret, body, mod, false, false)
}

// nativeFnDecl := 'native' 'fn' IDENT '(' params? ('...')? ')' mod? (':' type)? (terminator | '=>' suite)
func (p *Parser) nativeFnDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'native'
	p.expect(lexer.FN, "expected 'fn' after 'native'")
	name := p.expect(lexer.IDENT, "expected function name after 'fn'").Lexeme
	p.expect(lexer.LPAREN, "expected '(' after function name")
	var params []ast.Param
	variadic := false
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		if p.check(lexer.ELLIPSIS) {
			p.advance()
			variadic = true
			break
		}
		pname := p.expect(lexer.IDENT, "expected parameter name").Lexeme
		var ptype ast.Type
		if p.match(lexer.COLON) {
			ptype = p.parseType()
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "expected ')' to close parameter list")
	mod := p.parseModifier()
	var ret ast.Type = ast.NewPrimitive(pos, ast.PVoid)
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	var body []ast.Stmt
	if p.check(lexer.FARROW) {
		p.advance()
		body = p.suiteStmts()
	} else {
		p.terminator()
	}
	return ast.NewFunction(pos, name, params, ret, body, mod, true, variadic)
}

// typeDecl := 'type' IDENT '=' ('opaque' | 'native' 'fn' '(' ... ')' ':' type)
func (p *Parser) typeDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'type'
	name := p.expect(lexer.IDENT, "expected type name after 'type'").Lexeme
	p.expect(lexer.ASSIGN, "expected '=' in type declaration")

	var typ ast.Type
	switch {
	case p.match(lexer.OPAQUE):
		typ = ast.NewOpaque(pos, name)
	case p.check(lexer.NATIVE):
		p.advance()
		p.expect(lexer.FN, "expected 'fn' after 'native' in type declaration")
		ft := p.parseFunctionTypeTail(pos, true)
		ft.TypedefName = name
		typ = ft
	default:
		p.errorAt(p.cur, "PAR006", "expected 'opaque' or 'native fn' in type declaration")
	}
	p.terminator()
	return &ast.TypeDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Name: name, Type: typ}
}

// importDecl := 'import' STRING ('as' IDENT)? terminator
func (p *Parser) importDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'import'
	pathTok := p.expect(lexer.STRING, "expected module path string after 'import'")
	path := pathTok.Lexeme
	if pathTok.Literal != nil {
		path = pathTok.Literal.String
	}
	ns := ""
	if p.match(lexer.AS) {
		ns = p.expect(lexer.IDENT, "expected namespace identifier after 'as'").Lexeme
	}
	p.terminator()
	return &ast.ImportStmt{StmtBase: ast.StmtBase{Pos: pos}, ModulePath: path, Namespace: ns}
}

func (p *Parser) pragmaDecl() ast.Stmt {
	pos := p.pos()
	kind := "include"
	if p.check(lexer.PRAGMA_LINK) {
		kind = "link"
	}
	tok := p.cur
	p.advance()
	value := tok.Lexeme
	if tok.Literal != nil {
		value = tok.Literal.String
	}
	p.terminator()
	return &ast.PragmaStmt{StmtBase: ast.StmtBase{Pos: pos}, Kind: kind, Value: value}
}

// suiteStmts returns a suite's statements, per:
// suite := NEWLINE INDENT declaration+ DEDENT | single-statement
func (p *Parser) suiteStmts() []ast.Stmt {
	if p.match(lexer.NEWLINE) {
		p.expect(lexer.INDENT, "expected an indented block")
		var stmts []ast.Stmt
		for !p.check(lexer.DEDENT) && !p.check(lexer.EOF) {
			if p.match(lexer.NEWLINE) {
				continue
			}
			s := p.declaration()
			if s != nil {
				stmts = append(stmts, s)
			}
			if p.panicMode {
				p.synchronize()
			}
		}
		p.expect(lexer.DEDENT, "expected a dedent to close the block")
		return stmts
	}
	s := p.declaration()
	if s == nil {
		return nil
	}
	return []ast.Stmt{s}
}

// suite wraps suiteStmts as a single Stmt (a BlockStmt when more than one
// statement resulted, otherwise the bare statement), for use as the body
// of if/while/for/for-each.
func (p *Parser) suite() ast.Stmt {
	pos := p.pos()
	stmts := p.suiteStmts()
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &ast.BlockStmt{StmtBase: ast.StmtBase{Pos: pos}, Stmts: stmts}
}
