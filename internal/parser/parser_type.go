package parser

import (
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/lexer"
)

// parseType parses a type reference: a primitive keyword, an identifier
// naming an opaque/typedef type, or either followed by one or more `[]`
// array suffixes (spec.md section 3).
func (p *Parser) parseType() ast.Type {
	pos := p.pos()
	var base ast.Type

	switch p.cur.Kind {
	case lexer.KW_INT:
		base = ast.NewPrimitive(pos, ast.PInt)
		p.advance()
	case lexer.KW_LONG:
		base = ast.NewPrimitive(pos, ast.PLong)
		p.advance()
	case lexer.KW_DOUBLE:
		base = ast.NewPrimitive(pos, ast.PDouble)
		p.advance()
	case lexer.KW_CHAR:
		base = ast.NewPrimitive(pos, ast.PChar)
		p.advance()
	case lexer.KW_STR:
		base = ast.NewPrimitive(pos, ast.PString)
		p.advance()
	case lexer.KW_BOOL:
		base = ast.NewPrimitive(pos, ast.PBool)
		p.advance()
	case lexer.KW_BYTE:
		base = ast.NewPrimitive(pos, ast.PByte)
		p.advance()
	case lexer.KW_VOID:
		base = ast.NewPrimitive(pos, ast.PVoid)
		p.advance()
	case lexer.NATIVE:
		p.advance()
		p.expect(lexer.FN, "expected 'fn' after 'native' in type position")
		base = p.parseFunctionTypeTail(pos, true)
	case lexer.FN:
		p.advance()
		base = p.parseFunctionTypeTail(pos, false)
	case lexer.IDENT:
		name := p.cur.Lexeme
		p.advance()
		base = ast.NewOpaque(pos, name)
	default:
		p.errorAt(p.cur, "PAR009", "expected a type")
		return ast.NewPrimitive(pos, ast.PVoid)
	}

	for p.check(lexer.LBRACKET) && p.checkPeek(lexer.RBRACKET) {
		p.advance()
		p.advance()
		base = ast.NewArray(pos, base)
	}
	return base
}

// parseFunctionTypeTail parses "(params) [...] : ret" after `fn`/`native fn`
// has already been consumed, used both for native-callback `type` aliases
// and for first-class function type annotations.
func (p *Parser) parseFunctionTypeTail(pos ast.Pos, native bool) *ast.FunctionType {
	p.expect(lexer.LPAREN, "expected '(' in function type")
	var params []ast.Type
	variadic := false
	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		if p.check(lexer.ELLIPSIS) {
			p.advance()
			variadic = true
			break
		}
		params = append(params, p.parseType())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "expected ')' to close function type parameters")
	var ret ast.Type = ast.NewPrimitive(pos, ast.PVoid)
	if p.match(lexer.COLON) {
		ret = p.parseType()
	}
	return ast.NewFunction(pos, ret, params, nil, variadic, native, "")
}
