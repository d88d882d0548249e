// Package parser implements the recursive-descent, Pratt-shaped expression
// parser of spec.md section 4.3: tokens to AST, with indentation-discipline
// suites, panic-mode error recovery, and a sub-parser factory for
// interpolated-string fragments.
package parser

import (
	"fmt"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/lexer"
)

// Parser turns a token stream into a Module AST.
type Parser struct {
	lex       *lexer.Lexer
	arena     *arena.Arena
	file      string
	cur, peek lexer.Token
	errs      *errors.Collector
	panicMode bool
	lambdaSeq *int
}

// New creates a Parser over lx, reporting diagnostics into errs. lambdaSeq
// is a shared counter so that sub-parsers spawned for interpolated-string
// fragments (spec.md section 4.3) continue the same lambda-id sequence.
func New(lx *lexer.Lexer, a *arena.Arena, file string, errs *errors.Collector, lambdaSeq *int) *Parser {
	if lambdaSeq == nil {
		lambdaSeq = new(int)
	}
	p := &Parser{lex: lx, arena: a, file: file, errs: errs, lambdaSeq: lambdaSeq}
	p.advance()
	p.advance()
	return p
}

// nextLambdaID returns a fresh, module-wide unique lambda id.
func (p *Parser) nextLambdaID() int {
	*p.lambdaSeq++
	return *p.lambdaSeq
}

func (p *Parser) pos() ast.Pos { return ast.Pos{File: p.file, Line: p.cur.Line} }

// advance shifts cur=peek and fetches the next real token, transparently
// reporting and skipping any lexer ERROR token (spec.md section 4.2: "an
// ERROR token surfaces a message the parser reprints").
func (p *Parser) advance() {
	p.cur = p.peek
	for {
		t := p.lex.NextToken()
		if t.Kind == lexer.ERROR {
			p.reportLexError(t)
			continue
		}
		p.peek = t
		return
	}
}

func (p *Parser) reportLexError(t lexer.Token) {
	code := lexErrorCode(t.Lexeme)
	r := errors.New("lexer", code, t.Lexeme, &errors.Span{File: p.file, Line: t.Line})
	p.errs.Add(r)
}

func lexErrorCode(msg string) string {
	switch {
	case contains(msg, "inconsistent dedent"):
		return errors.LEX005
	case contains(msg, "tabs"):
		return errors.LEX006
	case contains(msg, "empty char"):
		return errors.LEX004
	case contains(msg, "malformed number"):
		return errors.LEX003
	case contains(msg, "unterminated interpolated"):
		return errors.LEX007
	case contains(msg, "unterminated string"):
		return errors.LEX001
	default:
		return errors.LEX001
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur.Kind == k }

func (p *Parser) checkPeek(k lexer.Kind) bool { return p.peek.Kind == k }

func (p *Parser) match(k lexer.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes cur if it matches k, else reports a parse error shaped
// "[file:line] Error at '<lexeme>': <msg>" (spec.md section 6) and enters
// panic mode.
func (p *Parser) expect(k lexer.Kind, msg string) lexer.Token {
	if p.check(k) {
		t := p.cur
		p.advance()
		return t
	}
	p.errorAt(p.cur, errors.PAR001, msg)
	return p.cur
}

func (p *Parser) errorAt(t lexer.Token, code, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	r := errors.New("parser", code, msg, &errors.Span{File: p.file, Line: t.Line}).
		WithData("lexeme", t.Lexeme)
	p.errs.Add(r)
}

// ParserMessage is a convenience used by tests and the CLI to render the
// spec.md section 6 text form for the most recent error.
func ParserMessage(r *errors.Report) string {
	lex, _ := r.Data["lexeme"].(string)
	return r.ParserMessage(lex)
}

// synchronize advances past tokens until the next one starts a statement
// (spec.md section 4.3 panic-mode recovery) or EOF.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.check(lexer.EOF) {
		if p.cur.Kind.IsStmtStart() {
			return
		}
		p.advance()
	}
}

// ParseModule parses the full token stream into a Module. It is the
// top-level entry point invoked directly on a single file (no import
// splicing); internal/loader calls this per file and splices results.
func ParseModule(src, file string, a *arena.Arena, errs *errors.Collector) *ast.Module {
	normalized := lexer.Normalize([]byte(src))
	lx := lexer.New(string(normalized), file, a)
	p := New(lx, a, file, errs, nil)
	return p.parseModuleBody()
}

func (p *Parser) parseModuleBody() *ast.Module {
	mod := &ast.Module{Filename: p.file}
	for !p.check(lexer.EOF) {
		if p.match(lexer.NEWLINE) {
			continue
		}
		stmt := p.declaration()
		if stmt != nil {
			mod.Stmts = append(mod.Stmts, stmt)
		}
		if p.panicMode {
			p.synchronize()
		}
	}
	return mod
}

func (p *Parser) internalError(where string) {
	p.errs.Add(errors.New("parser", errors.GEN001, fmt.Sprintf("internal parser inconsistency in %s", where), &errors.Span{File: p.file, Line: p.cur.Line}))
}
