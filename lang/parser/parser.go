// Package parser implements the recursive-descent parser that turns a token
// stream into an AST. The panic-mode error recovery shape (report once,
// synchronize to the next plausible statement boundary, keep parsing) is
// adapted from the teacher's lang/parser package; the grammar itself follows
// the language specification's precedence ladder directly (§4.2).
package parser

import (
	"fmt"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

// Parse parses a full program (a sequence of declarations) from toks, which
// must be terminated by an EOF token (as produced by scanner.ScanAll).
// Parse errors are appended to errors; Parse still returns every declaration
// it was able to parse, including ones following a recovered error.
func Parse(toks []token.Token, errors *token.ErrorList) []ast.Stmt {
	p := &parser{toks: toks, errors: errors}
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	return stmts
}

type parser struct {
	toks   []token.Token
	pos    int
	errors *token.ErrorList
}

// errPanic unwinds the current declaration's recursive descent back to
// declaration(), which recovers and calls synchronize.
type errPanic struct{}

func (p *parser) peek() token.Token     { return p.toks[p.pos] }
func (p *parser) previous() token.Token { return p.toks[p.pos-1] }
func (p *parser) atEnd() bool           { return p.peek().Kind == token.EOF }

func (p *parser) check(k token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == k
}

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, otherwise it reports a
// syntax error and panics with errPanic to unwind to the nearest recovery
// point.
func (p *parser) expect(k token.Kind, msg string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	panic(errPanic{})
}

func (p *parser) errorAtCurrent(msg string) {
	tok := p.peek()
	p.errors.Add(token.Syntax, tok.Line, token.AtLoc(tok.Kind, tok.Lexeme), msg)
}

func (p *parser) errorAt(tok token.Token, msg string) {
	p.errors.Add(token.Syntax, tok.Line, token.AtLoc(tok.Kind, tok.Lexeme), msg)
}

// synchronize discards tokens until it reaches a plausible statement
// boundary: just past a ';', or just before a token that starts a new
// declaration or statement.
func (p *parser) synchronize() {
	for !p.atEnd() {
		if p.previous().Kind == token.SEMI {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// declaration parses a single top-level or block-level declaration, applying
// panic-mode recovery if it fails.
func (p *parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errPanic); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = &ast.Expression{Expr: &ast.Literal{Value: nil}}
		}
	}()

	switch {
	case p.match(token.VAR):
		return p.varDeclaration()
	case p.checkFunDeclaration():
		p.advance() // consume 'fun'
		return p.functionDeclaration("function")
	case p.match(token.CLASS):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

// checkFunDeclaration reports whether the parser is at a `fun IDENT` pair,
// which makes this a function declaration rather than a lambda expression.
func (p *parser) checkFunDeclaration() bool {
	if !p.check(token.FUN) {
		return false
	}
	next := p.pos + 1
	return next < len(p.toks) && p.toks[next].Kind == token.IDENT
}

func (p *parser) varDeclaration() ast.Stmt {
	name := p.expect(token.IDENT, "Expect variable name.")
	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *parser) functionDeclaration(kind string) ast.Stmt {
	name := p.expect(token.IDENT, fmt.Sprintf("Expect %s name.", kind))
	fn := p.functionBody(kind)
	return &ast.Function{Name: name, Fn: fn}
}

// functionBody parses `(params) { body }`, shared by function declarations,
// lambdas and methods.
func (p *parser) functionBody(kind string) *ast.Lambda {
	p.expect(token.LPAREN, fmt.Sprintf("Expect '(' after %s name.", kind))
	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			params = append(params, p.expect(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "Expect ')' after parameters.")
	p.expect(token.LBRACE, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()
	return &ast.Lambda{Params: params, Body: body}
}

func (p *parser) classDeclaration() ast.Stmt {
	name := p.expect(token.IDENT, "Expect class name.")

	var super *ast.Variable
	if p.match(token.LT) {
		superName := p.expect(token.IDENT, "Expect superclass name.")
		super = &ast.Variable{Name: superName}
	}

	p.expect(token.LBRACE, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RBRACE) && !p.atEnd() {
		methodName := p.expect(token.IDENT, "Expect method name.")
		fn := p.functionBody("method")
		methods = append(methods, &ast.Function{Name: methodName, Fn: fn})
	}
	p.expect(token.RBRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Super: super, Methods: methods}
}

// block parses the statements inside `{ ... }`, having already consumed `{`.
func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	p.expect(token.RBRACE, "Expect '}' after block.")
	return stmts
}
