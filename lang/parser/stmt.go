package parser

import (
	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

// statement parses a non-declaration statement.
func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LBRACE):
		return &ast.Block{Stmts: p.block()}
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.expect(token.SEMI, "Expect ';' after value.")
	return &ast.Print{Expr: expr}
}

func (p *parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.expect(token.SEMI, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

func (p *parser) ifStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after if condition.")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els}
}

func (p *parser) whileStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` at parse time into
// `{ init; while (cond) { body; incr; } }` per §4.2.
func (p *parser) forStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.check(token.VAR):
		p.advance()
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after loop condition.")

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.expect(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if incr != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.Expression{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	body = &ast.While{Cond: cond, Body: body}

	if init != nil {
		body = &ast.Block{Stmts: []ast.Stmt{init, body}}
	}
	return body
}

func (p *parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMI) {
		value = p.expression()
	}
	p.expect(token.SEMI, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}
