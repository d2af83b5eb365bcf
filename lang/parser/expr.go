package parser

import (
	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

// expression parses the full precedence ladder starting at assignment, the
// lowest-precedence production (§4.2):
//
//	assignment → ternary → or → and → equality → comparison
//	           → term → factor → unary → call → primary
func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQ) {
		eq := p.previous()
		value := p.assignment() // right-associative

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(eq, "Invalid assignment target.")
			return value
		}
	}
	return expr
}

// ternary parses `cond ? then : else`, right-associative in both branches.
func (p *parser) ternary() ast.Expr {
	cond := p.or()
	if p.match(token.QUESTION) {
		then := p.ternary()
		p.expect(token.COLON, "Expect ':' after then-branch of ternary expression.")
		els := p.ternary()
		return &ast.Ternary{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.check(token.OR) {
		op := p.advance()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.check(token.AND) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQ_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GT, token.GT_EQ, token.LT, token.LT_EQ) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR, token.PERCENT) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

// call parses a primary followed by any number of `(args)` or `.ident`
// suffixes, left-associatively.
func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.expect(token.IDENT, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= 255 {
				p.errorAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.match(token.NUMBER):
		return &ast.Literal{Value: p.previous().Number}
	case p.match(token.STRING):
		return &ast.Literal{Value: p.previous().String}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.expect(token.DOT, "Expect '.' after 'super'.")
		method := p.expect(token.IDENT, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.expect(token.RPAREN, "Expect ')' after expression.")
		return &ast.Grouping{Inner: expr}
	case p.match(token.FUN):
		return p.functionBody("lambda")
	default:
		p.errorAtCurrent("Expect expression.")
		panic(errPanic{})
	}
}
