package interp

import (
	"context"
	"math"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

// evalBinary implements every `Binary` operator, including this language's
// `%` extension over jlox (floating-point remainder, matching Go's
// math.Mod); string concatenation (`+` on two strings) is unchanged from
// jlox. Grounded on the Go Lox ports' per-operator binary dispatch
// (e.g. letung3105-lox's VisitBinaryExpr).
func (in *Interpreter) evalBinary(ctx context.Context, e *ast.Binary) (Value, error) {
	left, err := in.eval(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(ctx, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.BANG_EQ:
		return Bool(!equal(left, right)), nil
	case token.EQ_EQ:
		return Bool(equal(left, right)), nil

	case token.GT:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l > r), nil
	case token.GT_EQ:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l >= r), nil
	case token.LT:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l < r), nil
	case token.LT_EQ:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l <= r), nil

	case token.MINUS:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.SLASH:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case token.STAR:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.PERCENT:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number(math.Mod(float64(l), float64(r))), nil

	case token.PLUS:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		return nil, &token.RuntimeError{Line: e.Op.Line, Msg: "Operands must be two numbers or two strings."}

	default:
		panic("interp: unexpected binary operator")
	}
}

func numberOperands(op token.Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, &token.RuntimeError{Line: op.Line, Msg: "Operands must be numbers."}
	}
	return l, r, nil
}
