package interp

import (
	"context"
	"time"
)

// NativeFunction is a builtin implemented in Go rather than Lox, such as
// `clock` (§5, the language's only standard-library surface).
type NativeFunction struct {
	name  string
	arity int
	fn    func(ctx context.Context, in *Interpreter, args []Value) (Value, error)
}

var (
	_ Value    = (*NativeFunction)(nil)
	_ Callable = (*NativeFunction)(nil)
)

func (n *NativeFunction) String() string { return "<native fn>" }
func (n *NativeFunction) Type() string   { return "function" }
func (n *NativeFunction) Arity() int     { return n.arity }

func (n *NativeFunction) Call(ctx context.Context, in *Interpreter, args []Value) (Value, error) {
	return n.fn(ctx, in, args)
}

func defineNatives(globals *Environment) {
	globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(ctx context.Context, in *Interpreter, args []Value) (Value, error) {
			return Number(float64(time.Now().UnixNano()) / float64(time.Microsecond)), nil
		},
	})
}
