package interp

import "context"

// Callable is implemented by every Value that can appear as the callee of a
// call expression: user functions and lambdas, native functions, and
// classes (calling a class constructs an instance, §4.5).
type Callable interface {
	Value
	Arity() int
	Call(ctx context.Context, in *Interpreter, args []Value) (Value, error)
}
