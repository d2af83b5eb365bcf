package interp

import (
	"context"
	"fmt"

	"github.com/loxlang/lox/lang/ast"
)

// returnSignal unwinds a function call back to Function.Call when a
// `return` statement executes. It implements error purely so it can travel
// through the same (Value, error) plumbing every other statement uses; the
// interpreter's own callers never let it escape as a user-visible runtime
// error (§4.6).
type returnSignal struct {
	value Value
}

func (*returnSignal) Error() string { return "return outside of a function call" }

// Function is a user-defined function or lambda, closing over the
// environment active at the point it was declared (§4.4). Grounded on the
// Go Lox ports' `function`/`LoxFunction` types, adapted to this package's
// error-return evaluator instead of a visitor-with-side-effect-field style.
type Function struct {
	name          string // "" for an anonymous lambda
	decl          *ast.Lambda
	closure       *Environment
	isInitializer bool
}

var (
	_ Value    = (*Function)(nil)
	_ Callable = (*Function)(nil)
)

func newFunction(name string, decl *ast.Lambda, closure *Environment, isInitializer bool) *Function {
	return &Function{name: name, decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) String() string {
	if f.name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.name)
}

func (f *Function) Type() string { return "function" }

func (f *Function) Arity() int { return len(f.decl.Params) }

// bind returns a copy of f whose closure is a fresh environment defining
// `this` as instance, one level inside f's original closure. Looking up
// `super` from inside the bound method's body therefore always resolves one
// environment further out than `this` (§4.5, pinned down by
// resolver_test.go's TestSuperDepthIsOneMoreThanThisDepth).
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return newFunction(f.name, f.decl, env, f.isInitializer)
}

func (f *Function) Call(ctx context.Context, in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := in.executeBlock(ctx, f.decl.Body, env)
	if rs, ok := err.(*returnSignal); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return rs.value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil, nil
}
