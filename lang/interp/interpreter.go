package interp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/token"
)

// Interpreter walks a resolved AST and executes it. Its Stdout field
// follows the teacher's Thread abstraction (lang/machine/thread.go): if nil,
// os.Stdout is used, so the CLI can pass explicit buffers in tests while
// production code pays no extra cost. Stderr is not written by the
// interpreter; runtime errors are returned from Interpret instead.
type Interpreter struct {
	Stdout io.Writer
	Stderr io.Writer

	globals *Environment
	env     *Environment
	locals  resolver.Locals

	stdout io.Writer
}

// New returns an Interpreter with its global environment populated with the
// language's native functions (currently just `clock`, §5).
func New() *Interpreter {
	globals := NewEnvironment(nil)
	defineNatives(globals)
	return &Interpreter{globals: globals, env: globals}
}

// Interpret runs a fully parsed and resolved program. locals is the side
// table produced by resolver.Resolve for the same stmts. Execution stops at
// the first runtime error, matching the language's fail-fast semantics
// (§4.4, §7).
func (in *Interpreter) Interpret(ctx context.Context, stmts []ast.Stmt, locals resolver.Locals) error {
	in.locals = locals
	if in.Stdout != nil {
		in.stdout = in.Stdout
	} else {
		in.stdout = os.Stdout
	}

	for _, stmt := range stmts {
		if err := in.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(ctx context.Context, stmt ast.Stmt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.eval(ctx, s.Expr)
		return err

	case *ast.Print:
		v, err := in.eval(ctx, s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout, displayString(v))
		return nil

	case *ast.Var:
		var v Value = Nil
		if s.Initializer != nil {
			var err error
			v, err = in.eval(ctx, s.Initializer)
			if err != nil {
				return err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil

	case *ast.Block:
		return in.executeBlock(ctx, s.Stmts, NewEnvironment(in.env))

	case *ast.If:
		cond, err := in.eval(ctx, s.Cond)
		if err != nil {
			return err
		}
		if truthy(cond) {
			return in.exec(ctx, s.Then)
		} else if s.Else != nil {
			return in.exec(ctx, s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := in.eval(ctx, s.Cond)
			if err != nil {
				return err
			}
			if !truthy(cond) {
				return nil
			}
			if err := in.exec(ctx, s.Body); err != nil {
				return err
			}
		}

	case *ast.Function:
		fn := newFunction(s.Name.Lexeme, s.Fn, in.env, false)
		in.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.Return:
		var v Value = Nil
		if s.Value != nil {
			var err error
			v, err = in.eval(ctx, s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: v}

	case *ast.Class:
		return in.execClass(ctx, s)

	default:
		panic("interp: unexpected stmt type")
	}
}

func (in *Interpreter) execClass(ctx context.Context, s *ast.Class) error {
	var super *Class
	if s.Super != nil {
		superVal, err := in.eval(ctx, s.Super)
		if err != nil {
			return err
		}
		var ok bool
		super, ok = superVal.(*Class)
		if !ok {
			return &token.RuntimeError{Line: s.Super.Name.Line, Msg: "Superclass must be a class."}
		}
		in.env = NewEnvironment(in.env)
		in.env.Define("super", super)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		isInit := m.Name.Lexeme == "init"
		methods[m.Name.Lexeme] = newFunction(m.Name.Lexeme, m.Fn, in.env, isInit)
	}
	class := newClass(s.Name.Lexeme, super, methods)

	if s.Super != nil {
		in.env = in.env.enclosing
	}
	in.env.Define(s.Name.Lexeme, class)
	return nil
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on every exit path -- including a non-local return signal or
// any other error -- so a panicking or returning block never leaves the
// interpreter's environment chain pointed at a discarded scope (§4.6).
func (in *Interpreter) executeBlock(ctx context.Context, stmts []ast.Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) eval(ctx context.Context, expr ast.Expr) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil

	case *ast.Grouping:
		return in.eval(ctx, e.Inner)

	case *ast.Unary:
		right, err := in.eval(ctx, e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case token.BANG:
			return Bool(!truthy(right)), nil
		case token.MINUS:
			n, ok := right.(Number)
			if !ok {
				return nil, &token.RuntimeError{Line: e.Op.Line, Msg: "Operands must be numbers."}
			}
			return -n, nil
		}
		panic("interp: unexpected unary operator")

	case *ast.Binary:
		return in.evalBinary(ctx, e)

	case *ast.Logical:
		left, err := in.eval(ctx, e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.OR {
			if truthy(left) {
				return left, nil
			}
		} else if !truthy(left) {
			return left, nil
		}
		return in.eval(ctx, e.Right)

	case *ast.Ternary:
		cond, err := in.eval(ctx, e.Cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return in.eval(ctx, e.Then)
		}
		return in.eval(ctx, e.Else)

	case *ast.Variable:
		return in.lookUpVariable(e.Name)

	case *ast.Assign:
		v, err := in.eval(ctx, e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := in.locals[e.Name.ID]; ok {
			in.env.AssignAt(distance, e.Name, v)
		} else if err := in.globals.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Call:
		return in.evalCall(ctx, e)

	case *ast.Get:
		obj, err := in.eval(ctx, e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &token.RuntimeError{Line: e.Name.Line, Msg: "Only instances have properties."}
		}
		return instance.get(e.Name)

	case *ast.Set:
		obj, err := in.eval(ctx, e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &token.RuntimeError{Line: e.Name.Line, Msg: "Only instances have fields."}
		}
		v, err := in.eval(ctx, e.Value)
		if err != nil {
			return nil, err
		}
		instance.set(e.Name, v)
		return v, nil

	case *ast.This:
		return in.lookUpVariable(e.Keyword)

	case *ast.Super:
		return in.evalSuper(e)

	case *ast.Lambda:
		return newFunction("", e, in.env, false), nil

	default:
		panic("interp: unexpected expr type")
	}
}

func (in *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance := in.locals[e.Keyword.ID]
	super := in.env.GetAt(distance, "super").(*Class)
	this := in.env.GetAt(distance-1, "this").(*Instance)

	method, ok := super.findMethod(e.Method.Lexeme)
	if !ok {
		return nil, &token.RuntimeError{Line: e.Method.Line, Msg: "Undefined property '" + e.Method.Lexeme + "'."}
	}
	return method.bind(this), nil
}

func (in *Interpreter) evalCall(ctx context.Context, e *ast.Call) (Value, error) {
	callee, err := in.eval(ctx, e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := in.eval(ctx, a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &token.RuntimeError{Line: e.Paren.Line, Msg: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &token.RuntimeError{
			Line: e.Paren.Line,
			Msg:  fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(ctx, in, args)
}

// lookUpVariable resolves a Variable or This reference: if the resolver
// recorded a distance for this reference's token, read it directly from
// that ancestor environment; otherwise fall back to the dynamic global
// environment (§4.4).
func (in *Interpreter) lookUpVariable(name token.Token) (Value, error) {
	if distance, ok := in.locals[name.ID]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func literalValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic(fmt.Sprintf("interp: unexpected literal type %T", v))
	}
}
