package interp

import (
	"context"
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/loxlang/lox/lang/token"
)

// Class is a runtime class object: calling it constructs an Instance
// (§4.5). Single inheritance only, per the language's Non-goals.
type Class struct {
	Name       string
	Superclass *Class
	methods    map[string]*Function
}

var (
	_ Value    = (*Class)(nil)
	_ Callable = (*Class)(nil)
)

func newClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, methods: methods}
}

func (c *Class) String() string { return c.Name }
func (c *Class) Type() string   { return "class" }

// findMethod looks up name on c, then walks the superclass chain.
func (c *Class) findMethod(name string) (*Function, bool) {
	if m, ok := c.methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil, false
}

// Arity is the initializer's arity, or 0 if the class neither declares nor
// inherits one.
func (c *Class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class declares or inherits an
// `init` method, runs it against the new instance before returning it (§4.5).
func (c *Class) Call(ctx context.Context, in *Interpreter, args []Value) (Value, error) {
	instance := newInstance(c)
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.bind(instance).Call(ctx, in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a class plus its own field storage, backed
// by the same swiss.Map (lang/machine/map.go) as Environment.
type Instance struct {
	class  *Class
	fields *swiss.Map[string, Value]
}

var _ Value = (*Instance)(nil)

func newInstance(class *Class) *Instance {
	return &Instance{class: class, fields: swiss.NewMap[string, Value](4)}
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.class.Name) }
func (i *Instance) Type() string   { return i.class.Name }

// get reads a field, falling back to a bound method (§4.5). Fields shadow
// methods of the same name.
func (i *Instance) get(name token.Token) (Value, error) {
	if v, ok := i.fields.Get(name.Lexeme); ok {
		return v, nil
	}
	if method, ok := i.class.findMethod(name.Lexeme); ok {
		return method.bind(i), nil
	}
	return nil, &token.RuntimeError{Line: name.Line, Msg: "Undefined property '" + name.Lexeme + "'."}
}

// set always writes a new or existing field; Lox instances are open, unlike
// classes, which fix their method set at declaration time (§4.5).
func (i *Instance) set(name token.Token, v Value) {
	i.fields.Put(name.Lexeme, v)
}
