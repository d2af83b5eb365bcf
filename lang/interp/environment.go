package interp

import (
	"github.com/dolthub/swiss"

	"github.com/loxlang/lox/lang/token"
)

// Environment is one lexical scope's bindings, chained to its enclosing
// scope. Storage is backed by the teacher's swiss.Map (lang/machine/map.go),
// generalized here from Value-keyed/Value-valued to the simpler
// string-keyed binding table an environment chain actually needs.
type Environment struct {
	enclosing *Environment
	values    *swiss.Map[string, Value]
}

// NewEnvironment returns an environment chained to enclosing, or a top-level
// (global) environment if enclosing is nil.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: swiss.NewMap[string, Value](8)}
}

// Define binds (or rebinds) name in this environment directly, without
// consulting the enclosing chain. Re-declaring a name already defined here
// is allowed, matching the language's global-scope shadowing rule (§4.3).
func (e *Environment) Define(name string, v Value) {
	e.values.Put(name, v)
}

// Get looks up name, starting in this environment and walking outward.
func (e *Environment) Get(name token.Token) (Value, error) {
	if v, ok := e.values.Get(name.Lexeme); ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, &token.RuntimeError{Line: name.Line, Msg: "Undefined variable '" + name.Lexeme + "'."}
}

// Assign rebinds an existing name, starting in this environment and walking
// outward. It is an error to assign to a name that was never declared.
func (e *Environment) Assign(name token.Token, v Value) error {
	if _, ok := e.values.Get(name.Lexeme); ok {
		e.values.Put(name.Lexeme, v)
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return &token.RuntimeError{Line: name.Line, Msg: "Undefined variable '" + name.Lexeme + "'."}
}

// ancestor walks distance environments outward from e.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name from the environment exactly distance hops out, as
// computed by the resolver. The binding is assumed to exist: the resolver
// guarantees it does (§4.3/§4.4).
func (e *Environment) GetAt(distance int, name string) Value {
	v, _ := e.ancestor(distance).values.Get(name)
	return v
}

// AssignAt writes name in the environment exactly distance hops out.
func (e *Environment) AssignAt(distance int, name token.Token, v Value) {
	e.ancestor(distance).values.Put(name.Lexeme, v)
}
