// Package interp is the tree-walking evaluator: it executes the AST
// directly, consulting the resolver's side table to decide how far up the
// environment chain each variable reference lives (§4.4-§4.6).
//
// The runtime value model is adapted from the teacher's lang/types package
// (a Value interface implemented by small wrapper types around Go
// primitives), generalized down to what this language's values actually
// need: no Freeze (the language has no concurrency, so nothing ever
// publishes a value across threads) and no Ordered/Iterable/Indexable
// hierarchy (Lox has no collection types). Truthiness follows the
// language's own rule (only nil and false are falsy) rather than the
// teacher's per-type Truth method, since that rule is uniform here and
// doesn't vary per type the way it does in the teacher's language.
package interp

import (
	"strconv"
)

// Value is implemented by every runtime value: Nil, Bool, Number, String,
// every Callable (*Function, *NativeFunction, *Class), and *Instance.
type Value interface {
	String() string
	Type() string
}

// NilType is the type of the single Nil value.
type NilType struct{}

// Nil is Lox's absence-of-value.
var Nil = NilType{}

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Number is Lox's single numeric type, a 64-bit float.
type Number float64

// String formats n the way the language's display routine does: the
// shortest decimal that round-trips, so whole numbers print without a
// trailing ".0" even though they are stored as float64 (§4.4, grounded in
// original_source's display routine rather than the literal jlox behavior,
// which always shows one decimal digit).
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (Number) Type() string { return "number" }

// String is a Lox string value.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }

// truthy implements Lox's truthiness rule: nil and false are falsy,
// everything else (including 0 and "") is truthy.
func truthy(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// equal implements Lox's `==`, which never does implicit coercion: values of
// different dynamic types are never equal, including Nil vs anything else.
func equal(a, b Value) bool {
	switch a := a.(type) {
	case NilType:
		_, ok := b.(NilType)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && a == bv
	case Number:
		bv, ok := b.(Number)
		return ok && a == bv
	case String:
		bv, ok := b.(String)
		return ok && a == bv
	default:
		return a == b // reference equality for callables/instances
	}
}

func displayString(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
