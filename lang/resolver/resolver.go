// Package resolver implements the static resolver: it walks the AST once,
// before any statement is executed, and computes the lexical binding depth
// of every variable reference so that the interpreter's environment lookups
// are unambiguous in the presence of shadowing and closures (§4.3).
//
// The block-stack shape (push a scope on entry, pop on exit, look outward on
// a miss) is adapted from the teacher's own resolver package
// (lang/resolver/resolver.go), generalized down from nenuphar's richer
// binding/label/cell model to the simpler one this language's specification
// calls for: the resolver here never mutates the AST (the teacher stamps
// ident.Binding directly on the node) and instead produces a side table
// keyed by token.Token.ID, per this language's own §3/§9.
package resolver

import (
	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/token"
)

// funcType records what kind of function body the resolver is currently
// inside, to validate `return` usage.
type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcMethod
	funcInitializer
)

// classType records whether the resolver is currently inside a class body,
// and whether that class has a superclass, to validate `this` and `super`.
type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type bindState int

const (
	stateDeclared bindState = iota
	stateDefined
	stateUsed
)

// binding is the resolver's bookkeeping for a single name declared in a
// scope; it is never exposed outside this package.
type binding struct {
	tok   token.Token
	state bindState
}

// scope maps a name to its binding within one lexical block.
type scope struct {
	names map[string]*binding
}

// Locals is the resolver's side table: it maps a *reference* token's ID
// (not its declaration) to the number of enclosing environments to skip,
// at the reference site, to reach the environment that declares it.
// Absence from the table means "resolve against globals" (§3, §4.4).
type Locals map[int]int

// Resolve walks stmts (a full program) and returns the computed side table.
// Errors (re-declarations, unused locals, misplaced return/this/super) are
// appended to errors.
func Resolve(stmts []ast.Stmt, errors *token.ErrorList) Locals {
	r := &resolver{errors: errors, locals: make(Locals)}
	r.resolveStmts(stmts)
	return r.locals
}

type resolver struct {
	errors *token.ErrorList
	scopes []*scope
	locals Locals

	currentFunction funcType
	currentClass    classType
}

func (r *resolver) errorf(tok token.Token, msg string) {
	r.errors.Add(token.Semantic, tok.Line, token.AtLoc(tok.Kind, tok.Lexeme), msg)
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, &scope{names: make(map[string]*binding)})
}

func (r *resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]
	for _, b := range top.names {
		if b.state != stateUsed {
			r.errorf(b.tok, "Variable '"+b.tok.Lexeme+"' is never used.")
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Fn, funcFunction)

	case *ast.Return:
		if r.currentFunction == funcNone {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == funcInitializer {
				r.errorf(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Class:
		r.resolveClass(s)

	default:
		panic("resolver: unexpected stmt type")
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Ternary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			top := r.scopes[len(r.scopes)-1]
			if b, ok := top.names[e.Name.Lexeme]; ok && b.state == stateDeclared {
				r.errorf(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.Name, true)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.Name, false)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.currentClass == classNone {
			r.errorf(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.Keyword, true)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.errorf(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case classClass:
			r.errorf(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e.Keyword, true)

	case *ast.Lambda:
		r.resolveFunction(e, funcFunction)

	default:
		panic("resolver: unexpected expr type")
	}
}

// declare introduces name into the innermost scope in the "declared but not
// yet initialized" state. At global scope (no open scopes) declarations are
// not tracked at all, matching the interpreter's purely dynamic global
// environment.
func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top.names[name.Lexeme]; ok {
		r.errorf(name, "Already a variable with this name in this scope.")
		return
	}
	top.names[name.Lexeme] = &binding{tok: name, state: stateDeclared}
}

// define transitions name's binding out of the "declared" state. It leaves
// an already-Used binding alone: the initializer may have read the name
// (directly, which resolveExpr reports as an error, or from inside a nested
// function or lambda), and that read still counts, so define never turns
// Used back into Defined.
func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if b, ok := top.names[name.Lexeme]; ok && b.state == stateDeclared {
		b.state = stateDefined
	}
}

// resolveLocal searches the scope stack from innermost to outermost for
// name's lexeme. On a hit it records the distance from the reference site
// to the declaring scope in the side table, keyed by the reference token's
// identity, and optionally marks the binding used. A miss means the name is
// a global and nothing is recorded.
func (r *resolver) resolveLocal(name token.Token, markUsed bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i].names[name.Lexeme]; ok {
			r.locals[name.ID] = len(r.scopes) - 1 - i
			if markUsed {
				b.state = stateUsed
			}
			return
		}
	}
}

func (r *resolver) resolveFunction(fn *ast.Lambda, typ funcType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *resolver) resolveClass(stmt *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Super != nil {
		if stmt.Super.Name.Lexeme == stmt.Name.Lexeme {
			r.errorf(stmt.Super.Name, "A class can't inherit from itself.")
		} else {
			r.currentClass = classSubclass
			r.resolveExpr(stmt.Super)
		}
	}

	if stmt.Super != nil {
		r.beginScope()
		r.markSynthetic("super")
	}

	r.beginScope()
	r.markSynthetic("this")

	for _, m := range stmt.Methods {
		typ := funcMethod
		if m.Name.Lexeme == "init" {
			typ = funcInitializer
		}
		r.resolveFunction(m.Fn, typ)
	}

	r.endScope() // this
	if stmt.Super != nil {
		r.endScope() // super
	}

	r.currentClass = enclosingClass
}

// markSynthetic declares and defines a compiler-introduced binding (`this`
// or `super`) already marked as used, since it is never itself subject to
// the "never used" diagnostic (§4.3).
func (r *resolver) markSynthetic(name string) {
	top := r.scopes[len(r.scopes)-1]
	top.names[name] = &binding{state: stateUsed}
}
