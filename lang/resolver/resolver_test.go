package resolver_test

import (
	"testing"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) ([]ast.Stmt, resolver.Locals, *token.ErrorList) {
	t.Helper()
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(src), &errs)
	require.Zero(t, errs.Len(), "unexpected scan errors")
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len(), "unexpected parse errors")
	locals := resolver.Resolve(stmts, &errs)
	return stmts, locals, &errs
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	stmts, locals, errs := resolveSrc(t, `
		fun outer() {
			var x = 1;
			fun inner() {
				print x;
			}
			return inner;
		}
	`)
	require.Zero(t, errs.Len())

	outerFn := stmts[0].(*ast.Function)
	innerFn := outerFn.Fn.Body[1].(*ast.Function)
	printStmt := innerFn.Fn.Body[0].(*ast.Print)
	ref := printStmt.Expr.(*ast.Variable)

	depth, ok := locals[ref.Name.ID]
	require.True(t, ok, "expected 'x' reference to be resolved as a local")
	assert.Equal(t, 1, depth)
}

func TestGlobalReferenceNotInSideTable(t *testing.T) {
	stmts, locals, errs := resolveSrc(t, `
		var g = 1;
		fun f() {
			print g;
		}
	`)
	require.Zero(t, errs.Len())

	fn := stmts[1].(*ast.Function)
	printStmt := fn.Fn.Body[0].(*ast.Print)
	ref := printStmt.Expr.(*ast.Variable)

	_, ok := locals[ref.Name.ID]
	assert.False(t, ok, "global references should not appear in the side table")
}

func TestReadInOwnInitializerIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`{ var a = a; }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "its own initializer")
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`{ var a = 1; var a = 2; print a; }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Already a variable with this name")
}

func TestShadowingAtGlobalScopeIsNotAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`var a = 1; var a = 2;`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	assert.Zero(t, errs.Len())
}

func TestUnusedLocalIsReported(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`{ var unused = 1; }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "'unused' is never used")
}

func TestAssignmentAloneDoesNotCountAsUse(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`{ var a = 1; a = 2; }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "never used")
}

func TestReturnAtTopLevelIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`return 1;`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Can't return from top-level code")
}

func TestReturnValueFromInitializerIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`class A { init() { return 1; } }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Can't return a value from an initializer")
}

func TestBareReturnFromInitializerIsFine(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`class A { init() { return; } }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	assert.Zero(t, errs.Len())
}

func TestThisOutsideClassIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`print this;`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Can't use 'this' outside of a class")
}

func TestSuperWithoutSuperclassIsAnError(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`class A { m() { super.m(); } }`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "class with no superclass")
}

func TestClassCannotInheritFromItself(t *testing.T) {
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(`class A < A {}`), &errs)
	require.Zero(t, errs.Len())
	stmts := parser.Parse(toks, &errs)
	require.Zero(t, errs.Len())

	resolver.Resolve(stmts, &errs)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "can't inherit from itself")
}

// TestSuperDepthIsOneMoreThanThisDepth pins down the scope-nesting
// relationship the interpreter relies on when binding methods (§4.5): from
// directly inside a subclass method body, `super` always resolves one
// environment further out than `this`.
func TestSuperDepthIsOneMoreThanThisDepth(t *testing.T) {
	stmts, locals, errs := resolveSrc(t, `
		class A {
			greet() { print "A"; }
		}
		class B < A {
			greet() {
				super.greet();
				print this;
			}
		}
	`)
	require.Zero(t, errs.Len())

	classB := findClass(t, stmts, "B")
	method := classB.Methods[0]
	exprStmt := method.Fn.Body[0].(*ast.Expression)
	call := exprStmt.Expr.(*ast.Call)
	super := call.Callee.(*ast.Super)
	printStmt := method.Fn.Body[1].(*ast.Print)
	this := printStmt.Expr.(*ast.This)

	superDepth, ok := locals[super.Keyword.ID]
	require.True(t, ok)
	thisDepth, ok := locals[this.Keyword.ID]
	require.True(t, ok)
	assert.Equal(t, thisDepth+1, superDepth)
}

func findClass(t *testing.T, stmts []ast.Stmt, name string) *ast.Class {
	t.Helper()
	for _, s := range stmts {
		if c, ok := s.(*ast.Class); ok && c.Name.Lexeme == name {
			return c
		}
	}
	t.Fatalf("class %q not found", name)
	return nil
}
