package parser_test

import (
	"testing"

	"github.com/loxlang/lox/lang/ast"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) ([]ast.Stmt, *token.ErrorList) {
	t.Helper()
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(src), &errs)
	require.Zero(t, errs.Len(), "unexpected scan errors")
	stmts := parser.Parse(toks, &errs)
	return stmts, &errs
}

func TestLiteralExpressionStatements(t *testing.T) {
	cases := []struct {
		src  string
		want any
	}{
		{"true;", true},
		{"false;", false},
		{"nil;", nil},
		{`"abc";`, "abc"},
		{"3.14;", 3.14},
	}
	for _, c := range cases {
		stmts, errs := parseSrc(t, c.src)
		require.Zero(t, errs.Len(), c.src)
		require.Len(t, stmts, 1)
		exprStmt, ok := stmts[0].(*ast.Expression)
		require.True(t, ok)
		lit, ok := exprStmt.Expr.(*ast.Literal)
		require.True(t, ok)
		assert.Equal(t, c.want, lit.Value)
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	stmts, errs := parseSrc(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Zero(t, errs.Len())
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, ok = block.Stmts[0].(*ast.Var)
	assert.True(t, ok)

	while, ok := block.Stmts[1].(*ast.While)
	require.True(t, ok)
	innerBlock, ok := while.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, innerBlock.Stmts, 2)
}

func TestForOmittedClauses(t *testing.T) {
	stmts, errs := parseSrc(t, "for (;;) print 1;")
	require.Zero(t, errs.Len())
	while, ok := stmts[0].(*ast.While)
	require.True(t, ok)
	lit, ok := while.Cond.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, true, lit.Value)
}

func TestAssignmentTargetMustBeVariableOrGet(t *testing.T) {
	_, errs := parseSrc(t, "1 + 2 = 3;")
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Invalid assignment target")
}

func TestTernaryRightAssociative(t *testing.T) {
	stmts, errs := parseSrc(t, "true ? 1 : false ? 2 : 3;")
	require.Zero(t, errs.Len())
	exprStmt := stmts[0].(*ast.Expression)
	outer, ok := exprStmt.Expr.(*ast.Ternary)
	require.True(t, ok)
	_, ok = outer.Else.(*ast.Ternary)
	assert.True(t, ok)
}

func TestClassWithSuperclassAndMethods(t *testing.T) {
	stmts, errs := parseSrc(t, "class B < A { greet() { print 1; } }")
	require.Zero(t, errs.Len())
	cl, ok := stmts[0].(*ast.Class)
	require.True(t, ok)
	require.NotNil(t, cl.Super)
	assert.Equal(t, "A", cl.Super.Name.Lexeme)
	require.Len(t, cl.Methods, 1)
	assert.Equal(t, "greet", cl.Methods[0].Name.Lexeme)
}

func TestFunctionDeclarationVsLambda(t *testing.T) {
	stmts, errs := parseSrc(t, "fun f(a, b) { return a + b; } var g = fun (x) { return x; };")
	require.Zero(t, errs.Len())
	require.Len(t, stmts, 2)
	fnDecl, ok := stmts[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, paramNames(fnDecl.Fn.Params))

	varDecl, ok := stmts[1].(*ast.Var)
	require.True(t, ok)
	_, ok = varDecl.Initializer.(*ast.Lambda)
	assert.True(t, ok)
}

func TestPanicModeRecoveryParsesFollowingDeclarations(t *testing.T) {
	stmts, errs := parseSrc(t, "var = 1; var y = 2;")
	require.NotZero(t, errs.Len())
	// the second declaration should still be parsed despite the first's error
	found := false
	for _, s := range stmts {
		if v, ok := s.(*ast.Var); ok && v.Name.Lexeme == "y" {
			found = true
		}
	}
	assert.True(t, found, "expected recovery to parse the 'y' declaration")
}

func paramNames(toks []token.Token) []string {
	names := make([]string, len(toks))
	for i, tok := range toks {
		names[i] = tok.Lexeme
	}
	return names
}
