package scanner_test

import (
	"testing"

	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, *token.ErrorList) {
	t.Helper()
	var errs token.ErrorList
	toks := scanner.ScanAll([]byte(src), &errs)
	return toks, &errs
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*/%?:!!====<<=>>=")
	require.Zero(t, errs.Len())
	assert.Equal(t, []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.STAR, token.SLASH,
		token.PERCENT, token.QUESTION, token.COLON, token.BANG, token.BANG_EQ,
		token.EQ_EQ, token.EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ, token.EOF,
	}, kinds(toks))
}

func TestLineComment(t *testing.T) {
	toks, errs := scanAll(t, "1 // a comment\n2")
	require.Zero(t, errs.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, 1.0, toks[0].Number)
	assert.Equal(t, 2, toks[1].Line)
}

func TestNestedBlockComment(t *testing.T) {
	toks, errs := scanAll(t, "1 /* outer /* inner */ still /* more */ outer */ 2")
	require.Zero(t, errs.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, 1.0, toks[0].Number)
	assert.Equal(t, 2.0, toks[1].Number)
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, errs := scanAll(t, "/* never closed")
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Unterminated block comment")
}

func TestStringLiteralMultiline(t *testing.T) {
	toks, errs := scanAll(t, "\"a\nb\" 1")
	require.Zero(t, errs.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, "a\nb", toks[0].String)
	assert.Equal(t, 2, toks[1].Line)
}

func TestUnterminatedString(t *testing.T) {
	_, errs := scanAll(t, `"unterminated`)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errs[0].Msg, "Unterminated string")
}

func TestNumberTrailingDot(t *testing.T) {
	toks, errs := scanAll(t, "123.")
	require.Zero(t, errs.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, 123.0, toks[0].Number)
	assert.Equal(t, token.DOT, toks[1].Kind)
}

func TestNumberFraction(t *testing.T) {
	toks, errs := scanAll(t, "3.14")
	require.Zero(t, errs.Len())
	assert.Equal(t, 3.14, toks[0].Number)
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks, errs := scanAll(t, "and class _foo bar123 while")
	require.Zero(t, errs.Len())
	assert.Equal(t, []token.Kind{
		token.AND, token.CLASS, token.IDENT, token.IDENT, token.WHILE, token.EOF,
	}, kinds(toks))
}

func TestUnknownCharacterReportsAndContinues(t *testing.T) {
	toks, errs := scanAll(t, "1 @ 2")
	require.Equal(t, 1, errs.Len())
	require.Len(t, toks, 3)
	assert.Equal(t, 1.0, toks[0].Number)
	assert.Equal(t, 2.0, toks[1].Number)
}

func TestTokenIDsAreMonotonicAndUnique(t *testing.T) {
	toks, _ := scanAll(t, "a a a")
	seen := map[int]bool{}
	last := -1
	for _, tok := range toks {
		assert.False(t, seen[tok.ID], "duplicate token id %d", tok.ID)
		seen[tok.ID] = true
		assert.Greater(t, tok.ID, last)
		last = tok.ID
	}
}
