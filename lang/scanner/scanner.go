// Package scanner tokenizes Lox source text for the parser to consume.
//
// The scanning loop (the off/roff/cur cursor, the rune-at-a-time advance,
// and the err callback sunk into a token.ErrorList) is adapted from the
// teacher's own scanner package, which in turn credits Go's go/scanner; see
// the historical note there. The lexical grammar itself (single- and
// double-char punctuation, nested block comments, line comments, string and
// number literals, keywords) is this language's own, per the language
// specification.
package scanner

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/loxlang/lox/lang/token"
)

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	src    []byte
	errors *token.ErrorList

	nextID int
	line   int

	cur rune // current character, -1 at end of input
	off int  // byte offset of cur
	roff int // byte offset right after cur
}

// New creates a Scanner over src, reporting lexical errors into errors.
func New(src []byte, errors *token.ErrorList) *Scanner {
	s := &Scanner{src: src, errors: errors, line: 1}
	s.advance()
	return s
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

// advanceIf advances past cur and returns true if cur equals want.
func (s *Scanner) advanceIf(want rune) bool {
	if s.cur == want {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(line int, msg string) {
	s.errors.Add(token.Lexical, line, "", msg)
}

func (s *Scanner) newToken(kind token.Kind, lexeme string, line int) token.Token {
	s.nextID++
	return token.Token{ID: s.nextID, Kind: kind, Lexeme: lexeme, Line: line}
}

// ScanAll tokenizes the whole source and returns the token stream (always
// terminated by a single EOF token). Lexical errors are appended to errors.
func ScanAll(src []byte, errors *token.ErrorList) []token.Token {
	s := New(src, errors)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Scan returns the next token in the source.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()

	line := s.line
	switch cur := s.cur; {
	case cur == -1:
		return s.newToken(token.EOF, "", line)

	case isAlpha(cur):
		lit := s.identifier()
		return s.newToken(token.Lookup(lit), lit, line)

	case isDigit(cur):
		return s.number(line)

	case cur == '"':
		return s.string(line)

	default:
		start := s.off
		s.advance()
		switch cur {
		case '(':
			return s.newToken(token.LPAREN, "(", line)
		case ')':
			return s.newToken(token.RPAREN, ")", line)
		case '{':
			return s.newToken(token.LBRACE, "{", line)
		case '}':
			return s.newToken(token.RBRACE, "}", line)
		case ',':
			return s.newToken(token.COMMA, ",", line)
		case '.':
			return s.newToken(token.DOT, ".", line)
		case '-':
			return s.newToken(token.MINUS, "-", line)
		case '+':
			return s.newToken(token.PLUS, "+", line)
		case ';':
			return s.newToken(token.SEMI, ";", line)
		case '*':
			return s.newToken(token.STAR, "*", line)
		case '%':
			return s.newToken(token.PERCENT, "%", line)
		case '?':
			return s.newToken(token.QUESTION, "?", line)
		case ':':
			return s.newToken(token.COLON, ":", line)
		case '!':
			if s.advanceIf('=') {
				return s.newToken(token.BANG_EQ, "!=", line)
			}
			return s.newToken(token.BANG, "!", line)
		case '=':
			if s.advanceIf('=') {
				return s.newToken(token.EQ_EQ, "==", line)
			}
			return s.newToken(token.EQ, "=", line)
		case '<':
			if s.advanceIf('=') {
				return s.newToken(token.LT_EQ, "<=", line)
			}
			return s.newToken(token.LT, "<", line)
		case '>':
			if s.advanceIf('=') {
				return s.newToken(token.GT_EQ, ">=", line)
			}
			return s.newToken(token.GT, ">", line)
		case '/':
			// comments were already consumed by skipWhitespaceAndComments; a bare
			// '/' reaching here is always division.
			return s.newToken(token.SLASH, "/", line)
		default:
			s.error(line, "Unexpected character: "+string(s.src[start:s.off]))
			return s.Scan()
		}
	}
}

// skipWhitespaceAndComments consumes spaces, tabs, carriage returns,
// newlines, "//" line comments and nested "/* ... */" block comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.cur {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peek() == '/' {
				for s.cur != '\n' && s.cur != -1 {
					s.advance()
				}
			} else if s.peek() == '*' {
				s.blockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) blockComment() {
	startLine := s.line
	s.advance() // consume '/'
	s.advance() // consume '*'
	depth := 1
	for depth > 0 {
		switch {
		case s.cur == -1:
			s.error(startLine, "Unterminated block comment.")
			return
		case s.cur == '/' && s.peek() == '*':
			s.advance()
			s.advance()
			depth++
		case s.cur == '*' && s.peek() == '/':
			s.advance()
			s.advance()
			depth--
		default:
			s.advance()
		}
	}
}

func (s *Scanner) identifier() string {
	start := s.off
	for isAlpha(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// number scans an integer or floating point literal. The fractional part's
// dot is consumed only if followed by a digit, so "123." tokenizes as
// Number(123) then Dot.
func (s *Scanner) number(line int) token.Token {
	start := s.off
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		s.advance() // consume '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[start:s.off])
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		s.error(line, "Invalid number literal: "+lit)
	}
	tok := s.newToken(token.NUMBER, lit, line)
	tok.Number = v
	return tok
}

// string scans a double-quoted string literal, which may span multiple
// lines.
func (s *Scanner) string(line int) token.Token {
	s.advance() // consume opening quote
	var sb strings.Builder
	for s.cur != '"' {
		if s.cur == -1 {
			s.error(line, "Unterminated string.")
			tok := s.newToken(token.STRING, sb.String(), line)
			tok.String = sb.String()
			return tok
		}
		sb.WriteRune(s.cur)
		s.advance()
	}
	s.advance() // consume closing quote
	val := sb.String()
	tok := s.newToken(token.STRING, `"`+val+`"`, line)
	tok.String = val
	return tok
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isAlpha reports whether r may start or continue an identifier. Per the
// language's external interface, identifiers are ASCII letters or
// underscore, then ASCII alphanumerics or underscore.
func isAlpha(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
