package token

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorClass distinguishes the phase that reported an Error, used to order
// diagnostics and to pick an exit code (see the driver in internal/maincmd).
type ErrorClass int

// Error classes, ordered by the precedence used when a run produces more
// than one class of error (lexical errors are reported ahead of syntax
// errors, which are reported ahead of semantic errors).
const (
	Lexical ErrorClass = iota
	Syntax
	Semantic
	Runtime
)

// A StaticError is a single diagnostic produced by the scanner, parser or
// resolver, formatted as "[line N] Error<LOC>: <message>" per the driver
// contract.
type StaticError struct {
	Class ErrorClass
	Line  int
	// Loc is "", " at end" or " at '<lexeme>'".
	Loc string
	Msg string
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Loc, e.Msg)
}

// ErrorList accumulates StaticErrors across a single run of a phase (or
// several phases sharing the same diagnostic sink), matching the teacher's
// pattern of collecting scanner/parser diagnostics in one place (see
// go/scanner.ErrorList, which the original driver aliased directly).
type ErrorList struct {
	Errs []*StaticError
}

// Add appends a new diagnostic to the list.
func (el *ErrorList) Add(class ErrorClass, line int, loc, msg string) {
	el.Errs = append(el.Errs, &StaticError{Class: class, Line: line, Loc: loc, Msg: msg})
}

// Len returns the number of diagnostics recorded.
func (el *ErrorList) Len() int { return len(el.Errs) }

// Sort orders diagnostics by error class first (Lexical before Syntax before
// Semantic), then by line number, preserving emission order for ties.
func (el *ErrorList) Sort() {
	sort.SliceStable(el.Errs, func(i, j int) bool {
		if el.Errs[i].Class != el.Errs[j].Class {
			return el.Errs[i].Class < el.Errs[j].Class
		}
		return el.Errs[i].Line < el.Errs[j].Line
	})
}

// Err returns nil if the list is empty, otherwise an error whose message is
// every diagnostic's Error(), one per line, and which also implements
// Unwrap() []error.
func (el *ErrorList) Err() error {
	if len(el.Errs) == 0 {
		return nil
	}
	return (*errorListError)(el)
}

type errorListError ErrorList

func (el *errorListError) Error() string {
	var sb strings.Builder
	for i, e := range el.Errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

func (el *errorListError) Unwrap() []error {
	errs := make([]error, len(el.Errs))
	for i, e := range el.Errs {
		errs[i] = e
	}
	return errs
}

// AtLoc formats the "<LOC>" portion of a static error for a given token:
// " at end" for the EOF token, or " at '<lexeme>'" otherwise. It never
// returns the empty "<LOC>"; the scanner passes "" directly instead.
func AtLoc(kind Kind, lexeme string) string {
	if kind == EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", lexeme)
}

// A RuntimeError is a single runtime diagnostic, carrying the line of the
// token most responsible for the failure (§6/§7). It is formatted as
// "[line N] <message>" with no Error<LOC> framing.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Msg)
}
