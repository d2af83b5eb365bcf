package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/loxlang/lox/lang/interp"
	"github.com/loxlang/lox/lang/parser"
	"github.com/loxlang/lox/lang/resolver"
	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
)

// runFile reads path as UTF-8 source and runs it once through the full
// pipeline (§6: "one positional argument = a path"). A failure to read the
// file is a host I/O error (exit 1); everything else follows runSource's
// exit-code mapping.
func runFile(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitIOError
	}

	in := interp.New()
	in.Stdout = stdio.Stdout
	return runSource(ctx, stdio.Stderr, in, string(src))
}

// runSource scans, parses, resolves and interprets src against in,
// reporting diagnostics to stderr and returning the exit code §6/§7
// prescribe for whichever error class (if any) stopped it.
//
// Precedence among static error classes follows §7: lexical errors are
// reported ahead of syntax errors, ahead of semantic errors, but any
// non-runtime error class maps to the same exit code 65 -- the ordering
// only affects the order diagnostics print in, via errs.Sort().
func runSource(ctx context.Context, stderr io.Writer, in *interp.Interpreter, src string) mainer.ExitCode {
	var errs token.ErrorList

	toks := scanner.ScanAll([]byte(src), &errs)
	stmts := parser.Parse(toks, &errs)
	locals := resolver.Resolve(stmts, &errs)

	if errs.Len() > 0 {
		errs.Sort()
		for _, e := range errs.Errs {
			fmt.Fprintln(stderr, e)
		}
		return exitStaticError
	}

	if err := in.Interpret(ctx, stmts, locals); err != nil {
		fmt.Fprintln(stderr, err)
		return exitRuntimeErr
	}
	return exitSuccess
}
