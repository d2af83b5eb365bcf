package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/mna/mainer"

	"github.com/loxlang/lox/lang/interp"
)

// runREPL implements §6's interactive mode: print "> ", read a line, run it
// (discarding that line's errors for the next prompt), repeat until
// end-of-input. The global environment -- and so every top-level `var`,
// `fun` and `class` declaration -- persists across lines, since a single
// interp.Interpreter runs every line in turn; only the per-line diagnostic
// is discarded, never the interpreter's state.
func runREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	in := interp.New()
	in.Stdout = stdio.Stdout

	scan := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scan.Scan() {
			break
		}
		// The REPL's per-line exit code is intentionally discarded (§6): a
		// static or runtime error on one line reports a diagnostic and the
		// loop simply continues with the next prompt.
		runSource(ctx, stdio.Stderr, in, scan.Text())
	}
	if err := scan.Err(); err != nil && err != io.EOF {
		fmt.Fprintln(stdio.Stderr, err)
		return exitIOError
	}
	return exitSuccess
}
