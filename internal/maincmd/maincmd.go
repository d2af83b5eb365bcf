// Package maincmd is the command-line driver: the host collaborator the
// language specification places out of scope (§1). It owns everything the
// core pipeline does not: dispatching between file and interactive modes,
// reading source off disk, the REPL's read/run/print loop, and mapping the
// four error classes (§7) plus host I/O failures onto the process exit codes
// fixed by §6.
//
// The flag-parsing and Stdio plumbing (Cmd.Validate/SetArgs/SetFlags/Main,
// mainer.Parser, mainer.CancelOnSignal) is adapted directly from the
// teacher's own internal/maincmd/maincmd.go, which used the same
// github.com/mna/mainer dependency for its own multi-command CLI. This
// language's external interface is simpler -- there is no subcommand
// dispatch, just "zero or one positional argument" -- so the teacher's
// reflection-based command table is gone, replaced by the direct dispatch
// §6 describes.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "lox"

var (
	shortUsage = fmt.Sprintf(`usage: %s [<script>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<script>]
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the %[1]s scripting language.

With no arguments, starts an interactive prompt (a "> " per line,
run and printed immediately, errors on one line do not prevent the next).

With one argument, reads <script> as UTF-8 source and runs it once.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Exit codes, fixed by the language specification's external interface
// (§6): 0 success, 64 CLI usage error, 65 scan/parse/resolve error, 70
// runtime error, 1 host I/O error (unreadable file, broken stdout).
const (
	exitSuccess     = mainer.ExitCode(0)
	exitUsageError  = mainer.ExitCode(64)
	exitStaticError = mainer.ExitCode(65)
	exitRuntimeErr  = mainer.ExitCode(70)
	exitIOError     = mainer.ExitCode(1)
)

// Cmd is the CLI's flag/argument surface and its entry point.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

// Validate enforces §6's external-interface shape: zero arguments
// (interactive mode) or exactly one positional argument (a script path).
// Any other shape is a usage error, which Main maps to exit code 64.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one script argument is accepted")
	}
	return nil
}

// Main parses flags, then dispatches to the REPL or to a single script run,
// per §6. It never panics: every error path here is translated into a
// diagnostic on stdio.Stderr and one of the fixed exit codes above.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // §6: "no environment variables read"
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsageError
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return exitSuccess
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return exitSuccess
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 0 {
		return runREPL(ctx, stdio)
	}
	return runFile(ctx, stdio, c.args[0])
}
