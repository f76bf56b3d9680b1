// Package execx runs external tools (the Fooocus launcher, ffmpeg) with
// uniform stderr capture, so failures carry the tool's own diagnostics back
// to the caller.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Cmd describes a single external tool invocation.
type Cmd struct {
	Name string // binary to run, resolved via PATH
	Args []string
	Dir  string // working directory; empty inherits the process cwd
	Tee  bool   // stream output to the console while capturing stderr
}

// Result holds the outcome of a single invocation.
type Result struct {
	Stderr string
	Err    error
}

// Run executes the command. Stderr is always captured; when c.Tee is set it
// is also streamed to os.Stderr in real time, and stdout is passed through
// (Python tools report progress on stdout, ffmpeg on stderr).
func Run(ctx context.Context, c Cmd) Result {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stderrBuf bytes.Buffer
	if c.Tee {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return Result{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Error wraps a failed invocation with its captured stderr so callers can
// log the tail without re-running the tool.
type Error struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
