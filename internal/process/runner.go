// Package process runs the external tools cargo-protologic drives: cargo, wasm-opt,
// the Protologic simulator and the Protologic player.
//
// Every tool goes through the Runner interface so that the build, optimize and
// battle packages can be exercised with a Fake in tests.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// Command describes a single external process invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are passed to the executable verbatim.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdout and Stderr receive the process output for Run.
	// Nil streams to the user's terminal.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Outcome is the result of a process that ran to completion.
type Outcome struct {
	// ExitCode is the process exit status.
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner spawns external processes.
//
// Run and Output return an error only when the process could not be started or
// the context was canceled; a non-zero exit is reported through Outcome.
type Runner interface {
	// Run spawns the command and blocks until it exits.
	Run(ctx context.Context, cmd Command) (Outcome, error)

	// Output spawns the command, blocks until it exits and returns its stdout.
	// Stderr is captured and attached to the error when the process fails.
	Output(ctx context.Context, cmd Command) ([]byte, Outcome, error)

	// Start spawns the command detached. It does not wait for the process and the
	// process outlives both the context and cargo-protologic itself.
	Start(cmd Command) error
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run spawns the command with output streamed to cmd.Stdout/cmd.Stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Outcome, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //#nosec G204 -- commands are built internally from config
	c.Dir = cmd.Dir
	c.Stdout = writerOr(cmd.Stdout, os.Stdout)
	c.Stderr = writerOr(cmd.Stderr, os.Stderr)

	return wait(ctx, cmd, c.Run())
}

// Output spawns the command and captures its stdout.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, Outcome, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //#nosec G204 -- commands are built internally from config
	c.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	outcome, err := wait(ctx, cmd, c.Run())
	if err != nil {
		return nil, outcome, err
	}
	if !outcome.Success() && stderr.Len() > 0 {
		return stdout.Bytes(), outcome, fmt.Errorf("%s exited with status %d: %s: %w",
			cmd.Name, outcome.ExitCode, strings.TrimSpace(stderr.String()), perrors.ErrCommandFailed)
	}
	return stdout.Bytes(), outcome, nil
}

// Start spawns the command without a context and releases it.
func (r *ExecRunner) Start(cmd Command) error {
	c := exec.Command(cmd.Name, cmd.Args...) //#nosec G204 -- commands are built internally from config
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}
	return c.Process.Release()
}

// wait converts the result of exec.Cmd.Run into an Outcome.
func wait(ctx context.Context, cmd Command, err error) (Outcome, error) {
	if err == nil {
		return Outcome{}, nil
	}
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Outcome{ExitCode: exitErr.ExitCode()}, nil
	}
	return Outcome{}, fmt.Errorf("failed to run %s: %w", cmd.Name, err)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
