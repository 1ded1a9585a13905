package process

import (
	"context"
	"fmt"
	"sync"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// HandlerFunc produces the result of a faked invocation.
type HandlerFunc func(cmd Command) (stdout []byte, outcome Outcome, err error)

// Fake is a Runner that records invocations instead of spawning processes.
// It is used by tests across packages.
type Fake struct {
	mu sync.Mutex

	// Handlers maps an executable name to its behavior. Commands without a
	// handler fail with ErrCommandNotConfigured.
	Handlers map[string]HandlerFunc

	calls  []Command
	starts []Command
}

// NewFake returns a Fake with no handlers.
func NewFake() *Fake {
	return &Fake{Handlers: make(map[string]HandlerFunc)}
}

// On registers the handler for an executable and returns the Fake for chaining.
func (f *Fake) On(name string, h HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Handlers[name] = h
	return f
}

// Run records the command and invokes its handler.
func (f *Fake) Run(ctx context.Context, cmd Command) (Outcome, error) {
	_, outcome, err := f.Output(ctx, cmd)
	return outcome, err
}

// Output records the command and invokes its handler.
func (f *Fake) Output(ctx context.Context, cmd Command) ([]byte, Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, Outcome{}, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	h, ok := f.Handlers[cmd.Name]
	f.mu.Unlock()

	if !ok {
		return nil, Outcome{}, fmt.Errorf("%s: %w", cmd.Name, perrors.ErrCommandNotConfigured)
	}
	return h(cmd)
}

// Start records a detached command. It fails only when a handler for the
// executable exists and returns an error.
func (f *Fake) Start(cmd Command) error {
	f.mu.Lock()
	f.starts = append(f.starts, cmd)
	h, ok := f.Handlers[cmd.Name]
	f.mu.Unlock()

	if !ok {
		return nil
	}
	_, _, err := h(cmd)
	return err
}

// Calls returns the commands passed to Run and Output, in order.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Starts returns the commands passed to Start, in order.
func (f *Fake) Starts() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.starts...)
}

// Succeed is a handler that exits zero with no output.
func Succeed(Command) ([]byte, Outcome, error) {
	return nil, Outcome{}, nil
}

// ExitWith returns a handler that exits with the given status.
func ExitWith(code int) HandlerFunc {
	return func(Command) ([]byte, Outcome, error) {
		return nil, Outcome{ExitCode: code}, nil
	}
}

// Reply returns a handler that prints stdout and exits zero.
func Reply(stdout []byte) HandlerFunc {
	return func(Command) ([]byte, Outcome, error) {
		return stdout, Outcome{}, nil
	}
}

var _ Runner = (*Fake)(nil)
