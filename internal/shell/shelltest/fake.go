// Package shelltest provides a scriptable shell.Runner for tests.
package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/djscaffold/djscaffold/internal/shell"
)

// Handler produces the outcome of a faked command.
type Handler func(cmd shell.Command) (*shell.Result, error)

// FakeRunner records every command and dispatches to handlers keyed by
// the command name followed by its first argument ("git init"), or by the
// bare name ("django-admin"). Unmatched commands succeed with empty output.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]Handler
	missing  map[string]bool
	Calls    []shell.Command
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		handlers: make(map[string]Handler),
		missing:  make(map[string]bool),
	}
}

// Handle registers h for the given key.
func (f *FakeRunner) Handle(key string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key] = h
}

// Stdout registers a handler that succeeds with the given stdout.
func (f *FakeRunner) Stdout(key, out string) {
	f.Handle(key, func(shell.Command) (*shell.Result, error) {
		return &shell.Result{Stdout: out}, nil
	})
}

// Fail registers a handler that exits with status 1 and the given stderr.
func (f *FakeRunner) Fail(key, stderr string) {
	f.Handle(key, func(c shell.Command) (*shell.Result, error) {
		return &shell.Result{Stderr: stderr, ExitCode: 1},
			&shell.ExitError{Command: c.String(), ExitCode: 1, Stderr: stderr}
	})
}

// Missing marks a binary as absent from PATH.
func (f *FakeRunner) Missing(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
}

// Lookup implements shell.Runner.
func (f *FakeRunner) Lookup(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", fmt.Errorf("%s: %w", name, shell.ErrCommandNotFound)
	}
	return "/usr/bin/" + name, nil
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := f.Lookup(cmd.Name); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	h, ok := f.handlers[key(cmd)]
	if !ok {
		h, ok = f.handlers[cmd.Name]
	}
	f.mu.Unlock()

	if !ok {
		return &shell.Result{}, nil
	}
	return h(cmd)
}

// CommandLines returns the recorded calls rendered as strings.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}

func key(cmd shell.Command) string {
	if len(cmd.Args) == 0 {
		return cmd.Name
	}
	return strings.TrimSpace(cmd.Name + " " + cmd.Args[0])
}
