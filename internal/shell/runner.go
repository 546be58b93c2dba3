// Package shell runs external commands for the scaffolder. Commands are
// executed directly (never through /bin/sh) so user-supplied names are
// passed to the child process verbatim.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors for command execution.
var (
	// ErrCommandNotFound indicates the binary could not be resolved on PATH.
	ErrCommandNotFound = errors.New("shell: command not found")

	// ErrTimeout indicates the command exceeded its timeout.
	ErrTimeout = errors.New("shell: command timed out")
)

// Command describes a single process invocation.
type Command struct {
	Name    string        // Binary name or path.
	Args    []string      // Arguments, passed without shell interpretation.
	Dir     string        // Working directory; empty means the current directory.
	Env     []string      // Extra KEY=VALUE pairs appended to os.Environ().
	Timeout time.Duration // Zero means no timeout beyond ctx.
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Runner executes external commands.
type Runner interface {
	// Run executes cmd and waits for it to finish. A non-zero exit status
	// is reported as *ExitError together with the partial Result.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// Lookup reports the resolved path of a binary, or ErrCommandNotFound.
	Lookup(name string) (string, error)
}

// execRunner is the os/exec backed Runner.
type execRunner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner backed by os/exec.
func NewRunner(logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &execRunner{logger: logger.With("module", "shell")}
}

// Lookup resolves name on PATH.
func (r *execRunner) Lookup(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}
	return path, nil
}

// Run executes the command, capturing stdout and stderr separately.
func (r *execRunner) Run(ctx context.Context, c Command) (*Result, error) {
	path, err := r.Lookup(c.Name)
	if err != nil {
		return nil, err
	}

	parent := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "cmd", c.String(), "dir", c.Dir)

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		r.logger.Debug("command finished", "cmd", c.Name, "duration", res.Duration)
		return res, nil
	}

	// ErrTimeout only when the command's own timeout fired; a parent
	// deadline or cancellation is returned as the context error.
	if c.Timeout > 0 && parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.ExitCode = -1
		return res, fmt.Errorf("%s after %s: %w", c.String(), c.Timeout, ErrTimeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", c.String(), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.logger.Debug("command failed", "cmd", c.Name, "exit", res.ExitCode)
		return res, &ExitError{
			Command:  c.String(),
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
		}
	}

	res.ExitCode = -1
	return res, fmt.Errorf("run %s: %w", c.String(), runErr)
}
