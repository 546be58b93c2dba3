// Package git initialises the repository of a freshly generated project.
// Two backends are available: the system git binary, driven through
// shell.Runner, and an embedded go-git implementation used when no git
// binary is installed.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/djscaffold/djscaffold/internal/defs"
	"github.com/djscaffold/djscaffold/internal/shell"
)

// Sentinel errors for repository initialisation.
var (
	// ErrAlreadyRepository indicates the target directory already has a .git entry.
	ErrAlreadyRepository = errors.New("git: directory is already a repository")

	// ErrNothingToCommit indicates the working tree had no files to commit.
	ErrNothingToCommit = errors.New("git: nothing to commit")

	// ErrSystemGitNotFound indicates the system backend was requested but git is not installed.
	ErrSystemGitNotFound = errors.New("git: system git binary not found")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("git: unknown backend")
)

// Backend names accepted by NewInitializer.
const (
	BackendAuto     = "auto"
	BackendSystem   = "system"
	BackendEmbedded = "embedded"
)

// Defaults applied to InitOptions.
const (
	DefaultCommitMessage = "Initial commit"
	FallbackAuthorName   = "djscaffold"
	FallbackAuthorEmail  = "djscaffold@localhost"
)

// InitOptions configures the initial commit.
type InitOptions struct {
	Message       string // Commit message; defaults to DefaultCommitMessage.
	AuthorName    string // Empty uses the user's git identity, then FallbackAuthorName.
	AuthorEmail   string // Empty uses the user's git identity, then FallbackAuthorEmail.
	DefaultBranch string // Empty keeps the backend's default branch.
}

// InitResult describes the created repository.
type InitResult struct {
	Backend string // BackendSystem or BackendEmbedded.
	Branch  string // Short name of the checked-out branch.
	Commit  string // Full hash of the initial commit.
}

// Initializer creates a repository and records an initial commit of every
// file in the directory.
type Initializer interface {
	Init(ctx context.Context, dir string, opts InitOptions) (*InitResult, error)
}

// Option configures NewInitializer.
type Option func(*initConfig)

type initConfig struct {
	backend string
	logger  *slog.Logger
}

// WithBackend selects a backend by name. Empty selects BackendAuto.
func WithBackend(name string) Option {
	return func(c *initConfig) {
		if name != "" {
			c.backend = name
		}
	}
}

// WithLogger sets the logger used by the selected backend.
func WithLogger(l *slog.Logger) Option {
	return func(c *initConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewInitializer returns an Initializer for the configured backend.
// BackendAuto prefers system git and falls back to go-git when the binary
// cannot be found on PATH.
func NewInitializer(runner shell.Runner, opts ...Option) (Initializer, error) {
	cfg := &initConfig{
		backend: BackendAuto,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger.With("module", "git")

	switch cfg.backend {
	case BackendSystem:
		if _, err := runner.Lookup("git"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSystemGitNotFound, err)
		}
		return NewSystemInitializer(runner, logger), nil
	case BackendEmbedded:
		return NewEmbeddedInitializer(logger), nil
	case BackendAuto:
		if _, err := runner.Lookup("git"); err != nil {
			logger.Debug("system git unavailable, using embedded backend", "error", err)
			return NewEmbeddedInitializer(logger), nil
		}
		return NewSystemInitializer(runner, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.backend)
	}
}

// withDefaults fills the zero fields of opts that do not depend on the backend.
func (o InitOptions) withDefaults() InitOptions {
	if o.Message == "" {
		o.Message = DefaultCommitMessage
	}
	return o
}

// checkTarget verifies dir exists and is not yet a repository.
func checkTarget(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("git init %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("git init %s: not a directory", abs)
	}
	if _, err := os.Lstat(filepath.Join(abs, defs.GitDir)); err == nil {
		return "", fmt.Errorf("git init %s: %w", abs, ErrAlreadyRepository)
	}
	return abs, nil
}
