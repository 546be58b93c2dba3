package git

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/djscaffold/djscaffold/internal/defs"
	"github.com/djscaffold/djscaffold/internal/shell"
)

// Compile-time interface compliance check.
var _ Initializer = (*systemInitializer)(nil)

// systemInitializer implements Initializer with the system git binary.
type systemInitializer struct {
	runner shell.Runner
	logger *slog.Logger
}

// NewSystemInitializer creates an Initializer that shells out to git.
func NewSystemInitializer(runner shell.Runner, logger *slog.Logger) Initializer {
	return &systemInitializer{runner: runner, logger: logger}
}

// Init runs git init, git add . and git commit in dir.
func (s *systemInitializer) Init(ctx context.Context, dir string, opts InitOptions) (*InitResult, error) {
	root, err := checkTarget(dir)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	s.logger.Debug("initialising repository", "dir", root, "backend", BackendSystem)

	if _, err := s.execGit(ctx, root, "init", "--quiet"); err != nil {
		return nil, fmt.Errorf("git init: %w", err)
	}
	if opts.DefaultBranch != "" {
		// symbolic-ref works on every git version, unlike init --initial-branch.
		ref := "refs/heads/" + opts.DefaultBranch
		if _, err := s.execGit(ctx, root, "symbolic-ref", "HEAD", ref); err != nil {
			return nil, fmt.Errorf("git set default branch: %w", err)
		}
	}

	if _, err := s.execGit(ctx, root, "add", "."); err != nil {
		return nil, fmt.Errorf("git add: %w", err)
	}

	staged, err := s.execGit(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	if staged == "" {
		return nil, ErrNothingToCommit
	}

	name, email := s.identity(ctx, root, opts)
	if _, err := s.execGit(ctx, root,
		"-c", "user.name="+name,
		"-c", "user.email="+email,
		"-c", "commit.gpgsign=false",
		"commit", "--quiet", "-m", opts.Message,
	); err != nil {
		return nil, fmt.Errorf("git commit: %w", err)
	}

	hash, err := s.execGit(ctx, root, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git rev-parse: %w", err)
	}
	branch, err := s.execGit(ctx, root, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git current branch: %w", err)
	}

	s.logger.Info("repository initialised", "dir", root, "branch", branch, "commit", hash)
	return &InitResult{Backend: BackendSystem, Branch: branch, Commit: hash}, nil
}

// identity resolves the commit author: explicit options first, then the
// user's git config, then the fallback identity.
func (s *systemInitializer) identity(ctx context.Context, dir string, opts InitOptions) (string, string) {
	name, email := opts.AuthorName, opts.AuthorEmail
	if name == "" {
		// git config exits 1 when the key is unset; that case is not an error.
		name, _ = s.execGit(ctx, dir, "config", "user.name")
	}
	if email == "" {
		email, _ = s.execGit(ctx, dir, "config", "user.email")
	}
	if name == "" {
		name = FallbackAuthorName
	}
	if email == "" {
		email = FallbackAuthorEmail
	}
	return name, email
}

// execGit executes a git command in dir and returns trimmed stdout.
// It sets GIT_TERMINAL_PROMPT=0 and LC_ALL=C for consistent behavior.
func (s *systemInitializer) execGit(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := s.runner.Run(ctx, shell.Command{
		Name:    "git",
		Args:    args,
		Dir:     dir,
		Env:     []string{"GIT_TERMINAL_PROMPT=0", "LC_ALL=C"},
		Timeout: defs.DefaultGitTimeout,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(res.Stdout, "\n\r"), nil
}
