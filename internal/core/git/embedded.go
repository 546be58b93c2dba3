package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Compile-time interface compliance check.
var _ Initializer = (*embeddedInitializer)(nil)

// embeddedInitializer implements Initializer with go-git.
type embeddedInitializer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEmbeddedInitializer creates an Initializer that needs no git binary.
func NewEmbeddedInitializer(logger *slog.Logger) Initializer {
	return &embeddedInitializer{logger: logger, now: time.Now}
}

// Init creates the repository, stages every non-ignored file and commits.
func (e *embeddedInitializer) Init(ctx context.Context, dir string, opts InitOptions) (*InitResult, error) {
	root, err := checkTarget(dir)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	e.logger.Debug("initialising repository", "dir", root, "backend", BackendEmbedded)

	initOpts := &gogit.PlainInitOptions{}
	if opts.DefaultBranch != "" {
		initOpts.InitOptions.DefaultBranch = plumbing.NewBranchReferenceName(opts.DefaultBranch)
	}
	repo, err := gogit.PlainInitWithOptions(root, initOpts)
	if err != nil {
		return nil, fmt.Errorf("git init: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree: %w", err)
	}

	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return nil, fmt.Errorf("git read .gitignore: %w", err)
	}
	wt.Excludes = append(wt.Excludes, patterns...)

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return nil, fmt.Errorf("git add: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	if status.IsClean() {
		return nil, ErrNothingToCommit
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, email := e.identity(opts)
	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: e.now()},
	})
	if err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			return nil, ErrNothingToCommit
		}
		return nil, fmt.Errorf("git commit: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("git head: %w", err)
	}

	result := &InitResult{
		Backend: BackendEmbedded,
		Branch:  head.Name().Short(),
		Commit:  hash.String(),
	}
	e.logger.Info("repository initialised", "dir", root, "branch", result.Branch, "commit", result.Commit)
	return result, nil
}

// identity resolves the commit author from options, the global git config
// and finally the fallback identity.
func (e *embeddedInitializer) identity(opts InitOptions) (string, string) {
	name, email := opts.AuthorName, opts.AuthorEmail
	if name == "" || email == "" {
		if cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope); err == nil {
			if name == "" {
				name = cfg.User.Name
			}
			if email == "" {
				email = cfg.User.Email
			}
		} else {
			e.logger.Debug("global git config unavailable", "error", err)
		}
	}
	if name == "" {
		name = FallbackAuthorName
	}
	if email == "" {
		email = FallbackAuthorEmail
	}
	return name, email
}
