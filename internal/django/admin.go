package django

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/djscaffold/djscaffold/internal/defs"
	"github.com/djscaffold/djscaffold/internal/shell"
)

// MinimumVersion is the oldest Django release whose generated urls.py
// supports the path()/include() routes written by the scaffolder.
const MinimumVersion = ">= 2.0"

// Default binary names.
const (
	DefaultDjangoAdmin = "django-admin"
	DefaultPython      = "python"
)

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// Admin drives django-admin, manage.py and pip for a single scaffolding run.
type Admin struct {
	runner      shell.Runner
	djangoAdmin string
	python      string
	timeout     time.Duration
	logger      *slog.Logger
}

// AdminOption configures an Admin.
type AdminOption func(*Admin)

// WithDjangoAdmin overrides the django-admin binary.
func WithDjangoAdmin(bin string) AdminOption {
	return func(a *Admin) {
		if bin != "" {
			a.djangoAdmin = bin
		}
	}
}

// WithPython overrides the Python interpreter used for manage.py and pip.
func WithPython(bin string) AdminOption {
	return func(a *Admin) {
		if bin != "" {
			a.python = bin
		}
	}
}

// WithTimeout bounds every generator command.
func WithTimeout(d time.Duration) AdminOption {
	return func(a *Admin) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) AdminOption {
	return func(a *Admin) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdmin creates an Admin that executes commands through runner.
func NewAdmin(runner shell.Runner, opts ...AdminOption) *Admin {
	a := &Admin{
		runner:      runner,
		djangoAdmin: DefaultDjangoAdmin,
		python:      DefaultPython,
		timeout:     defs.DefaultCommandTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("module", "django")
	return a
}

// DjangoAdminBin returns the configured django-admin binary.
func (a *Admin) DjangoAdminBin() string { return a.djangoAdmin }

// PythonBin returns the configured Python interpreter.
func (a *Admin) PythonBin() string { return a.python }

// StartProject runs "django-admin startproject <name> <dir>". The target
// directory must already exist.
func (a *Admin) StartProject(ctx context.Context, name, dir string) error {
	a.logger.Info("starting project", "name", name, "dir", dir)
	_, err := a.runner.Run(ctx, shell.Command{
		Name:    a.djangoAdmin,
		Args:    []string{"startproject", name, dir},
		Timeout: a.timeout,
	})
	if err != nil {
		return fmt.Errorf("startproject %s: %w", name, err)
	}
	return nil
}

// StartApp runs "python manage.py startapp <app>" inside projectDir.
func (a *Admin) StartApp(ctx context.Context, projectDir, app string) error {
	a.logger.Info("starting app", "app", app)
	_, err := a.runner.Run(ctx, shell.Command{
		Name:    a.python,
		Args:    []string{defs.ManagePy, "startapp", app},
		Dir:     projectDir,
		Timeout: a.timeout,
	})
	if err != nil {
		return fmt.Errorf("startapp %s: %w", app, err)
	}
	return nil
}

// Freeze returns the output of "python -m pip freeze" run in dir.
func (a *Admin) Freeze(ctx context.Context, dir string) ([]byte, error) {
	res, err := a.runner.Run(ctx, shell.Command{
		Name:    a.python,
		Args:    []string{"-m", "pip", "freeze"},
		Dir:     dir,
		Timeout: a.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("pip freeze: %w", err)
	}
	return []byte(res.Stdout), nil
}

// Version returns the Django version reported by django-admin.
func (a *Admin) Version(ctx context.Context) (*semver.Version, error) {
	res, err := a.runner.Run(ctx, shell.Command{
		Name:    a.djangoAdmin,
		Args:    []string{"--version"},
		Timeout: defs.ProbeTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("django-admin --version: %w", err)
	}
	return ParseVersion(res.Stdout)
}

// PythonVersion returns the interpreter version string, e.g. "Python 3.12.1".
func (a *Admin) PythonVersion(ctx context.Context) (string, error) {
	res, err := a.runner.Run(ctx, shell.Command{
		Name:    a.python,
		Args:    []string{"--version"},
		Timeout: defs.ProbeTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", a.python, err)
	}
	// Python 2 printed the version on stderr.
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	return out, nil
}

// ParseVersion extracts a semantic version from django-admin output such
// as "5.0.6" or "5.1.dev20240101".
func ParseVersion(out string) (*semver.Version, error) {
	raw := leadingVersion.FindString(strings.TrimSpace(out))
	if raw == "" {
		return nil, fmt.Errorf("%w: %q", ErrVersionUnknown, strings.TrimSpace(out))
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrVersionUnknown, raw, err)
	}
	return v, nil
}

// CheckVersion returns ErrUnsupportedVersion when v is below MinimumVersion.
func CheckVersion(v *semver.Version) error {
	c, err := semver.NewConstraint(MinimumVersion)
	if err != nil {
		return fmt.Errorf("parse constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, MinimumVersion)
	}
	return nil
}
