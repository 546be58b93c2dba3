// Package cli provides the Cobra command tree and dependency wiring for
// djscaffold. This file defines the Dependencies struct (Composition Root)
// that wires configuration, logging, the command runner and the Django and
// git services together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/djscaffold/djscaffold/internal/config"
	coregit "github.com/djscaffold/djscaffold/internal/core/git"
	"github.com/djscaffold/djscaffold/internal/django"
	"github.com/djscaffold/djscaffold/internal/shell"
	"github.com/djscaffold/djscaffold/internal/ui"
)

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated.
type Dependencies struct {
	Config     *config.Config
	ConfigPath string // File the config was read from; empty for defaults.
	Loader     *config.Loader
	Logger     *slog.Logger
	Runner     shell.Runner
	Admin      *django.Admin
	Theme      *ui.Theme
	Headless   *ui.HeadlessManager
	Wizard     ui.Wizard
}

// globalOptions are the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

// buildOptions carries test overrides into the composition root.
type buildOptions struct {
	runner   shell.Runner
	loader   *config.Loader
	headless *bool
}

// newDependencies loads configuration and wires every service. When
// skipConfig is set, defaults are used and no file is read.
func newDependencies(g globalOptions, b buildOptions, skipConfig bool, errOut io.Writer) (*Dependencies, error) {
	loader := b.loader
	if loader == nil {
		loader = config.NewLoader()
	}

	cfg := config.NewDefaultConfig()
	if !skipConfig {
		loaded, err := loader.Load(g.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := config.Validate(loaded); err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := newLogger(cfg.System, g.verbose, errOut)
	if used := loader.Used(); used != "" {
		logger.Debug("using config file", "path", used)
	}

	runner := b.runner
	if runner == nil {
		runner = shell.NewRunner(logger)
	}

	admin := django.NewAdmin(runner,
		django.WithDjangoAdmin(cfg.Generator.DjangoAdmin),
		django.WithPython(cfg.Generator.Python),
		django.WithTimeout(cfg.Generator.CommandTimeout()),
		django.WithLogger(logger),
	)

	theme := ui.NewTheme(ui.ThemeConfig{
		NoColor: g.noColor || cfg.System.NoColor,
		Mode:    cfg.System.Theme,
	})
	hm := ui.NewHeadlessManager()
	switch {
	case b.headless != nil:
		hm.ForceHeadless(*b.headless)
	case cfg.System.NonInteractive:
		hm.ForceHeadless(true)
	}

	return &Dependencies{
		Config:     cfg,
		ConfigPath: loader.Used(),
		Loader:     loader,
		Logger:     logger,
		Runner:     runner,
		Admin:      admin,
		Theme:      theme,
		Headless:   hm,
		Wizard:     ui.NewWizard(theme, hm),
	}, nil
}

// GitInitializer builds the repository initialiser for backend, falling
// back to the configured backend when empty.
func (d *Dependencies) GitInitializer(backend string) (coregit.Initializer, error) {
	if backend == "" {
		backend = d.Config.Git.Backend
	}
	return coregit.NewInitializer(d.Runner,
		coregit.WithBackend(backend),
		coregit.WithLogger(d.Logger),
	)
}

// newLogger discards everything unless verbose output or debug level was
// requested, in which case records go to w.
func newLogger(sys config.SystemConfig, verbose bool, w io.Writer) *slog.Logger {
	level := parseLevel(sys.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	if !verbose && level != slog.LevelDebug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := &slog.HandlerOptions{Level: level}
	if sys.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
