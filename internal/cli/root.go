package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/djscaffold/djscaffold/internal/config"
	"github.com/djscaffold/djscaffold/internal/shell"
	"github.com/djscaffold/djscaffold/pkg/version"
)

// skipConfigAnnotation marks commands that must run on defaults even when
// the config file is broken.
const skipConfigAnnotation = "djscaffold/skip-config"

// app holds the state shared by one command tree.
type app struct {
	global globalOptions
	build  buildOptions
	deps   *Dependencies
}

// RootOption configures NewRootCmd. Used by tests.
type RootOption func(*app)

// WithRunner replaces the command runner.
func WithRunner(r shell.Runner) RootOption {
	return func(a *app) { a.build.runner = r }
}

// WithLoader replaces the config loader.
func WithLoader(l *config.Loader) RootOption {
	return func(a *app) { a.build.loader = l }
}

// WithHeadless forces or disables headless mode.
func WithHeadless(headless bool) RootOption {
	return func(a *app) { a.build.headless = &headless }
}

// NewRootCmd builds the djscaffold command tree.
func NewRootCmd(opts ...RootOption) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "djscaffold",
		Short: "Scaffold Django projects with apps, routes and a git repository",
		Long: `djscaffold creates a Django project with django-admin, adds the requested
apps, registers them in settings.py, routes them from urls.py, customises the
admin site, freezes dependencies and commits the result to a new git repository.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, skip := cmd.Annotations[skipConfigAnnotation]
			deps, err := newDependencies(a.global, a.build, skip, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.deps = deps
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("djscaffold %s\n", version.GetFullVersion()))

	pf := root.PersistentFlags()
	pf.StringVar(&a.global.configPath, "config", "", "Config file (default: ./.djscaffold.yaml or the user config)")
	pf.BoolVarP(&a.global.verbose, "verbose", "v", false, "Write debug logs to stderr")
	pf.BoolVar(&a.global.noColor, "no-color", false, "Disable colours and animations")

	root.AddCommand(
		newNewCmd(a),
		newDoctorCmd(a),
		newInfoCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with a context cancelled on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
