package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	coregit "github.com/djscaffold/djscaffold/internal/core/git"
	"github.com/djscaffold/djscaffold/internal/core/project"
	"github.com/djscaffold/djscaffold/internal/template"
	"github.com/djscaffold/djscaffold/internal/ui"
	"github.com/djscaffold/djscaffold/pkg/version"
)

type newOptions struct {
	apps            string
	location        string
	force           bool
	noGit           bool
	noFreeze        bool
	gitBackend      string
	adminHeader     string
	adminTitle      string
	adminIndexTitle string
	nonInteractive  bool
}

func newNewCmd(a *app) *cobra.Command {
	var o newOptions
	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a Django project with apps, routes and an initial commit",
		Long: `Create a Django project in <location>/<project-name>.

Missing values are asked for interactively. Without a terminal, or with
--non-interactive, the project name is required and the location defaults
to the current directory.

Examples:
  djscaffold new                                   Ask for everything
  djscaffold new mysite --apps blog,shop           Create in the current directory
  djscaffold new mysite -l ~/code --no-git         Skip the git repository`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, a.deps, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.apps, "apps", "", "Comma separated app names")
	f.StringVarP(&o.location, "location", "l", "", "Parent directory of the project (default: current directory)")
	f.BoolVar(&o.force, "force", false, "Reuse a non-empty project directory and overwrite generated files")
	f.BoolVar(&o.noGit, "no-git", false, "Do not create a git repository")
	f.BoolVar(&o.noFreeze, "no-freeze", false, "Do not write requirements.txt")
	f.StringVar(&o.gitBackend, "git-backend", "", "Git backend: auto, system or embedded (default from config)")
	f.StringVar(&o.adminHeader, "admin-header", "", "Admin site header (default: \"<Project> Admin\")")
	f.StringVar(&o.adminTitle, "admin-title", "", "Admin site title")
	f.StringVar(&o.adminIndexTitle, "admin-index-title", "", "Admin index page title")
	f.BoolVar(&o.nonInteractive, "non-interactive", false, "Never prompt; fail when the project name is missing")
	return cmd
}

func runNew(cmd *cobra.Command, deps *Dependencies, o newOptions, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := deps.Config

	if o.nonInteractive {
		deps.Headless.ForceHeadless(true)
	}

	defaults := ui.WizardDefaults{
		Location:  o.location,
		AppsGiven: cmd.Flags().Changed("apps"),
		Apps:      project.SplitAppNames(o.apps),
	}
	if len(args) > 0 {
		defaults.ProjectName = strings.TrimSpace(args[0])
	}
	answers, err := deps.Wizard.Run(ctx, defaults)
	if err != nil {
		return err
	}

	opts := project.CreateOptions{
		ProjectName: answers.ProjectName,
		Apps:        answers.Apps,
		Location:    answers.Location,
		Force:       o.force,
		SkipGit:     o.noGit || !cfg.Git.Enabled,
		SkipFreeze:  o.noFreeze || !cfg.Freeze.Enabled,
		FreezeFile:  cfg.Freeze.File,
		Admin: project.AdminSite{
			Header:     firstNonEmpty(o.adminHeader, cfg.Admin.SiteHeader),
			Title:      firstNonEmpty(o.adminTitle, cfg.Admin.SiteTitle),
			IndexTitle: firstNonEmpty(o.adminIndexTitle, cfg.Admin.IndexTitle),
		},
		Git: coregit.InitOptions{
			Message:       cfg.Git.CommitMessage,
			AuthorName:    cfg.Git.AuthorName,
			AuthorEmail:   cfg.Git.AuthorEmail,
			DefaultBranch: cfg.Git.DefaultBranch,
		},
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	var gitInit coregit.Initializer
	if !opts.SkipGit {
		gitInit, err = deps.GitInitializer(o.gitBackend)
		if err != nil {
			return err
		}
	}

	reporter := ui.NewProgress(deps.Theme, deps.Headless, out)
	scaffolder, err := project.NewScaffolder(deps.Admin, gitInit,
		project.WithReporter(reporter),
		project.WithLogger(deps.Logger),
	)
	if err != nil {
		reporter.Close()
		return err
	}

	res, err := scaffolder.Create(ctx, opts)
	reporter.Close()
	if err != nil {
		return err
	}

	printSummary(out, deps, res)
	return nil
}

func printSummary(w io.Writer, deps *Dependencies, res *project.CreateResult) {
	t := deps.Theme
	apps := "none"
	if len(res.Apps) > 0 {
		apps = strings.Join(res.Apps, ", ")
	}
	django := res.DjangoVersion
	if django == "" {
		django = "unknown"
	}
	freeze := "skipped"
	if res.Frozen {
		freeze = deps.Config.Freeze.File
	}
	gitLine := "skipped"
	if res.Git != nil {
		gitLine = fmt.Sprintf("%s on %s (%s)", shortHash(res.Git.Commit), res.Git.Branch, res.Git.Backend)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, t.Card(t.Success("✓")+" "+t.Title("Project created"), [][2]string{
		{"Location", res.ProjectDir},
		{"Apps", apps},
		{"Django", django},
		{"Requirements", freeze},
		{"Git", gitLine},
		{"Files", fmt.Sprintf("%d created, %d modified", len(res.CreatedFiles), len(res.ModifiedFiles))},
	}))
	for _, warning := range res.Warnings {
		_, _ = fmt.Fprintln(w, t.Warning("! "+warning))
	}

	md, err := nextSteps(deps, res)
	if err != nil {
		deps.Logger.Debug("next steps not rendered", "error", err)
		return
	}
	rendered, err := ui.RenderMarkdown(md, t, 80)
	if err != nil {
		rendered = md
	}
	_, _ = fmt.Fprint(w, rendered)
}

func nextSteps(deps *Dependencies, res *project.CreateResult) (string, error) {
	fsys, err := template.EmbeddedTemplates()
	if err != nil {
		return "", err
	}
	data := template.NewProjectContext(
		template.WithProject(filepath.Base(res.ProjectDir), res.ProjectDir),
		template.WithApps(res.Apps),
		template.WithPython(deps.Admin.PythonBin()),
		template.WithToolVersion(version.GetVersion()),
	)
	b, err := template.NewRenderer(fsys).Render(template.NextStepsTemplate, data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
