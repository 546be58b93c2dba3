package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/djscaffold/djscaffold/internal/core/project"
)

// WizardDefaults holds values already known from flags or config. Empty
// fields are asked for; in headless mode they fall back to defaults or fail.
type WizardDefaults struct {
	ProjectName string
	Apps        []string
	AppsGiven   bool // Apps came from a flag, even if empty.
	Location    string
}

// WizardResult is the answer set of a wizard run.
type WizardResult struct {
	ProjectName string
	Apps        []string
	Location    string // Absolute path.
}

// Wizard collects the project name, app names and location.
type Wizard interface {
	Run(ctx context.Context, defaults WizardDefaults) (*WizardResult, error)
}

// wizardImpl implements Wizard with huh forms.
type wizardImpl struct {
	theme    *Theme
	headless *HeadlessManager
	getwd    func() (string, error)
}

// NewWizard creates a Wizard backed by the given theme and headless manager.
func NewWizard(theme *Theme, hm *HeadlessManager) Wizard {
	return &wizardImpl{theme: theme, headless: hm, getwd: os.Getwd}
}

// Run asks for every value missing from defaults. In headless mode the
// project name is required and the location defaults to the working
// directory.
func (w *wizardImpl) Run(ctx context.Context, defaults WizardDefaults) (*WizardResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.headless.IsHeadless() || complete(defaults) {
		return w.runHeadless(defaults)
	}
	return w.runInteractive(ctx, defaults)
}

func complete(d WizardDefaults) bool {
	return d.ProjectName != "" && d.AppsGiven && d.Location != ""
}

func (w *wizardImpl) runHeadless(d WizardDefaults) (*WizardResult, error) {
	if d.ProjectName == "" {
		return nil, fmt.Errorf("%w: project name", ErrHeadlessMissingValue)
	}
	if err := validateProjectName(d.ProjectName); err != nil {
		return nil, err
	}
	loc, err := w.location(d.Location)
	if err != nil {
		return nil, err
	}
	apps := d.Apps
	if apps == nil {
		apps = []string{}
	}
	return &WizardResult{ProjectName: d.ProjectName, Apps: apps, Location: loc}, nil
}

func (w *wizardImpl) runInteractive(ctx context.Context, d WizardDefaults) (*WizardResult, error) {
	name := d.ProjectName
	appsCSV := strings.Join(d.Apps, ",")
	start, err := w.location(d.Location)
	if err != nil {
		return nil, err
	}
	location := d.Location

	var groups []*huh.Group
	if d.ProjectName == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("A Python identifier, e.g. mysite").
				Placeholder("mysite").
				Validate(validateProjectName).
				Value(&name),
		))
	}
	if !d.AppsGiven {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("App names").
				Description("Comma separated, leave empty for none").
				Placeholder("blog, shop").
				Validate(validateAppList).
				Value(&appsCSV),
		))
	}
	if d.Location == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewFilePicker().
				Title("Where should the project be created?").
				Description("Choose a directory and press enter").
				CurrentDirectory(start).
				DirAllowed(true).
				FileAllowed(false).
				ShowHidden(false).
				Picking(true).
				Height(12).
				Value(&location),
		))
	}

	form := huh.NewForm(groups...).WithTheme(w.theme.huhTheme()).WithShowHelp(true)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCancelled
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("wizard: %w", err)
	}

	if location == "" {
		location = start
	}
	loc, err := w.location(location)
	if err != nil {
		return nil, err
	}
	return &WizardResult{
		ProjectName: strings.TrimSpace(name),
		Apps:        project.SplitAppNames(appsCSV),
		Location:    loc,
	}, nil
}

// location resolves dir to an absolute path, defaulting to the working
// directory.
func (w *wizardImpl) location(dir string) (string, error) {
	if dir == "" {
		wd, err := w.getwd()
		if err != nil {
			return "", fmt.Errorf("working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

func validateProjectName(s string) error {
	return project.ValidateName(project.KindProject, strings.TrimSpace(s))
}

func validateAppList(s string) error {
	var errs []error
	for _, app := range project.SplitAppNames(s) {
		if err := project.ValidateName(project.KindApp, app); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
