package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	coregit "github.com/djscaffold/djscaffold/internal/core/git"
	"github.com/djscaffold/djscaffold/internal/defs"
	"github.com/djscaffold/djscaffold/internal/django"
	"github.com/djscaffold/djscaffold/internal/template"
	"github.com/djscaffold/djscaffold/pkg/version"
)

// CreateResult summarizes a scaffolding run. Paths are relative to ProjectDir.
type CreateResult struct {
	ProjectDir    string
	Apps          []string
	CreatedFiles  []string
	ModifiedFiles []string
	Warnings      []string // Non-fatal problems (version probe, freeze, git).
	DjangoVersion string   // Empty when it could not be determined.
	Frozen        bool
	Git           *coregit.InitResult // Nil when git was skipped or failed.
}

// Scaffolder runs the project generation pipeline.
type Scaffolder struct {
	admin     *django.Admin
	git       coregit.Initializer // May be nil; git is then skipped.
	templates fs.FS
	reporter  ProgressReporter
	logger    *slog.Logger
	now       func() time.Time
}

// ScaffolderOption configures a Scaffolder.
type ScaffolderOption func(*Scaffolder)

// WithReporter sets the progress reporter.
func WithReporter(r ProgressReporter) ScaffolderOption {
	return func(s *Scaffolder) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ScaffolderOption {
	return func(s *Scaffolder) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTemplates replaces the embedded template tree.
func WithTemplates(fsys fs.FS) ScaffolderOption {
	return func(s *Scaffolder) {
		s.templates = fsys
	}
}

// WithClock overrides the time source used for the project record.
func WithClock(now func() time.Time) ScaffolderOption {
	return func(s *Scaffolder) {
		s.now = now
	}
}

// NewScaffolder creates a Scaffolder. gitInit may be nil.
func NewScaffolder(admin *django.Admin, gitInit coregit.Initializer, opts ...ScaffolderOption) (*Scaffolder, error) {
	s := &Scaffolder{
		admin:    admin,
		git:      gitInit,
		reporter: NopReporter{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.templates == nil {
		fsys, err := template.EmbeddedTemplates()
		if err != nil {
			return nil, err
		}
		s.templates = fsys
	}
	return s, nil
}

// run tracks a single Create invocation.
type run struct {
	opts     CreateOptions
	layout   django.Layout
	result   *CreateResult
	renderer template.Renderer
}

// Create generates the project described by opts. Failures of the version
// probe, dependency freeze and git initialisation are recorded as warnings;
// every other failure aborts the run.
func (s *Scaffolder) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.FreezeFile == "" {
		opts.FreezeFile = defs.RequirementsTxt
	}

	r := &run{
		opts:     opts,
		layout:   django.Layout{Root: opts.ProjectDir(), Name: opts.ProjectName},
		result:   &CreateResult{ProjectDir: opts.ProjectDir(), Apps: opts.Apps},
		renderer: template.NewRenderer(s.templates),
	}

	s.logger.Info("creating django project",
		"name", opts.ProjectName,
		"apps", opts.Apps,
		"dir", r.layout.Root,
	)

	steps := []struct {
		step Step
		fn   func(context.Context, *run) error
	}{
		{StepPrepare, s.prepare},
		{StepCheckDjango, s.checkDjango},
		{StepStartProject, s.startProject},
		{StepStartApps, s.startApps},
		{StepRegisterApps, s.registerApps},
		{StepRouteApps, s.routeApps},
		{StepAppFiles, s.writeAppFiles},
		{StepFreeze, s.freeze},
		{StepProjectFiles, s.writeProjectFiles},
		{StepGit, s.initGit},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		s.reporter.StepStarted(st.step)
		if err := st.fn(ctx, r); err != nil {
			var skip skipError
			if errors.As(err, &skip) {
				s.reporter.StepSkipped(st.step, skip.reason)
				continue
			}
			s.reporter.StepFailed(st.step, err)
			return r.result, fmt.Errorf("%s: %w", st.step, err)
		}
		s.reporter.StepDone(st.step)
	}

	s.logger.Info("django project created",
		"dir", r.layout.Root,
		"created", len(r.result.CreatedFiles),
		"modified", len(r.result.ModifiedFiles),
		"warnings", len(r.result.Warnings),
	)
	return r.result, nil
}

// skipError marks a step that did not run.
type skipError struct{ reason string }

func (e skipError) Error() string { return "skipped: " + e.reason }

func (s *Scaffolder) warn(r *run, step Step, msg string) {
	r.result.Warnings = append(r.result.Warnings, msg)
	s.reporter.StepWarning(step, msg)
	s.logger.Warn(msg, "step", step.String())
}

func (s *Scaffolder) prepare(_ context.Context, r *run) error {
	dir := r.layout.Root
	entries, err := os.ReadDir(dir)
	switch {
	case err == nil && len(entries) > 0 && !r.opts.Force:
		return fmt.Errorf("%w: %s", ErrProjectExists, dir)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, defs.DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

func (s *Scaffolder) checkDjango(ctx context.Context, r *run) error {
	v, err := s.admin.Version(ctx)
	if err != nil {
		s.warn(r, StepCheckDjango, fmt.Sprintf("could not determine Django version: %v", err))
		return nil
	}
	if err := django.CheckVersion(v); err != nil {
		return err
	}
	r.result.DjangoVersion = v.String()
	s.logger.Debug("django version", "version", r.result.DjangoVersion)
	return nil
}

func (s *Scaffolder) startProject(ctx context.Context, r *run) error {
	// django-admin refuses to overlay an existing project.
	if r.opts.Force && exists(r.layout.SettingsPath()) {
		return skipError{reason: "project already generated"}
	}
	if err := s.admin.StartProject(ctx, r.opts.ProjectName, r.layout.Root); err != nil {
		return err
	}
	r.result.CreatedFiles = append(r.result.CreatedFiles,
		r.layout.Rel(r.layout.ManagePath()),
		r.layout.Rel(r.layout.SettingsPath()),
		r.layout.Rel(r.layout.URLsPath()),
	)
	return nil
}

func (s *Scaffolder) startApps(ctx context.Context, r *run) error {
	if len(r.opts.Apps) == 0 {
		return skipError{reason: "no apps requested"}
	}
	var started int
	for _, app := range r.opts.Apps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.opts.Force && exists(r.layout.AppDir(app)) {
			s.logger.Debug("app already exists", "app", app)
			continue
		}
		if err := s.admin.StartApp(ctx, r.layout.Root, app); err != nil {
			return err
		}
		started++
	}
	if started == 0 {
		return skipError{reason: "apps already exist"}
	}
	return nil
}

func (s *Scaffolder) registerApps(_ context.Context, r *run) error {
	if len(r.opts.Apps) == 0 {
		return skipError{reason: "no apps requested"}
	}
	return r.editFile(r.layout.SettingsPath(), func(settings string) (string, error) {
		return django.RegisterApps(settings, r.opts.Apps)
	})
}

func (s *Scaffolder) routeApps(_ context.Context, r *run) error {
	block, err := r.renderer.Render(template.AdminSiteTemplate, r.projectContext(s))
	if err != nil {
		return err
	}
	return r.editFile(r.layout.URLsPath(), func(urls string) (string, error) {
		urls = django.RouteApps(urls, r.opts.Apps)
		return django.CustomizeAdmin(urls, string(block)), nil
	})
}

func (s *Scaffolder) writeAppFiles(ctx context.Context, r *run) error {
	if len(r.opts.Apps) == 0 {
		return skipError{reason: "no apps requested"}
	}
	for _, app := range r.opts.Apps {
		if err := ctx.Err(); err != nil {
			return err
		}
		appCtx := template.NewAppContext(r.opts.ProjectName, app)

		urls, err := r.renderer.Render(template.AppURLsTemplate, appCtx)
		if err != nil {
			return err
		}
		urlsPath := r.layout.AppFile(app, defs.URLsPy)
		if err := r.writeFile(urlsPath, urls); err != nil {
			return err
		}

		view, err := r.renderer.Render(template.IndexViewTemplate, appCtx)
		if err != nil {
			return err
		}
		if err := r.editFile(r.layout.AppFile(app, defs.ViewsPy), func(views string) (string, error) {
			return django.AppendIndexView(views, string(view)), nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scaffolder) freeze(ctx context.Context, r *run) error {
	if r.opts.SkipFreeze {
		return skipError{reason: "disabled"}
	}
	out, err := s.admin.Freeze(ctx, r.layout.Root)
	if err != nil {
		s.warn(r, StepFreeze, fmt.Sprintf("dependency freeze failed: %v", err))
		return nil
	}
	if err := r.writeFile(r.layout.Join(r.opts.FreezeFile), out); err != nil {
		return err
	}
	r.result.Frozen = true
	return nil
}

func (s *Scaffolder) writeProjectFiles(ctx context.Context, r *run) error {
	files, err := template.ProjectFiles(s.templates)
	if err != nil {
		return err
	}
	deployer := template.NewDeployerWithRenderer(files, template.NewRenderer(files), r.opts.Force)
	res, err := deployer.Deploy(ctx, r.layout.Root, r.projectContext(s))
	if err != nil {
		return err
	}
	r.result.CreatedFiles = append(r.result.CreatedFiles, res.Created...)
	for _, skipped := range res.Skipped {
		s.logger.Debug("kept existing file", "path", skipped)
	}

	rec := &ProjectRecord{
		Name:          r.opts.ProjectName,
		Apps:          r.opts.Apps,
		CreatedAt:     s.now().UTC().Truncate(time.Second),
		ToolVersion:   version.GetVersion(),
		DjangoVersion: r.result.DjangoVersion,
		Python:        s.admin.PythonBin(),
	}
	if err := WriteRecord(r.layout.Root, rec); err != nil {
		return err
	}
	r.result.CreatedFiles = append(r.result.CreatedFiles, r.layout.Rel(RecordPath(r.layout.Root)))
	return nil
}

func (s *Scaffolder) initGit(ctx context.Context, r *run) error {
	if r.opts.SkipGit {
		return skipError{reason: "disabled"}
	}
	if s.git == nil {
		return skipError{reason: "no git backend available"}
	}
	res, err := s.git.Init(ctx, r.layout.Root, r.opts.Git)
	if err != nil {
		s.warn(r, StepGit, fmt.Sprintf("git initialisation failed: %v", err))
		return nil
	}
	r.result.Git = res
	return nil
}

// projectContext builds the template data once the Django version is known.
func (r *run) projectContext(s *Scaffolder) *template.ProjectContext {
	header := r.opts.Admin.Header
	if header == "" {
		header = AdminHeader(r.opts.ProjectName)
	}
	return template.NewProjectContext(
		template.WithProject(r.opts.ProjectName, r.layout.Root),
		template.WithApps(r.opts.Apps),
		template.WithAdminSite(header, r.opts.Admin.Title, r.opts.Admin.IndexTitle),
		template.WithPython(s.admin.PythonBin()),
		template.WithDjangoVersion(r.result.DjangoVersion),
		template.WithToolVersion(version.GetVersion()),
		template.WithCreatedAt(s.now()),
		template.WithGit(!r.opts.SkipGit),
		template.WithFrozen(r.result.Frozen),
	)
}

// editFile rewrites path through edit and records it as modified when the
// content changed. A missing file is edited as empty and recorded as created.
func (r *run) editFile(path string, edit func(string) (string, error)) error {
	data, err := os.ReadFile(path)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", r.layout.Rel(path), err)
	}
	updated, err := edit(string(data))
	if err != nil {
		return fmt.Errorf("edit %s: %w", r.layout.Rel(path), err)
	}
	if existed && updated == string(data) {
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), defs.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", r.layout.Rel(path), err)
	}
	if existed {
		r.result.ModifiedFiles = appendUnique(r.result.ModifiedFiles, r.layout.Rel(path))
	} else {
		r.result.CreatedFiles = appendUnique(r.result.CreatedFiles, r.layout.Rel(path))
	}
	return nil
}

// writeFile creates or replaces path and records it as created.
func (r *run) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, defs.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", r.layout.Rel(path), err)
	}
	r.result.CreatedFiles = appendUnique(r.result.CreatedFiles, r.layout.Rel(path))
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
