package template

import (
	"time"
)

// Default admin site strings.
const (
	DefaultAdminSiteTitle  = "Admin Portal"
	DefaultAdminIndexTitle = "Welcome to the Admin Portal"
	DefaultGreeting        = "Hello, world! This is the index view of the app."
)

// ProjectContext provides data for project-level templates.
// All fields are exported for use with Go's text/template package.
type ProjectContext struct {
	// Project
	ProjectName string
	ProjectDir  string
	Apps        []string

	// Admin site
	AdminSiteHeader string
	AdminSiteTitle  string
	AdminIndexTitle string

	// Toolchain
	PythonBin     string
	DjangoVersion string // Empty when it could not be determined.

	// Meta
	ToolVersion string
	CreatedAt   string // RFC 3339
	GitEnabled  bool
	Frozen      bool // requirements.txt was written
}

// ContextOption configures a ProjectContext.
type ContextOption func(*ProjectContext)

// NewProjectContext creates a ProjectContext with defaults, then applies opts.
func NewProjectContext(opts ...ContextOption) *ProjectContext {
	ctx := &ProjectContext{
		Apps:            []string{},
		AdminSiteTitle:  DefaultAdminSiteTitle,
		AdminIndexTitle: DefaultAdminIndexTitle,
		PythonBin:       "python",
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	if ctx.AdminSiteHeader == "" {
		ctx.AdminSiteHeader = ctx.ProjectName + " Admin"
	}
	return ctx
}

// WithProject sets the project name and directory.
func WithProject(name, dir string) ContextOption {
	return func(c *ProjectContext) {
		c.ProjectName = name
		c.ProjectDir = dir
	}
}

// WithApps sets the app list.
func WithApps(apps []string) ContextOption {
	return func(c *ProjectContext) {
		if apps != nil {
			c.Apps = apps
		}
	}
}

// WithAdminSite sets the admin header, title and index title. Empty values
// keep the defaults.
func WithAdminSite(header, title, indexTitle string) ContextOption {
	return func(c *ProjectContext) {
		if header != "" {
			c.AdminSiteHeader = header
		}
		if title != "" {
			c.AdminSiteTitle = title
		}
		if indexTitle != "" {
			c.AdminIndexTitle = indexTitle
		}
	}
}

// WithPython sets the interpreter shown in generated instructions.
func WithPython(bin string) ContextOption {
	return func(c *ProjectContext) {
		if bin != "" {
			c.PythonBin = bin
		}
	}
}

// WithDjangoVersion records the detected Django version.
func WithDjangoVersion(v string) ContextOption {
	return func(c *ProjectContext) {
		c.DjangoVersion = v
	}
}

// WithToolVersion records the scaffolder version.
func WithToolVersion(v string) ContextOption {
	return func(c *ProjectContext) {
		c.ToolVersion = v
	}
}

// WithCreatedAt overrides the creation timestamp.
func WithCreatedAt(t time.Time) ContextOption {
	return func(c *ProjectContext) {
		c.CreatedAt = t.UTC().Format(time.RFC3339)
	}
}

// WithGit records whether a repository is initialised.
func WithGit(enabled bool) ContextOption {
	return func(c *ProjectContext) {
		c.GitEnabled = enabled
	}
}

// WithFrozen records whether requirements.txt was written.
func WithFrozen(frozen bool) ContextOption {
	return func(c *ProjectContext) {
		c.Frozen = frozen
	}
}

// AppContext provides data for per-app templates.
type AppContext struct {
	AppName     string
	ProjectName string
	Greeting    string
}

// NewAppContext creates an AppContext with the default greeting.
func NewAppContext(project, app string) *AppContext {
	return &AppContext{
		AppName:     app,
		ProjectName: project,
		Greeting:    DefaultGreeting,
	}
}
