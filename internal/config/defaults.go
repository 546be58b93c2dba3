package config

import (
	"github.com/spf13/viper"

	"github.com/djscaffold/djscaffold/internal/defs"
)

// Default value constants to avoid magic numbers and strings.
const (
	DefaultDjangoAdmin = "django-admin"
	DefaultPython      = "python"

	DefaultCommandTimeout = defs.DefaultCommandTimeout

	DefaultGitBackend    = "auto"
	DefaultCommitMessage = "Initial commit"
	DefaultBranch        = "main"

	DefaultAdminSiteTitle  = "Admin Portal"
	DefaultAdminIndexTitle = "Welcome to the Admin Portal"

	DefaultFreezeFile = "requirements.txt"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTheme     = "dark"
)

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			DjangoAdmin: DefaultDjangoAdmin,
			Python:      DefaultPython,
			Timeout:     DefaultCommandTimeout.String(),
		},
		Git: GitConfig{
			Enabled:       true,
			Backend:       DefaultGitBackend,
			CommitMessage: DefaultCommitMessage,
			DefaultBranch: DefaultBranch,
		},
		Admin: AdminConfig{
			SiteTitle:  DefaultAdminSiteTitle,
			IndexTitle: DefaultAdminIndexTitle,
		},
		Freeze: FreezeConfig{
			Enabled: true,
			File:    DefaultFreezeFile,
		},
		System: SystemConfig{
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
			Theme:     DefaultTheme,
		},
	}
}

// registerDefaults makes every key known to v so environment overrides
// apply even when the key is absent from the file.
func registerDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("generator.django_admin", d.Generator.DjangoAdmin)
	v.SetDefault("generator.python", d.Generator.Python)
	v.SetDefault("generator.timeout", d.Generator.Timeout)

	v.SetDefault("git.enabled", d.Git.Enabled)
	v.SetDefault("git.backend", d.Git.Backend)
	v.SetDefault("git.commit_message", d.Git.CommitMessage)
	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	v.SetDefault("git.default_branch", d.Git.DefaultBranch)

	v.SetDefault("admin.site_header", d.Admin.SiteHeader)
	v.SetDefault("admin.site_title", d.Admin.SiteTitle)
	v.SetDefault("admin.index_title", d.Admin.IndexTitle)

	v.SetDefault("freeze.enabled", d.Freeze.Enabled)
	v.SetDefault("freeze.file", d.Freeze.File)

	v.SetDefault("system.log_level", d.System.LogLevel)
	v.SetDefault("system.log_format", d.System.LogFormat)
	v.SetDefault("system.theme", d.System.Theme)
	v.SetDefault("system.no_color", d.System.NoColor)
	v.SetDefault("system.non_interactive", d.System.NonInteractive)
}
