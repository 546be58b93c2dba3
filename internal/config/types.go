package config

import "time"

// Config is the root configuration aggregate.
type Config struct {
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Git       GitConfig       `yaml:"git" mapstructure:"git"`
	Admin     AdminConfig     `yaml:"admin" mapstructure:"admin"`
	Freeze    FreezeConfig    `yaml:"freeze" mapstructure:"freeze"`
	System    SystemConfig    `yaml:"system" mapstructure:"system"`
}

// GeneratorConfig selects the Django tooling.
type GeneratorConfig struct {
	DjangoAdmin string `yaml:"django_admin" mapstructure:"django_admin"`
	Python      string `yaml:"python" mapstructure:"python"`
	Timeout     string `yaml:"timeout" mapstructure:"timeout"` // Go duration, e.g. "2m".
}

// CommandTimeout parses Timeout, falling back to DefaultCommandTimeout.
func (g GeneratorConfig) CommandTimeout() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil || d <= 0 {
		return DefaultCommandTimeout
	}
	return d
}

// GitConfig controls repository initialisation.
type GitConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	Backend       string `yaml:"backend" mapstructure:"backend"` // "auto", "system", "embedded"
	CommitMessage string `yaml:"commit_message" mapstructure:"commit_message"`
	AuthorName    string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail   string `yaml:"author_email" mapstructure:"author_email"`
	DefaultBranch string `yaml:"default_branch" mapstructure:"default_branch"`
}

// AdminConfig customises the Django admin site. An empty SiteHeader is
// derived from the project name.
type AdminConfig struct {
	SiteHeader string `yaml:"site_header" mapstructure:"site_header"`
	SiteTitle  string `yaml:"site_title" mapstructure:"site_title"`
	IndexTitle string `yaml:"index_title" mapstructure:"index_title"`
}

// FreezeConfig controls the requirements file.
type FreezeConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	File    string `yaml:"file" mapstructure:"file"`
}

// SystemConfig represents the system configuration section.
type SystemConfig struct {
	LogLevel       string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat      string `yaml:"log_format" mapstructure:"log_format"`
	Theme          string `yaml:"theme" mapstructure:"theme"` // dark or light terminal palette
	NoColor        bool   `yaml:"no_color" mapstructure:"no_color"`
	NonInteractive bool   `yaml:"non_interactive" mapstructure:"non_interactive"`
}
