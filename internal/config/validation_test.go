package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(NewDefaultConfig()); err != nil {
		t.Errorf("Validate(defaults) = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		target error
	}{
		{"empty django-admin", func(c *Config) { c.Generator.DjangoAdmin = " " }, "generator.django_admin", ErrInvalidConfig},
		{"empty python", func(c *Config) { c.Generator.Python = "" }, "generator.python", ErrInvalidConfig},
		{"bad timeout", func(c *Config) { c.Generator.Timeout = "soon" }, "generator.timeout", ErrInvalidConfig},
		{"negative timeout", func(c *Config) { c.Generator.Timeout = "-5s" }, "generator.timeout", ErrInvalidConfig},
		{"unknown backend", func(c *Config) { c.Git.Backend = "libgit2" }, "git.backend", ErrInvalidBackend},
		{"bad email", func(c *Config) { c.Git.AuthorEmail = "ada" }, "git.author_email", ErrInvalidConfig},
		{"bad branch", func(c *Config) { c.Git.DefaultBranch = "feature..x" }, "git.default_branch", ErrInvalidConfig},
		{"branch with space", func(c *Config) { c.Git.DefaultBranch = "my branch" }, "git.default_branch", ErrInvalidConfig},
		{"empty freeze file", func(c *Config) { c.Freeze.File = "" }, "freeze.file", ErrInvalidConfig},
		{"freeze file escapes", func(c *Config) { c.Freeze.File = "../requirements.txt" }, "freeze.file", ErrInvalidConfig},
		{"log level", func(c *Config) { c.System.LogLevel = "trace" }, "system.log_level", ErrInvalidConfig},
		{"log format", func(c *Config) { c.System.LogFormat = "xml" }, "system.log_format", ErrInvalidConfig},
		{"theme", func(c *Config) { c.System.Theme = "solarized" }, "system.theme", ErrInvalidConfig},
		{"dollar brace token", func(c *Config) { c.Admin.SiteHeader = "${PROJECT} Admin" }, "admin.site_header", ErrDynamicToken},
		{"mustache token", func(c *Config) { c.Git.CommitMessage = "Init {{name}}" }, "git.commit_message", ErrDynamicToken},
		{"shell var token", func(c *Config) { c.Admin.IndexTitle = "Welcome $USER" }, "admin.index_title", ErrDynamicToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.target)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("every validation failure should match ErrInvalidConfig")
			}
			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error type = %T, want *ValidationErrors", err)
			}
			if len(verrs.Errors) != 1 || verrs.Errors[0].Field != tt.field {
				t.Errorf("errors = %+v, want single error on %s", verrs.Errors, tt.field)
			}
		})
	}
}

func TestValidate_DisabledFreezeIgnoresFile(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Freeze.Enabled = false
	cfg.Freeze.File = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Git.Backend = "bogus"
	cfg.System.LogFormat = "xml"
	cfg.Admin.SiteTitle = "{{title}}"

	err := Validate(cfg)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want *ValidationErrors", err)
	}
	if len(verrs.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(verrs.Errors), err)
	}
	if !strings.Contains(err.Error(), "3 error(s)") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidationError_Message(t *testing.T) {
	withValue := &ValidationError{Field: "git.backend", Message: "bad", Value: "x"}
	if got := withValue.Error(); got != `validation error: field "git.backend": bad (got: x)` {
		t.Errorf("Error() = %q", got)
	}
	noValue := &ValidationError{Field: "generator.python", Message: "required field is empty"}
	if got := noValue.Error(); got != `validation error: field "generator.python": required field is empty` {
		t.Errorf("Error() = %q", got)
	}
}
