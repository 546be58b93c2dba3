package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Dynamic token patterns that must not appear in configuration values.
// These indicate unexpanded template variables.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),        // ${VAR}
	regexp.MustCompile(`\{\{[^}]+\}\}`),      // {{VAR}}
	regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`), // $VAR
}

var (
	validBackends   = []string{"auto", "system", "embedded"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
	validThemes     = []string{"dark", "light"}
)

// Validate checks the configuration for correctness and returns
// *ValidationErrors listing every problem found.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateGenerator(&cfg.Generator)...)
	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateFreeze(&cfg.Freeze)...)
	errs = append(errs, validateSystem(&cfg.System)...)
	errs = append(errs, validateDynamicTokens(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateGenerator(g *GeneratorConfig) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(g.DjangoAdmin) == "" {
		errs = append(errs, ValidationError{
			Field:   "generator.django_admin",
			Message: "required field is empty",
			Wrapped: ErrInvalidConfig,
		})
	}
	if strings.TrimSpace(g.Python) == "" {
		errs = append(errs, ValidationError{
			Field:   "generator.python",
			Message: "required field is empty",
			Wrapped: ErrInvalidConfig,
		})
	}
	if g.Timeout != "" {
		if d, err := time.ParseDuration(g.Timeout); err != nil || d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "generator.timeout",
				Message: "must be a positive duration such as 90s or 2m",
				Value:   g.Timeout,
				Wrapped: ErrInvalidConfig,
			})
		}
	}
	return errs
}

func validateGit(g *GitConfig) []ValidationError {
	var errs []ValidationError
	if g.Backend != "" && !slices.Contains(validBackends, g.Backend) {
		errs = append(errs, ValidationError{
			Field:   "git.backend",
			Message: "must be one of: " + strings.Join(validBackends, ", "),
			Value:   g.Backend,
			Wrapped: ErrInvalidBackend,
		})
	}
	if g.AuthorEmail != "" && !strings.Contains(g.AuthorEmail, "@") {
		errs = append(errs, ValidationError{
			Field:   "git.author_email",
			Message: "must be an email address",
			Value:   g.AuthorEmail,
			Wrapped: ErrInvalidConfig,
		})
	}
	if g.DefaultBranch != "" && !validBranchName(g.DefaultBranch) {
		errs = append(errs, ValidationError{
			Field:   "git.default_branch",
			Message: "is not a valid branch name",
			Value:   g.DefaultBranch,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// validBranchName applies the subset of git check-ref-format rules that
// users are likely to break.
func validBranchName(name string) bool {
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") ||
		strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, ".") ||
		strings.Contains(name, "..") || strings.Contains(name, "@{") || strings.Contains(name, "//") {
		return false
	}
	return !strings.ContainsAny(name, " ~^:?*[\\\t\n")
}

func validateFreeze(f *FreezeConfig) []ValidationError {
	if !f.Enabled {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(f.File))
	if f.File == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return []ValidationError{{
			Field:   "freeze.file",
			Message: "must be a relative path inside the project",
			Value:   f.File,
			Wrapped: ErrInvalidConfig,
		}}
	}
	return nil
}

func validateSystem(s *SystemConfig) []ValidationError {
	var errs []ValidationError
	if s.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		errs = append(errs, ValidationError{
			Field:   "system.log_level",
			Message: "must be one of: " + strings.Join(validLogLevels, ", "),
			Value:   s.LogLevel,
			Wrapped: ErrInvalidConfig,
		})
	}
	if s.LogFormat != "" && !slices.Contains(validLogFormats, s.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "system.log_format",
			Message: "must be one of: " + strings.Join(validLogFormats, ", "),
			Value:   s.LogFormat,
			Wrapped: ErrInvalidConfig,
		})
	}
	if s.Theme != "" && !slices.Contains(validThemes, s.Theme) {
		errs = append(errs, ValidationError{
			Field:   "system.theme",
			Message: "must be one of: " + strings.Join(validThemes, ", "),
			Value:   s.Theme,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}

// validateDynamicTokens rejects values that will be written into generated
// files or commits while still holding unexpanded placeholders.
func validateDynamicTokens(cfg *Config) []ValidationError {
	fields := map[string]string{
		"git.commit_message": cfg.Git.CommitMessage,
		"git.author_name":    cfg.Git.AuthorName,
		"admin.site_header":  cfg.Admin.SiteHeader,
		"admin.site_title":   cfg.Admin.SiteTitle,
		"admin.index_title":  cfg.Admin.IndexTitle,
	}
	var errs []ValidationError
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		value := fields[field]
		for _, p := range dynamicTokenPatterns {
			if tok := p.FindString(value); tok != "" {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("contains unexpanded token %s", tok),
					Value:   value,
					Wrapped: ErrDynamicToken,
				})
				break
			}
		}
	}
	return errs
}
