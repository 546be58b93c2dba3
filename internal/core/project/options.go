package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	coregit "github.com/djscaffold/djscaffold/internal/core/git"
)

// AdminSite holds the admin customisation strings. Empty fields use defaults.
type AdminSite struct {
	Header     string
	Title      string
	IndexTitle string
}

// CreateOptions configures a scaffolding run.
type CreateOptions struct {
	ProjectName string    // Django project (configuration package) name.
	Apps        []string  // App names, in creation order.
	Location    string    // Existing parent directory; the project goes in Location/ProjectName.
	Force       bool      // Reuse a non-empty project directory and overwrite boilerplate.
	SkipGit     bool      // Do not initialise a repository.
	SkipFreeze  bool      // Do not write requirements.txt.
	FreezeFile  string    // Defaults to requirements.txt.
	Admin       AdminSite // Admin site strings.
	Git         coregit.InitOptions
}

// ProjectDir returns the directory the project is generated in.
func (o CreateOptions) ProjectDir() string {
	return filepath.Join(o.Location, o.ProjectName)
}

// Validate checks names and the parent location. All name problems are
// reported together.
func (o CreateOptions) Validate() error {
	var errs []error
	if err := ValidateName(KindProject, o.ProjectName); err != nil {
		errs = append(errs, err)
	}
	for _, app := range o.Apps {
		if err := ValidateName(KindApp, app); err != nil {
			errs = append(errs, err)
			continue
		}
		if app == o.ProjectName {
			errs = append(errs, fmt.Errorf("%w: app %q has the same name as the project", ErrInvalidName, app))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if o.Location == "" {
		return fmt.Errorf("%w: no directory selected", ErrInvalidLocation)
	}
	info, err := os.Stat(o.Location)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidLocation, o.Location, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidLocation, o.Location)
	}
	return nil
}
