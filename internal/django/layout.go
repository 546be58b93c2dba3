package django

import (
	"path/filepath"

	"github.com/djscaffold/djscaffold/internal/defs"
)

// Layout locates the files of a project generated by
// "django-admin startproject <name> <root>".
type Layout struct {
	Root string // Directory holding manage.py.
	Name string // Project (configuration package) name.
}

// PackageDir returns the configuration package directory.
func (l Layout) PackageDir() string {
	return filepath.Join(l.Root, l.Name)
}

// SettingsPath returns <root>/<name>/settings.py.
func (l Layout) SettingsPath() string {
	return filepath.Join(l.PackageDir(), defs.SettingsPy)
}

// URLsPath returns <root>/<name>/urls.py.
func (l Layout) URLsPath() string {
	return filepath.Join(l.PackageDir(), defs.URLsPy)
}

// ManagePath returns <root>/manage.py.
func (l Layout) ManagePath() string {
	return filepath.Join(l.Root, defs.ManagePy)
}

// AppDir returns the directory created by "manage.py startapp <app>".
func (l Layout) AppDir(app string) string {
	return filepath.Join(l.Root, app)
}

// AppFile returns a file inside an app directory.
func (l Layout) AppFile(app, name string) string {
	return filepath.Join(l.AppDir(app), name)
}

// Join returns a path inside the project root.
func (l Layout) Join(elem ...string) string {
	return filepath.Join(append([]string{l.Root}, elem...)...)
}

// Rel returns path relative to the project root, falling back to path itself.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return path
	}
	return rel
}
