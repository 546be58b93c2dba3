package template

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed all:templates
var embedded embed.FS

// Names of the snippet templates rendered by the scaffolder.
const (
	AppURLsTemplate    = "snippets/app_urls.py.tmpl"
	IndexViewTemplate  = "snippets/views_index.py.tmpl"
	AdminSiteTemplate  = "snippets/admin_site.py.tmpl"
	NextStepsTemplate  = "snippets/next_steps.md.tmpl"
	projectFilesSubdir = "files"
)

// EmbeddedTemplates returns the embedded template tree rooted at templates/.
func EmbeddedTemplates() (fs.FS, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	return sub, nil
}

// ProjectFiles returns the subtree deployed verbatim (after rendering) into
// the project root.
func ProjectFiles(fsys fs.FS) (fs.FS, error) {
	sub, err := fs.Sub(fsys, projectFilesSubdir)
	if err != nil {
		return nil, fmt.Errorf("project files: %w", err)
	}
	return sub, nil
}
