// Package template renders the embedded boilerplate written into generated
// Django projects: per-app URL modules, the index view, the admin site
// customisation and project-level files such as .gitignore and README.md.
package template

import "errors"

// Sentinel errors for template rendering and deployment.
var (
	// ErrTemplateNotFound indicates the named template is not embedded.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates the data lacks a key referenced by the template.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates a shell-style placeholder in template text.
	ErrUnexpandedToken = errors.New("template: unexpanded token")

	// ErrPathTraversal indicates a template path would escape the project root.
	ErrPathTraversal = errors.New("template: path traversal")
)
