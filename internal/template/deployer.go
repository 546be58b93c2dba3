package template

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/djscaffold/djscaffold/internal/defs"
)

// Deployer extracts templates from a filesystem and writes them to a
// project root directory.
type Deployer interface {
	// Deploy writes every file to projectRoot. Files ending in .tmpl are
	// rendered with data (when a Renderer is configured) and saved without
	// the suffix. Existing files are left untouched unless the deployer
	// was created with force.
	Deploy(ctx context.Context, projectRoot string, data any) (*DeployResult, error)
}

// DeployResult lists the files written and skipped, relative to the root.
type DeployResult struct {
	Created []string
	Skipped []string
}

// deployer is the concrete implementation of Deployer.
type deployer struct {
	fsys     fs.FS
	renderer Renderer // Optional: if set, .tmpl files are rendered with data.
	force    bool
}

// NewDeployerWithRenderer creates a Deployer that renders .tmpl files. A nil
// renderer copies every file verbatim.
func NewDeployerWithRenderer(fsys fs.FS, renderer Renderer, force bool) Deployer {
	return &deployer{fsys: fsys, renderer: renderer, force: force}
}

// Deploy walks the filesystem and writes every file to projectRoot.
func (d *deployer) Deploy(ctx context.Context, projectRoot string, data any) (*DeployResult, error) {
	projectRoot = filepath.Clean(projectRoot)
	result := &DeployResult{}

	walkErr := fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == "." || entry.IsDir() {
			return nil
		}

		if err := validateDeployPath(projectRoot, path); err != nil {
			return err
		}

		var content []byte
		destRelPath := path
		if strings.HasSuffix(path, ".tmpl") && d.renderer != nil {
			rendered, renderErr := d.renderer.Render(path, data)
			if renderErr != nil {
				return fmt.Errorf("template render %q: %w", path, renderErr)
			}
			content = rendered
			destRelPath = strings.TrimSuffix(path, ".tmpl")
		} else {
			raw, readErr := fs.ReadFile(d.fsys, path)
			if readErr != nil {
				return fmt.Errorf("template deploy read %q: %w", path, readErr)
			}
			content = raw
		}

		destPath := filepath.Join(projectRoot, filepath.FromSlash(destRelPath))

		if !d.force {
			if _, statErr := os.Stat(destPath); statErr == nil {
				result.Skipped = append(result.Skipped, destRelPath)
				return nil
			}
		}

		destDir := filepath.Dir(destPath)
		if err := os.MkdirAll(destDir, defs.DirPerm); err != nil {
			return fmt.Errorf("template deploy mkdir %q: %w", destDir, err)
		}

		perm := fs.FileMode(defs.FilePerm)
		if strings.HasSuffix(destRelPath, ".sh") {
			perm = 0o755
		}
		if err := os.WriteFile(destPath, content, perm); err != nil {
			return fmt.Errorf("template deploy write %q: %w", destPath, err)
		}

		result.Created = append(result.Created, destRelPath)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return result, nil
}

// validateDeployPath ensures a template path does not escape projectRoot.
func validateDeployPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}

	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, string(filepath.Separator)+"..") {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}

	return nil
}
