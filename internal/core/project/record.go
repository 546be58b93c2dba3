package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/djscaffold/djscaffold/internal/defs"
)

// ProjectRecord is persisted to .djscaffold/project.yaml in every generated
// project.
type ProjectRecord struct {
	Name          string    `yaml:"name"`
	Apps          []string  `yaml:"apps"`
	CreatedAt     time.Time `yaml:"created_at"`
	ToolVersion   string    `yaml:"tool_version"`
	DjangoVersion string    `yaml:"django_version,omitempty"`
	Python        string    `yaml:"python"`
}

// RecordPath returns the location of the record inside root.
func RecordPath(root string) string {
	return filepath.Join(root, defs.RecordDir, defs.ProjectRecordYAML)
}

// WriteRecord saves rec under root.
func WriteRecord(root string, rec *ProjectRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal project record: %w", err)
	}
	path := RecordPath(root)
	if err := os.MkdirAll(filepath.Dir(path), defs.DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, defs.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadRecord loads the record stored under root.
func ReadRecord(root string) (*ProjectRecord, error) {
	path := RecordPath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rec ProjectRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &rec, nil
}

// FindProjectRoot walks upward from start until it finds a directory
// holding a project record.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	for {
		if info, err := os.Stat(RecordPath(dir)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s found above %s", ErrNotInProject,
				filepath.Join(defs.RecordDir, defs.ProjectRecordYAML), start)
		}
		dir = parent
	}
}
