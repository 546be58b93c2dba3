package defs

import "time"

// Filesystem permissions for generated content.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// Timeouts for external commands.
const (
	// DefaultCommandTimeout bounds django-admin, manage.py and pip invocations.
	DefaultCommandTimeout = 2 * time.Minute

	// DefaultGitTimeout bounds each git invocation.
	DefaultGitTimeout = 30 * time.Second

	// ProbeTimeout bounds version probes run by doctor and preflight checks.
	ProbeTimeout = 10 * time.Second
)
