// Package django wraps the Django command-line generators and performs the
// textual edits applied to the files they generate.
package django

import "errors"

// Sentinel errors for the django package.
var (
	// ErrInstalledAppsNotFound indicates settings.py has no INSTALLED_APPS list.
	ErrInstalledAppsNotFound = errors.New("django: INSTALLED_APPS list not found in settings")

	// ErrUnsupportedVersion indicates the installed Django is older than the minimum.
	ErrUnsupportedVersion = errors.New("django: unsupported version")

	// ErrVersionUnknown indicates django-admin --version printed something unparseable.
	ErrVersionUnknown = errors.New("django: cannot determine version")
)
