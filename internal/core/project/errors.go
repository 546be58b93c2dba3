// Package project implements the scaffolding pipeline behind "djscaffold new":
// name validation, running the Django generators, editing the generated
// settings and URL configuration, writing boilerplate and initialising git.
package project

import "errors"

// Sentinel errors for the project package.
var (
	// ErrInvalidName indicates a project or app name Django would reject.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidLocation indicates the parent directory is missing or not a directory.
	ErrInvalidLocation = errors.New("invalid project location")

	// ErrProjectExists indicates the target directory already exists and is not empty.
	ErrProjectExists = errors.New("project directory already exists")

	// ErrNotInProject indicates no scaffolded project was found above a directory.
	ErrNotInProject = errors.New("not in a djscaffold project")
)
