package project

import (
	"fmt"
	"io"
)

// Step identifies a stage of Scaffolder.Create.
type Step int

// Steps in execution order.
const (
	StepPrepare Step = iota
	StepCheckDjango
	StepStartProject
	StepStartApps
	StepRegisterApps
	StepRouteApps
	StepAppFiles
	StepFreeze
	StepProjectFiles
	StepGit
)

// StepCount is the number of steps reported during a run.
const StepCount = int(StepGit) + 1

var stepTitles = [...]string{
	StepPrepare:      "Preparing project directory",
	StepCheckDjango:  "Checking Django version",
	StepStartProject: "Running django-admin startproject",
	StepStartApps:    "Creating apps",
	StepRegisterApps: "Registering apps in settings.py",
	StepRouteApps:    "Adding URL routes and admin customisation",
	StepAppFiles:     "Writing app urls.py and index views",
	StepFreeze:       "Freezing dependencies",
	StepProjectFiles: "Writing project files",
	StepGit:          "Initialising git repository",
}

// String returns the human readable title of the step.
func (s Step) String() string {
	if s < 0 || int(s) >= len(stepTitles) {
		return fmt.Sprintf("step %d", int(s))
	}
	return stepTitles[s]
}

// Number returns the 1-based position of the step.
func (s Step) Number() int { return int(s) + 1 }

// ProgressReporter receives step notifications from Scaffolder.Create.
type ProgressReporter interface {
	StepStarted(step Step)
	StepDone(step Step)
	StepSkipped(step Step, reason string)
	StepWarning(step Step, msg string)
	StepFailed(step Step, err error)
}

// NopReporter ignores all notifications.
type NopReporter struct{}

func (NopReporter) StepStarted(Step)         {}
func (NopReporter) StepDone(Step)            {}
func (NopReporter) StepSkipped(Step, string) {}
func (NopReporter) StepWarning(Step, string) {}
func (NopReporter) StepFailed(Step, error)   {}

// ConsoleReporter writes one plain line per notification. Used when
// output is not a terminal.
type ConsoleReporter struct {
	w io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (c *ConsoleReporter) StepStarted(step Step) {
	_, _ = fmt.Fprintf(c.w, "[%d/%d] %s...\n", step.Number(), StepCount, step)
}

func (c *ConsoleReporter) StepDone(step Step) {}

func (c *ConsoleReporter) StepSkipped(step Step, reason string) {
	_, _ = fmt.Fprintf(c.w, "[%d/%d] %s skipped: %s\n", step.Number(), StepCount, step, reason)
}

func (c *ConsoleReporter) StepWarning(step Step, msg string) {
	_, _ = fmt.Fprintf(c.w, "      warning: %s\n", msg)
}

func (c *ConsoleReporter) StepFailed(step Step, err error) {
	_, _ = fmt.Fprintf(c.w, "[%d/%d] %s failed: %v\n", step.Number(), StepCount, step, err)
}
