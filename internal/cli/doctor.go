package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/djscaffold/djscaffold/internal/defs"
	"github.com/djscaffold/djscaffold/internal/django"
	"github.com/djscaffold/djscaffold/internal/shell"
)

// ErrDoctorFailed is returned when a required tool is missing or too old.
var ErrDoctorFailed = errors.New("doctor: required checks failed")

// MinimumPython is the interpreter version supported by current Django releases.
const MinimumPython = ">= 3.8"

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
)

type checkResult struct {
	Name   string
	Status checkStatus
	Detail string
}

var versionToken = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that django-admin, python, pip and git are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := runChecks(cmd.Context(), a.deps)
			printChecks(cmd.OutOrStdout(), a.deps, results)
			for _, r := range results {
				if r.Status == statusFail {
					return ErrDoctorFailed
				}
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, deps *Dependencies) []checkResult {
	return []checkResult{
		checkDjango(ctx, deps),
		checkPython(ctx, deps),
		checkPip(ctx, deps),
		checkGit(ctx, deps),
	}
}

func checkDjango(ctx context.Context, deps *Dependencies) checkResult {
	name := deps.Admin.DjangoAdminBin()
	if _, err := deps.Runner.Lookup(name); err != nil {
		return checkResult{name, statusFail, "not found on PATH (pip install django)"}
	}
	v, err := deps.Admin.Version(ctx)
	if err != nil {
		return checkResult{name, statusWarn, err.Error()}
	}
	if err := django.CheckVersion(v); err != nil {
		return checkResult{name, statusFail, fmt.Sprintf("%s (need %s)", v, django.MinimumVersion)}
	}
	return checkResult{name, statusOK, v.String()}
}

func checkPython(ctx context.Context, deps *Dependencies) checkResult {
	name := deps.Admin.PythonBin()
	if _, err := deps.Runner.Lookup(name); err != nil {
		return checkResult{name, statusFail, "not found on PATH"}
	}
	out, err := deps.Admin.PythonVersion(ctx)
	if err != nil {
		return checkResult{name, statusFail, err.Error()}
	}
	v, err := parseToolVersion(out)
	if err != nil {
		return checkResult{name, statusWarn, out}
	}
	c, _ := semver.NewConstraint(MinimumPython)
	if !c.Check(v) {
		return checkResult{name, statusWarn, fmt.Sprintf("%s (Django needs %s)", v, MinimumPython)}
	}
	return checkResult{name, statusOK, v.String()}
}

func checkPip(ctx context.Context, deps *Dependencies) checkResult {
	python := deps.Admin.PythonBin()
	out, err := probe(ctx, deps.Runner, python, "-m", "pip", "--version")
	if err != nil {
		return checkResult{"pip", statusWarn, "unavailable, requirements.txt will not be written"}
	}
	if v, err := parseToolVersion(out); err == nil {
		return checkResult{"pip", statusOK, v.String()}
	}
	return checkResult{"pip", statusOK, out}
}

func checkGit(ctx context.Context, deps *Dependencies) checkResult {
	if _, err := deps.Runner.Lookup("git"); err != nil {
		return checkResult{"git", statusWarn, "not found, the embedded backend will be used"}
	}
	out, err := probe(ctx, deps.Runner, "git", "--version")
	if err != nil {
		return checkResult{"git", statusWarn, err.Error()}
	}
	if v, err := parseToolVersion(out); err == nil {
		return checkResult{"git", statusOK, v.String()}
	}
	return checkResult{"git", statusOK, out}
}

func probe(ctx context.Context, runner shell.Runner, name string, args ...string) (string, error) {
	res, err := runner.Run(ctx, shell.Command{Name: name, Args: args, Timeout: defs.ProbeTimeout})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// parseToolVersion finds the first dotted version in output such as
// "Python 3.12.1" or "git version 2.43.0.windows.1".
func parseToolVersion(out string) (*semver.Version, error) {
	raw := versionToken.FindString(out)
	if raw == "" {
		return nil, fmt.Errorf("no version in %q", out)
	}
	return semver.NewVersion(raw)
}

func printChecks(w io.Writer, deps *Dependencies, results []checkResult) {
	t := deps.Theme
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name))
	}
	for _, r := range results {
		var mark string
		switch r.Status {
		case statusOK:
			mark = t.Success("✓")
		case statusWarn:
			mark = t.Warning("!")
		default:
			mark = t.Error("✗")
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %s\n", mark, width, r.Name, r.Detail)
	}
}
