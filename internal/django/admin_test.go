package django

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/djscaffold/djscaffold/internal/shell"
	"github.com/djscaffold/djscaffold/internal/shell/shelltest"
)

func TestAdmin_Commands(t *testing.T) {
	runner := shelltest.NewFakeRunner()
	a := NewAdmin(runner, WithPython("python3"))
	ctx := context.Background()

	if err := a.StartProject(ctx, "mysite", "/tmp/work/mysite"); err != nil {
		t.Fatalf("StartProject() error: %v", err)
	}
	if err := a.StartApp(ctx, "/tmp/work/mysite", "blog"); err != nil {
		t.Fatalf("StartApp() error: %v", err)
	}

	want := []string{
		"django-admin startproject mysite /tmp/work/mysite",
		"python3 manage.py startapp blog",
	}
	if got := runner.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
	if dir := runner.Calls[1].Dir; dir != "/tmp/work/mysite" {
		t.Errorf("startapp ran in %q, want project dir", dir)
	}
}

func TestAdmin_StartProjectFailure(t *testing.T) {
	runner := shelltest.NewFakeRunner()
	runner.Fail("django-admin startproject", "CommandError: 'test' conflicts with the name of an existing Python module")
	a := NewAdmin(runner)

	err := a.StartProject(context.Background(), "test", "/tmp/test")
	var exitErr *shell.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *shell.ExitError", err)
	}
}

func TestAdmin_MissingDjangoAdmin(t *testing.T) {
	runner := shelltest.NewFakeRunner()
	runner.Missing("django-admin")
	a := NewAdmin(runner)

	_, err := a.Version(context.Background())
	if !errors.Is(err, shell.ErrCommandNotFound) {
		t.Errorf("error = %v, want ErrCommandNotFound", err)
	}
}

func TestAdmin_Freeze(t *testing.T) {
	runner := shelltest.NewFakeRunner()
	runner.Stdout("python -m", "Django==5.0.6\nasgiref==3.8.1\n")
	a := NewAdmin(runner)

	out, err := a.Freeze(context.Background(), "/tmp/p")
	if err != nil {
		t.Fatalf("Freeze() error: %v", err)
	}
	if string(out) != "Django==5.0.6\nasgiref==3.8.1\n" {
		t.Errorf("Freeze() = %q", out)
	}
}

func TestAdmin_PythonVersionFromStderr(t *testing.T) {
	runner := shelltest.NewFakeRunner()
	runner.Handle("python --version", func(shell.Command) (*shell.Result, error) {
		return &shell.Result{Stderr: "Python 2.7.18\n"}, nil
	})
	a := NewAdmin(runner)

	got, err := a.PythonVersion(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "Python 2.7.18" {
		t.Errorf("PythonVersion() = %q", got)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"5.0.6\n", "5.0.6", false},
		{"4.2", "4.2.0", false},
		{"5.1.dev20240101", "5.1.0", false},
		{"", "", true},
		{"Traceback (most recent call last):", "", true},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrVersionUnknown) {
				t.Errorf("ParseVersion(%q) error = %v, want ErrVersionUnknown", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) error: %v", tt.in, err)
			continue
		}
		if v.String() != tt.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tt.in, v, tt.want)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	if err := CheckVersion(semver.MustParse("5.0.6")); err != nil {
		t.Errorf("5.0.6 rejected: %v", err)
	}
	if err := CheckVersion(semver.MustParse("1.11.29")); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("1.11.29 error = %v, want ErrUnsupportedVersion", err)
	}
}
