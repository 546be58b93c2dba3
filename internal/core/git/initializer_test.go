package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/djscaffold/djscaffold/internal/shell"
	"github.com/djscaffold/djscaffold/internal/shell/shelltest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newProjectDir creates a directory resembling a generated project.
func newProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "manage.py"), "#!/usr/bin/env python\n")
	writeTestFile(t, filepath.Join(dir, "mysite", "settings.py"), "INSTALLED_APPS = []\n")
	writeTestFile(t, filepath.Join(dir, ".gitignore"), "__pycache__/\n*.pyc\n")
	writeTestFile(t, filepath.Join(dir, "mysite", "__pycache__", "settings.cpython-312.pyc"), "bytecode")
	return dir
}

func TestEmbeddedInit(t *testing.T) {
	dir := newProjectDir(t)
	initializer := NewEmbeddedInitializer(discardLogger())

	res, err := initializer.Init(context.Background(), dir, InitOptions{
		AuthorName:    "Test User",
		AuthorEmail:   "test@example.com",
		DefaultBranch: "main",
	})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if res.Backend != BackendEmbedded {
		t.Errorf("Backend = %q, want %q", res.Backend, BackendEmbedded)
	}
	if res.Branch != "main" {
		t.Errorf("Branch = %q, want main", res.Branch)
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	commit, err := repo.CommitObject(plumbing.NewHash(res.Commit))
	if err != nil {
		t.Fatalf("CommitObject(%s): %v", res.Commit, err)
	}
	if commit.Message != DefaultCommitMessage {
		t.Errorf("Message = %q, want %q", commit.Message, DefaultCommitMessage)
	}
	if commit.Author.Name != "Test User" || commit.Author.Email != "test@example.com" {
		t.Errorf("Author = %s <%s>", commit.Author.Name, commit.Author.Email)
	}

	var files []string
	iter, err := commit.Files()
	if err != nil {
		t.Fatal(err)
	}
	for {
		f, err := iter.Next()
		if err != nil {
			break
		}
		files = append(files, f.Name)
	}
	slices.Sort(files)
	want := []string{".gitignore", "manage.py", "mysite/settings.py"}
	if !slices.Equal(files, want) {
		t.Errorf("committed files = %v, want %v", files, want)
	}
}

func TestEmbeddedInit_AlreadyRepository(t *testing.T) {
	dir := newProjectDir(t)
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewEmbeddedInitializer(discardLogger()).Init(context.Background(), dir, InitOptions{})
	if !errors.Is(err, ErrAlreadyRepository) {
		t.Errorf("error = %v, want ErrAlreadyRepository", err)
	}
}

func TestEmbeddedInit_NothingToCommit(t *testing.T) {
	dir := t.TempDir()

	_, err := NewEmbeddedInitializer(discardLogger()).Init(context.Background(), dir, InitOptions{
		AuthorName:  "Test User",
		AuthorEmail: "test@example.com",
	})
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("error = %v, want ErrNothingToCommit", err)
	}
}

func TestEmbeddedInit_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := NewEmbeddedInitializer(discardLogger()).Init(context.Background(), dir, InitOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestSystemInit_Commands(t *testing.T) {
	dir := t.TempDir()
	fake := shelltest.NewFakeRunner()
	fake.Stdout("git status", "A  manage.py\n")
	fake.Stdout("git rev-parse", "0123456789abcdef0123456789abcdef01234567\n")
	fake.Stdout("git symbolic-ref", "trunk\n")

	res, err := NewSystemInitializer(fake, discardLogger()).Init(context.Background(), dir, InitOptions{
		Message:       "Scaffold mysite",
		AuthorName:    "Test User",
		AuthorEmail:   "test@example.com",
		DefaultBranch: "trunk",
	})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if res.Backend != BackendSystem || res.Branch != "trunk" {
		t.Errorf("result = %+v", res)
	}
	if res.Commit != "0123456789abcdef0123456789abcdef01234567" {
		t.Errorf("Commit = %q", res.Commit)
	}

	want := []string{
		"git init --quiet",
		"git symbolic-ref HEAD refs/heads/trunk",
		"git add .",
		"git status --porcelain",
		"git -c user.name=Test User -c user.email=test@example.com -c commit.gpgsign=false commit --quiet -m Scaffold mysite",
		"git rev-parse HEAD",
		"git symbolic-ref --short HEAD",
	}
	if got := fake.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("commands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	for _, c := range fake.Calls {
		if c.Dir == "" || !slices.Contains(c.Env, "GIT_TERMINAL_PROMPT=0") {
			t.Errorf("command %q missing dir or env: %+v", c.String(), c)
		}
	}
}

func TestSystemInit_FallbackIdentity(t *testing.T) {
	dir := t.TempDir()
	fake := shelltest.NewFakeRunner()
	fake.Stdout("git status", "A  manage.py\n")
	fake.Fail("git config", "")

	if _, err := NewSystemInitializer(fake, discardLogger()).Init(context.Background(), dir, InitOptions{}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	var commit string
	for _, line := range fake.CommandLines() {
		if strings.Contains(line, " commit ") {
			commit = line
		}
	}
	if !strings.Contains(commit, "user.name="+FallbackAuthorName) ||
		!strings.Contains(commit, "user.email="+FallbackAuthorEmail) ||
		!strings.HasSuffix(commit, "-m "+DefaultCommitMessage) {
		t.Errorf("commit command = %q", commit)
	}
}

func TestSystemInit_NothingToCommit(t *testing.T) {
	fake := shelltest.NewFakeRunner()

	_, err := NewSystemInitializer(fake, discardLogger()).Init(context.Background(), t.TempDir(), InitOptions{})
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("error = %v, want ErrNothingToCommit", err)
	}
}

func TestSystemInit_CommandFailure(t *testing.T) {
	fake := shelltest.NewFakeRunner()
	fake.Fail("git init", "fatal: cannot mkdir")

	_, err := NewSystemInitializer(fake, discardLogger()).Init(context.Background(), t.TempDir(), InitOptions{})
	var exitErr *shell.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *shell.ExitError", err)
	}
	if exitErr.Stderr != "fatal: cannot mkdir" {
		t.Errorf("Stderr = %q", exitErr.Stderr)
	}
}

func TestSystemInit_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := newProjectDir(t)

	res, err := NewSystemInitializer(shell.NewRunner(nil), discardLogger()).Init(context.Background(), dir, InitOptions{
		AuthorName:    "Test User",
		AuthorEmail:   "test@example.com",
		DefaultBranch: "main",
	})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if res.Branch != "main" || len(res.Commit) != 40 {
		t.Errorf("result = %+v", res)
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	if head.Hash().String() != res.Commit {
		t.Errorf("HEAD = %s, want %s", head.Hash(), res.Commit)
	}
}

func TestNewInitializer_BackendSelection(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		gitMissing  bool
		wantBackend string
		wantErr     error
	}{
		{name: "auto with git", backend: "", wantBackend: BackendSystem},
		{name: "auto without git", backend: BackendAuto, gitMissing: true, wantBackend: BackendEmbedded},
		{name: "explicit embedded", backend: BackendEmbedded, wantBackend: BackendEmbedded},
		{name: "system without git", backend: BackendSystem, gitMissing: true, wantErr: ErrSystemGitNotFound},
		{name: "unknown", backend: "svn", wantErr: ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := shelltest.NewFakeRunner()
			if tt.gitMissing {
				fake.Missing("git")
			}
			initializer, err := NewInitializer(fake, WithBackend(tt.backend))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewInitializer error: %v", err)
			}
			var got string
			switch initializer.(type) {
			case *systemInitializer:
				got = BackendSystem
			case *embeddedInitializer:
				got = BackendEmbedded
			}
			if got != tt.wantBackend {
				t.Errorf("backend = %q, want %q", got, tt.wantBackend)
			}
		})
	}
}
