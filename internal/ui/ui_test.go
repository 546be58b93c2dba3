package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/djscaffold/djscaffold/internal/core/project"
)

func testTheme() *Theme {
	return NewTheme(ThemeConfig{NoColor: true})
}

func headlessManager(headless bool) *HeadlessManager {
	hm := NewHeadlessManager()
	hm.ForceHeadless(headless)
	return hm
}

func newTestWizard(headless bool, wd string) *wizardImpl {
	return &wizardImpl{
		theme:    testTheme(),
		headless: headlessManager(headless),
		getwd:    func() (string, error) { return wd, nil },
	}
}

func TestHeadlessManager_Force(t *testing.T) {
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("IsHeadless() = false after ForceHeadless(true)")
	}
	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("IsHeadless() = true after ForceHeadless(false)")
	}
}

func TestWizard_Headless(t *testing.T) {
	wd := t.TempDir()

	t.Run("missing_name", func(t *testing.T) {
		_, err := newTestWizard(true, wd).Run(context.Background(), WizardDefaults{})
		if !errors.Is(err, ErrHeadlessMissingValue) {
			t.Errorf("error = %v, want ErrHeadlessMissingValue", err)
		}
	})

	t.Run("invalid_name", func(t *testing.T) {
		_, err := newTestWizard(true, wd).Run(context.Background(), WizardDefaults{ProjectName: "my-site"})
		if !errors.Is(err, project.ErrInvalidName) {
			t.Errorf("error = %v, want ErrInvalidName", err)
		}
	})

	t.Run("defaults_location_to_working_dir", func(t *testing.T) {
		res, err := newTestWizard(true, wd).Run(context.Background(), WizardDefaults{ProjectName: "mysite"})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Location != wd {
			t.Errorf("Location = %q, want %q", res.Location, wd)
		}
		if res.Apps == nil || len(res.Apps) != 0 {
			t.Errorf("Apps = %#v, want empty non-nil slice", res.Apps)
		}
	})

	t.Run("keeps_given_values", func(t *testing.T) {
		loc := filepath.Join(wd, "projects")
		res, err := newTestWizard(true, wd).Run(context.Background(), WizardDefaults{
			ProjectName: "mysite",
			Apps:        []string{"blog", "shop"},
			AppsGiven:   true,
			Location:    loc,
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.ProjectName != "mysite" || res.Location != loc || !slices.Equal(res.Apps, []string{"blog", "shop"}) {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestWizard_CompleteDefaultsSkipPrompts(t *testing.T) {
	wd := t.TempDir()
	// Interactive mode with nothing left to ask must not open a form.
	w := newTestWizard(false, wd)
	res, err := w.Run(context.Background(), WizardDefaults{
		ProjectName: "mysite",
		AppsGiven:   true,
		Location:    wd,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ProjectName != "mysite" || res.Location != wd {
		t.Errorf("result = %+v", res)
	}
}

func TestWizard_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestWizard(true, t.TempDir()).Run(ctx, WizardDefaults{ProjectName: "mysite"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWizard_InteractiveNonTTY(t *testing.T) {
	w := newTestWizard(false, t.TempDir())
	_, err := w.Run(context.Background(), WizardDefaults{})
	if err == nil {
		t.Skip("form completed (running in a real TTY environment)")
	}
	t.Logf("interactive wizard without a TTY returned: %v", err)
}

func TestValidators(t *testing.T) {
	if err := validateProjectName(" mysite "); err != nil {
		t.Errorf("validateProjectName: %v", err)
	}
	if err := validateProjectName("class"); !errors.Is(err, project.ErrInvalidName) {
		t.Errorf("validateProjectName(class) = %v", err)
	}
	if err := validateAppList(""); err != nil {
		t.Errorf("validateAppList(empty) = %v", err)
	}
	if err := validateAppList("blog, shop"); err != nil {
		t.Errorf("validateAppList = %v", err)
	}
	err := validateAppList("blog, 9lives, for")
	if !errors.Is(err, project.ErrInvalidName) {
		t.Fatalf("validateAppList = %v, want ErrInvalidName", err)
	}
	if !strings.Contains(err.Error(), "9lives") || !strings.Contains(err.Error(), "for") {
		t.Errorf("error should name both bad apps: %v", err)
	}
}

func TestNewProgress_Headless(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgress(testTheme(), headlessManager(true), &buf)
	if _, ok := r.(*headlessReporter); !ok {
		t.Fatalf("reporter type = %T, want *headlessReporter", r)
	}
	r.StepStarted(project.StepPrepare)
	r.StepDone(project.StepPrepare)
	r.StepSkipped(project.StepStartApps, "no apps")
	r.StepWarning(project.StepFreeze, "pip not found")
	r.Close()

	want := "[1/10] Preparing project directory...\n" +
		"[4/10] Creating apps skipped: no apps\n" +
		"      warning: pip not found\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestInteractiveReporter_RunsAndCloses(t *testing.T) {
	theme := NewTheme(ThemeConfig{Mode: "dark"})
	r := newInteractiveReporter(theme, io.Discard, tea.WithoutRenderer())

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.StepStarted(project.StepPrepare)
		r.StepDone(project.StepPrepare)
		r.StepStarted(project.StepStartApps)
		r.StepSkipped(project.StepStartApps, "no apps")
		r.StepWarning(project.StepFreeze, "pip not found")
		r.StepFailed(project.StepGit, errors.New("boom"))
		r.Close()
		// Close is idempotent.
		r.Close()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("interactive reporter did not shut down")
	}
}

func TestStepModel_Update(t *testing.T) {
	m := newStepModel(testTheme(), 2)

	next, _ := m.Update(stepStartMsg(project.StepFreeze))
	m = next.(stepModel)
	if m.title != project.StepFreeze.String() {
		t.Errorf("title = %q", m.title)
	}
	for range 3 {
		next, _ = m.Update(stepEndMsg{})
		m = next.(stepModel)
	}
	if m.completed != 2 {
		t.Errorf("completed = %d, want capped at 2", m.completed)
	}
	if !strings.Contains(m.View(), "[2/2]") {
		t.Errorf("View() = %q", m.View())
	}

	next, cmd := m.Update(finishMsg{})
	m = next.(stepModel)
	if !m.done || cmd == nil {
		t.Error("finishMsg should mark done and quit")
	}
	if m.View() != "" {
		t.Errorf("View() after finish = %q, want empty", m.View())
	}
}

func TestNewTheme_Modes(t *testing.T) {
	dark := NewTheme(ThemeConfig{Mode: "dark"})
	light := NewTheme(ThemeConfig{Mode: "light"})
	if dark.Colors.Primary == light.Colors.Primary {
		t.Errorf("dark and light share primary colour %q", dark.Colors.Primary)
	}
	if light.Colors.Primary != "#0C4B33" {
		t.Errorf("light Primary = %q", light.Colors.Primary)
	}
	if def := NewTheme(ThemeConfig{}); def.Colors != dark.Colors {
		t.Errorf("default palette = %+v, want dark", def.Colors)
	}
}

func TestTheme_NoColorIsPlain(t *testing.T) {
	theme := testTheme()
	if got := theme.Success("ok"); got != "ok" {
		t.Errorf("Success() = %q, want plain text", got)
	}
	card := theme.Card("Project", [][2]string{{"Name", "mysite"}, {"Location", "/tmp"}})
	want := "Project\nName      mysite\nLocation  /tmp"
	if card != want {
		t.Errorf("Card() =\n%q\nwant\n%q", card, want)
	}
}

func TestRenderMarkdown_NoColor(t *testing.T) {
	out, err := RenderMarkdown("## Next steps\n\n1. `cd mysite`\n", testTheme(), 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Next steps") || !strings.Contains(out, "cd mysite") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("notty output contains escape codes: %q", out)
	}
}
