package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/djscaffold/djscaffold/internal/core/project"
)

// Reporter is a project.ProgressReporter that owns terminal resources.
// Close must be called once the run finishes.
type Reporter interface {
	project.ProgressReporter
	Close()
}

// NewProgress returns an animated reporter writing to w, or a plain line
// reporter when headless or colours are off.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) Reporter {
	if hm.IsHeadless() || theme.NoColor {
		return &headlessReporter{ConsoleReporter: project.NewConsoleReporter(w)}
	}
	return newInteractiveReporter(theme, w)
}

// headlessReporter prints one line per step.
type headlessReporter struct {
	*project.ConsoleReporter
}

func (headlessReporter) Close() {}

// --- interactive ---

type stepStartMsg project.Step

type stepEndMsg struct{}

type finishMsg struct{}

// stepModel shows a spinner next to the current step and a bar for
// overall progress.
type stepModel struct {
	spinner   spinner.Model
	bar       progress.Model
	title     string
	completed int
	total     int
	done      bool
}

func newStepModel(theme *Theme, total int) stepModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	if !theme.NoColor {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
		bar = progress.New(
			progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
			progress.WithWidth(40),
		)
	}
	return stepModel{spinner: s, bar: bar, total: total}
}

func (m stepModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepStartMsg:
		m.title = project.Step(msg).String()
		return m, nil
	case stepEndMsg:
		m.completed = min(m.completed+1, m.total)
		return m, nil
	case finishMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m stepModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.completed) / float64(m.total)
	}
	return fmt.Sprintf("%s %s\n%s [%d/%d]\n", m.spinner.View(), m.title, m.bar.ViewAs(pct), m.completed, m.total)
}

// interactiveReporter drives a bubbletea program. Finished steps, skips
// and warnings are printed above the live view.
type interactiveReporter struct {
	theme   *Theme
	program *tea.Program
	once    sync.Once
}

func newInteractiveReporter(theme *Theme, w io.Writer, opts ...tea.ProgramOption) *interactiveReporter {
	opts = append([]tea.ProgramOption{
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	}, opts...)
	p := tea.NewProgram(newStepModel(theme, project.StepCount), opts...)
	r := &interactiveReporter{theme: theme, program: p}
	go func() {
		_, _ = p.Run()
	}()
	return r
}

func (r *interactiveReporter) line(step project.Step, mark, text string) string {
	return fmt.Sprintf("%s %s", mark, r.theme.Muted(fmt.Sprintf("[%d/%d]", step.Number(), project.StepCount))+" "+text)
}

func (r *interactiveReporter) StepStarted(step project.Step) {
	r.program.Send(stepStartMsg(step))
}

func (r *interactiveReporter) StepDone(step project.Step) {
	r.program.Println(r.line(step, r.theme.Success("✓"), step.String()))
	r.program.Send(stepEndMsg{})
}

func (r *interactiveReporter) StepSkipped(step project.Step, reason string) {
	r.program.Println(r.line(step, r.theme.Muted("-"), step.String()+" "+r.theme.Muted("("+reason+")")))
	r.program.Send(stepEndMsg{})
}

func (r *interactiveReporter) StepWarning(step project.Step, msg string) {
	r.program.Println("      " + r.theme.Warning("warning: "+msg))
}

func (r *interactiveReporter) StepFailed(step project.Step, err error) {
	r.program.Println(r.line(step, r.theme.Error("✗"), fmt.Sprintf("%s: %v", step, err)))
}

// Close stops the program and waits for the terminal to be restored.
func (r *interactiveReporter) Close() {
	r.once.Do(func() {
		r.program.Send(finishMsg{})
		r.program.Wait()
	})
}

var (
	_ Reporter = (*headlessReporter)(nil)
	_ Reporter = (*interactiveReporter)(nil)
)
