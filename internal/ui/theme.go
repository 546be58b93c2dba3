// Package ui holds the terminal interaction layer: the project wizard, step
// progress display, colours and markdown rendering. Every component has a
// plain-text fallback used when stdin is not a terminal or colours are off.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Sentinel errors for UI operations.
var (
	// ErrCancelled indicates the user aborted an interactive prompt.
	ErrCancelled = errors.New("ui: cancelled by user")

	// ErrHeadlessMissingValue indicates a required value was not supplied
	// and no prompt can be shown.
	ErrHeadlessMissingValue = errors.New("ui: required value missing in non-interactive mode")
)

// ThemeConfig selects the palette.
type ThemeConfig struct {
	NoColor bool
	Mode    string // "light" selects the light palette; anything else is dark.
}

// Colors holds hex colour codes.
type Colors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme carries the palette and derived lipgloss styles.
type Theme struct {
	NoColor bool
	Colors  Colors
}

// NewTheme creates a Theme for cfg.
func NewTheme(cfg ThemeConfig) *Theme {
	colors := Colors{
		Primary:   "#0C4B33", // Django green
		Secondary: "#44B78B",
		Success:   "#44B78B",
		Warning:   "#E5A50A",
		Error:     "#C01C28",
		Muted:     "#6C757D",
	}
	if cfg.Mode != "light" {
		colors.Primary = "#44B78B"
		colors.Secondary = "#A3E9C5"
	}
	return &Theme{NoColor: cfg.NoColor, Colors: colors}
}

func (t *Theme) style(color string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Title renders s as a heading.
func (t *Theme) Title(s string) string { return t.style(t.Colors.Primary).Bold(!t.NoColor).Render(s) }

// Success renders s in the success colour.
func (t *Theme) Success(s string) string { return t.style(t.Colors.Success).Render(s) }

// Warning renders s in the warning colour.
func (t *Theme) Warning(s string) string { return t.style(t.Colors.Warning).Render(s) }

// Error renders s in the error colour.
func (t *Theme) Error(s string) string { return t.style(t.Colors.Error).Render(s) }

// Muted renders s in the muted colour.
func (t *Theme) Muted(s string) string { return t.style(t.Colors.Muted).Render(s) }

// Card renders a titled block of key/value rows inside a rounded border.
// Rows keep their order; keys are padded to the widest key.
func (t *Theme) Card(title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	var b strings.Builder
	b.WriteString(t.Title(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(t.Muted(fmt.Sprintf("%-*s", width, r[0])))
		b.WriteString("  ")
		b.WriteString(r[1])
	}
	if t.NoColor {
		return b.String()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Colors.Primary)).
		Padding(0, 1).
		Render(b.String())
}

// huhTheme returns the form theme matching t.
func (t *Theme) huhTheme() *huh.Theme {
	if t.NoColor {
		return huh.ThemeBase()
	}
	return huh.ThemeCharm()
}

// RenderMarkdown renders md for the terminal. With colours disabled the
// notty style is used so the output stays plain text.
func RenderMarkdown(md string, theme *Theme, width int) (string, error) {
	style := "dark"
	if theme == nil || theme.NoColor {
		style = "notty"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
