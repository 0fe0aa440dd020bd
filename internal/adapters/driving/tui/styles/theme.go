// Package styles holds the colours and lipgloss styles used for job output
// and the ingestion progress bar.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of terminal colours.
type Palette struct {
	Accent    lipgloss.Color
	AccentAlt lipgloss.Color
	Text      lipgloss.Color
	Dim       lipgloss.Color
	OK        lipgloss.Color
	Warn      lipgloss.Color
	Fail      lipgloss.Color
}

// DefaultPalette returns the colours used when none are configured.
func DefaultPalette() *Palette {
	return &Palette{
		Accent:    lipgloss.Color("#7C3AED"), // Purple
		AccentAlt: lipgloss.Color("#06B6D4"), // Cyan
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		OK:        lipgloss.Color("#A6E3A1"),
		Warn:      lipgloss.Color("#F9E2AF"),
		Fail:      lipgloss.Color("#F38BA8"),
	}
}

// Styles renders the parts of a search result and of the progress display.
type Styles struct {
	palette *Palette

	// JobTitle renders the posting title in a result row.
	JobTitle lipgloss.Style

	// Company renders the hiring company next to the title.
	Company lipgloss.Style

	// Detail renders location, salary and other secondary fields.
	Detail lipgloss.Style

	// Label renders field labels such as "Skills:".
	Label lipgloss.Style

	// Heading renders section headings.
	Heading lipgloss.Style

	// Hint renders key bindings and usage hints.
	Hint lipgloss.Style

	OK   lipgloss.Style
	Warn lipgloss.Style
	Fail lipgloss.Style
}

// NewStyles builds styles from a palette. A nil palette selects DefaultPalette.
func NewStyles(p *Palette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}

	return &Styles{
		palette:  p,
		JobTitle: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Company:  lipgloss.NewStyle().Foreground(p.AccentAlt),
		Detail:   lipgloss.NewStyle().Foreground(p.Text),
		Label:    lipgloss.NewStyle().Foreground(p.Dim),
		Heading:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Accent),
		Hint:     lipgloss.NewStyle().Italic(true).Foreground(p.Dim),
		OK:       lipgloss.NewStyle().Foreground(p.OK),
		Warn:     lipgloss.NewStyle().Foreground(p.Warn),
		Fail:     lipgloss.NewStyle().Bold(true).Foreground(p.Fail),
	}
}

// DefaultStyles returns styles for the default palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}

// Palette returns the colours behind these styles.
func (s *Styles) Palette() *Palette {
	return s.palette
}

// Gradient returns the start and end colours of the progress bar.
func (s *Styles) Gradient() (string, string) {
	return string(s.palette.Accent), string(s.palette.AccentAlt)
}

// Rank renders the 1-based position of a search result, e.g. "[3]".
func (s *Styles) Rank(n int) string {
	return s.Label.Render(fmt.Sprintf("[%d]", n))
}
