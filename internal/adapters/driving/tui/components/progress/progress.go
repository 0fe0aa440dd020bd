// Package progress provides the ingestion progress display for the CLI.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/jobmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

const (
	padding  = 2
	maxWidth = 60
)

// UpdateMsg carries an ingestion progress report.
type UpdateMsg domain.Progress

// DoneMsg signals that ingestion has finished, successfully or not.
type DoneMsg struct{}

// Model renders a progress bar for an ingestion run.
type Model struct {
	styles      *styles.Styles
	bar         bar.Model
	cancel      key.Binding
	source      string
	current     domain.Progress
	done        bool
	interrupted bool
}

// New creates a progress display for the named source.
func New(source string, s *styles.Styles) Model {
	if s == nil {
		s = styles.DefaultStyles()
	}
	b := bar.New(bar.WithGradient(s.Gradient()))
	b.Width = maxWidth

	return Model{
		styles: s,
		bar:    b,
		cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		source: source,
	}
}

// Init initialises the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles progress, completion, resize and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		m.current = domain.Progress(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.cancel) {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2-4, maxWidth)
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
		return m, nil
	}

	return m, nil
}

// View renders the progress display. It is empty once ingestion is done
// so that the caller's summary replaces it.
func (m Model) View() string {
	if m.done {
		return ""
	}

	pad := strings.Repeat(" ", padding)
	var b strings.Builder

	b.WriteString(pad + m.styles.Heading.Render("Indexing") + " " + m.styles.Detail.Render(m.source) + "\n")

	if m.current.Total > 0 {
		b.WriteString(pad + m.bar.ViewAs(m.current.Fraction()) + "\n")
		b.WriteString(pad + m.styles.Label.Render(fmt.Sprintf("%d/%d records, %d jobs accepted",
			m.current.Processed, m.current.Total, m.current.Indexed)) + "\n")
	} else {
		b.WriteString(pad + m.styles.Label.Render(fmt.Sprintf("%d records, %d jobs accepted",
			m.current.Processed, m.current.Indexed)) + "\n")
	}

	b.WriteString(pad + m.styles.Hint.Render(m.cancel.Help().Key+" "+m.cancel.Help().Desc) + "\n")
	return b.String()
}

// Current returns the last reported progress.
func (m Model) Current() domain.Progress {
	return m.current
}

// Done reports whether ingestion finished.
func (m Model) Done() bool {
	return m.done
}

// Interrupted reports whether the user cancelled the run.
func (m Model) Interrupted() bool {
	return m.interrupted
}
