package progress

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNew(t *testing.T) {
	m := New("jobs.jsonl", nil)

	assert.NotNil(t, m.styles)
	assert.Nil(t, m.Init())
	assert.False(t, m.Done())
	assert.False(t, m.Interrupted())
	assert.Contains(t, m.View(), "jobs.jsonl")
}

func TestModel_UpdateProgress(t *testing.T) {
	m := New("jobs.jsonl", nil)

	m, cmd := update(t, m, UpdateMsg{Processed: 5, Total: 10, Indexed: 4})

	assert.Nil(t, cmd)
	assert.Equal(t, domain.Progress{Processed: 5, Total: 10, Indexed: 4}, m.Current())
	view := m.View()
	assert.Contains(t, view, "5/10 records")
	assert.Contains(t, view, "4 jobs accepted")
}

func TestModel_UnknownTotal(t *testing.T) {
	m := New("stdin", nil)

	m, _ = update(t, m, UpdateMsg{Processed: 7, Indexed: 7})

	assert.Contains(t, m.View(), "7 records, 7 jobs accepted")
}

func TestModel_DoneQuits(t *testing.T) {
	m := New("jobs.jsonl", nil)

	m, cmd := update(t, m, DoneMsg{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Done())
	assert.Empty(t, m.View())
}

func TestModel_CancelKey(t *testing.T) {
	m := New("jobs.jsonl", nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.True(t, m.Interrupted())
	assert.False(t, m.Done())
}

func TestModel_OtherKeysIgnored(t *testing.T) {
	m := New("jobs.jsonl", nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Nil(t, cmd)
	assert.False(t, m.Interrupted())
}

func TestModel_WindowResize(t *testing.T) {
	m := New("jobs.jsonl", nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40})
	assert.Equal(t, 40-padding*2-4, m.bar.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200})
	assert.Equal(t, maxWidth, m.bar.Width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 5})
	assert.Equal(t, 10, m.bar.Width)
}
