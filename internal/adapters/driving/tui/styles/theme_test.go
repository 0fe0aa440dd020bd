package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette_ColoursAreDistinct(t *testing.T) {
	p := DefaultPalette()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{p.Accent, p.AccentAlt, p.OK, p.Warn, p.Fail} {
		require.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilPalette(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Palette())
	assert.Equal(t, DefaultPalette(), s.Palette())
}

func TestNewStyles_UsesPalette(t *testing.T) {
	p := &Palette{Accent: "#000001", AccentAlt: "#000002"}
	s := NewStyles(p)

	assert.Same(t, p, s.Palette())
	start, end := s.Gradient()
	assert.Equal(t, "#000001", start)
	assert.Equal(t, "#000002", end)
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"JobTitle": s.JobTitle,
		"Company":  s.Company,
		"Detail":   s.Detail,
		"Label":    s.Label,
		"Heading":  s.Heading,
		"Hint":     s.Hint,
		"OK":       s.OK,
		"Warn":     s.Warn,
		"Fail":     s.Fail,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"JobTitle": s.JobTitle,
		"Company":  s.Company,
		"Label":    s.Label,
		"Fail":     s.Fail,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, style.Render("高级 Go 工程师"), "高级 Go 工程师")
		})
	}
}

func TestStyles_Rank(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Rank(3), "[3]")
	assert.Contains(t, s.Rank(12), "[12]")
}
