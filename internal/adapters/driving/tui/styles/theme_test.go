package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.QueryChunk))
	assert.NotEmpty(t, string(theme.PointChunk))
}

func TestDefaultTheme_ChunkRolesAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	roles := []lipgloss.Color{theme.QueryChunk, theme.PointChunk, theme.Primary}

	seen := make(map[string]bool)
	for _, c := range roles {
		assert.False(t, seen[string(c)], "duplicate colour: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_LabelsRenderText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.QueryLabel.Render("[1]"), "[1]")
	assert.Contains(t, s.PointLabel.Render("[2]"), "[2]")
}

func TestStyles_ChunkLabel(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.QueryLabel.Render("[1]"), s.ChunkLabel(domain.ChunkRoleQuery).Render("[1]"))
	assert.Equal(t, s.PointLabel.Render("[1]"), s.ChunkLabel(domain.ChunkRolePoint).Render("[1]"))
}
