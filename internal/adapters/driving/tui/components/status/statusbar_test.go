package status

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"ready default", StateReady, "", "Ready"},
		{"ready message", StateReady, "3 chunks", "3 chunks"},
		{"loading default", StateLoading, "", "Loading..."},
		{"loading message", StateLoading, "Creating playground...", "Creating playground..."},
		{"error", StateError, "boom", "Error: boom"},
		{"error default", StateError, "", "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_ShowsHints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)

	assert.Contains(t, bar.View(), "q: quit")

	bar.SetHints(km.PlaygroundHelp())
	assert.Contains(t, bar.View(), "/: ask")
}

func TestStatusBar_SetError(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetError(errors.New("backend down"))
	assert.Equal(t, StateError, bar.State())
	assert.Equal(t, "backend down", bar.Message())

	bar.SetError(nil)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
}
