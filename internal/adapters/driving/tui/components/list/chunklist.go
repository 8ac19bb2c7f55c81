// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// ChunkList displays the session's chunks as labelled cards.
type ChunkList struct {
	chunks   []domain.Chunk
	labels   map[string]int
	selected int
	focused  bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewChunkList creates a new chunk list component.
func NewChunkList(s *styles.Styles) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChunkList{
		labels: map[string]int{},
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the chunk list.
func (c *ChunkList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the chunk list.
func (c *ChunkList) View() string {
	if len(c.chunks) == 0 {
		return c.styles.Muted.Render("No chunks. Ask a question or pick a point on the plot.")
	}

	// Each card takes two lines plus a blank separator.
	visibleCount := c.height / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(c.chunks) {
		end = len(c.chunks)
	}

	lines := make([]string, 0, (end-start)*3)
	for i := start; i < end; i++ {
		lines = append(lines, c.renderChunk(i, &c.chunks[i]), "")
	}
	return strings.Join(lines, "\n")
}

// renderChunk formats a single chunk card.
func (c *ChunkList) renderChunk(index int, chunk *domain.Chunk) string {
	indicator := "  "
	if c.focused && index == c.selected {
		indicator = "> "
	}

	label := c.styles.ChunkLabel(chunk.Role).Render(fmt.Sprintf("[%d]", c.labels[chunk.ID]))

	header := indicator + label + " " + c.styles.Muted.Render(chunk.Role.String())
	if c.focused && index == c.selected {
		header = indicator + label + " " + c.styles.Selected.Render(chunk.Role.String())
	}

	maxLen := c.width - 6
	if maxLen < 20 {
		maxLen = 20
	}
	text := []rune(strings.Join(strings.Fields(chunk.Text), " "))
	if len(text) > maxLen {
		text = append(text[:maxLen-3], []rune("...")...)
	}

	return header + "\n" + c.styles.Normal.Render("    "+string(text))
}

// SetChunks replaces the displayed chunks. The selection is kept in range.
func (c *ChunkList) SetChunks(chunks []domain.Chunk, labels map[string]int) {
	c.chunks = chunks
	c.labels = labels
	if c.selected >= len(chunks) {
		c.selected = len(chunks) - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

// SelectedChunk returns the chunk under the cursor, or nil if none.
func (c *ChunkList) SelectedChunk() *domain.Chunk {
	if len(c.chunks) == 0 || c.selected < 0 || c.selected >= len(c.chunks) {
		return nil
	}
	return &c.chunks[c.selected]
}

// Selected returns the index of the selected chunk.
func (c *ChunkList) Selected() int {
	return c.selected
}

// MoveUp moves selection up.
func (c *ChunkList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ChunkList) MoveDown() {
	if c.selected < len(c.chunks)-1 {
		c.selected++
	}
}

// SetFocused marks the list as the pane receiving keys.
func (c *ChunkList) SetFocused(focused bool) {
	c.focused = focused
}

// SetDimensions sets the component dimensions.
func (c *ChunkList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of chunks.
func (c *ChunkList) Count() int {
	return len(c.chunks)
}
