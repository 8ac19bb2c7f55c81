// Package playground provides the query and chunk explorer for one playground.
package playground

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/plot"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// Pane identifies which pane receives navigation keys.
type Pane int

const (
	PanePlot Pane = iota
	PaneQueries
	PaneChunks
)

// View is the playground explorer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	session   driving.SessionService
	service   driving.PlaygroundService
	ctx       context.Context
	plot      *plot.Plot
	chunks    *list.ChunkList
	input     *input.TextInput
	statusbar *status.Bar

	playground  domain.Playground
	queries     []domain.Query
	activeQuery string
	querySel    int
	pane        Pane
	pending     int
	width       int
	height      int
	ready       bool
}

// NewView creates a new playground explorer.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionService,
	service driving.PlaygroundService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		session:   session,
		service:   service,
		ctx:       context.Background(),
		plot:      plot.New(s),
		chunks:    list.NewChunkList(s),
		input:     input.NewTextInput(s, "Ask", "type a question and press enter"),
		statusbar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.PlaygroundHelp())
	v.focus(PanePlot)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetPlayground opens a playground and loads its points and queries.
func (v *View) SetPlayground(p domain.Playground) tea.Cmd {
	v.playground = p
	v.queries = nil
	v.activeQuery = ""
	v.querySel = 0
	v.plot.SetPoints(nil)
	v.plot.SetQuery(nil)
	v.chunks.SetChunks(nil, nil)
	v.input.Reset()
	v.input.Blur()
	v.focus(PanePlot)
	v.begin("Opening playground...")

	id := p.ID
	return func() tea.Msg {
		opened, err := v.service.Open(v.ctx, id)
		if err != nil {
			return messages.PlaygroundOpened{Err: err}
		}
		points, err := v.service.Points(v.ctx, id)
		return messages.PlaygroundOpened{Playground: opened, Points: points, Err: err}
	}
}

// Update handles messages for the explorer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.input.Focused() {
			return v.handleInputKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.PlaygroundOpened:
		v.end(msg.Err)
		if msg.Err == nil {
			v.playground = msg.Playground
			v.plot.SetPoints(msg.Points)
		}
		v.refresh()
		return v, nil

	case messages.QuerySubmitted:
		v.end(msg.Err)
		v.refresh()
		if msg.Err == nil {
			v.querySel = v.indexOf(msg.Query.ID)
		}
		return v, nil

	case messages.SessionUpdated:
		v.end(msg.Err)
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleInputKey handles key presses while the query input is focused.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		v.input.Reset()
		v.input.Blur()
		return v, v.submit(text)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses in navigation mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPlaygrounds}
		}
	case keymap.Matches(key, v.keymap.Ask):
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.Focus):
		v.focus((v.pane + 1) % 3)
		return v, nil
	}

	switch v.pane {
	case PanePlot:
		if keymap.Matches(key, v.keymap.Select) {
			if pt, ok := v.plot.Current(); ok {
				return v, v.clickPoint(pt.ID)
			}
			return v, nil
		}
		v.plot, _ = v.plot.Update(msg)

	case PaneQueries:
		switch {
		case keymap.Matches(key, v.keymap.Up):
			if v.querySel > 0 {
				v.querySel--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.querySel < len(v.queries)-1 {
				v.querySel++
			}
		case keymap.Matches(key, v.keymap.Select), keymap.Matches(key, v.keymap.Toggle):
			if v.querySel < len(v.queries) {
				return v, v.toggleQuery(v.queries[v.querySel].ID)
			}
		}

	case PaneChunks:
		if keymap.Matches(key, v.keymap.Remove) {
			if c := v.chunks.SelectedChunk(); c != nil {
				v.session.RemoveChunk(c.ID)
				v.refresh()
			}
			return v, nil
		}
		v.chunks, _ = v.chunks.Update(msg)
	}

	return v, nil
}

func (v *View) submit(text string) tea.Cmd {
	v.begin("Asking...")
	return func() tea.Msg {
		q, err := v.session.SubmitQuery(v.ctx, text)
		return messages.QuerySubmitted{Query: q, Err: err}
	}
}

func (v *View) toggleQuery(id string) tea.Cmd {
	v.begin("Fetching results...")
	return func() tea.Msg {
		return messages.SessionUpdated{Err: v.session.ToggleActiveQuery(v.ctx, id)}
	}
}

func (v *View) clickPoint(id string) tea.Cmd {
	v.begin("Fetching chunk...")
	return func() tea.Msg {
		return messages.SessionUpdated{Err: v.session.ClickPoint(v.ctx, id)}
	}
}

// begin marks a remote call as in flight.
func (v *View) begin(message string) {
	v.pending++
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage(message)
}

// end records a finished remote call. Results made obsolete by a newer
// selection or playground switch are dropped silently.
func (v *View) end(err error) {
	if v.pending > 0 {
		v.pending--
	}
	switch {
	case err != nil && !errors.Is(err, domain.ErrStale):
		v.statusbar.SetError(errors.New(domain.ErrorMessage(err)))
	case v.pending == 0:
		v.statusbar.Clear()
	}
}

// refresh copies the session state into the panes.
func (v *View) refresh() {
	snap := v.session.Snapshot()
	if snap.ActivePlayground != v.playground.ID {
		return
	}

	v.queries = snap.Queries
	v.activeQuery = snap.ActiveQuery
	if v.querySel >= len(v.queries) {
		v.querySel = len(v.queries) - 1
	}
	if v.querySel < 0 {
		v.querySel = 0
	}

	v.chunks.SetChunks(snap.Chunks, snap.ChunkIndex)
	if q, ok := snap.Query(); ok {
		v.plot.SetQuery(&q)
	} else {
		v.plot.SetQuery(nil)
	}
	v.plot.SetShown(snap.ChunkIndex)

	if v.statusbar.State() == status.StateReady && len(snap.Chunks) > 0 {
		v.statusbar.SetMessage(fmt.Sprintf("%d chunks shown", len(snap.Chunks)))
	}
}

func (v *View) indexOf(queryID string) int {
	for i := range v.queries {
		if v.queries[i].ID == queryID {
			return i
		}
	}
	return 0
}

func (v *View) focus(p Pane) {
	v.pane = p
	v.plot.SetFocused(p == PanePlot)
	v.chunks.SetFocused(p == PaneChunks)
}

// View renders the explorer.
func (v *View) View() string {
	var b strings.Builder

	title := v.playground.Title
	if title == "" {
		title = v.playground.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s %s", v.playground.Service, v.playground.Model)))
	b.WriteString("\n\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top, v.plot.View(), "  ", v.renderQueries())
	b.WriteString(top)
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Chunks"))
	b.WriteString("\n")
	b.WriteString(v.chunks.View())
	b.WriteString("\n")

	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// renderQueries renders the query list pane.
func (v *View) renderQueries() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Queries"))
	b.WriteString("\n")

	if len(v.queries) == 0 {
		b.WriteString(v.styles.Muted.Render("Press / to ask a question."))
		return b.String()
	}

	maxLen := v.width/2 - 8
	if maxLen < 16 {
		maxLen = 16
	}
	for i := range v.queries {
		q := &v.queries[i]
		marker := "  "
		if v.pane == PaneQueries && i == v.querySel {
			marker = "> "
		}
		text := q.Text
		if r := []rune(text); len(r) > maxLen {
			text = string(r[:maxLen-3]) + "..."
		}
		line := marker + text
		if q.ID == v.activeQuery {
			line = v.styles.QueryLabel.Render(line + " *")
		} else {
			line = v.styles.Normal.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions and lays out the panes.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	plotWidth := width/2 - 2
	plotHeight := height/2 - 4
	v.plot.SetDimensions(plotWidth, plotHeight)
	v.chunks.SetDimensions(width, height-plotHeight-10)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Pane returns the focused pane.
func (v *View) Pane() Pane {
	return v.pane
}

// Playground returns the playground being explored.
func (v *View) Playground() domain.Playground {
	return v.playground
}

// Queries returns the queries shown in the query pane.
func (v *View) Queries() []domain.Query {
	return v.queries
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Plot returns the plot component.
func (v *View) Plot() *plot.Plot {
	return v.plot
}

// Chunks returns the chunk list component.
func (v *View) Chunks() *list.ChunkList {
	return v.chunks
}
