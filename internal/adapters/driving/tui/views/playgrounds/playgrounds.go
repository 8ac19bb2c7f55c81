// Package playgrounds provides the playground list view for the TUI.
package playgrounds

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeList mode = iota
	modeFind
	modeRename
)

// findLimit caps the number of fuzzy matches shown.
const findLimit = 10

// View is the playground list view.
type View struct {
	styles    *styles.Styles
	service   driving.PlaygroundService
	resource  driving.Resource[[]domain.Playground]
	ctx       context.Context
	input     *input.TextInput
	mode      mode
	matches   []driving.PlaygroundMatch
	filtering bool
	selected  int
	width     int
	height    int
	ready     bool
	err       error
}

// NewView creates a new playground list view.
func NewView(
	s *styles.Styles,
	service driving.PlaygroundService,
	resource driving.Resource[[]domain.Playground],
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		service:  service,
		resource: resource,
		ctx:      context.Background(),
		input:    input.NewTextInput(s, "Find", "playground title"),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the playground list unless it is already cached.
func (v *View) Init() tea.Cmd {
	return wait(v.resource.Activate(v.ctx))
}

// Reload refetches the playground list.
func (v *View) Reload() tea.Cmd {
	return wait(v.resource.Refetch(v.ctx))
}

// wait returns a command that reports when a fetch has been applied.
func wait(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return messages.PlaygroundsLoaded{}
	}
}

// Update handles messages for the playground list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.mode != modeList {
			return v.handleInputKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.PlaygroundsLoaded:
		v.clamp()
		if v.filtering {
			v.refilter()
		}
		return v, nil

	case messages.PlaygroundDeleted:
		v.err = msg.Err
		return v, v.Reload()

	case messages.PlaygroundRenamed:
		v.err = msg.Err
		return v, v.Reload()
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	items := v.items()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(items)-1 {
			v.selected++
		}
	case "enter":
		if p, ok := v.current(); ok {
			return v, func() tea.Msg {
				return messages.PlaygroundSelected{Playground: p}
			}
		}
	case "n":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewNewPlayground}
		}
	case "x", "delete":
		if p, ok := v.current(); ok {
			return v, v.deletePlayground(p.ID)
		}
	case "e":
		if p, ok := v.current(); ok {
			v.mode = modeRename
			v.input = input.NewTextInput(v.styles, "Title", "new title")
			v.input.SetValue(p.Title)
			return v, v.input.Focus()
		}
	case "/", "f":
		v.mode = modeFind
		v.input = input.NewTextInput(v.styles, "Find", "playground title")
		return v, v.input.Focus()
	case "r":
		v.err = nil
		return v, v.Reload()
	case "esc":
		if v.filtering {
			v.filtering = false
			v.matches = nil
			v.selected = 0
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleInputKey handles key presses while the find or rename input is focused.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = modeList
		v.input.Blur()
		return v, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(v.input.Value())
		current := v.mode
		v.mode = modeList
		v.input.Blur()

		if current == modeRename {
			p, ok := v.current()
			if !ok || value == "" {
				return v, nil
			}
			return v, v.renamePlayground(p.ID, value)
		}

		v.filtering = value != ""
		v.selected = 0
		if v.filtering {
			v.refilterWith(value)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) refilter() {
	v.refilterWith(strings.TrimSpace(v.input.Value()))
}

func (v *View) refilterWith(title string) {
	matches, err := v.service.Find(v.ctx, title, findLimit)
	if err != nil {
		v.err = err
		return
	}
	v.matches = matches
	v.clamp()
}

func (v *View) deletePlayground(id string) tea.Cmd {
	return func() tea.Msg {
		return messages.PlaygroundDeleted{ID: id, Err: v.service.Delete(v.ctx, id)}
	}
}

func (v *View) renamePlayground(id, title string) tea.Cmd {
	return func() tea.Msg {
		p, err := v.service.Rename(v.ctx, id, title)
		return messages.PlaygroundRenamed{Playground: p, Err: err}
	}
}

// items returns the playgrounds currently listed: fuzzy matches when
// filtering, otherwise the loaded list.
func (v *View) items() []domain.Playground {
	if v.filtering {
		out := make([]domain.Playground, len(v.matches))
		for i := range v.matches {
			out[i] = v.matches[i].Playground
		}
		return out
	}
	return v.resource.State().Data
}

func (v *View) current() (domain.Playground, bool) {
	items := v.items()
	if v.selected < 0 || v.selected >= len(items) {
		return domain.Playground{}, false
	}
	return items[v.selected], true
}

func (v *View) clamp() {
	n := len(v.items())
	if v.selected >= n {
		v.selected = n - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// View renders the playground list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Playgrounds"))
	b.WriteString("\n\n")

	state := v.resource.State()
	switch {
	case state.Loading && !state.Loaded:
		b.WriteString(v.styles.Muted.Render("Loading playgrounds..."))
	case state.Err != "":
		b.WriteString(v.styles.Error.Render("Error: " + state.Err))
	default:
		v.renderList(&b)
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + domain.ErrorMessage(v.err)))
	}

	b.WriteString("\n\n")
	if v.mode != modeList {
		b.WriteString(v.input.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] confirm  [esc] cancel"))
		return b.String()
	}
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	items := v.items()
	if len(items) == 0 {
		if v.filtering {
			b.WriteString(v.styles.Muted.Render("No playgrounds match."))
		} else {
			b.WriteString(v.styles.Muted.Render("No playgrounds yet. Press [n] to create one."))
		}
		return
	}

	if v.filtering {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Matches for %q", strings.TrimSpace(v.input.Value()))))
		b.WriteString("\n")
	}

	for i := range items {
		b.WriteString(v.renderPlayground(i, &items[i]))
		b.WriteString("\n")
	}
}

// renderPlayground renders a single playground line.
func (v *View) renderPlayground(index int, p *domain.Playground) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := p.Title
	maxTitleLen := v.width - 40
	if maxTitleLen < 16 {
		maxTitleLen = 16
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen-3]) + "..."
	}

	meta := fmt.Sprintf("%s  %s", p.Service, p.Created.Format("2006-01-02 15:04"))
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, meta))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
		v.styles.Muted.Render(meta)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render(
		"[enter] open  [n] new  [e] rename  [x] delete  [/] find  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last action error.
func (v *View) Err() error {
	return v.err
}
