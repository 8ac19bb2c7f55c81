// Package documents provides the uploaded documents view for the TUI.
package documents

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

// View is the documents list view.
type View struct {
	styles       *styles.Styles
	service      driving.DocumentService
	resource     driving.Resource[[]domain.Document]
	ctx          context.Context
	upload       *input.TextInput
	uploading    bool
	confirming   bool
	selected     int
	scrollOffset int
	notice       string
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new documents view.
func NewView(
	s *styles.Styles,
	service driving.DocumentService,
	resource driving.Resource[[]domain.Document],
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		service:  service,
		resource: resource,
		ctx:      context.Background(),
		upload:   input.NewTextInput(s, "Upload", "path to a file"),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list unless it is already cached.
func (v *View) Init() tea.Cmd {
	return loaded(v.resource.Activate(v.ctx))
}

// Reload refetches the document list.
func (v *View) Reload() tea.Cmd {
	return loaded(v.resource.Refetch(v.ctx))
}

func loaded(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return messages.DocumentsLoaded{}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.uploading {
			return v.handleUploadKey(msg)
		}
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.clamp()
		return v, nil

	case messages.DocumentUploaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.notice = fmt.Sprintf("Uploaded %s", msg.Document.Name)
		}
		return v, v.Reload()

	case messages.DocumentDeleted:
		v.err = msg.Err
		if msg.Err == nil {
			v.notice = fmt.Sprintf("Deleted %s", msg.ID)
		}
		return v, v.Reload()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	docs := v.resource.State().Data

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(docs)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "u":
		v.uploading = true
		v.notice = ""
		return v, v.upload.Focus()
	case "x", "delete":
		if v.selected < len(docs) {
			v.confirming = true
		}
	case "r":
		v.err = nil
		return v, v.Reload()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleConfirmKey asks before deleting, since playgrounds built on the
// document are deleted with it.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	if msg.String() != "y" {
		return v, nil
	}

	docs := v.resource.State().Data
	if v.selected >= len(docs) {
		return v, nil
	}
	id := docs[v.selected].ID
	return v, func() tea.Msg {
		_, err := v.service.Delete(v.ctx, id)
		return messages.DocumentDeleted{ID: id, Err: err}
	}
}

// handleUploadKey handles key presses while the upload path is typed.
func (v *View) handleUploadKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.uploading = false
		v.upload.Blur()
		return v, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(v.upload.Value())
		v.uploading = false
		v.upload.Reset()
		v.upload.Blur()
		if path == "" {
			return v, nil
		}
		return v, func() tea.Msg {
			doc, err := v.service.UploadFile(v.ctx, path)
			return messages.DocumentUploaded{Document: doc, Err: err}
		}
	}

	var cmd tea.Cmd
	v.upload, cmd = v.upload.Update(msg)
	return v, cmd
}

// adjustScroll keeps the selection visible.
func (v *View) adjustScroll() {
	visible := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleRows() int {
	rows := v.height - 8
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (v *View) clamp() {
	n := len(v.resource.State().Data)
	if v.selected >= n {
		v.selected = n - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	v.adjustScroll()
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	state := v.resource.State()
	switch {
	case state.Loading && !state.Loaded:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case state.Err != "":
		b.WriteString(v.styles.Error.Render("Error: " + state.Err))
	case len(state.Data) == 0:
		b.WriteString(v.styles.Muted.Render("No documents uploaded. Press [u] to upload one."))
	default:
		end := v.scrollOffset + v.visibleRows()
		if end > len(state.Data) {
			end = len(state.Data)
		}
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, &state.Data[i]))
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("\n%d documents", len(state.Data))))
	}
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.ErrorMessage(v.err)))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	switch {
	case v.uploading:
		b.WriteString(v.upload.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] upload  [esc] cancel"))
	case v.confirming:
		b.WriteString(v.styles.Warning.Render(
			"Delete this document and every playground built on it? [y/N]"))
	default:
		b.WriteString(v.styles.Help.Render("[u] upload  [x] delete  [r] reload  [esc] back"))
	}
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	if index == v.selected {
		return v.styles.Selected.Render("> "+doc.Name) + "  " + v.styles.Muted.Render(doc.ID)
	}
	return v.styles.Normal.Render("  "+doc.Name) + "  " + v.styles.Muted.Render(doc.ID)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.upload.SetWidth(width)
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last action error.
func (v *View) Err() error {
	return v.err
}
