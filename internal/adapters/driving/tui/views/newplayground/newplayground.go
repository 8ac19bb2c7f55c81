// Package newplayground provides the two-page "new playground" wizard view.
package newplayground

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// View is the new playground wizard.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	newWizard func() driving.PlaygroundWizard
	wizard    driving.PlaygroundWizard
	documents driving.DocumentService
	docs      driving.Resource[[]domain.Document]
	models    driving.Resource[[]domain.EmbeddingModel]
	ctx       context.Context
	upload    *input.TextInput
	uploading bool
	statusbar *status.Bar
	cursor    int
	width     int
	height    int
	ready     bool
}

// NewView creates a new wizard view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	newWizard func() driving.PlaygroundWizard,
	documents driving.DocumentService,
	docs driving.Resource[[]domain.Document],
	models driving.Resource[[]domain.EmbeddingModel],
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		newWizard: newWizard,
		wizard:    newWizard(),
		documents: documents,
		docs:      docs,
		models:    models,
		ctx:       context.Background(),
		upload:    input.NewTextInput(s, "Upload", "path to a file"),
		statusbar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Reset discards the current wizard and starts over.
func (v *View) Reset() {
	v.wizard.Reset()
	v.wizard = v.newWizard()
	v.cursor = 0
	v.uploading = false
	v.upload.Reset()
	v.upload.Blur()
	v.statusbar.Clear()
}

// Init loads the model and document lists unless they are cached.
func (v *View) Init() tea.Cmd {
	models, docs := v.models.Activate(v.ctx), v.docs.Activate(v.ctx)
	return tea.Batch(
		func() tea.Msg {
			<-models
			return messages.ModelsLoaded{}
		},
		func() tea.Msg {
			<-docs
			return messages.DocumentsLoaded{}
		},
	)
}

func (v *View) reloadDocuments() tea.Cmd {
	done := v.docs.Refetch(v.ctx)
	return func() tea.Msg {
		<-done
		return messages.DocumentsLoaded{}
	}
}

// Update handles messages for the wizard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.uploading {
			return v.handleUploadKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ModelsLoaded, messages.DocumentsLoaded:
		v.clamp()
		return v, nil

	case messages.DocumentUploaded:
		if msg.Err != nil {
			v.statusbar.SetError(errors.New(domain.ErrorMessage(msg.Err)))
			return v, nil
		}
		v.statusbar.Clear()
		v.statusbar.SetMessage("Uploaded " + msg.Document.Name)
		return v, v.reloadDocuments()

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.statusbar.SetError(errors.New(domain.ErrorMessage(msg.Err)))
			return v, nil
		}
		v.statusbar.Clear()
		return v, v.reloadDocuments()

	case messages.WizardAdvanced:
		return v.handleAdvanced(msg.Outcome)
	}

	return v, nil
}

// handleKeyMsg handles key presses on either page.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.wizard.Busy() {
		return v, nil
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		if v.wizard.Retreat() {
			v.cursor = 0
			v.statusbar.Clear()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil
	case keymap.Matches(key, v.keymap.Down):
		if v.cursor < v.rows()-1 {
			v.cursor++
		}
		return v, nil
	case keymap.Matches(key, v.keymap.Focus), key == "right":
		return v, v.advance()
	}

	if v.wizard.PageName() == driving.WizardPageEmbeddings {
		return v.handleEmbeddingsKey(key)
	}
	return v.handleDocumentsKey(key)
}

func (v *View) handleEmbeddingsKey(key string) (*View, tea.Cmd) {
	if !keymap.Matches(key, v.keymap.Select) && !keymap.Matches(key, v.keymap.Toggle) {
		return v, nil
	}
	models := v.models.State().Data
	if v.cursor >= len(models) {
		return v, nil
	}
	if err := v.wizard.SelectService(models[v.cursor]); err != nil {
		v.statusbar.SetError(err)
		return v, nil
	}
	v.statusbar.Clear()
	if keymap.Matches(key, v.keymap.Select) {
		return v, v.advance()
	}
	return v, nil
}

func (v *View) handleDocumentsKey(key string) (*View, tea.Cmd) {
	docs := v.docs.State().Data

	switch {
	case keymap.Matches(key, v.keymap.Toggle):
		if v.cursor < len(docs) {
			v.wizard.ToggleDocument(docs[v.cursor].ID)
		}
	case keymap.Matches(key, v.keymap.Select):
		return v, v.advance()
	case keymap.Matches(key, v.keymap.Remove):
		if v.cursor < len(docs) {
			id := docs[v.cursor].ID
			return v, func() tea.Msg {
				return messages.DocumentDeleted{ID: id, Err: v.wizard.RemoveDocument(v.ctx, id)}
			}
		}
	case key == "u":
		v.uploading = true
		return v, v.upload.Focus()
	case keymap.Matches(key, v.keymap.Reload):
		return v, v.reloadDocuments()
	}
	return v, nil
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
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage("Uploading " + filepath.Base(path) + "...")
		return v, func() tea.Msg {
			doc, err := v.documents.UploadFile(v.ctx, path)
			return messages.DocumentUploaded{Document: doc, Err: err}
		}
	}

	var cmd tea.Cmd
	v.upload, cmd = v.upload.Update(msg)
	return v, cmd
}

// advance runs the wizard's advance in the background.
func (v *View) advance() tea.Cmd {
	if !v.wizard.CanAdvance() {
		v.statusbar.SetError(errors.New(v.blockedReason()))
		return nil
	}
	if v.wizard.Page() == v.wizard.PageCount()-1 {
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage("Creating playground...")
	}
	w := v.wizard
	return func() tea.Msg {
		return messages.WizardAdvanced{Outcome: w.Advance(v.ctx)}
	}
}

func (v *View) blockedReason() string {
	if v.wizard.PageName() == driving.WizardPageEmbeddings {
		return "select an embedding service first"
	}
	return "select at least one document"
}

func (v *View) handleAdvanced(out driving.AdvanceOutcome) (*View, tea.Cmd) {
	switch out.Status {
	case driving.AdvanceBlocked:
		v.statusbar.SetError(errors.New(v.blockedReason()))
		return v, nil
	case driving.AdvanceDiscarded:
		return v, nil
	case driving.AdvanceHeld:
		v.statusbar.SetError(errors.New(domain.ErrorMessage(out.Err)))
		return v, nil
	}

	if out.Err != nil {
		v.statusbar.SetError(errors.New(domain.ErrorMessage(out.Err)))
		return v, nil
	}
	v.statusbar.Clear()
	if out.From != out.To {
		v.cursor = 0
	}

	if p, ok := v.wizard.Created(); ok {
		return v, func() tea.Msg {
			return messages.PlaygroundSelected{Playground: p}
		}
	}
	return v, nil
}

func (v *View) rows() int {
	if v.wizard.PageName() == driving.WizardPageEmbeddings {
		return len(v.models.State().Data)
	}
	return len(v.docs.State().Data)
}

func (v *View) clamp() {
	if n := v.rows(); v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// View renders the wizard.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New Playground"))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("step %d of %d", v.wizard.Page()+1, v.wizard.PageCount())))
	b.WriteString("\n\n")

	if v.wizard.PageName() == driving.WizardPageEmbeddings {
		v.renderModels(&b)
	} else {
		v.renderDocuments(&b)
	}

	b.WriteString("\n")
	if v.uploading {
		b.WriteString(v.upload.View())
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderModels(b *strings.Builder) {
	b.WriteString(v.styles.Subtitle.Render("Choose an embedding service"))
	b.WriteString("\n\n")

	state := v.models.State()
	switch {
	case state.Loading && !state.Loaded:
		b.WriteString(v.styles.Muted.Render("Loading embedding services..."))
		b.WriteString("\n")
		return
	case state.Err != "":
		b.WriteString(v.styles.Error.Render("Error: " + state.Err))
		b.WriteString("\n")
		return
	}

	selected := v.wizard.SelectedService()
	for i, m := range state.Data {
		cursor := "  "
		if i == v.cursor {
			cursor = "> "
		}
		mark := "( )"
		if m.Service == selected {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %-22s %s", cursor, mark, m.Service, m.Model)
		switch {
		case !m.Selectable():
			b.WriteString(v.styles.Muted.Render(line + "  API key required"))
		case i == v.cursor:
			b.WriteString(v.styles.Selected.Render(line))
		default:
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
}

func (v *View) renderDocuments(b *strings.Builder) {
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Choose documents to embed with %s", v.wizard.SelectedService())))
	b.WriteString("\n\n")

	state := v.docs.State()
	switch {
	case state.Loading && !state.Loaded:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
		b.WriteString("\n")
		return
	case state.Err != "":
		b.WriteString(v.styles.Error.Render("Error: " + state.Err))
		b.WriteString("\n")
		return
	case len(state.Data) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet. Press [u] to upload one."))
		b.WriteString("\n")
		return
	}

	chosen := make(map[string]bool)
	for _, id := range v.wizard.SelectedDocuments() {
		chosen[id] = true
	}
	for i, d := range state.Data {
		cursor := "  "
		if i == v.cursor {
			cursor = "> "
		}
		mark := "[ ]"
		if chosen[d.ID] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, mark, d.Name)
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
}

func (v *View) renderHelp() string {
	if v.wizard.PageName() == driving.WizardPageEmbeddings {
		return v.styles.Help.Render("[enter] choose  [space] select  [tab] next  [esc] back")
	}
	return v.styles.Help.Render(
		"[space] toggle  [enter] create  [u] upload  [x] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.upload.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Wizard returns the wizard driven by the view.
func (v *View) Wizard() driving.PlaygroundWizard {
	return v.wizard
}

// Cursor returns the cursor row.
func (v *View) Cursor() int {
	return v.cursor
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
