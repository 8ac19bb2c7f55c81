package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/views/newplayground"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/views/playground"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/views/playgrounds"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings shared by the views.
	keymap *keymap.KeyMap

	// menuView is the main navigation menu.
	menuView *menu.View

	// playgroundsView lists playgrounds.
	playgroundsView *playgrounds.View

	// playgroundView explores one playground.
	playgroundView *playground.View

	// newPlaygroundView is the new playground wizard.
	newPlaygroundView *newplayground.View

	// documentsView lists uploaded documents.
	documentsView *documents.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		menuView:        menu.NewView(s),
		playgroundsView: playgrounds.NewView(s, ports.Playground, ports.Playgrounds),
		playgroundView:  playground.NewView(s, km, ports.Session, ports.Playground),
		newPlaygroundView: newplayground.NewView(
			s, km, ports.NewWizard, ports.Document, ports.Documents, ports.Models,
		),
		documentsView: documents.NewView(s, ports.Document, ports.Documents),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.playgroundsView.WithContext(ctx)
	a.playgroundView.WithContext(ctx)
	a.newPlaygroundView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ragplay - Retrieval Playground"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.PlaygroundSelected:
		from := a.currentView
		a.currentView = messages.ViewPlayground
		open := a.playgroundView.SetPlayground(msg.Playground)
		if from == messages.ViewNewPlayground {
			// The wizard created it; the cached list is out of date.
			return a, tea.Batch(open, a.playgroundsView.Reload())
		}
		return a, open

	case messages.PlaygroundsLoaded, messages.PlaygroundDeleted, messages.PlaygroundRenamed:
		a.playgroundsView, cmd = a.playgroundsView.Update(msg)
		return a, cmd

	case messages.PlaygroundOpened, messages.QuerySubmitted, messages.SessionUpdated:
		a.playgroundView, cmd = a.playgroundView.Update(msg)
		return a, cmd

	case messages.ModelsLoaded, messages.WizardAdvanced:
		a.newPlaygroundView, cmd = a.newPlaygroundView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		var wizardCmd tea.Cmd
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.newPlaygroundView, wizardCmd = a.newPlaygroundView.Update(msg)
		return a, tea.Batch(cmd, wizardCmd)

	case messages.DocumentUploaded:
		return a.updateCurrent(msg)

	case messages.DocumentDeleted:
		_, cmd = a.updateCurrent(msg)
		if msg.Err != nil {
			return a, cmd
		}
		// Playgrounds built on the document are gone too.
		return a, tea.Batch(cmd, a.playgroundsView.Reload())

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.updateCurrent(msg)
}

// updateCurrent forwards a message to the active view.
func (a *App) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewPlaygrounds:
		a.playgroundsView, cmd = a.playgroundsView.Update(msg)
	case messages.ViewPlayground:
		a.playgroundView, cmd = a.playgroundView.Update(msg)
	case messages.ViewNewPlayground:
		a.newPlaygroundView, cmd = a.newPlaygroundView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if k, ok := msg.(tea.KeyMsg); ok && keymap.Matches(k.String(), a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}

	return a, cmd
}

// switchTo activates a view and runs its initialisation.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view

	switch view {
	case messages.ViewPlaygrounds:
		return a.playgroundsView.Init()
	case messages.ViewNewPlayground:
		a.newPlaygroundView.Reset()
		return a.newPlaygroundView.Init()
	case messages.ViewDocuments:
		return a.documentsView.Init()
	case messages.ViewPlayground:
		return a.playgroundView.Init()
	case messages.ViewMenu, messages.ViewHelp:
		// Static views don't need initialisation
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewPlaygrounds:
		return a.playgroundsView.View()
	case messages.ViewPlayground:
		return a.playgroundView.View()
	case messages.ViewNewPlayground:
		return a.newPlaygroundView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Playground"))
	b.WriteString("\n")
	b.WriteString(`  /            Ask a question
  tab          Cycle plot, queries and chunks
  enter        Open the chunk under the plot cursor
  space        Show or hide a query's results
  x            Hide the selected chunk
`)
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu  [ctrl+c] quit"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.playgroundsView.SetDimensions(width, height)
	a.playgroundView.SetDimensions(width, height)
	a.newPlaygroundView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
}
