// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewPlaygrounds lists playgrounds.
	ViewPlaygrounds
	// ViewPlayground is the query and chunk explorer for one playground.
	ViewPlayground
	// ViewNewPlayground is the new playground wizard.
	ViewNewPlayground
	// ViewDocuments lists uploaded documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewPlaygrounds:
		return "playgrounds"
	case ViewPlayground:
		return "playground"
	case ViewNewPlayground:
		return "new_playground"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// PlaygroundsLoaded signals the playground loader finished a fetch.
// The data itself is read from the loader.
type PlaygroundsLoaded struct{}

// DocumentsLoaded signals the document loader finished a fetch.
type DocumentsLoaded struct{}

// ModelsLoaded signals the embedding model loader finished a fetch.
type ModelsLoaded struct{}

// PlaygroundSelected is sent when a playground is chosen for exploring.
type PlaygroundSelected struct {
	Playground domain.Playground
}

// PlaygroundOpened carries the result of opening a playground.
type PlaygroundOpened struct {
	Playground domain.Playground
	Points     []domain.Point
	Err        error
}

// PlaygroundDeleted signals a playground was deleted.
type PlaygroundDeleted struct {
	ID  string
	Err error
}

// PlaygroundRenamed signals a rename finished.
type PlaygroundRenamed struct {
	Playground domain.Playground
	Err        error
}

// DocumentUploaded signals an upload finished.
type DocumentUploaded struct {
	Document domain.Document
	Err      error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	ID  string
	Err error
}

// SessionUpdated signals the session changed after a remote call.
// Err is the call's error, if any.
type SessionUpdated struct {
	Err error
}

// QuerySubmitted carries the result of submitting a query.
type QuerySubmitted struct {
	Query domain.Query
	Err   error
}

// WizardAdvanced carries the outcome of a wizard advance attempt.
type WizardAdvanced struct {
	Outcome driving.AdvanceOutcome
}
