package driving

import (
	"context"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// Page names of the new playground wizard.
const (
	WizardPageEmbeddings = "embeddings"
	WizardPageDocuments  = "documents"
)

// AdvanceStatus tells what an advance attempt did.
type AdvanceStatus int

const (
	// AdvanceBlocked means the page was not eligible to advance, or an action
	// was already running. Nothing happened.
	AdvanceBlocked AdvanceStatus = iota

	// AdvanceMoved means the page action (if any) ran and the flow moved on,
	// or stayed on the last page.
	AdvanceMoved

	// AdvanceHeld means the page action failed and the failure policy kept
	// the flow on the current page.
	AdvanceHeld

	// AdvanceDiscarded means the flow was reset while the action ran, so the
	// transition was dropped.
	AdvanceDiscarded
)

// String returns the string representation of the status.
func (s AdvanceStatus) String() string {
	switch s {
	case AdvanceBlocked:
		return "blocked"
	case AdvanceMoved:
		return "moved"
	case AdvanceHeld:
		return "held"
	case AdvanceDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// AdvanceOutcome is the result of an advance attempt.
// Err carries the action's failure even when the flow moved on anyway.
type AdvanceOutcome struct {
	Status AdvanceStatus
	From   int
	To     int
	Err    error
}

// PlaygroundWizard drives the two-page "new playground" flow:
// choose an embedding service, then choose documents and create.
type PlaygroundWizard interface {
	// Reset returns to the first page and clears all selections.
	Reset()

	// Page returns the current page index.
	Page() int

	// PageName returns the name of the current page.
	PageName() string

	// PageCount returns the number of pages.
	PageCount() int

	// Busy reports whether the create action is running.
	Busy() bool

	// CanAdvance reports whether the current page's requirement is met.
	CanAdvance() bool

	// SelectService selects the embedding service.
	SelectService(model domain.EmbeddingModel) error

	// SelectedService returns the selected embedding service, or "".
	SelectedService() domain.Service

	// ToggleDocument selects or deselects a document.
	ToggleDocument(id string)

	// SelectedDocuments returns the selected document ids in selection order.
	SelectedDocuments() []string

	// RemoveDocument deletes a document from the backend and deselects it.
	RemoveDocument(ctx context.Context, id string) error

	// Advance moves to the next page, creating the playground when leaving the last one.
	Advance(ctx context.Context) AdvanceOutcome

	// Retreat moves to the previous page. Returns false on the first page.
	Retreat() bool

	// Created returns the playground created by the wizard, if any.
	Created() (domain.Playground, bool)
}
