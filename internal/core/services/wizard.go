package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// Ensure PlaygroundWizard implements the interface.
var _ driving.PlaygroundWizard = (*PlaygroundWizard)(nil)

// PlaygroundWizard drives the "new playground" flow on top of a Flow.
type PlaygroundWizard struct {
	playgrounds driving.PlaygroundService
	documents   driving.DocumentService
	flow        *Flow

	mu       sync.Mutex
	gen      uint64
	service  domain.Service
	selected []string
	created  *domain.Playground
}

// NewPlaygroundWizard creates a wizard positioned on the embeddings page.
func NewPlaygroundWizard(playgrounds driving.PlaygroundService, documents driving.DocumentService, opts ...FlowOption) *PlaygroundWizard {
	w := &PlaygroundWizard{
		playgrounds: playgrounds,
		documents:   documents,
	}
	w.flow = NewFlow([]Page{
		{
			Name:       driving.WizardPageEmbeddings,
			CanAdvance: func() bool { return w.SelectedService() != "" },
		},
		{
			Name:       driving.WizardPageDocuments,
			CanAdvance: func() bool { return len(w.SelectedDocuments()) > 0 },
			Action:     w.create,
		},
	}, opts...)
	return w
}

// Reset returns to the first page and clears all selections.
func (w *PlaygroundWizard) Reset() {
	w.mu.Lock()
	w.gen++
	w.service = ""
	w.selected = nil
	w.created = nil
	w.mu.Unlock()
	w.flow.Reset()
}

// Page returns the current page index.
func (w *PlaygroundWizard) Page() int {
	return w.flow.Index()
}

// PageName returns the name of the current page.
func (w *PlaygroundWizard) PageName() string {
	return w.flow.Current().Name
}

// PageCount returns the number of pages.
func (w *PlaygroundWizard) PageCount() int {
	return w.flow.Len()
}

// Busy reports whether the create action is running.
func (w *PlaygroundWizard) Busy() bool {
	return w.flow.Busy()
}

// CanAdvance reports whether the current page's requirement is met.
func (w *PlaygroundWizard) CanAdvance() bool {
	return w.flow.CanAdvance()
}

// SelectService selects the embedding service. Services that need an API
// key the backend lacks are refused.
func (w *PlaygroundWizard) SelectService(model domain.EmbeddingModel) error {
	if !model.Selectable() {
		return fmt.Errorf("%s: %w", model.Service, domain.ErrAPIKeyRequired)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.service = model.Service
	return nil
}

// SelectedService returns the selected embedding service.
func (w *PlaygroundWizard) SelectedService() domain.Service {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.service
}

// ToggleDocument selects or deselects a document.
func (w *PlaygroundWizard) ToggleDocument(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.selected, id); i >= 0 {
		w.selected = slices.Delete(w.selected, i, i+1)
		return
	}
	w.selected = append(w.selected, id)
}

// SelectedDocuments returns the selected document ids in selection order.
func (w *PlaygroundWizard) SelectedDocuments() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.selected)
}

// RemoveDocument deletes a document from the backend and deselects it.
func (w *PlaygroundWizard) RemoveDocument(ctx context.Context, id string) error {
	if _, err := w.documents.Delete(ctx, id); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = slices.DeleteFunc(w.selected, func(s string) bool { return s == id })
	return nil
}

// Advance moves to the next page, creating the playground when leaving
// the documents page.
func (w *PlaygroundWizard) Advance(ctx context.Context) driving.AdvanceOutcome {
	return w.flow.Advance(ctx)
}

// Retreat moves to the previous page.
func (w *PlaygroundWizard) Retreat() bool {
	return w.flow.Retreat()
}

// Created returns the playground created by the wizard, if any.
func (w *PlaygroundWizard) Created() (domain.Playground, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.created == nil {
		return domain.Playground{}, false
	}
	return *w.created, true
}

func (w *PlaygroundWizard) create(ctx context.Context) error {
	w.mu.Lock()
	gen := w.gen
	service := w.service
	docs := slices.Clone(w.selected)
	w.mu.Unlock()

	pg, err := w.playgrounds.Create(ctx, service, docs)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen == w.gen {
		w.created = &pg
	}
	return nil
}
