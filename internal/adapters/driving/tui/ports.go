// Package tui provides an interactive terminal user interface for ragplay.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session holds what the user is looking at.
	Session driving.SessionService

	// Playground manages playgrounds.
	Playground driving.PlaygroundService

	// Document manages uploaded documents.
	Document driving.DocumentService

	// NewWizard builds a fresh "new playground" wizard.
	NewWizard func() driving.PlaygroundWizard

	// Playgrounds is the cached playground list.
	Playgrounds driving.Resource[[]domain.Playground]

	// Documents is the cached document list.
	Documents driving.Resource[[]domain.Document]

	// Models is the cached list of embedding services.
	Models driving.Resource[[]domain.EmbeddingModel]
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Playground == nil {
		return ErrMissingPlaygroundService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.NewWizard == nil {
		return ErrMissingWizard
	}
	if p.Playgrounds == nil || p.Documents == nil || p.Models == nil {
		return ErrMissingResources
	}
	return nil
}
