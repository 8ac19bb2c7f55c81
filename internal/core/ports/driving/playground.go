package driving

import (
	"context"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// PlaygroundService manages playgrounds and keeps the session in step with
// the backend.
type PlaygroundService interface {
	// List fetches all playgrounds and replaces the session's list.
	List(ctx context.Context) ([]domain.Playground, error)

	// Create creates a playground, adds it to the session and makes it active.
	Create(ctx context.Context, service domain.Service, documentIDs []string) (domain.Playground, error)

	// Rename renames a playground. The session shows the new title at once
	// and reverts it if the backend rejects the change.
	Rename(ctx context.Context, id, title string) (domain.Playground, error)

	// Delete deletes a playground and drops it from the session.
	Delete(ctx context.Context, id string) error

	// Open makes a playground active and loads its queries.
	Open(ctx context.Context, id string) (domain.Playground, error)

	// Documents returns the names of a playground's documents.
	Documents(ctx context.Context, id string) ([]string, error)

	// Points returns the projection points of a playground.
	Points(ctx context.Context, id string) ([]domain.Point, error)

	// Models returns the embedding services offered by the backend.
	Models(ctx context.Context) ([]domain.EmbeddingModel, error)

	// Find returns the known playgrounds whose titles best match title.
	Find(ctx context.Context, title string, limit int) ([]PlaygroundMatch, error)
}

// PlaygroundMatch is a fuzzy title match.
type PlaygroundMatch struct {
	Playground domain.Playground

	// Distance is the edit distance between the query and the title. Lower is better.
	Distance int
}
