package driving

import (
	"context"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// Updater transforms the previous value of a collection into its next value.
// Updaters must be pure: they see the latest state at the moment they are
// applied, which is what keeps two queued updates from clobbering each other.
type Updater[T any] func(prev []T) []T

// Replace returns an Updater that discards the previous collection.
func Replace[T any](next []T) Updater[T] {
	return func([]T) []T {
		return next
	}
}

// SessionService is the single source of truth for what the user is looking
// at: known playgrounds, the active playground and query, and the displayed
// chunks with their index labels.
type SessionService interface {
	// SetActivePlayground replaces the active playground id without validating it.
	// Switching to a different id discards the previous playground's queries and chunks.
	SetActivePlayground(id string)

	// ActivePlayground returns the active playground id, or "".
	ActivePlayground() string

	// GetPlayground looks up a known playground. Absence is not an error.
	GetPlayground(id string) (domain.Playground, bool)

	// Playgrounds returns a copy of the known playgrounds.
	Playgrounds() []domain.Playground

	// SetPlaygrounds applies an update to the known playgrounds.
	SetPlaygrounds(update Updater[domain.Playground])

	// Queries returns the active playground's queries, newest first.
	Queries() []domain.Query

	// SetQueries applies an update to the active playground's queries.
	SetQueries(update Updater[domain.Query])

	// Chunks returns the displayed chunks in display order.
	Chunks() []domain.Chunk

	// SetChunks applies an update to the displayed chunks and reconciles the index.
	SetChunks(update Updater[domain.Chunk])

	// ChunkIndex returns a copy of the chunk id to label mapping.
	ChunkIndex() map[string]int

	// AddChunks displays chunks that are not yet displayed and labels them.
	AddChunks(chunks ...domain.Chunk)

	// RemoveChunk hides a chunk and frees its label. Other labels are unchanged.
	RemoveChunk(id string) bool

	// ActiveQuery returns the active query id, or "".
	ActiveQuery() string

	// SetActiveQuery selects a query and displays its result chunks.
	// An empty id clears the selection.
	SetActiveQuery(ctx context.Context, id string) error

	// ToggleActiveQuery clears the selection if id is active, otherwise selects it.
	ToggleActiveQuery(ctx context.Context, id string) error

	// ClickPoint displays the chunk behind a projection point.
	ClickPoint(ctx context.Context, chunkID string) error

	// SubmitQuery submits a query against the active playground and selects it.
	SubmitQuery(ctx context.Context, text string) (domain.Query, error)

	// LoadQueries replaces the query list with the backend's list for the active playground.
	LoadQueries(ctx context.Context) error

	// Snapshot returns a consistent copy of the whole session state.
	Snapshot() SessionSnapshot
}

// SessionSnapshot is an immutable copy of the session state used for rendering.
type SessionSnapshot struct {
	// Epoch changes every time the active playground changes.
	Epoch uint64

	ActivePlayground string
	Playgrounds      []domain.Playground
	Queries          []domain.Query
	ActiveQuery      string
	Chunks           []domain.Chunk
	ChunkIndex       map[string]int
}

// Playground returns the active playground if it is known.
func (s *SessionSnapshot) Playground() (domain.Playground, bool) {
	for i := range s.Playgrounds {
		if s.Playgrounds[i].ID == s.ActivePlayground {
			return s.Playgrounds[i], true
		}
	}
	return domain.Playground{}, false
}

// Query returns the active query if there is one.
func (s *SessionSnapshot) Query() (domain.Query, bool) {
	if s.ActiveQuery == "" {
		return domain.Query{}, false
	}
	for i := range s.Queries {
		if s.Queries[i].ID == s.ActiveQuery {
			return s.Queries[i], true
		}
	}
	return domain.Query{}, false
}
