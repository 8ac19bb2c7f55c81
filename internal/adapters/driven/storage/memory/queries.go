package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// ListQueries returns a playground's queries, newest first.
func (b *Backend) ListQueries(_ context.Context, playgroundID string) ([]domain.Query, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return nil, notFound("list queries", "playground", playgroundID)
	}
	queries := make([]domain.Query, 0, len(state.queries))
	for i := len(state.queries) - 1; i >= 0; i-- {
		q := state.queries[i]
		q.Results = slices.Clone(q.Results)
		queries = append(queries, q)
	}
	return queries, nil
}

// SubmitQuery ranks the playground's chunks against text and records the query.
func (b *Backend) SubmitQuery(_ context.Context, playgroundID, text string) (domain.Query, error) {
	const op = "submit query"
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Query{}, &domain.RemoteError{StatusCode: 422, Message: "query text is required", Op: op}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return domain.Query{}, notFound(op, "playground", playgroundID)
	}

	vec := embed(text)
	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(state.chunks))
	for i, c := range state.chunks {
		ranked[i] = scored{pos: i, score: cosine(vec, c.vector)}
	}
	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})

	results := make([]string, 0, b.topK)
	for _, r := range ranked[:min(b.topK, len(ranked))] {
		results = append(results, state.chunks[r.pos].id)
	}

	id := newID()
	q := domain.Query{
		ID:      id,
		Text:    text,
		Point:   project(id, vec),
		Results: results,
	}
	state.queries = append(state.queries, q)
	q.Results = slices.Clone(results)
	return q, nil
}
