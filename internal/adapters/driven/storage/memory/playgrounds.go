package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

var serviceOrder = []domain.Service{
	domain.ServiceSentenceTransformers,
	domain.ServiceOpenAI,
	domain.ServiceCohere,
	domain.ServiceGoogle,
}

// ListModels returns the supported services. Services without a
// configured key are flagged as needing one.
func (b *Backend) ListModels(_ context.Context) ([]domain.EmbeddingModel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	models := make([]domain.EmbeddingModel, 0, len(serviceOrder))
	for _, s := range serviceOrder {
		models = append(models, domain.EmbeddingModel{
			Service: s,
			Model:   defaultModels[s],
			APIKey:  !b.keys[s],
		})
	}
	return models, nil
}

// CreatePlayground chunks and embeds the given documents.
func (b *Backend) CreatePlayground(_ context.Context, service domain.Service, documentIDs []string) (domain.Playground, error) {
	const op = "create playground"
	if !service.IsKnown() {
		return domain.Playground{}, &domain.RemoteError{StatusCode: 422, Message: "unknown embedding service " + service.String(), Op: op}
	}
	if len(documentIDs) == 0 {
		return domain.Playground{}, &domain.RemoteError{StatusCode: 422, Message: "at least one document is required", Op: op}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.keys[service] {
		return domain.Playground{}, &domain.RemoteError{StatusCode: 400, Message: service.String() + " needs an API key", Op: op}
	}

	state := &playgroundState{}
	names := make([]string, 0, len(documentIDs))
	for _, docID := range documentIDs {
		doc, ok := b.documents[docID]
		if !ok {
			return domain.Playground{}, notFound(op, "document", docID)
		}
		if slices.Contains(state.documents, docID) {
			continue
		}
		state.documents = append(state.documents, docID)
		names = append(names, doc.Name)
		for _, text := range splitText(string(b.contents[docID]), b.chunkSize) {
			id := newID()
			vec := embed(text)
			state.chunks = append(state.chunks, storedChunk{
				id:     id,
				text:   text,
				vector: vec,
				point:  project(id, vec),
			})
		}
	}
	state.playground = domain.Playground{
		ID:            newID(),
		Title:         defaultTitle,
		Created:       b.now().UTC(),
		Service:       service,
		Model:         defaultModels[service],
		DocumentNames: names,
	}
	b.playgrounds[state.playground.ID] = state
	b.pgOrder = append(b.pgOrder, state.playground.ID)
	return clonePlayground(state.playground), nil
}

// RenamePlayground changes a playground's title.
func (b *Backend) RenamePlayground(_ context.Context, playgroundID, title string) (domain.Playground, error) {
	const op = "rename playground"
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Playground{}, &domain.RemoteError{StatusCode: 422, Message: "title is required", Op: op}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return domain.Playground{}, notFound(op, "playground", playgroundID)
	}
	state.playground.Title = title
	return clonePlayground(state.playground), nil
}

// DeletePlayground removes a playground and its queries.
func (b *Backend) DeletePlayground(_ context.Context, playgroundID string) (domain.Playground, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return domain.Playground{}, notFound("delete playground", "playground", playgroundID)
	}
	b.deletePlaygroundLocked(playgroundID)
	return clonePlayground(state.playground), nil
}

func (b *Backend) deletePlaygroundLocked(playgroundID string) {
	delete(b.playgrounds, playgroundID)
	b.pgOrder = slices.DeleteFunc(b.pgOrder, func(id string) bool { return id == playgroundID })
}

// ListPlaygrounds returns all playgrounds in creation order.
func (b *Backend) ListPlaygrounds(_ context.Context) ([]domain.Playground, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pgs := make([]domain.Playground, 0, len(b.pgOrder))
	for _, id := range b.pgOrder {
		pgs = append(pgs, clonePlayground(b.playgrounds[id].playground))
	}
	return pgs, nil
}

// ListPlaygroundDocuments returns the names of a playground's documents.
// Documents deleted since creation are skipped.
func (b *Backend) ListPlaygroundDocuments(_ context.Context, playgroundID string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return nil, notFound("list playground documents", "playground", playgroundID)
	}
	names := make([]string, 0, len(state.documents))
	for _, id := range state.documents {
		if doc, ok := b.documents[id]; ok {
			names = append(names, doc.Name)
		}
	}
	return names, nil
}

// ListPlaygroundPoints returns one projection point per chunk.
func (b *Backend) ListPlaygroundPoints(_ context.Context, playgroundID string) ([]domain.Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return nil, notFound("list playground points", "playground", playgroundID)
	}
	points := make([]domain.Point, 0, len(state.chunks))
	for _, c := range state.chunks {
		points = append(points, c.point)
	}
	return points, nil
}

// GetChunk returns the text of one chunk.
func (b *Backend) GetChunk(_ context.Context, playgroundID, chunkID string) (domain.Chunk, error) {
	const op = "get chunk"
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, ok := b.playgrounds[playgroundID]
	if !ok {
		return domain.Chunk{}, notFound(op, "playground", playgroundID)
	}
	for _, c := range state.chunks {
		if c.id == chunkID {
			return domain.Chunk{ID: c.id, Text: c.text}, nil
		}
	}
	return domain.Chunk{}, notFound(op, "chunk", chunkID)
}

func clonePlayground(pg domain.Playground) domain.Playground {
	pg.DocumentNames = slices.Clone(pg.DocumentNames)
	return pg
}
