package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// PlaygroundAPI is the remote backend that owns documents, playgrounds,
// projections and queries.
//
// Every call either returns its payload or an error. Errors reported by the
// backend are *domain.RemoteError; any error means the whole call failed.
type PlaygroundAPI interface {
	// ListModels returns the embedding services the backend offers.
	ListModels(ctx context.Context) ([]domain.EmbeddingModel, error)

	// ListDocuments returns all uploaded documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// UploadDocument uploads a file and returns the created document.
	UploadDocument(ctx context.Context, name string, content io.Reader) (domain.Document, error)

	// DeleteDocument deletes a document and every playground that referenced it.
	// Returns the ids of the deleted playgrounds.
	DeleteDocument(ctx context.Context, documentID string) ([]string, error)

	// DownloadDocument returns the raw bytes of a document.
	DownloadDocument(ctx context.Context, documentID string) ([]byte, error)

	// CreatePlayground creates a playground from an embedding service and documents.
	CreatePlayground(ctx context.Context, service domain.Service, documentIDs []string) (domain.Playground, error)

	// RenamePlayground changes a playground's title.
	RenamePlayground(ctx context.Context, playgroundID, title string) (domain.Playground, error)

	// DeletePlayground deletes a playground and returns it.
	DeletePlayground(ctx context.Context, playgroundID string) (domain.Playground, error)

	// ListPlaygrounds returns all playgrounds.
	ListPlaygrounds(ctx context.Context) ([]domain.Playground, error)

	// ListPlaygroundDocuments returns the names of a playground's documents.
	ListPlaygroundDocuments(ctx context.Context, playgroundID string) ([]string, error)

	// ListPlaygroundPoints returns the projection points of a playground's chunks.
	ListPlaygroundPoints(ctx context.Context, playgroundID string) ([]domain.Point, error)

	// GetChunk returns the text of one chunk.
	GetChunk(ctx context.Context, playgroundID, chunkID string) (domain.Chunk, error)

	// ListQueries returns the queries submitted against a playground.
	ListQueries(ctx context.Context, playgroundID string) ([]domain.Query, error)

	// SubmitQuery runs a query against a playground and returns it with its results.
	SubmitQuery(ctx context.Context, playgroundID, text string) (domain.Query, error)
}
