package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// DocumentService manages uploaded documents.
type DocumentService interface {
	// List returns all uploaded documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Upload uploads content under the given file name.
	Upload(ctx context.Context, name string, content io.Reader) (domain.Document, error)

	// UploadFile uploads a file from disk.
	UploadFile(ctx context.Context, path string) (domain.Document, error)

	// Delete deletes a document. Playgrounds built on it are deleted by the
	// backend and dropped from the session; their ids are returned.
	Delete(ctx context.Context, id string) ([]string, error)

	// Download writes the raw document to w and returns the byte count.
	Download(ctx context.Context, id string, w io.Writer) (int64, error)

	// Watch uploads every file created in dir until ctx is cancelled.
	// onUpload is called once per file with the result of its upload.
	Watch(ctx context.Context, dir string, onUpload func(path string, doc domain.Document, err error)) error
}
