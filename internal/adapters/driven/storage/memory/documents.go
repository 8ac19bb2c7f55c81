package memory

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// ListDocuments returns all documents in upload order.
func (b *Backend) ListDocuments(_ context.Context) ([]domain.Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	docs := make([]domain.Document, 0, len(b.docOrder))
	for _, id := range b.docOrder {
		docs = append(docs, b.documents[id])
	}
	return docs, nil
}

// UploadDocument stores content under a new document id.
func (b *Backend) UploadDocument(_ context.Context, name string, content io.Reader) (domain.Document, error) {
	if name == "" {
		return domain.Document{}, &domain.RemoteError{StatusCode: 422, Message: "file name is required", Op: "upload document"}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("upload document: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	doc := domain.Document{ID: newID(), Name: name}
	b.documents[doc.ID] = doc
	b.contents[doc.ID] = data
	b.docOrder = append(b.docOrder, doc.ID)
	return doc, nil
}

// DeleteDocument removes a document and every playground built from it.
func (b *Backend) DeleteDocument(_ context.Context, documentID string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.documents[documentID]; !ok {
		return nil, notFound("delete document", "document", documentID)
	}
	delete(b.documents, documentID)
	delete(b.contents, documentID)
	b.docOrder = slices.DeleteFunc(b.docOrder, func(id string) bool { return id == documentID })

	deleted := []string{}
	for _, pgID := range b.pgOrder {
		if slices.Contains(b.playgrounds[pgID].documents, documentID) {
			deleted = append(deleted, pgID)
		}
	}
	for _, pgID := range deleted {
		b.deletePlaygroundLocked(pgID)
	}
	return deleted, nil
}

// DownloadDocument returns a copy of the stored content.
func (b *Backend) DownloadDocument(_ context.Context, documentID string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.contents[documentID]
	if !ok {
		return nil, notFound("download document", "document", documentID)
	}
	return slices.Clone(data), nil
}
