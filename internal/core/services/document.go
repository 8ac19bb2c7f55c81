package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages uploaded documents.
type DocumentService struct {
	api     driven.PlaygroundAPI
	session driving.SessionService
}

// NewDocumentService creates a new document service.
func NewDocumentService(api driven.PlaygroundAPI, session driving.SessionService) *DocumentService {
	return &DocumentService{
		api:     api,
		session: session,
	}
}

// List returns all uploaded documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Upload uploads content under the given file name.
func (s *DocumentService) Upload(ctx context.Context, name string, content io.Reader) (domain.Document, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Document{}, fmt.Errorf("file name is empty: %w", domain.ErrInvalidInput)
	}
	doc, err := s.api.UploadDocument(ctx, name, content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("upload document: %w", err)
	}
	logger.Info("uploaded %s as %s", name, doc.ID)
	return doc, nil
}

// UploadFile uploads a file from disk under its base name.
func (s *DocumentService) UploadFile(ctx context.Context, path string) (domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.Upload(ctx, filepath.Base(path), f)
}

// Delete deletes a document. The backend also deletes every playground
// built on it; those are dropped from the session and the active one is
// cleared if it was among them.
func (s *DocumentService) Delete(ctx context.Context, id string) ([]string, error) {
	deleted, err := s.api.DeleteDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	if len(deleted) > 0 {
		logger.Info("deleting document %s removed %d playground(s)", id, len(deleted))
		s.session.SetPlaygrounds(func(prev []domain.Playground) []domain.Playground {
			return slices.DeleteFunc(prev, func(p domain.Playground) bool { return slices.Contains(deleted, p.ID) })
		})
		if slices.Contains(deleted, s.session.ActivePlayground()) {
			s.session.SetActivePlayground("")
		}
	}
	return deleted, nil
}

// Download writes the raw document to w.
func (s *DocumentService) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	data, err := s.api.DownloadDocument(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("download document: %w", err)
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("write document: %w", err)
	}
	return int64(n), nil
}

// Watch uploads every regular, non-hidden file created in dir until ctx is
// cancelled. Upload failures are reported through onUpload and do not stop
// the watch.
func (s *DocumentService) Watch(ctx context.Context, dir string, onUpload func(path string, doc domain.Document, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("watching %s for new documents", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, ok := uploadablePath(event)
			if !ok {
				continue
			}
			doc, err := s.UploadFile(ctx, path)
			if onUpload != nil {
				onUpload(path, doc, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", dir, err)
		}
	}
}

// uploadablePath returns the event's path if it created a regular, non-hidden file.
func uploadablePath(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}
