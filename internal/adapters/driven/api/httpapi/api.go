package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// ListModels returns the embedding services the backend offers.
func (c *Client) ListModels(ctx context.Context) ([]domain.EmbeddingModel, error) {
	var out []modelDTO
	if err := c.call(ctx, "list models", http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	return convert(out, modelDTO.toDomain), nil
}

// ListDocuments returns all uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var out []documentDTO
	if err := c.call(ctx, "list documents", http.MethodGet, "/documents/all", nil, &out); err != nil {
		return nil, err
	}
	return convert(out, documentDTO.toDomain), nil
}

// UploadDocument uploads content as the multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, name string, content io.Reader) (domain.Document, error) {
	const op = "upload document"

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.Document{}, fmt.Errorf("%s: read content: %w", op, err)
	}
	if err := form.Close(); err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", op, err)
	}

	data, err := c.send(ctx, op, http.MethodPost, "/documents/upload", &buf, form.FormDataContentType())
	if err != nil {
		return domain.Document{}, err
	}
	var out documentDTO
	if err := decode(op, data, &out); err != nil {
		return domain.Document{}, err
	}
	return out.toDomain(), nil
}

// DeleteDocument deletes a document and returns the ids of the playgrounds
// deleted with it.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) ([]string, error) {
	var out []string
	path := "/documents/" + escape(documentID) + "/delete"
	if err := c.call(ctx, "delete document", http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// DownloadDocument returns the raw bytes of a document.
func (c *Client) DownloadDocument(ctx context.Context, documentID string) ([]byte, error) {
	path := "/documents/" + escape(documentID) + "/download"
	return c.send(ctx, "download document", http.MethodGet, path, nil, "")
}

// CreatePlayground creates a playground from an embedding service and documents.
func (c *Client) CreatePlayground(ctx context.Context, service domain.Service, documentIDs []string) (domain.Playground, error) {
	in := newPlaygroundRequest{Service: service.String(), Documents: documentIDs}
	var out playgroundDTO
	if err := c.call(ctx, "create playground", http.MethodPost, "/playgrounds/new-playground", in, &out); err != nil {
		return domain.Playground{}, err
	}
	return out.toDomain(), nil
}

// RenamePlayground changes a playground's title.
func (c *Client) RenamePlayground(ctx context.Context, playgroundID, title string) (domain.Playground, error) {
	var out playgroundDTO
	path := "/playgrounds/" + escape(playgroundID) + "/rename"
	if err := c.call(ctx, "rename playground", http.MethodPost, path, renameRequest{NewTitle: title}, &out); err != nil {
		return domain.Playground{}, err
	}
	return out.toDomain(), nil
}

// DeletePlayground deletes a playground and returns it.
func (c *Client) DeletePlayground(ctx context.Context, playgroundID string) (domain.Playground, error) {
	var out playgroundDTO
	path := "/playgrounds/" + escape(playgroundID) + "/delete"
	if err := c.call(ctx, "delete playground", http.MethodDelete, path, nil, &out); err != nil {
		return domain.Playground{}, err
	}
	return out.toDomain(), nil
}

// ListPlaygrounds returns all playgrounds.
func (c *Client) ListPlaygrounds(ctx context.Context) ([]domain.Playground, error) {
	var out []playgroundDTO
	if err := c.call(ctx, "list playgrounds", http.MethodGet, "/playgrounds/all", nil, &out); err != nil {
		return nil, err
	}
	return convert(out, playgroundDTO.toDomain), nil
}

// ListPlaygroundDocuments returns the names of a playground's documents.
func (c *Client) ListPlaygroundDocuments(ctx context.Context, playgroundID string) ([]string, error) {
	var out []string
	path := "/playgrounds/" + escape(playgroundID) + "/docs"
	if err := c.call(ctx, "list playground documents", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPlaygroundPoints returns the projection points of a playground's chunks.
func (c *Client) ListPlaygroundPoints(ctx context.Context, playgroundID string) ([]domain.Point, error) {
	var out []pointDTO
	path := "/playgrounds/" + escape(playgroundID) + "/plot-points"
	if err := c.call(ctx, "list playground points", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return convert(out, pointDTO.toDomain), nil
}

// GetChunk returns the text of one chunk.
func (c *Client) GetChunk(ctx context.Context, playgroundID, chunkID string) (domain.Chunk, error) {
	var out chunkDTO
	path := "/playgrounds/" + escape(playgroundID) + "/chunks/" + escape(chunkID)
	if err := c.call(ctx, "get chunk", http.MethodGet, path, nil, &out); err != nil {
		return domain.Chunk{}, err
	}
	if out.ID == "" {
		out.ID = chunkID
	}
	return domain.Chunk{ID: out.ID, Text: out.Text}, nil
}

// ListQueries returns the queries submitted against a playground.
func (c *Client) ListQueries(ctx context.Context, playgroundID string) ([]domain.Query, error) {
	var out []queryDTO
	path := "/playgrounds/" + escape(playgroundID) + "/query/all"
	if err := c.call(ctx, "list queries", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return convert(out, queryDTO.toDomain), nil
}

// SubmitQuery runs a query against a playground.
func (c *Client) SubmitQuery(ctx context.Context, playgroundID, text string) (domain.Query, error) {
	var out queryDTO
	path := "/playgrounds/" + escape(playgroundID) + "/query"
	if err := c.call(ctx, "submit query", http.MethodPost, path, queryRequest{Text: text}, &out); err != nil {
		return domain.Query{}, err
	}
	return out.toDomain(), nil
}
