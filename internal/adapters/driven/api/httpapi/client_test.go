package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	_, err = NewClient(Config{BaseURL: "localhost"})
	assert.Error(t, err)
}

func TestClient_ListModels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"service": "Sentence Transformers", "model": "all-MiniLM-L6-v2", "apiKey": false},
			{"service": "OpenAI", "model": "text-embedding-ada-002", "apiKey": true},
		})
	})
	client := newTestClient(t, mux)

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, domain.ServiceSentenceTransformers, models[0].Service)
	assert.True(t, models[0].Selectable())
	assert.False(t, models[1].Selectable())
}

func TestClient_ListPlaygrounds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /playgrounds/all", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":"p1","title":"New Playground","created":"2024-05-01T12:30:00.123456","service":"Cohere","model":"large","documentNames":["a.pdf"]},
			{"id":"p2","title":"Other","created":"2024-05-02T08:00:00Z","service":"OpenAI","model":"ada","documentNames":null}
		]`)
	})
	client := newTestClient(t, mux)

	pgs, err := client.ListPlaygrounds(context.Background())
	require.NoError(t, err)
	require.Len(t, pgs, 2)
	assert.Equal(t, "p1", pgs[0].ID)
	assert.Equal(t, domain.ServiceCohere, pgs[0].Service)
	assert.Equal(t, []string{"a.pdf"}, pgs[0].DocumentNames)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC), pgs[0].Created)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), pgs[1].Created.UTC())
	assert.Nil(t, pgs[1].DocumentNames)
}

func TestClient_UploadDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)

		assert.Equal(t, "a.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))
		writeJSON(t, w, http.StatusOK, map[string]string{"id": "d1", "name": header.Filename})
	})
	client := newTestClient(t, mux)

	doc, err := client.UploadDocument(context.Background(), "a.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, domain.Document{ID: "d1", Name: "a.pdf"}, doc)
}

func TestClient_DocumentOperations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/all", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]string{{"id": "d1", "name": "a.pdf"}})
	})
	mux.HandleFunc("DELETE /documents/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "d1", r.PathValue("id"))
		writeJSON(t, w, http.StatusOK, []string{"p1", "p2"})
	})
	mux.HandleFunc("GET /documents/{id}/download", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x25, 0x50, 0x44, 0x46})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	docs, err := client.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{{ID: "d1", Name: "a.pdf"}}, docs)

	ids, err := client.DeleteDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	data, err := client.DownloadDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestClient_PlaygroundOperations(t *testing.T) {
	pg := map[string]any{
		"id": "p1", "title": "Renamed", "created": "2024-05-01T12:30:00",
		"service": "Sentence Transformers", "model": "all-MiniLM-L6-v2",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /playgrounds/new-playground", func(w http.ResponseWriter, r *http.Request) {
		var body newPlaygroundRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sentence Transformers", body.Service)
		assert.Equal(t, []string{"d1"}, body.Documents)
		writeJSON(t, w, http.StatusOK, pg)
	})
	mux.HandleFunc("POST /playgrounds/{id}/rename", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Renamed", body["new_title"])
		writeJSON(t, w, http.StatusOK, pg)
	})
	mux.HandleFunc("DELETE /playgrounds/{id}/delete", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, pg)
	})
	mux.HandleFunc("GET /playgrounds/{id}/docs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []string{"a.pdf"})
	})
	mux.HandleFunc("GET /playgrounds/{id}/plot-points", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{{"id": "c1", "x": 0.5, "y": -1, "z": 0}})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	created, err := client.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{"d1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)

	renamed, err := client.RenamePlayground(ctx, "p1", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Title)

	deleted, err := client.DeletePlayground(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", deleted.ID)

	names, err := client.ListPlaygroundDocuments(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, names)

	points, err := client.ListPlaygroundPoints(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Point{{ID: "c1", X: 0.5, Y: -1}}, points)
}

func TestClient_QueryOperations(t *testing.T) {
	query := map[string]any{
		"id": "q1", "text": "what is X",
		"point":   map[string]any{"id": "q1", "x": 0.1, "y": 0.2, "z": 0},
		"results": []string{"c2", "c1"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /playgrounds/{id}/query", func(w http.ResponseWriter, r *http.Request) {
		var body queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is X", body.Text)
		writeJSON(t, w, http.StatusOK, query)
	})
	mux.HandleFunc("GET /playgrounds/{id}/query/all", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{query})
	})
	mux.HandleFunc("GET /playgrounds/{id}/chunks/{cid}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"id": r.PathValue("cid"), "text": "passage"})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	q, err := client.SubmitQuery(ctx, "p1", "what is X")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1"}, q.Results)
	assert.InDelta(t, 0.2, q.Point.Y, 1e-9)

	queries, err := client.ListQueries(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Query{q}, queries)

	chunk, err := client.GetChunk(ctx, "p1", "c2")
	require.NoError(t, err)
	assert.Equal(t, domain.Chunk{ID: "c2", Text: "passage"}, chunk)
}

func TestClient_RemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"string detail", http.StatusInternalServerError, `{"detail":"Cannot get playgrounds at this time"}`, "Cannot get playgrounds at this time"},
		{"validation detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"bad uuid"}]}`, "field required; bad uuid"},
		{"no detail", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /playgrounds/all", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			client := newTestClient(t, mux)

			_, err := client.ListPlaygrounds(context.Background())
			var remote *domain.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tt.status, remote.StatusCode)
			assert.Equal(t, tt.message, remote.Message)
			assert.Equal(t, "list playgrounds", remote.Op)
			if tt.message != "" {
				assert.Equal(t, tt.message, domain.ErrorMessage(err))
			} else {
				assert.Equal(t, err.Error(), domain.ErrorMessage(err))
			}
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /models", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})
	client := newTestClient(t, mux)

	_, err := client.ListModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_RateLimit(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/all", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, []any{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, RateLimit: 0.5})
	require.NoError(t, err)

	_, err = client.ListDocuments(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.ListDocuments(ctx)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDetailMessage(t *testing.T) {
	assert.Equal(t, "boom", detailMessage([]byte(`{"detail":"boom"}`)))
	assert.Empty(t, detailMessage([]byte(`{}`)))
	assert.Empty(t, detailMessage([]byte(`{"detail":42}`)))
	assert.Empty(t, detailMessage(nil))
}
