package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

const sampleText = `Go is a statically typed language designed at Google.

Channels let goroutines communicate without sharing memory.

The garbage collector runs concurrently with the program.`

func uploadSample(t *testing.T, b *Backend, name string) domain.Document {
	t.Helper()
	doc, err := b.UploadDocument(context.Background(), name, strings.NewReader(sampleText))
	require.NoError(t, err)
	return doc
}

func requireRemoteStatus(t *testing.T, err error, status int) {
	t.Helper()
	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote), "expected RemoteError, got %v", err)
	assert.Equal(t, status, remote.StatusCode)
	assert.NotEmpty(t, remote.Message)
}

func TestBackend_Documents(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()

	doc := uploadSample(t, b, "a.pdf")
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "a.pdf", doc.Name)

	docs, err := b.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{doc}, docs)

	data, err := b.DownloadDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(data))

	_, err = b.DownloadDocument(ctx, "missing")
	requireRemoteStatus(t, err, 404)

	_, err = b.UploadDocument(ctx, "", strings.NewReader("x"))
	requireRemoteStatus(t, err, 422)
}

func TestBackend_ListModels(t *testing.T) {
	b := NewBackend(WithAPIKeys(domain.ServiceOpenAI))

	models, err := b.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 4)

	selectable := map[domain.Service]bool{}
	for _, m := range models {
		selectable[m.Service] = m.Selectable()
	}
	assert.True(t, selectable[domain.ServiceSentenceTransformers])
	assert.True(t, selectable[domain.ServiceOpenAI])
	assert.False(t, selectable[domain.ServiceCohere])
	assert.False(t, selectable[domain.ServiceGoogle])
}

func TestBackend_CreatePlayground(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewBackend(WithChunkSize(64), WithClock(func() time.Time { return created }))
	ctx := context.Background()
	doc := uploadSample(t, b, "a.pdf")

	pg, err := b.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{doc.ID, doc.ID})
	require.NoError(t, err)
	assert.Equal(t, "New Playground", pg.Title)
	assert.Equal(t, created, pg.Created)
	assert.Equal(t, "all-MiniLM-L6-v2", pg.Model)
	assert.Equal(t, []string{"a.pdf"}, pg.DocumentNames)

	points, err := b.ListPlaygroundPoints(ctx, pg.ID)
	require.NoError(t, err)
	assert.Len(t, points, 3)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, -1.0)
		assert.LessOrEqual(t, p.X, 1.0)

		chunk, err := b.GetChunk(ctx, pg.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, chunk.ID)
		assert.NotEmpty(t, chunk.Text)
	}

	names, err := b.ListPlaygroundDocuments(ctx, pg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, names)
}

func TestBackend_CreatePlayground_Errors(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	doc := uploadSample(t, b, "a.pdf")

	tests := []struct {
		name    string
		service domain.Service
		docs    []string
		status  int
	}{
		{"unknown service", domain.Service("Nope"), []string{doc.ID}, 422},
		{"no documents", domain.ServiceSentenceTransformers, nil, 422},
		{"missing api key", domain.ServiceCohere, []string{doc.ID}, 400},
		{"unknown document", domain.ServiceSentenceTransformers, []string{"missing"}, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.CreatePlayground(ctx, tt.service, tt.docs)
			requireRemoteStatus(t, err, tt.status)
		})
	}

	pgs, err := b.ListPlaygrounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, pgs)
}

func TestBackend_RenameAndDeletePlayground(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	doc := uploadSample(t, b, "a.pdf")
	pg, err := b.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{doc.ID})
	require.NoError(t, err)

	renamed, err := b.RenamePlayground(ctx, pg.ID, "  Go notes ")
	require.NoError(t, err)
	assert.Equal(t, "Go notes", renamed.Title)

	_, err = b.RenamePlayground(ctx, pg.ID, " ")
	requireRemoteStatus(t, err, 422)

	deleted, err := b.DeletePlayground(ctx, pg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go notes", deleted.Title)

	_, err = b.DeletePlayground(ctx, pg.ID)
	requireRemoteStatus(t, err, 404)
}

func TestBackend_DeleteDocumentCascades(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	a := uploadSample(t, b, "a.pdf")
	other := uploadSample(t, b, "b.pdf")

	withA, err := b.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{a.ID, other.ID})
	require.NoError(t, err)
	withoutA, err := b.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{other.ID})
	require.NoError(t, err)

	ids, err := b.DeleteDocument(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{withA.ID}, ids)

	pgs, err := b.ListPlaygrounds(ctx)
	require.NoError(t, err)
	require.Len(t, pgs, 1)
	assert.Equal(t, withoutA.ID, pgs[0].ID)

	ids, err = b.DeleteDocument(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{withoutA.ID}, ids)

	_, err = b.DeleteDocument(ctx, other.ID)
	requireRemoteStatus(t, err, 404)
}

func TestBackend_SubmitQuery(t *testing.T) {
	b := NewBackend(WithTopK(2))
	ctx := context.Background()
	doc := uploadSample(t, b, "a.pdf")
	pg, err := b.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{doc.ID})
	require.NoError(t, err)

	q, err := b.SubmitQuery(ctx, pg.ID, "how do goroutines communicate over channels?")
	require.NoError(t, err)
	assert.Equal(t, q.ID, q.Point.ID)
	require.Len(t, q.Results, 2)

	best, err := b.GetChunk(ctx, pg.ID, q.Results[0])
	require.NoError(t, err)
	assert.Contains(t, best.Text, "Channels")

	second, err := b.SubmitQuery(ctx, pg.ID, "garbage collector")
	require.NoError(t, err)

	queries, err := b.ListQueries(ctx, pg.ID)
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, second.ID, queries[0].ID)
	assert.Equal(t, q.ID, queries[1].ID)

	_, err = b.SubmitQuery(ctx, pg.ID, "   ")
	requireRemoteStatus(t, err, 422)
	_, err = b.SubmitQuery(ctx, "missing", "x")
	requireRemoteStatus(t, err, 404)
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"empty", "", 10, nil},
		{"paragraphs", "one two\n\nthree", 100, []string{"one two", "three"}},
		{"packs words", "aa bb cc dd", 5, []string{"aa bb", "cc dd"}},
		{"long word", "abcdefgh ij", 4, []string{"abcdefgh", "ij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitText(tt.text, tt.size))
		})
	}
}
