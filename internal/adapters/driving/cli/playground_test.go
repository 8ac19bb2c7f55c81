package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragplay/internal/core/domain"
)

func TestPlaygroundCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range playgroundCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"list", "create", "rename", "delete", "show", "find", "models"} {
		assert.Contains(t, names, want)
	}
	assert.Contains(t, playgroundCmd.Aliases, "pg")
}

func TestPlaygroundListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("playground", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No playgrounds.")
}

func TestPlaygroundListCmd_ShowsPlaygrounds(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	out, err := execute("playground", "list")

	require.NoError(t, err)
	assert.Contains(t, out, pg.ID)
	assert.Contains(t, out, "New Playground")
	assert.Contains(t, out, "Sentence Transformers")
}

func TestPlaygroundListCmd_JSON(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)
	defer func() { playgroundJSON = false }()

	out, err := execute("playground", "list", "--json")
	require.NoError(t, err)

	var views []playgroundJSONView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, pg.ID, views[0].ID)
	assert.Equal(t, "all-MiniLM-L6-v2", views[0].Model)
}

func TestPlaygroundCreateCmd_DefaultService(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	doc, err := backend.UploadDocument(context.Background(), "go.txt", strings.NewReader(testCorpus))
	require.NoError(t, err)

	out, err := execute("playground", "create", doc.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Created playground ")

	pgs, err := backend.ListPlaygrounds(context.Background())
	require.NoError(t, err)
	require.Len(t, pgs, 1)
	assert.Equal(t, domain.ServiceSentenceTransformers, pgs[0].Service)
}

func TestPlaygroundCreateCmd_UnknownService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { createService = string(domain.ServiceSentenceTransformers) }()

	_, err := execute("playground", "create", "doc-1", "--service", "Word2Vec")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlaygroundCreateCmd_ServiceWithoutKey(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	doc, err := backend.UploadDocument(context.Background(), "go.txt", strings.NewReader(testCorpus))
	require.NoError(t, err)
	defer func() { createService = string(domain.ServiceSentenceTransformers) }()

	_, err = execute("playground", "create", doc.ID, "--service", "OpenAI")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create playground")
}

func TestPlaygroundRenameCmd(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	out, err := execute("playground", "rename", pg.ID, "Go concurrency")

	require.NoError(t, err)
	assert.Contains(t, out, `"Go concurrency"`)

	pgs, err := backend.ListPlaygrounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Go concurrency", pgs[0].Title)
}

func TestPlaygroundDeleteCmd(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	out, err := execute("playground", "delete", pg.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted playground "+pg.ID)

	pgs, err := backend.ListPlaygrounds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pgs)
}

func TestPlaygroundShowCmd(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)
	_, err := backend.SubmitQuery(context.Background(), pg.ID, "what are channels")
	require.NoError(t, err)

	out, err := execute("playground", "show", pg.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Playground: "+pg.ID)
	assert.Contains(t, out, "Documents: go.txt")
	assert.Contains(t, out, "Queries:   1")
	assert.Contains(t, out, "what are channels")
}

func TestPlaygroundShowCmd_Unknown(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("playground", "show", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlaygroundFindCmd(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()
	_, first := seedPlayground(t, backend)
	_, second := seedPlayground(t, backend)
	_, err := backend.RenamePlayground(ctx, first.ID, "Rust ownership")
	require.NoError(t, err)
	_, err = backend.RenamePlayground(ctx, second.ID, "Go channels")
	require.NoError(t, err)
	defer func() { playgroundLimit = 5 }()

	out, err := execute("playground", "find", "Go", "channels", "--limit", "1")

	require.NoError(t, err)
	assert.Contains(t, out, second.ID)
	assert.NotContains(t, out, first.ID)
	assert.Contains(t, out, "(distance 0)")
}

func TestPlaygroundModelsCmd(t *testing.T) {
	_, cleanup := setupTestServices(memory.WithAPIKeys(domain.ServiceCohere))
	defer cleanup()

	out, err := execute("playground", "models")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding services:")
	assert.Contains(t, out, "Sentence Transformers")
	assert.Contains(t, out, "API key required")
	assert.Contains(t, out, "large")
}

func TestPlaygroundCmds_ServiceNotConfigured(t *testing.T) {
	oldService := playgroundService
	playgroundService = nil
	defer func() {
		playgroundService = oldService
	}()

	tests := [][]string{
		{"playground", "list"},
		{"playground", "create", "doc-1"},
		{"playground", "rename", "pg-1", "title"},
		{"playground", "delete", "pg-1"},
		{"playground", "show", "pg-1"},
		{"playground", "find", "title"},
		{"playground", "models"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(args...)

			assert.ErrorIs(t, err, errNotConfigured)
		})
	}
}
