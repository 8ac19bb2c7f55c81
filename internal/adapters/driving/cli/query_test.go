package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragplay/internal/core/domain"
)

func TestQueryCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range queryCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"submit", "list", "show", "points"} {
		assert.Contains(t, names, want)
	}
}

func TestQuerySubmitCmd(t *testing.T) {
	backend, cleanup := setupTestServices(memory.WithTopK(2))
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	out, err := execute("query", "submit", pg.ID, "how", "do", "goroutines", "communicate")

	require.NoError(t, err)
	assert.Contains(t, out, "how do goroutines communicate")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "(query)")

	queries, err := backend.ListQueries(context.Background(), pg.ID)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "how do goroutines communicate", queries[0].Text)
}

func TestQuerySubmitCmd_UnknownPlayground(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("query", "submit", "missing", "anything")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuerySubmitCmd_RequiresText(t *testing.T) {
	_, err := execute("query", "submit", "pg-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg(s)")
}

func TestQueryListCmd_Empty(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	out, err := execute("query", "list", pg.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "No queries yet.")
}

func TestQueryListCmd_NewestFirst(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)
	ctx := context.Background()
	_, err := backend.SubmitQuery(ctx, pg.ID, "first question")
	require.NoError(t, err)
	_, err = backend.SubmitQuery(ctx, pg.ID, "second question")
	require.NoError(t, err)

	out, err := execute("query", "list", pg.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Queries (newest first):")
	assert.Less(t, strings.Index(out, "second question"), strings.Index(out, "first question"))
}

func TestQueryShowCmd(t *testing.T) {
	backend, cleanup := setupTestServices(memory.WithTopK(1))
	defer cleanup()
	_, pg := seedPlayground(t, backend)
	q, err := backend.SubmitQuery(context.Background(), pg.ID, "interfaces")
	require.NoError(t, err)

	out, err := execute("query", "show", pg.ID, q.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Query "+q.ID+": interfaces")
	assert.Contains(t, out, "[1] "+q.Results[0])
}

func TestQueryShowCmd_UnknownQuery(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	_, err := execute("query", "show", pg.ID, "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select query")
}

func TestQueryPointsCmd(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)
	points, err := backend.ListPlaygroundPoints(context.Background(), pg.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(points), 2)
	defer func() { queryFull = false }()

	out, err := execute("query", "points", pg.ID, points[0].ID, points[1].ID, "--full")

	require.NoError(t, err)
	assert.Contains(t, out, "(point)")
	// The most recently clicked point is shown first.
	assert.Contains(t, out, "[2] "+points[1].ID)
	assert.Contains(t, out, "[1] "+points[0].ID)
	assert.Less(t, strings.Index(out, points[1].ID), strings.Index(out, points[0].ID))
}

func TestQueryPointsCmd_UnknownChunk(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	_, err := execute("query", "points", pg.ID, "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch chunk missing")
}

func TestQueryCmds_ServiceNotConfigured(t *testing.T) {
	oldSession := sessionService
	sessionService = nil
	defer func() {
		sessionService = oldSession
	}()

	tests := [][]string{
		{"query", "submit", "pg-1", "text"},
		{"query", "list", "pg-1"},
		{"query", "show", "pg-1", "q-1"},
		{"query", "points", "pg-1", "c-1"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(args...)

			assert.ErrorIs(t, err, errNotConfigured)
		})
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("word ", 100)

	assert.Equal(t, "a b c", preview("a\n  b\tc", false))
	assert.True(t, strings.HasSuffix(preview(long, false), "..."))
	assert.Len(t, []rune(preview(long, false)), chunkPreviewLn+3)
	assert.Equal(t, strings.TrimSpace(long), preview(long, true))
}
