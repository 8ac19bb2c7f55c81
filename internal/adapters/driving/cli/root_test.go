package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/core/services"
)

const testCorpus = `Goroutines are lightweight threads managed by the Go runtime.

Channels let goroutines communicate by sending typed values.

Interfaces in Go are satisfied implicitly.`

// setupTestServices wires the commands to a fresh in-memory backend and
// returns a function restoring the previous services.
func setupTestServices(opts ...memory.Option) (*memory.Backend, func()) {
	backend := memory.NewBackend(opts...)
	session := services.NewSession(backend)
	pgs := services.NewPlaygroundService(backend, session)
	docs := services.NewDocumentService(backend, session)

	old := Services{
		Session:    sessionService,
		Playground: playgroundService,
		Document:   documentService,
		Settings:   settingsService,
		NewWizard:  newWizard,
	}

	SetServices(Services{
		Session:    session,
		Playground: pgs,
		Document:   docs,
		Settings:   services.NewSettingsService(memory.NewConfigStore()),
		NewWizard: func() driving.PlaygroundWizard {
			return services.NewPlaygroundWizard(pgs, docs)
		},
	})

	return backend, func() {
		SetServices(old)
	}
}

// seedPlayground uploads the test corpus and builds a playground over it.
func seedPlayground(t *testing.T, backend *memory.Backend) (domain.Document, domain.Playground) {
	t.Helper()
	ctx := context.Background()
	doc, err := backend.UploadDocument(ctx, "go.txt", strings.NewReader(testCorpus))
	require.NoError(t, err)
	pg, err := backend.CreatePlayground(ctx, domain.ServiceSentenceTransformers, []string{doc.ID})
	require.NoError(t, err)
	return doc, pg
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ragplay", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"document", "playground", "query", "settings", "tui", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	assert.NotNil(t, flags.Lookup("verbose"))
	assert.NotNil(t, flags.Lookup("api-url"))
	assert.NotNil(t, flags.Lookup("offline"))
}

func TestRootCmd_ConfigurerReceivesOptions(t *testing.T) {
	var got Options
	SetConfigurer(func(o Options) error {
		got = o
		return nil
	})
	defer func() {
		SetConfigurer(nil)
		options = Options{}
	}()

	_, err := execute("--offline", "--api-url", "http://example.test", "version")

	require.NoError(t, err)
	assert.True(t, got.Offline)
	assert.Equal(t, "http://example.test", got.APIURL)
}

func TestRootCmd_ConfigurerError(t *testing.T) {
	boom := errors.New("boom")
	SetConfigurer(func(Options) error { return boom })
	defer SetConfigurer(nil)

	_, err := execute("version")

	assert.ErrorIs(t, err, boom)
}

func TestSetServices(t *testing.T) {
	_, cleanup := setupTestServices()

	assert.NotNil(t, sessionService)
	assert.NotNil(t, playgroundService)
	assert.NotNil(t, documentService)
	assert.NotNil(t, settingsService)
	assert.NotNil(t, newWizard)

	cleanup()
}
