package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragplay/internal/logger"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}

	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "projection plot")
	assert.Contains(t, tuiCmd.Long, "Ctrl+C")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interactive terminal user interface")
}

func TestTUICmd_ServiceNotConfigured(t *testing.T) {
	oldWizard := newWizard
	newWizard = nil
	defer func() {
		newWizard = oldWizard
	}()

	_, err := execute("tui")

	assert.ErrorIs(t, err, errNotConfigured)
}

func TestBuildTUIPorts(t *testing.T) {
	backend, cleanup := setupTestServices()
	defer cleanup()
	_, pg := seedPlayground(t, backend)

	ports, err := buildTUIPorts()
	require.NoError(t, err)
	require.NoError(t, ports.Validate())

	<-ports.Playgrounds.Activate(context.Background())
	state := ports.Playgrounds.State()
	assert.True(t, state.Loaded)
	require.Len(t, state.Data, 1)
	assert.Equal(t, pg.ID, state.Data[0].ID)

	<-ports.Models.Activate(context.Background())
	assert.Len(t, ports.Models.State().Data, 4)

	app, err := tui.NewApp(ports)
	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestRedirectLog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	logger.SetVerbose(true)
	defer logger.SetVerbose(false)

	restore := redirectLog()
	logger.Info("opened playground %s", "pg-1")
	restore()

	data, err := os.ReadFile(filepath.Join(home, file.DirName, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "opened playground pg-1")
}
