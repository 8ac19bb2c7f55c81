package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/services"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// logFileName is where the TUI writes its log while it owns the terminal.
const logFileName = "ragplay.log"

var errNoTerminal = errors.New("the terminal UI needs an interactive terminal")

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for ragplay.

The TUI lists your playgrounds and documents, walks you through creating a
playground, and lets you ask questions while watching which chunks the
retriever returns on the projection plot.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  /        - Ask a question (in a playground)
  Tab      - Cycle panes
  Esc      - Back / Cancel
  ?        - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// buildTUIPorts assembles the TUI ports from the configured services.
func buildTUIPorts() (*tui.Ports, error) {
	if sessionService == nil || playgroundService == nil || documentService == nil || newWizard == nil {
		return nil, errNotConfigured
	}

	return &tui.Ports{
		Session:    sessionService,
		Playground: playgroundService,
		Document:   documentService,
		NewWizard:  newWizard,
		Playgrounds: services.NewLoader[[]domain.Playground](
			playgroundService.List, services.WithName("playgrounds")),
		Documents: services.NewLoader[[]domain.Document](
			documentService.List, services.WithName("documents")),
		Models: services.NewLoader[[]domain.EmbeddingModel](
			playgroundService.Models, services.WithName("models")),
	}, nil
}

// openLogFile opens the TUI log file under the config directory.
func openLogFile() (*os.File, error) {
	dir, err := file.DefaultDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// redirectLog sends log output to a file so it does not corrupt the screen.
// The returned function restores stderr.
func redirectLog() func() {
	f, err := openLogFile()
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }
	}

	logger.SetOutput(f)
	logger.SetTimestamps(true)
	logger.Section("tui")
	return func() {
		logger.SetOutput(os.Stderr)
		logger.SetTimestamps(false)
		_ = f.Close()
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports, err := buildTUIPorts()
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	restore := redirectLog()
	defer restore()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
