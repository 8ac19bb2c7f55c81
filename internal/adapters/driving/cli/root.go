// Package cli provides the command-line interface for ragplay.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Options holds the global flags shared by every command.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// APIURL overrides the configured backend URL.
	APIURL string

	// Offline runs against the in-memory backend instead of the HTTP API.
	Offline bool
}

// Services holds the driving ports the commands talk to.
type Services struct {
	Session    driving.SessionService
	Playground driving.PlaygroundService
	Document   driving.DocumentService
	Settings   driving.SettingsService

	// NewWizard builds a fresh "new playground" wizard.
	NewWizard func() driving.PlaygroundWizard
}

var (
	options    Options
	configurer func(Options) error

	sessionService    driving.SessionService
	playgroundService driving.PlaygroundService
	documentService   driving.DocumentService
	settingsService   driving.SettingsService
	newWizard         func() driving.PlaygroundWizard
)

var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "ragplay",
	Short: "Explore retrieval-augmented generation from the terminal",
	Long: `ragplay is a console for a RAG playground backend.

Upload documents, build playgrounds over them with an embedding service,
submit questions and inspect which chunks the retriever returns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if options.Verbose {
			logger.SetVerbose(true)
		}
		if configurer == nil {
			return nil
		}
		return configurer(options)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&options.APIURL, "api-url", "", "Backend base URL (overrides settings)")
	flags.BoolVar(&options.Offline, "offline", false, "Use the built-in in-memory backend")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetConfigurer registers a hook that runs after flags are parsed and before
// any command. It is expected to call SetServices.
func SetConfigurer(fn func(Options) error) {
	configurer = fn
}

// SetServices wires the driving ports used by the commands.
func SetServices(s Services) {
	sessionService = s.Session
	playgroundService = s.Playground
	documentService = s.Document
	settingsService = s.Settings
	newWizard = s.NewWizard
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
