package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and configure application settings",
	Long:  `View and configure the backend connection and logging.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting. Run 'ragplay settings keys' to list the keys.

Example:
  ragplay settings set api.base_url http://localhost:8000`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL:   %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout:    %s\n", settings.API.Timeout())
	cmd.Printf("  Rate limit: %s\n", formatRate(settings.API.RateLimit))
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Verbose:    %t\n", settings.Log.Verbose)
	cmd.Println()

	if options.Offline {
		cmd.Println("Running offline: the API settings are not used.")
	}
	if err := settings.API.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ragplay settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	for _, key := range settingsService.Keys() {
		cmd.Printf("  %-20s %s\n", key, keyHelp(key))
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("ragplay Settings Wizard")
	cmd.Println("=======================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Printf("Backend URL [%s]: ", settings.API.BaseURL)
	if input := readLine(reader); input != "" {
		settings.API.BaseURL = strings.TrimRight(input, "/")
	}

	cmd.Printf("Request timeout in seconds [%d]: ", settings.API.TimeoutSeconds)
	settings.API.TimeoutSeconds = parseInt(readLine(reader), settings.API.TimeoutSeconds)

	cmd.Printf("Rate limit in requests per second, 0 disables [%s]: ", formatRate(settings.API.RateLimit))
	settings.API.RateLimit = parseFloat(readLine(reader), settings.API.RateLimit)

	cmd.Printf("Verbose logging (y/n) [%s]: ", yesNo(settings.Log.Verbose))
	settings.Log.Verbose = parseYesNo(readLine(reader), settings.Log.Verbose)

	cmd.Println()
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Printf("Settings saved for %s\n", settings.API.BaseURL)
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseInt(input string, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val <= 0 {
		return defaultVal
	}
	return val
}

func parseFloat(input string, defaultVal float64) float64 {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil || val < 0 {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes", "true":
		return true
	case "n", "no", "false":
		return false
	default:
		return defaultVal
	}
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func formatRate(rps float64) string {
	if rps <= 0 {
		return "unlimited"
	}
	return strconv.FormatFloat(rps, 'f', -1, 64) + "/s"
}

// keyHelp describes a settable key.
func keyHelp(key string) string {
	switch key {
	case services.KeyAPIBaseURL:
		return "backend base URL, e.g. " + domain.DefaultAPIBaseURL
	case services.KeyAPITimeout:
		return "request timeout in seconds"
	case services.KeyRateLimit:
		return "maximum requests per second, 0 disables"
	case services.KeyVerbose:
		return "enable debug logging (true/false)"
	default:
		return ""
	}
}
