// Command ragplay is a terminal console for a RAG playground backend.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragplay/internal/adapters/driven/api/httpapi"
	"github.com/custodia-labs/ragplay/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragplay/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragplay/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/core/services"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// envAPIURL overrides the configured backend URL.
const envAPIURL = "RAGPLAY_API_URL"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetConfigurer(configure)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// configure builds the services once flags are parsed.
func configure(opts cli.Options) error {
	settingsService := services.NewSettingsService(openConfigStore())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if settings.Log.Verbose {
		logger.SetVerbose(true)
	}

	api, err := newAPI(opts, settings.API.BaseURL, settings.API.Timeout(), settings.API.RateLimit)
	if err != nil {
		return err
	}

	session := services.NewSession(api)
	playgrounds := services.NewPlaygroundService(api, session)
	documents := services.NewDocumentService(api, session)

	cli.SetServices(cli.Services{
		Session:    session,
		Playground: playgrounds,
		Document:   documents,
		Settings:   settingsService,
		NewWizard: func() driving.PlaygroundWizard {
			return services.NewPlaygroundWizard(playgrounds, documents)
		},
	})
	return nil
}

// openConfigStore opens ~/.ragplay/config.toml, falling back to an
// in-memory store when the home directory is unusable.
func openConfigStore() driven.ConfigStore {
	store, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config file unavailable, using in-memory settings: %v", err)
		return memory.NewConfigStore()
	}
	return store
}

// newAPI picks the backend: the in-memory one when offline, otherwise the
// HTTP client. The URL precedence is --api-url, then $RAGPLAY_API_URL, then
// the saved setting.
func newAPI(opts cli.Options, baseURL string, timeout time.Duration, rateLimit float64) (driven.PlaygroundAPI, error) {
	if opts.Offline {
		logger.Info("running offline against the in-memory backend")
		return memory.NewBackend(), nil
	}

	if env := os.Getenv(envAPIURL); env != "" {
		baseURL = env
	}
	if opts.APIURL != "" {
		baseURL = opts.APIURL
	}

	client, err := httpapi.NewClient(httpapi.Config{
		BaseURL:   baseURL,
		Timeout:   timeout,
		RateLimit: rateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	logger.Debug("using backend %s", baseURL)
	return client, nil
}
