package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIBaseURL = "api.base_url"
	KeyAPITimeout = "api.timeout_seconds"
	KeyRateLimit  = "api.rate_limit"
	KeyVerbose    = "log.verbose"
)

var settingKeys = []string{KeyAPIBaseURL, KeyAPITimeout, KeyRateLimit, KeyVerbose}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:        strings.TrimRight(s.getString(KeyAPIBaseURL, defaults.API.BaseURL), "/"),
			TimeoutSeconds: s.getInt(KeyAPITimeout, defaults.API.TimeoutSeconds),
			RateLimit:      s.getFloat(KeyRateLimit, defaults.API.RateLimit),
		},
		Log: domain.LogSettings{
			Verbose: s.getBool(KeyVerbose, defaults.Log.Verbose),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.API.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(KeyAPIBaseURL, strings.TrimRight(settings.API.BaseURL, "/")); err != nil {
		return fmt.Errorf("save api base_url: %w", err)
	}
	if err := s.configStore.Set(KeyAPITimeout, settings.API.TimeoutSeconds); err != nil {
		return fmt.Errorf("save api timeout_seconds: %w", err)
	}
	if err := s.configStore.Set(KeyRateLimit, settings.API.RateLimit); err != nil {
		return fmt.Errorf("save api rate_limit: %w", err)
	}
	if err := s.configStore.Set(KeyVerbose, settings.Log.Verbose); err != nil {
		return fmt.Errorf("save log verbose: %w", err)
	}
	return nil
}

// Set parses value for key and saves the resulting settings.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyAPIBaseURL:
		settings.API.BaseURL = value
	case KeyAPITimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.API.TimeoutSeconds = n
	case KeyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.API.RateLimit = f
	case KeyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Log.Verbose = b
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the settable keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
