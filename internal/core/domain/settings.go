package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default settings values.
const (
	DefaultAPIBaseURL     = "http://localhost:8000"
	DefaultTimeoutSeconds = 30
	DefaultRateLimit      = 10.0
)

// APISettings configures the connection to the playground backend.
type APISettings struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// TimeoutSeconds bounds every request.
	TimeoutSeconds int

	// RateLimit is the maximum request rate in requests per second.
	// Zero or negative disables throttling.
	RateLimit float64
}

// Timeout returns the request timeout as a duration.
func (s APISettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks that the settings are usable.
func (s APISettings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api base url %q must be absolute", ErrInvalidInput, s.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: api base url scheme %q not supported", ErrInvalidInput, u.Scheme)
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	return nil
}

// LogSettings configures diagnostic output.
type LogSettings struct {
	// Verbose enables debug logging.
	Verbose bool
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	API APISettings
	Log LogSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:        DefaultAPIBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
			RateLimit:      DefaultRateLimit,
		},
	}
}
