package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "http://localhost:8000", s.API.BaseURL)
	assert.Equal(t, 30, s.API.TimeoutSeconds)
	assert.InDelta(t, 10.0, s.API.RateLimit, 0.0001)
	assert.False(t, s.Log.Verbose)
	assert.NoError(t, s.API.Validate())
}

func TestAPISettings_Timeout(t *testing.T) {
	s := APISettings{TimeoutSeconds: 5}
	assert.Equal(t, 5*time.Second, s.Timeout())
}

func TestAPISettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings APISettings
		wantErr  bool
	}{
		{"valid http", APISettings{BaseURL: "http://server:8000", TimeoutSeconds: 1}, false},
		{"valid https", APISettings{BaseURL: "https://rag.example.com/api", TimeoutSeconds: 1}, false},
		{"relative url", APISettings{BaseURL: "localhost:8000", TimeoutSeconds: 1}, true},
		{"empty url", APISettings{BaseURL: "", TimeoutSeconds: 1}, true},
		{"bad scheme", APISettings{BaseURL: "ftp://server", TimeoutSeconds: 1}, true},
		{"zero timeout", APISettings{BaseURL: "http://server", TimeoutSeconds: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
