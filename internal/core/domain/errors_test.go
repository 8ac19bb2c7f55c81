package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrNoActivePlayground", ErrNoActivePlayground},
		{"ErrStale", ErrStale},
		{"ErrBusy", ErrBusy},
		{"ErrAPIKeyRequired", ErrAPIKeyRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestErrStale_Wrapped(t *testing.T) {
	err := fmt.Errorf("applying chunks: %w", ErrStale)
	assert.ErrorIs(t, err, ErrStale)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestRemoteError_Error(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := &RemoteError{StatusCode: 500, Message: "Cannot get playgrounds at this time", Op: "list playgrounds"}
		assert.Equal(t, "list playgrounds: Cannot get playgrounds at this time (status 500)", err.Error())
	})

	t.Run("without message", func(t *testing.T) {
		err := &RemoteError{StatusCode: 502, Op: "get chunk"}
		assert.Equal(t, "get chunk: request failed with status 502", err.Error())
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("connection refused"), "connection refused"},
		{"remote with message", &RemoteError{StatusCode: 500, Message: "boom", Op: "x"}, "boom"},
		{"wrapped remote", fmt.Errorf("loading: %w", &RemoteError{StatusCode: 404, Message: "Document not found"}), "Document not found"},
		{"remote without message", &RemoteError{StatusCode: 500, Op: "x"}, "x: request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
