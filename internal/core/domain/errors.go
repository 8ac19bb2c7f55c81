package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoActivePlayground indicates an operation needs an active playground.
	ErrNoActivePlayground = errors.New("no active playground")

	// ErrStale indicates an asynchronous result arrived after the state it
	// belonged to was replaced. The result is dropped, not applied.
	ErrStale = errors.New("stale result dropped")

	// ErrBusy indicates an action is already in flight.
	ErrBusy = errors.New("operation in progress")

	// ErrAPIKeyRequired indicates an embedding service needs an API key
	// the backend does not have.
	ErrAPIKeyRequired = errors.New("embedding service requires an API key")
)

// RemoteError is a failure reported by the playground backend.
// Message is the human-readable message provided by the server, if any.
type RemoteError struct {
	// StatusCode is the HTTP status returned by the backend.
	StatusCode int

	// Message is the server-provided detail message.
	Message string

	// Op names the remote operation that failed.
	Op string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed with status %d", e.Op, e.StatusCode)
}

// ErrorMessage returns the message to show a user for err.
// The server-provided message wins when the error chain carries one.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return err.Error()
}
