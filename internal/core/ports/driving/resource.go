package driving

import "context"

// LoadState is what a Resource currently knows.
type LoadState[T any] struct {
	// Data is the last payload. Only meaningful when Loaded is true.
	Data T

	// Loaded is true once a fetch has succeeded.
	Loaded bool

	// Loading is true while at least one fetch is in flight.
	Loading bool

	// Err is the message of the last failure, or "".
	Err string
}

// Resource is a remote read exposed as observable loading/data/error state.
type Resource[T any] interface {
	// Activate starts the fetch unless a payload is already cached.
	// The returned channel is closed once the fetch has been applied.
	Activate(ctx context.Context) <-chan struct{}

	// Refetch restarts the fetch regardless of cached state.
	Refetch(ctx context.Context) <-chan struct{}

	// State returns the current state.
	State() LoadState[T]
}
