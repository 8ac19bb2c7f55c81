package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// Ensure Loader implements the interface.
var _ driving.Resource[[]domain.Document] = (*Loader[[]domain.Document])(nil)

// FetchFunc is a zero-argument remote read such as "list all documents".
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Loader adapts a FetchFunc into observable loading/data/error state with an
// explicit re-fetch. It never re-runs on its own once a payload is cached.
//
// Concurrent fetches are not deduplicated; each completion overwrites the
// state in completion order.
type Loader[T any] struct {
	fetch  FetchFunc[T]
	name   string
	notify func()

	mu       sync.Mutex
	data     T
	loaded   bool
	inflight int
	errMsg   string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	name   string
	notify func()
}

// WithName labels the loader in debug logs.
func WithName(name string) LoaderOption {
	return func(o *loaderOptions) {
		o.name = name
	}
}

// WithNotify registers a hook called after every completed fetch.
func WithNotify(fn func()) LoaderOption {
	return func(o *loaderOptions) {
		o.notify = fn
	}
}

// NewLoader creates a loader for fetch.
func NewLoader[T any](fetch FetchFunc[T], opts ...LoaderOption) *Loader[T] {
	o := loaderOptions{name: "resource"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{
		fetch:  fetch,
		name:   o.name,
		notify: o.notify,
	}
}

// Activate starts the fetch unless a payload is already cached.
// The returned channel is closed once the started fetch has been applied,
// or immediately when nothing was started.
func (l *Loader[T]) Activate(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	if l.loaded {
		l.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}
	l.inflight++
	l.mu.Unlock()

	return l.start(ctx)
}

// Refetch restarts the fetch regardless of cached state.
func (l *Loader[T]) Refetch(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	return l.start(ctx)
}

// Load activates the loader and waits for the result.
func (l *Loader[T]) Load(ctx context.Context) driving.LoadState[T] {
	select {
	case <-l.Activate(ctx):
	case <-ctx.Done():
	}
	return l.State()
}

// State returns the current state.
func (l *Loader[T]) State() driving.LoadState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return driving.LoadState[T]{
		Data:    l.data,
		Loaded:  l.loaded,
		Loading: l.inflight > 0,
		Err:     l.errMsg,
	}
}

// start runs the fetch in the background. Caller has already counted it in inflight.
func (l *Loader[T]) start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		data, err := l.fetch(ctx)
		l.apply(data, err)
		if l.notify != nil {
			l.notify()
		}
	}()
	return done
}

func (l *Loader[T]) apply(data T, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inflight--
	if err != nil {
		logger.Debug("loader %s: fetch failed: %v", l.name, err)
		var zero T
		l.data = zero
		l.loaded = false
		l.errMsg = domain.ErrorMessage(err)
		return
	}
	l.data = data
	l.loaded = true
	l.errMsg = ""
}
