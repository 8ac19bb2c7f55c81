package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragplay/internal/core/domain"
	"github.com/custodia-labs/ragplay/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.PlaygroundAPI = (*Backend)(nil)

const (
	defaultChunkSize = 1000
	defaultTopK      = 5
	defaultTitle     = "New Playground"
)

var defaultModels = map[domain.Service]string{
	domain.ServiceSentenceTransformers: "all-MiniLM-L6-v2",
	domain.ServiceOpenAI:               "text-embedding-ada-002",
	domain.ServiceCohere:               "large",
	domain.ServiceGoogle:               "",
}

// Backend is an in-memory implementation of driven.PlaygroundAPI.
// It splits documents into chunks, projects them with a hashed
// bag-of-words embedding and ranks queries by cosine similarity.
// It is used by tests and by the --offline mode of the CLI.
type Backend struct {
	mu          sync.RWMutex
	chunkSize   int
	topK        int
	keys        map[domain.Service]bool
	docOrder    []string
	documents   map[string]domain.Document
	contents    map[string][]byte
	pgOrder     []string
	playgrounds map[string]*playgroundState
	now         func() time.Time
}

type playgroundState struct {
	playground domain.Playground
	documents  []string
	chunks     []storedChunk
	queries    []domain.Query
}

type storedChunk struct {
	id     string
	text   string
	vector map[string]float64
	point  domain.Point
}

// Option configures a Backend.
type Option func(*Backend)

// WithChunkSize sets the maximum chunk length in bytes.
func WithChunkSize(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// WithTopK sets how many results a query returns.
func WithTopK(k int) Option {
	return func(b *Backend) {
		if k > 0 {
			b.topK = k
		}
	}
}

// WithAPIKeys marks services as having an API key configured.
// Sentence Transformers never needs one.
func WithAPIKeys(services ...domain.Service) Option {
	return func(b *Backend) {
		for _, s := range services {
			b.keys[s] = true
		}
	}
}

// WithClock overrides the clock used for creation times.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// NewBackend creates an empty in-memory backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		chunkSize:   defaultChunkSize,
		topK:        defaultTopK,
		keys:        map[domain.Service]bool{domain.ServiceSentenceTransformers: true},
		documents:   make(map[string]domain.Document),
		contents:    make(map[string][]byte),
		playgrounds: make(map[string]*playgroundState),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func newID() string {
	return uuid.NewString()
}

func notFound(op, what, id string) error {
	return &domain.RemoteError{
		StatusCode: 404,
		Message:    what + " " + id + " not found",
		Op:         op,
	}
}
