package domain

import "time"

// Service identifies an embedding service offered by the backend.
type Service string

// Embedding services known to the backend.
const (
	ServiceSentenceTransformers Service = "Sentence Transformers"
	ServiceOpenAI               Service = "OpenAI"
	ServiceCohere               Service = "Cohere"
	ServiceGoogle               Service = "Google Generative AI"
)

// IsKnown returns true if the service is one the backend is known to offer.
// Unknown services are still passed through to the backend unchanged.
func (s Service) IsKnown() bool {
	switch s {
	case ServiceSentenceTransformers, ServiceOpenAI, ServiceCohere, ServiceGoogle:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Service) String() string {
	return string(s)
}

// EmbeddingModel describes one embedding service/model pair.
type EmbeddingModel struct {
	// Service is the embedding service.
	Service Service

	// Model is the model name used by the service.
	Model string

	// APIKey is true when the service needs an API key that is not configured.
	// Such services cannot be selected for a new playground.
	APIKey bool
}

// Selectable reports whether a playground can be created with this model.
func (m EmbeddingModel) Selectable() bool {
	return !m.APIKey
}

// Playground is a saved analysis workspace.
type Playground struct {
	// ID is the unique identifier for the playground.
	ID string

	// Title is the user-visible title.
	Title string

	// Created is when the backend created the playground.
	Created time.Time

	// Service is the embedding service used for the playground's documents.
	Service Service

	// Model is the embedding model used by Service.
	Model string

	// DocumentNames lists the names of the playground's documents, if known.
	DocumentNames []string
}
