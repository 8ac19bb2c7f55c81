package mcp

import (
	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session holds the active playground, its queries and shown chunks.
	Session driving.SessionService

	// Playground manages playgrounds.
	Playground driving.PlaygroundService

	// Document manages uploaded documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Playground == nil {
		return ErrMissingPlaygroundService
	}
	// Document is optional; without it the document resources are empty.
	return nil
}
