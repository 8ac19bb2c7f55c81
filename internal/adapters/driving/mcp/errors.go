package mcp

import "errors"

var (
	// ErrMissingSessionService is returned when the session service is not provided.
	ErrMissingSessionService = errors.New("mcp: session service is required")

	// ErrMissingPlaygroundService is returned when the playground service is not provided.
	ErrMissingPlaygroundService = errors.New("mcp: playground service is required")
)
