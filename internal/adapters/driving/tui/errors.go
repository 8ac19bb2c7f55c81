package tui

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")

// ErrMissingPlaygroundService is returned when the playground service is not provided.
var ErrMissingPlaygroundService = errors.New("tui: playground service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingWizard is returned when no wizard factory is provided.
var ErrMissingWizard = errors.New("tui: playground wizard factory is required")

// ErrMissingResources is returned when a list resource is not provided.
var ErrMissingResources = errors.New("tui: playground, document and model resources are required")
