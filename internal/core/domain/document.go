package domain

// Document represents an uploaded source file.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the original file name.
	Name string
}

// ChunkRole records why a chunk is on screen.
type ChunkRole string

const (
	// ChunkRoleQuery marks a chunk fetched as a result of the active query.
	ChunkRoleQuery ChunkRole = "query"

	// ChunkRolePoint marks a chunk fetched because its projection point was clicked.
	ChunkRolePoint ChunkRole = "point"
)

// String returns the string representation.
func (r ChunkRole) String() string {
	return string(r)
}

// Chunk is a retrieved passage of source text tied to a projection point.
type Chunk struct {
	// ID is the chunk identifier; it equals the ID of its Point.
	ID string

	// Text is the passage content.
	Text string

	// Role is the display role, set by the session when the chunk is shown.
	Role ChunkRole
}
