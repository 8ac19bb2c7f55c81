package domain

// Point is a coordinate in the projection of a playground's chunks.
// The backend computes points; they are read-only here.
type Point struct {
	ID string
	X  float64
	Y  float64
	Z  float64
}

// Query is a question submitted against a playground.
// Results and Point are fixed once the backend creates the query.
type Query struct {
	// ID is the unique identifier for the query.
	ID string

	// Text is the question as submitted.
	Text string

	// Point is the projection of the query itself.
	Point Point

	// Results holds the ids of the retrieved chunks, best match first.
	Results []string
}

// HasResult reports whether chunkID is one of the query's results.
func (q *Query) HasResult(chunkID string) bool {
	for _, id := range q.Results {
		if id == chunkID {
			return true
		}
	}
	return false
}
