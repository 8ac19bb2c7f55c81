// Package domain defines the core business entities for ragplay.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Playground: A saved workspace pairing an embedding service with documents
//   - Document: An uploaded source file
//   - Query: A question submitted against a playground, with its ranked results
//   - Chunk: A retrieved passage of text shown to the user
//   - Point: A 2-D projection coordinate of a chunk or query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
