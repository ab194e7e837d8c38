// Package domain defines the core business entities for filingvec.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A positioned excerpt of a filing carrying caller metadata
//   - Segment: Chunker output before identifiers are attached
//   - Snapshot: The persisted chunks and their parallel embeddings
//   - SearchResult: A ranked chunk with its similarity score
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
