package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file type no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrStoreCorrupt indicates the persisted store could not be decoded
	// or its chunk and embedding sequences are misaligned.
	// The store is never reinitialised when this is returned.
	ErrStoreCorrupt = errors.New("vector store corrupt")

	// ErrDimensionMismatch indicates two embeddings of different widths
	// were compared or stored together. Vectors from different models
	// must never share a store.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
