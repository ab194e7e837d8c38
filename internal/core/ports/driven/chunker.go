package driven

import (
	"context"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// Chunker splits document text into overlapping, positioned segments.
type Chunker interface {
	// Chunk normalises whitespace and returns the segments in order.
	// Whitespace-only text returns an empty slice and no error.
	Chunk(ctx context.Context, text string) ([]domain.Segment, error)
}
