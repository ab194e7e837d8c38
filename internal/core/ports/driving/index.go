package driving

import (
	"context"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// IndexService owns the stored chunks and their embeddings.
//
// Inserting an id that is already stored is not an error: the chunk is
// skipped and reported through the boolean or count return value.
type IndexService interface {
	// InsertOne embeds and stores a single chunk.
	// Returns false without touching the store when the id exists.
	InsertOne(ctx context.Context, chunk domain.Chunk) (bool, error)

	// InsertBatch embeds all new chunks with one embedding request and
	// persists once. Returns the number of chunks stored.
	InsertBatch(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Search ranks stored chunks by cosine similarity to the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Stats summarises the store.
	Stats(ctx context.Context) (domain.Stats, error)

	// Companies returns the sorted distinct company values.
	Companies(ctx context.Context) ([]string, error)

	// Clear removes every chunk and persists the empty store.
	Clear(ctx context.Context) error
}
