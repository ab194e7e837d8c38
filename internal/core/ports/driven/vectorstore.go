package driven

import (
	"context"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// VectorStore persists the chunk/embedding snapshot as a whole.
//
// Every index operation loads the full snapshot, mutates it in memory
// and saves it back. Implementations must never leave durable state
// half-written, but they do not coordinate concurrent writers: two
// processes that load the same snapshot and both save will lose the
// first writer's additions.
type VectorStore interface {
	// Load returns the stored snapshot. A store that was never written
	// returns an empty snapshot. Undecodable or misaligned data returns
	// domain.ErrStoreCorrupt; the store is never reinitialised.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Close releases resources.
	Close() error
}
