package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps the snapshot in process memory.
// Load and Save copy, so callers never share slices with the store.
type VectorStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	saves    int
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{snapshot: domain.NewSnapshot()}
}

// Load returns a copy of the stored snapshot.
func (s *VectorStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snapshot), nil
}

// Save replaces the stored snapshot with a copy of the given one.
func (s *VectorStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = cloneSnapshot(snapshot)
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *VectorStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func cloneSnapshot(src *domain.Snapshot) *domain.Snapshot {
	dst := &domain.Snapshot{
		Chunks:     make([]domain.Chunk, len(src.Chunks)),
		Embeddings: make([][]float32, len(src.Embeddings)),
	}
	copy(dst.Chunks, src.Chunks)
	for i, emb := range src.Embeddings {
		dst.Embeddings[i] = append([]float32(nil), emb...)
	}
	return dst
}
