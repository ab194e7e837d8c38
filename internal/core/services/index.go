package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService stores chunks with their embeddings and ranks them by
// cosine similarity against a query.
//
// Every call loads the full snapshot from the store, works on it in
// memory and, for mutations, saves it back before returning. Nothing is
// cached between calls and nothing is locked: two processes inserting at
// the same time can both load the same snapshot, and the later save drops
// the earlier one's additions.
type IndexService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewIndexService creates a new index service.
func NewIndexService(store driven.VectorStore, embedder driven.EmbeddingService) *IndexService {
	return &IndexService{
		store:    store,
		embedder: embedder,
	}
}

// InsertOne embeds and stores a single chunk.
// An empty company is stored as "Unknown".
func (s *IndexService) InsertOne(ctx context.Context, chunk domain.Chunk) (bool, error) {
	if err := validateChunk(&chunk); err != nil {
		return false, err
	}

	snap, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if snap.Contains(chunk.ID) {
		logger.Debug("Chunk %s already stored, skipping", chunk.ID)
		return false, nil
	}

	if s.embedder == nil {
		return false, domain.ErrEmbeddingUnavailable
	}
	embedding, err := s.embedder.Embed(ctx, chunk.Text)
	if err != nil {
		return false, fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
	}
	if err := checkWidth(snap, embedding); err != nil {
		return false, err
	}

	chunk.Company = chunk.CompanyOrUnknown()
	snap.Append(chunk, embedding)

	if err := s.store.Save(ctx, snap); err != nil {
		return false, fmt.Errorf("saving store: %w", err)
	}
	return true, nil
}

// InsertBatch embeds every chunk whose id is not yet stored with a single
// EmbedBatch call and saves once. Repeated ids within the batch keep the
// first occurrence. Empty company and period are stored as "Unknown".
func (s *IndexService) InsertBatch(ctx context.Context, chunks []domain.Chunk) (int, error) {
	logger.Section("Index Insert")

	for i := range chunks {
		if err := validateChunk(&chunks[i]); err != nil {
			return 0, fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	snap, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	seen := snap.IDs()
	fresh := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		fresh = append(fresh, c)
	}
	logger.Debug("%d of %d chunks are new", len(fresh), len(chunks))

	if len(fresh) == 0 {
		return 0, nil
	}

	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(fresh))
	for i := range fresh {
		texts[i] = fresh[i].Text
	}

	done := logger.Timed(fmt.Sprintf("embedding %d chunks with %s", len(texts), s.embedder.ModelName()))
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	done()
	if err != nil {
		return 0, fmt.Errorf("embedding batch: %w", err)
	}
	if len(embeddings) != len(fresh) {
		return 0, fmt.Errorf("embedding batch: got %d vectors for %d texts", len(embeddings), len(fresh))
	}

	for i, c := range fresh {
		if err := checkWidth(snap, embeddings[i]); err != nil {
			return 0, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		c.Company = c.CompanyOrUnknown()
		if strings.TrimSpace(c.Period) == "" {
			c.Period = domain.UnknownPeriod
		}
		snap.Append(c, embeddings[i])
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("saving store: %w", err)
	}

	logger.Debug("Stored %d chunks, total now %d", len(fresh), snap.Len())
	return len(fresh), nil
}

// Search ranks stored chunks by cosine similarity to the query.
// Chunks failing the filter are excluded before scoring. Ties keep
// insertion order.
func (s *IndexService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Index Search")
	logger.Debug("Query: %q", query)

	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.IsEmpty() {
		logger.Debug("Store is empty, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	type scored struct {
		index int
		score float64
	}
	candidates := make([]scored, 0, snap.Len())
	for i := range snap.Chunks {
		if !opts.Filter.Matches(&snap.Chunks[i]) {
			continue
		}
		sim, err := CosineSimilarity(queryVec, snap.Embeddings[i])
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %s: %w", snap.Chunks[i].ID, err)
		}
		candidates = append(candidates, scored{index: i, score: sim})
	}
	logger.Debug("Scored %d of %d chunks", len(candidates), snap.Len())

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := opts.Limit()
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.NewSearchResult(&snap.Chunks[c.index], roundScore(c.score))
	}

	logger.Debug("Returning %d results", len(results))
	return results, nil
}

// Stats summarises the store.
func (s *IndexService) Stats(ctx context.Context) (domain.Stats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return snap.Stats(), nil
}

// Companies returns the sorted distinct company values.
func (s *IndexService) Companies(ctx context.Context) ([]string, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Companies(), nil
}

// Clear removes every chunk and persists the empty store.
func (s *IndexService) Clear(ctx context.Context) error {
	if err := s.store.Save(ctx, domain.NewSnapshot()); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	logger.Info("Vector store cleared")
	return nil
}

func (s *IndexService) load(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return snap, nil
}

func validateChunk(c *domain.Chunk) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: chunk id is empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: chunk %s has no text", domain.ErrInvalidInput, c.ID)
	}
	return nil
}

// checkWidth rejects an embedding whose width differs from those already stored.
func checkWidth(snap *domain.Snapshot, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrDimensionMismatch)
	}
	if width := snap.Dimensions(); width != 0 && width != len(embedding) {
		return fmt.Errorf("%w: store has %d dimensions, embedding has %d",
			domain.ErrDimensionMismatch, width, len(embedding))
	}
	return nil
}
