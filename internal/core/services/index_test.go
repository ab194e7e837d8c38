package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

var filingVocab = []string{"iphone", "sales", "azure", "cloud", "growth", "revenue", "services"}

func appleChunk() domain.Chunk {
	return domain.Chunk{
		ID:         "test_1",
		Company:    "Apple Inc",
		Period:     "Q4 2025",
		Text:       "Record revenue driven by strong iPhone sales.",
		SourceFile: "AAPL_10Q.pdf",
	}
}

func microsoftChunk() domain.Chunk {
	return domain.Chunk{
		ID:         "test_2",
		Company:    "Microsoft Corp",
		Period:     "Q3 2025",
		Text:       "Azure cloud growth outpaced the market.",
		SourceFile: "MSFT_10Q.pdf",
	}
}

func newTestIndex() (*IndexService, *recordingStore, *keywordEmbedder) {
	store := newRecordingStore()
	embedder := newKeywordEmbedder(filingVocab...)
	return NewIndexService(store, embedder), store, embedder
}

func TestIndexService_InsertOne(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	inserted, err := index.InsertOne(ctx, appleChunk())

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, store.snap.Len())
	assert.Len(t, store.snap.Embeddings[0], len(filingVocab))
	embedCalls, _ := embedder.calls()
	assert.Equal(t, 1, embedCalls)
}

func TestIndexService_InsertOne_Duplicate(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	_, err := index.InsertOne(ctx, appleChunk())
	require.NoError(t, err)

	dup := appleChunk()
	dup.Text = "Completely different text about cloud."
	inserted, err := index.InsertOne(ctx, dup)

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 1, store.saves, "duplicate must not save")
	assert.Equal(t, appleChunk().Text, store.snap.Chunks[0].Text, "duplicate must not overwrite")
	embedCalls, _ := embedder.calls()
	assert.Equal(t, 1, embedCalls, "duplicate must not embed")

	stats, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalChunks)
}

func TestIndexService_InsertOne_DefaultsCompany(t *testing.T) {
	ctx := context.Background()
	index, store, _ := newTestIndex()

	c := appleChunk()
	c.Company = ""
	c.Period = ""
	_, err := index.InsertOne(ctx, c)
	require.NoError(t, err)

	assert.Equal(t, domain.UnknownCompany, store.snap.Chunks[0].Company)
	assert.Equal(t, "", store.snap.Chunks[0].Period)
}

func TestIndexService_InsertOne_InvalidChunk(t *testing.T) {
	ctx := context.Background()
	index, store, _ := newTestIndex()

	_, err := index.InsertOne(ctx, domain.Chunk{ID: "", Text: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = index.InsertOne(ctx, domain.Chunk{ID: "a", Text: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, 0, store.saves)
}

func TestIndexService_InsertOne_EmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()
	embedder.err = errBackend

	inserted, err := index.InsertOne(ctx, appleChunk())

	assert.False(t, inserted)
	assert.True(t, errors.Is(err, errBackend))
	assert.Equal(t, 0, store.saves)
}

func TestIndexService_InsertOne_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	_, err := index.InsertOne(ctx, appleChunk())
	require.NoError(t, err)

	embedder.width = 3
	_, err = index.InsertOne(ctx, microsoftChunk())

	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, store.snap.Len())
}

func TestIndexService_InsertOne_NoEmbedder(t *testing.T) {
	index := NewIndexService(newRecordingStore(), nil)

	_, err := index.InsertOne(context.Background(), appleChunk())

	assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
}

func TestIndexService_InsertBatch(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	n, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk()})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.saves)
	embedCalls, batchCalls := embedder.calls()
	assert.Equal(t, 0, embedCalls)
	assert.Equal(t, 1, batchCalls)
	assert.Equal(t, []int{2}, embedder.batchSizes)
	assert.Equal(t, "test_1", store.snap.Chunks[0].ID)
	assert.Equal(t, "test_2", store.snap.Chunks[1].ID)
}

func TestIndexService_InsertBatch_SkipsExistingAndRepeated(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	_, err := index.InsertOne(ctx, appleChunk())
	require.NoError(t, err)

	again := microsoftChunk()
	again.Text = "a repeat within the batch"
	n, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk(), again})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{1}, embedder.batchSizes)
	require.Equal(t, 2, store.snap.Len())
	assert.Equal(t, microsoftChunk().Text, store.snap.Chunks[1].Text, "first occurrence wins")
}

func TestIndexService_InsertBatch_NothingNew(t *testing.T) {
	ctx := context.Background()
	index, store, embedder := newTestIndex()

	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk()})
	require.NoError(t, err)

	n, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk()})

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, store.saves)
	_, batchCalls := embedder.calls()
	assert.Equal(t, 1, batchCalls)
}

func TestIndexService_InsertBatch_Empty(t *testing.T) {
	index, store, embedder := newTestIndex()

	n, err := index.InsertBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, store.saves)
	_, batchCalls := embedder.calls()
	assert.Equal(t, 0, batchCalls)
}

func TestIndexService_InsertBatch_DefaultsMetadata(t *testing.T) {
	ctx := context.Background()
	index, store, _ := newTestIndex()

	c := appleChunk()
	c.Company = ""
	c.Period = " "
	_, err := index.InsertBatch(ctx, []domain.Chunk{c})
	require.NoError(t, err)

	assert.Equal(t, domain.UnknownCompany, store.snap.Chunks[0].Company)
	assert.Equal(t, domain.UnknownPeriod, store.snap.Chunks[0].Period)
}

func TestIndexService_InsertBatch_Failures(t *testing.T) {
	t.Run("embedding error leaves store untouched", func(t *testing.T) {
		index, store, embedder := newTestIndex()
		embedder.err = errBackend

		n, err := index.InsertBatch(context.Background(), []domain.Chunk{appleChunk()})

		assert.Equal(t, 0, n)
		assert.True(t, errors.Is(err, errBackend))
		assert.Equal(t, 0, store.saves)
	})

	t.Run("short batch is an error", func(t *testing.T) {
		index, store, embedder := newTestIndex()
		embedder.short = true

		_, err := index.InsertBatch(context.Background(), []domain.Chunk{appleChunk(), microsoftChunk()})

		assert.Error(t, err)
		assert.Equal(t, 0, store.saves)
	})

	t.Run("load error", func(t *testing.T) {
		index, store, _ := newTestIndex()
		store.loadErr = domain.ErrStoreCorrupt

		_, err := index.InsertBatch(context.Background(), []domain.Chunk{appleChunk()})

		assert.True(t, errors.Is(err, domain.ErrStoreCorrupt))
	})

	t.Run("save error", func(t *testing.T) {
		index, store, _ := newTestIndex()
		store.saveErr = errBackend

		_, err := index.InsertBatch(context.Background(), []domain.Chunk{appleChunk()})

		assert.True(t, errors.Is(err, errBackend))
	})

	t.Run("invalid chunk", func(t *testing.T) {
		index, store, _ := newTestIndex()

		_, err := index.InsertBatch(context.Background(), []domain.Chunk{appleChunk(), {ID: "x"}})

		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		assert.Equal(t, 0, store.saves)
	})
}

func TestIndexService_Search_EmptyStore(t *testing.T) {
	index, _, embedder := newTestIndex()

	results, err := index.Search(context.Background(), "cloud growth", domain.SearchOptions{TopK: 5})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	embedCalls, _ := embedder.calls()
	assert.Equal(t, 0, embedCalls, "empty store must not embed the query")
}

func TestIndexService_Search_EmptyQuery(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk()})
	require.NoError(t, err)

	results, err := index.Search(ctx, "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestIndexService_Search_CompanyScenario ranks a cloud chunk above an
// iPhone chunk, and keeps a low-scoring chunk when the filter selects it.
func TestIndexService_Search_CompanyScenario(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk()})
	require.NoError(t, err)

	results, err := index.Search(ctx, "cloud growth", domain.SearchOptions{TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "test_2", results[0].ID)
	assert.Equal(t, "test_1", results[1].ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)

	filtered, err := index.Search(ctx, "cloud growth", domain.SearchOptions{
		TopK:   5,
		Filter: domain.CompanyFilter("apple inc"),
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "test_1", filtered[0].ID)
	assert.Equal(t, "Apple Inc", filtered[0].Company)
}

func TestIndexService_Search_SelfSimilarity(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk()})
	require.NoError(t, err)

	results, err := index.Search(ctx, appleChunk().Text, domain.SearchOptions{})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "test_1", results[0].ID)
	assert.Equal(t, 1.0, results[0].Similarity)
}

func TestIndexService_Search_TopK(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()

	third := domain.Chunk{ID: "test_3", Company: "Apple Inc", Text: "Services revenue growth."}
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk(), third})
	require.NoError(t, err)

	results, err := index.Search(ctx, "revenue growth", domain.SearchOptions{TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}

	limited, err := index.Search(ctx, "revenue growth", domain.SearchOptions{TopK: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, results[0].ID, limited[0].ID)
}

func TestIndexService_Search_DefaultTopK(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()

	chunks := make([]domain.Chunk, 15)
	for i := range chunks {
		chunks[i] = domain.Chunk{ID: ChunkID("doc", i), Text: "cloud growth", Company: "Microsoft Corp"}
	}
	_, err := index.InsertBatch(ctx, chunks)
	require.NoError(t, err)

	results, err := index.Search(ctx, "cloud", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Len(t, results, domain.DefaultTopK)
}

func TestIndexService_Search_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()

	ids := []string{"c", "a", "d", "b"}
	chunks := make([]domain.Chunk, len(ids))
	for i, id := range ids {
		chunks[i] = domain.Chunk{ID: id, Text: "azure cloud"}
	}
	_, err := index.InsertBatch(ctx, chunks)
	require.NoError(t, err)

	results, err := index.Search(ctx, "azure", domain.SearchOptions{})
	require.NoError(t, err)

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.ID
	}
	assert.Equal(t, ids, got)
}

func TestIndexService_Search_Filters(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk()})
	require.NoError(t, err)

	t.Run("period", func(t *testing.T) {
		results, err := index.Search(ctx, "cloud", domain.SearchOptions{
			Filter: &domain.Filter{Field: domain.FieldPeriod, Value: "q3 2025"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "test_2", results[0].ID)
	})

	t.Run("source file", func(t *testing.T) {
		results, err := index.Search(ctx, "cloud", domain.SearchOptions{
			Filter: &domain.Filter{Field: domain.FieldSourceFile, Value: "AAPL_10Q.pdf"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "test_1", results[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := index.Search(ctx, "cloud", domain.SearchOptions{
			Filter: domain.CompanyFilter("Nvidia"),
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := index.Search(ctx, "cloud", domain.SearchOptions{
			Filter: &domain.Filter{Field: "ticker", Value: "AAPL"},
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestIndexService_Search_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("embedding failure", func(t *testing.T) {
		index, _, embedder := newTestIndex()
		_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk()})
		require.NoError(t, err)

		embedder.err = errBackend
		_, err = index.Search(ctx, "cloud", domain.SearchOptions{})
		assert.True(t, errors.Is(err, errBackend))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		index, _, embedder := newTestIndex()
		_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk()})
		require.NoError(t, err)

		embedder.width = 2
		_, err = index.Search(ctx, "cloud", domain.SearchOptions{})
		assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	})

	t.Run("corrupt store", func(t *testing.T) {
		index, store, _ := newTestIndex()
		store.loadErr = domain.ErrStoreCorrupt

		_, err := index.Search(ctx, "cloud", domain.SearchOptions{})
		assert.True(t, errors.Is(err, domain.ErrStoreCorrupt))
	})
}

func TestIndexService_StatsAndCompanies(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()

	third := domain.Chunk{ID: "test_3", Company: "Apple Inc", Text: "Services revenue."}
	_, err := index.InsertBatch(ctx, []domain.Chunk{microsoftChunk(), appleChunk(), third})
	require.NoError(t, err)

	stats, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalChunks)
	assert.Equal(t, []string{"Apple Inc", "Microsoft Corp"}, stats.Companies)
	assert.Equal(t, 2, stats.CompanyCount)
	assert.Equal(t, len(filingVocab), stats.Dimensions)

	companies, err := index.Companies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Inc", "Microsoft Corp"}, companies)
}

func TestIndexService_Clear(t *testing.T) {
	ctx := context.Background()
	index, _, _ := newTestIndex()
	_, err := index.InsertBatch(ctx, []domain.Chunk{appleChunk(), microsoftChunk()})
	require.NoError(t, err)

	require.NoError(t, index.Clear(ctx))

	stats, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalChunks)
	assert.Equal(t, 0, stats.CompanyCount)

	// Ids are free again after a clear
	inserted, err := index.InsertOne(ctx, appleChunk())
	require.NoError(t, err)
	assert.True(t, inserted)
}
