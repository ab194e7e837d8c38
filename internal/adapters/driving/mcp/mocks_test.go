package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/core/services"
	"github.com/custodia-labs/filingvec/internal/extractors"
	"github.com/custodia-labs/filingvec/internal/postprocessors/chunker"
)

// failingIndex is an IndexService whose every call fails.
type failingIndex struct {
	err error
}

func (f *failingIndex) InsertOne(context.Context, domain.Chunk) (bool, error) { return false, f.err }
func (f *failingIndex) InsertBatch(context.Context, []domain.Chunk) (int, error) {
	return 0, f.err
}
func (f *failingIndex) Search(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
	return nil, f.err
}
func (f *failingIndex) Stats(context.Context) (domain.Stats, error) { return domain.Stats{}, f.err }
func (f *failingIndex) Companies(context.Context) ([]string, error) { return nil, f.err }
func (f *failingIndex) Clear(context.Context) error                 { return f.err }

// newTestPorts wires real services over an in-memory store and the local embedder.
func newTestPorts(t *testing.T) *Ports {
	t.Helper()

	index := services.NewIndexService(memory.NewVectorStore(), local.NewEmbeddingService())
	chunks, err := chunker.New()
	require.NoError(t, err)
	ingest := services.NewIngestService(extractors.NewDefaultRegistry(), chunks, index)

	return &Ports{Index: index, Ingest: ingest}
}

func seed(t *testing.T, ports *Ports) {
	t.Helper()
	ctx := context.Background()

	_, err := ports.Ingest.IngestText(ctx, "aapl", "Apple iPhone revenue increased strongly.",
		driving.IngestMetadata{Company: "Apple Inc", Period: "Q4 2024"})
	require.NoError(t, err)
	_, err = ports.Ingest.IngestText(ctx, "msft", "Microsoft Azure cloud revenue increased.",
		driving.IngestMetadata{Company: "Microsoft", Period: "Q4 2024"})
	require.NoError(t, err)
}
