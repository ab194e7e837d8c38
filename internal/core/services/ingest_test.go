package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/postprocessors/chunker"
)

// fakeExtractors serves canned text by path.
type fakeExtractors struct {
	texts map[string]string
	err   error
}

func (f *fakeExtractors) Extract(_ context.Context, path string) (*domain.Extraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	text, ok := f.texts[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return &domain.Extraction{Path: path, Format: filepath.Ext(path), MIMEType: "text/plain", Text: text}, nil
}

func (f *fakeExtractors) Supports(path string) bool {
	_, ok := f.texts[path]
	return ok
}

func (f *fakeExtractors) Extensions() []string { return []string{".txt"} }

func newTestIngest(t *testing.T, texts map[string]string) (*IngestService, *IndexService, *recordingStore) {
	t.Helper()
	proc, err := chunker.New(chunker.WithChunkSize(80), chunker.WithOverlap(10))
	require.NoError(t, err)

	store := newRecordingStore()
	index := NewIndexService(store, newKeywordEmbedder(filingVocab...))
	return NewIngestService(&fakeExtractors{texts: texts}, proc, index), index, store
}

func longFiling() string {
	return strings.Repeat("Cloud revenue growth remained strong this quarter. ", 10)
}

func TestChunkIDPrefix(t *testing.T) {
	// md5("docs/apple.pdf")
	prefix := ChunkIDPrefix("docs/apple.pdf")

	assert.Len(t, prefix, 8)
	assert.Equal(t, prefix, ChunkIDPrefix("docs/apple.pdf"))
	assert.NotEqual(t, prefix, ChunkIDPrefix("docs/msft.pdf"))
	assert.Equal(t, "d41d8cd9", ChunkIDPrefix(""))
	assert.Equal(t, "abc_chunk_7", ChunkID("abc", 7))
}

func TestIngestService_IngestFile(t *testing.T) {
	ctx := context.Background()
	path := "/filings/msft-10q.txt"
	ingest, _, store := newTestIngest(t, map[string]string{path: longFiling()})

	report, err := ingest.IngestFile(ctx, path, driving.IngestMetadata{Company: "Microsoft Corp", Period: "Q3 2025"})

	require.NoError(t, err)
	assert.Equal(t, path, report.Path)
	assert.Greater(t, report.ChunksExtracted, 1)
	assert.Equal(t, report.ChunksExtracted, report.ChunksIndexed)
	assert.Equal(t, report.ChunksExtracted, report.TotalChunks)
	assert.Equal(t, []string{"Microsoft Corp"}, report.Companies)
	assert.Equal(t, 1, store.saves)

	prefix := ChunkIDPrefix(path)
	for i, c := range store.snap.Chunks {
		assert.Equal(t, ChunkID(prefix, i), c.ID)
		assert.Equal(t, i, c.Position)
		assert.Equal(t, "msft-10q.txt", c.SourceFile)
		assert.Equal(t, "Microsoft Corp", c.Company)
		assert.Equal(t, "Q3 2025", c.Period)
	}
}

func TestIngestService_IngestFile_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := "a.txt"
	ingest, _, store := newTestIngest(t, map[string]string{path: longFiling()})
	meta := driving.IngestMetadata{Company: "Microsoft Corp", Period: "Q3"}

	first, err := ingest.IngestFile(ctx, path, meta)
	require.NoError(t, err)

	second, err := ingest.IngestFile(ctx, path, meta)
	require.NoError(t, err)

	assert.Equal(t, first.ChunksExtracted, second.ChunksExtracted)
	assert.Equal(t, 0, second.ChunksIndexed)
	assert.Equal(t, first.ChunksExtracted, second.Skipped())
	assert.Equal(t, first.TotalChunks, second.TotalChunks)
	assert.Equal(t, 1, store.saves)
}

func TestIngestService_IngestFile_EmptyDocument(t *testing.T) {
	ingest, _, store := newTestIngest(t, map[string]string{"blank.txt": " \n\t "})

	report, err := ingest.IngestFile(context.Background(), "blank.txt", driving.IngestMetadata{})

	require.NoError(t, err)
	assert.Equal(t, 0, report.ChunksExtracted)
	assert.Equal(t, 0, report.ChunksIndexed)
	assert.Equal(t, 0, report.TotalChunks)
	assert.Equal(t, 0, store.saves)
}

func TestIngestService_IngestFile_ExtractError(t *testing.T) {
	ingest, _, store := newTestIngest(t, map[string]string{})

	_, err := ingest.IngestFile(context.Background(), "report.xls", driving.IngestMetadata{})

	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	assert.Equal(t, 0, store.saves)
}

func TestIngestService_IngestText(t *testing.T) {
	ctx := context.Background()
	ingest, index, store := newTestIngest(t, nil)

	report, err := ingest.IngestText(ctx, "call-notes", "Azure cloud growth was discussed.", driving.IngestMetadata{
		Company: "Microsoft Corp",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.ChunksIndexed)
	assert.Equal(t, "call-notes", store.snap.Chunks[0].SourceFile)
	assert.Equal(t, ChunkID(ChunkIDPrefix("call-notes"), 0), store.snap.Chunks[0].ID)
	assert.Equal(t, domain.UnknownPeriod, store.snap.Chunks[0].Period)

	results, err := index.Search(ctx, "azure", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestIngestService_IngestText_GeneratedName(t *testing.T) {
	ctx := context.Background()
	ingest, _, store := newTestIngest(t, nil)

	first, err := ingest.IngestText(ctx, "", "Cloud growth.", driving.IngestMetadata{})
	require.NoError(t, err)
	second, err := ingest.IngestText(ctx, "  ", "Cloud growth.", driving.IngestMetadata{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.Path, "text-"))
	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, 2, store.snap.Len())
}

func TestIngestService_Preview(t *testing.T) {
	ingest, _, store := newTestIngest(t, map[string]string{"a.txt": longFiling()})

	segments, err := ingest.Preview(context.Background(), "a.txt")

	require.NoError(t, err)
	assert.Greater(t, len(segments), 1)
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, 0, store.snap.Len())
}
