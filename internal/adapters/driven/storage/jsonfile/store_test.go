package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

func newTestStore(t *testing.T) *VectorStore {
	t.Helper()
	store, err := NewVectorStore(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	return store
}

func TestNewVectorStore_EmptyPath(t *testing.T) {
	_, err := NewVectorStore("")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestVectorStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "load must not create the file")
}

func TestVectorStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snap := domain.NewSnapshot()
	snap.Append(domain.Chunk{
		ID: "a_chunk_0", Text: "iPhone sales", Company: "Apple Inc", Period: "Q1",
		SourceFile: "a.txt", Position: 0, CharStart: 0, CharEnd: 12,
	}, []float32{0.25, 0.5})
	snap.Append(domain.Chunk{
		ID: "b_chunk_0", Text: "Azure growth", Company: "Microsoft Corp", Period: "Q2",
		SourceFile: "b.txt", Position: 0,
	}, []float32{1, 0})
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "a_chunk_0", loaded.Chunks[0].ID)
	assert.Equal(t, "Apple Inc", loaded.Chunks[0].Company)
	assert.Equal(t, "a.txt", loaded.Chunks[0].SourceFile)
	assert.Equal(t, []float32{0.25, 0.5}, loaded.Embeddings[0])
	assert.Equal(t, []float32{1, 0}, loaded.Embeddings[1])
	// Offsets are not persisted
	assert.Equal(t, 0, loaded.Chunks[0].CharEnd)
}

// TestVectorStore_FileLayout tests the on-disk document shape
func TestVectorStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snap := domain.NewSnapshot()
	snap.Append(domain.Chunk{ID: "x", Text: "t", Company: "C", Period: "P", SourceFile: "f", Position: 3}, []float32{1})
	require.NoError(t, store.Save(ctx, snap))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "chunks")
	assert.Contains(t, raw, "embeddings")

	var chunks []map[string]any
	require.NoError(t, json.Unmarshal(raw["chunks"], &chunks))
	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]any{
		"id": "x", "company": "C", "period": "P", "text": "t", "source_file": "f", "position": float64(3),
	}, chunks[0])

	assert.Contains(t, string(data), "\n  \"chunks\": [")
}

func TestVectorStore_EmptySnapshotLayout(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), domain.NewSnapshot()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"chunks": [], "embeddings": []}`, string(data))
}

func TestVectorStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"misaligned", `{"chunks":[{"id":"a","text":"t"}],"embeddings":[]}`},
		{"mixed widths", `{"chunks":[{"id":"a"},{"id":"b"}],"embeddings":[[1],[1,2]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0600))

			_, err := store.Load(context.Background())
			assert.True(t, errors.Is(err, domain.ErrStoreCorrupt))

			// The corrupt file is left in place
			data, readErr := os.ReadFile(store.Path())
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestVectorStore_SaveRejectsMisaligned(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &domain.Snapshot{Chunks: []domain.Chunk{{ID: "a"}}})

	assert.True(t, errors.Is(err, domain.ErrStoreCorrupt))
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestVectorStore_SaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), domain.NewSnapshot()))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFileName, entries[0].Name())
}

func TestVectorStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "dir", DefaultFileName)
	store, err := NewVectorStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.NewSnapshot()))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
