package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// DefaultFileName is the store file created inside the data directory.
const DefaultFileName = "vector_store.json"

// record is the persisted form of a chunk. Character offsets are not
// part of the file format.
type record struct {
	ID         string `json:"id"`
	Company    string `json:"company"`
	Period     string `json:"period"`
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	Position   int    `json:"position"`
}

type document struct {
	Chunks     []record    `json:"chunks"`
	Embeddings [][]float32 `json:"embeddings"`
}

// VectorStore persists snapshots to a JSON file.
type VectorStore struct {
	path string
}

// NewVectorStore returns a store backed by the file at path.
// The file is not touched until the first Load or Save.
func NewVectorStore(path string) (*VectorStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: json store path is empty", domain.ErrInvalidInput)
	}
	return &VectorStore{path: path}, nil
}

// Path returns the store file path.
func (s *VectorStore) Path() string {
	return s.path
}

// Load decodes the store file.
func (s *VectorStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("Store %s does not exist yet, starting empty", s.path)
			return domain.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStoreCorrupt, s.path, err)
	}

	snap := &domain.Snapshot{
		Chunks:     make([]domain.Chunk, len(doc.Chunks)),
		Embeddings: doc.Embeddings,
	}
	if snap.Embeddings == nil {
		snap.Embeddings = [][]float32{}
	}
	for i, r := range doc.Chunks {
		snap.Chunks[i] = domain.Chunk{
			ID:         r.ID,
			Company:    r.Company,
			Period:     r.Period,
			Text:       r.Text,
			SourceFile: r.SourceFile,
			Position:   r.Position,
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	logger.Debug("Loaded %d chunks from %s", snap.Len(), s.path)
	return snap, nil
}

// Save writes the snapshot atomically.
func (s *VectorStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	doc := document{
		Chunks:     make([]record, len(snapshot.Chunks)),
		Embeddings: snapshot.Embeddings,
	}
	if doc.Embeddings == nil {
		doc.Embeddings = [][]float32{}
	}
	for i := range snapshot.Chunks {
		c := &snapshot.Chunks[i]
		doc.Chunks[i] = record{
			ID:         c.ID,
			Company:    c.Company,
			Period:     c.Period,
			Text:       c.Text,
			SourceFile: c.SourceFile,
			Position:   c.Position,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}

	logger.Debug("Saved %d chunks to %s", snapshot.Len(), s.path)
	return nil
}

// Close is a no-op; the file is not held open.
func (s *VectorStore) Close() error {
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
