package domain

import (
	"fmt"
	"sort"
)

// Snapshot is the durable aggregate held by a vector store: the ordered
// chunks and the parallel ordered embeddings. Embeddings[i] belongs to
// Chunks[i]; both slices are always mutated together.
type Snapshot struct {
	Chunks     []Chunk
	Embeddings [][]float32
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Chunks:     []Chunk{},
		Embeddings: [][]float32{},
	}
}

// Len returns the number of stored chunks.
func (s *Snapshot) Len() int {
	return len(s.Chunks)
}

// IsEmpty returns true if the snapshot holds no chunks.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Chunks) == 0
}

// Validate checks the alignment invariant and that every stored
// embedding has the same width.
func (s *Snapshot) Validate() error {
	if len(s.Chunks) != len(s.Embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", ErrStoreCorrupt, len(s.Chunks), len(s.Embeddings))
	}
	width := s.Dimensions()
	for i, emb := range s.Embeddings {
		if len(emb) != width {
			return fmt.Errorf("%w: embedding %d has %d dimensions, expected %d", ErrStoreCorrupt, i, len(emb), width)
		}
	}
	return nil
}

// Dimensions returns the embedding width, or 0 for an empty snapshot.
func (s *Snapshot) Dimensions() int {
	if len(s.Embeddings) == 0 {
		return 0
	}
	return len(s.Embeddings[0])
}

// IDs returns the set of stored chunk identifiers.
func (s *Snapshot) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Chunks))
	for i := range s.Chunks {
		ids[s.Chunks[i].ID] = struct{}{}
	}
	return ids
}

// Contains returns true if a chunk with the given id is stored.
func (s *Snapshot) Contains(id string) bool {
	for i := range s.Chunks {
		if s.Chunks[i].ID == id {
			return true
		}
	}
	return false
}

// Append adds a chunk and its embedding as a pair.
func (s *Snapshot) Append(c Chunk, embedding []float32) {
	s.Chunks = append(s.Chunks, c)
	s.Embeddings = append(s.Embeddings, embedding)
}

// Companies returns the sorted distinct company values.
func (s *Snapshot) Companies() []string {
	seen := make(map[string]struct{})
	companies := []string{}
	for i := range s.Chunks {
		company := s.Chunks[i].Company
		if _, ok := seen[company]; ok {
			continue
		}
		seen[company] = struct{}{}
		companies = append(companies, company)
	}
	sort.Strings(companies)
	return companies
}

// Stats summarises the snapshot.
func (s *Snapshot) Stats() Stats {
	companies := s.Companies()
	return Stats{
		TotalChunks:  len(s.Chunks),
		Companies:    companies,
		CompanyCount: len(companies),
		Dimensions:   s.Dimensions(),
	}
}
