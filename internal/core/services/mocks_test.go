package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// keywordEmbedder maps each vocabulary word to one dimension and counts
// occurrences. Unknown words are ignored, so unrelated texts are orthogonal.
type keywordEmbedder struct {
	mu         sync.Mutex
	vocab      []string
	embedCalls int
	batchCalls int
	batchSizes []int
	err        error
	// width overrides the vector width when non-zero.
	width int
	// short drops the last vector of every batch.
	short bool
}

func newKeywordEmbedder(vocab ...string) *keywordEmbedder {
	return &keywordEmbedder{vocab: vocab}
}

func (m *keywordEmbedder) vector(text string) []float32 {
	width := len(m.vocab)
	if m.width > 0 {
		width = m.width
	}
	vec := make([]float32, width)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?")
		for i, v := range m.vocab {
			if v == word && i < width {
				vec[i]++
			}
		}
	}
	return vec
}

func (m *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *keywordEmbedder) Dimensions() int   { return len(m.vocab) }
func (m *keywordEmbedder) ModelName() string { return "keyword-mock" }
func (m *keywordEmbedder) Ping(_ context.Context) error {
	return m.err
}
func (m *keywordEmbedder) Close() error { return nil }

func (m *keywordEmbedder) calls() (embed, batch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls, m.batchCalls
}

// recordingStore is an in-memory driven.VectorStore that counts saves and
// can be made to fail.
type recordingStore struct {
	snap    *domain.Snapshot
	saves   int
	loadErr error
	saveErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{snap: domain.NewSnapshot()}
}

func (s *recordingStore) Load(_ context.Context) (*domain.Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	cp := domain.NewSnapshot()
	for i := range s.snap.Chunks {
		cp.Append(s.snap.Chunks[i], append([]float32(nil), s.snap.Embeddings[i]...))
	}
	return cp, nil
}

func (s *recordingStore) Save(_ context.Context, snap *domain.Snapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.snap = snap
	return nil
}

func (s *recordingStore) Close() error { return nil }

var errBackend = errors.New("backend unavailable")
