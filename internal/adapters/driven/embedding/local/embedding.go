// Package local provides an offline embedding service based on feature hashing.
//
// Each text is segmented into words (Unicode UAX #29), lower-cased, filtered
// against a stop-word list and hashed into a fixed number of buckets with a
// signed FNV-1a hash. The bucket counts are log-scaled and L2-normalised, so
// the cosine of two vectors measures their shared vocabulary. No model files
// or network access are needed, and the output is deterministic.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/words"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName identifies vectors produced by this service.
const ModelName = "hashing-bow"

// EmbeddingService embeds text by hashing its words into a fixed-width vector.
type EmbeddingService struct {
	dimensions int
	stopwords  map[string]struct{}
}

// Option configures the embedding service.
type Option func(*EmbeddingService)

// WithDimensions sets the vector width. Non-positive values are ignored.
func WithDimensions(n int) Option {
	return func(s *EmbeddingService) {
		if n > 0 {
			s.dimensions = n
		}
	}
}

// NewEmbeddingService creates a local embedding service.
func NewEmbeddingService(opts ...Option) *EmbeddingService {
	s := &EmbeddingService{
		dimensions: domain.DefaultEmbeddingDimensions,
		stopwords:  defaultStopwords(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Embed returns the hashed bag-of-words vector for text.
// Text without any indexable word yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make([]float64, s.dimensions)
	for _, tok := range s.tokenize(text) {
		idx, sign := s.bucket(tok)
		counts[idx] += sign
	}

	var norm float64
	for i, c := range counts {
		if c == 0 {
			continue
		}
		// Sublinear term frequency keeps long chunks from being dominated by repeats.
		v := math.Copysign(1+math.Log(math.Abs(c)), c)
		counts[i] = v
		norm += v * v
	}

	vec := make([]float32, s.dimensions)
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenize splits text into lower-case words, dropping punctuation,
// whitespace and stop words.
func (s *EmbeddingService) tokenize(text string) []string {
	var tokens []string
	scanner := words.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		tok := strings.ToLower(scanner.Text())
		if !isWord(tok) {
			continue
		}
		if _, stop := s.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// bucket maps a token to a vector index and a sign.
func (s *EmbeddingService) bucket(tok string) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tok))
	sum := h.Sum64()

	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return int(sum % uint64(s.dimensions)), sign
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func defaultStopwords() map[string]struct{} {
	list := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "should", "now", "our", "we", "has", "have",
		"had",
	}
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
