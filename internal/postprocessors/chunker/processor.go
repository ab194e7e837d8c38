// Package chunker splits document text into overlapping, sentence-aware segments.
//
// Offsets and sizes are measured in characters (runes) of the
// whitespace-normalised text, never in bytes.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// BoundaryWindow is how far either side of the nominal end a sentence
// boundary is looked for.
const BoundaryWindow = 50

// boundaryMarkers are tried in priority order. The chunk ends just after
// the punctuation character of the last occurrence of the first marker found.
var boundaryMarkers = []string{". ", "! ", "? ", "\n"}

// Processor splits text into chunks with a fixed size and overlap.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// Returns domain.ErrInvalidInput when the overlap is not smaller than the
// chunk size, or either is out of range.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := domain.ValidateChunking(p.chunkSize, p.overlap); err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text using the processor's configuration.
func (p *Processor) Chunk(ctx context.Context, text string) ([]domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return split(Normalize(text), p.chunkSize, p.overlap), nil
}

// Split normalises text and cuts it into segments of about chunkSize
// characters, each sharing overlap characters with the next.
func Split(text string, chunkSize, overlap int) ([]domain.Segment, error) {
	if err := domain.ValidateChunking(chunkSize, overlap); err != nil {
		return nil, err
	}
	return split(Normalize(text), chunkSize, overlap), nil
}

// Normalize collapses every whitespace run to a single space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func split(text string, chunkSize, overlap int) []domain.Segment {
	segments := []domain.Segment{}
	if text == "" {
		return segments
	}

	runes := []rune(text)
	n := len(runes)

	start := 0
	for start < n {
		end := start + chunkSize
		if end < n {
			end = boundaryEnd(runes, start, end)
		} else {
			end = n
		}

		if body := strings.TrimSpace(string(runes[start:end])); body != "" {
			segments = append(segments, domain.Segment{
				Text:      body,
				Position:  len(segments),
				CharStart: start,
				CharEnd:   end,
			})
		}

		if end >= n {
			break
		}

		next := end - overlap
		// Always move forward, even when a boundary pulled the end back
		// inside the overlap.
		if next <= start {
			next = end
		}
		start = next
	}

	return segments
}

// boundaryEnd looks for a sentence boundary around the nominal end and
// returns the refined end, or end itself when none is found.
func boundaryEnd(runes []rune, start, end int) int {
	windowStart := max(end-BoundaryWindow, start)
	windowEnd := min(end+BoundaryWindow, len(runes))
	window := string(runes[windowStart:windowEnd])

	for _, marker := range boundaryMarkers {
		idx := strings.LastIndex(window, marker)
		if idx == -1 {
			continue
		}
		return windowStart + utf8.RuneCountInString(window[:idx]) + 1
	}

	return end
}
