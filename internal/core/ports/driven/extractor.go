package driven

import (
	"context"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// Extractor recovers plain text from one document format.
type Extractor interface {
	// Extensions returns the lower-case file extensions handled, with the dot.
	Extensions() []string

	// MIMETypes returns the content types the extractor accepts.
	// Detected types outside this list are rejected before extraction.
	MIMETypes() []string

	// Extract reads the file and returns its text.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects an extractor by file extension.
type ExtractorRegistry interface {
	// Extract returns the text of the file at path.
	// Unknown extensions return domain.ErrUnsupportedFormat.
	Extract(ctx context.Context, path string) (*domain.Extraction, error)

	// Supports returns true if an extractor handles the path's extension.
	Supports(path string) bool

	// Extensions returns every handled extension, sorted.
	Extensions() []string
}
