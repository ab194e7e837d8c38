package driving

import (
	"context"

	"github.com/custodia-labs/filingvec/internal/core/domain"
)

// IngestMetadata is the caller-supplied metadata for an ingested document.
type IngestMetadata struct {
	Company string
	Period  string
}

// IngestService runs extraction, chunking and indexing for whole documents.
type IngestService interface {
	// IngestFile extracts, chunks and indexes a file.
	// Re-ingesting the same path is idempotent.
	IngestFile(ctx context.Context, path string, meta IngestMetadata) (*domain.IngestReport, error)

	// IngestText chunks and indexes free text. The name keys chunk ids;
	// an empty name gets a generated one.
	IngestText(ctx context.Context, name, text string, meta IngestMetadata) (*domain.IngestReport, error)

	// Preview extracts and chunks a file without touching the store.
	Preview(ctx context.Context, path string) ([]domain.Segment, error)
}
