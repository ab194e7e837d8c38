package mcp

import (
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Index provides search, stats and company listing.
	Index driving.IndexService

	// Ingest adds free text to the index. Optional: without it the
	// ingest_text tool is not registered.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
