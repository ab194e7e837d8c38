package domain

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Path is the ingested file, or the document name for free text.
	Path string `json:"path"`

	// ChunksExtracted is the number of chunks the document produced.
	ChunksExtracted int `json:"chunks_extracted"`

	// ChunksIndexed is the number of chunks newly stored.
	// It is lower than ChunksExtracted when the document was ingested before.
	ChunksIndexed int `json:"chunks_indexed"`

	// TotalChunks is the store size after ingestion.
	TotalChunks int `json:"total_chunks"`

	// Companies is the sorted distinct company list after ingestion.
	Companies []string `json:"companies"`
}

// Skipped returns the number of chunks already present in the store.
func (r *IngestReport) Skipped() int {
	return r.ChunksExtracted - r.ChunksIndexed
}
