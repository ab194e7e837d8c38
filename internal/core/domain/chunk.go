package domain

import "strings"

// UnknownCompany is recorded when a chunk arrives without a company.
const UnknownCompany = "Unknown"

// UnknownPeriod is recorded by batch inserts when a chunk has no period.
const UnknownPeriod = "Unknown"

// Chunk represents a searchable unit of a filing.
// Chunks are produced by the chunker and carry caller-supplied metadata.
type Chunk struct {
	// ID is the caller-assigned unique identifier.
	// It acts as the idempotency key: a second insert with the same ID is skipped.
	ID string

	// Text is the chunk content. Never empty for stored chunks.
	Text string

	// Company is the issuer the filing belongs to.
	Company string

	// Period is the reporting period (e.g. "Q4 2025").
	Period string

	// SourceFile is the base name of the file the chunk was extracted from.
	SourceFile string

	// Position is the zero-based ordinal position within the source document.
	Position int

	// CharStart is the offset of the first character in the normalised source text.
	CharStart int

	// CharEnd is the offset one past the last character in the normalised source text.
	CharEnd int
}

// Segment is a chunk of text before identifiers and metadata are attached.
type Segment struct {
	// Text is the trimmed segment content.
	Text string

	// Position is the zero-based sequence number of the segment.
	Position int

	// CharStart is the start offset in the normalised text.
	CharStart int

	// CharEnd is the end offset in the normalised text.
	CharEnd int
}

// ChunkMetadata is the caller-supplied metadata attached to every chunk of a document.
type ChunkMetadata struct {
	Company    string
	Period     string
	SourceFile string
}

// ToChunk attaches an identifier and metadata to the segment.
func (s Segment) ToChunk(id string, meta ChunkMetadata) Chunk {
	return Chunk{
		ID:         id,
		Text:       s.Text,
		Company:    meta.Company,
		Period:     meta.Period,
		SourceFile: meta.SourceFile,
		Position:   s.Position,
		CharStart:  s.CharStart,
		CharEnd:    s.CharEnd,
	}
}

// CompanyOrUnknown returns the company, or UnknownCompany when it is blank.
func (c Chunk) CompanyOrUnknown() string {
	if strings.TrimSpace(c.Company) == "" {
		return UnknownCompany
	}
	return c.Company
}

// MetadataField returns the value of a filterable metadata field.
// The second return value is false for unknown field names.
func (c Chunk) MetadataField(field FilterField) (string, bool) {
	switch field {
	case FieldCompany:
		return c.Company, true
	case FieldPeriod:
		return c.Period, true
	case FieldSourceFile:
		return c.SourceFile, true
	default:
		return "", false
	}
}
