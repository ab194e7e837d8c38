package domain

import (
	"fmt"
	"strings"
)

// DefaultTopK is the number of results returned when no count is requested.
const DefaultTopK = 10

// FilterField names a chunk metadata field that searches can filter on.
type FilterField string

// Filterable metadata fields.
const (
	FieldCompany    FilterField = "company"
	FieldPeriod     FilterField = "period"
	FieldSourceFile FilterField = "source_file"
)

// IsValid returns true if the field is recognised.
func (f FilterField) IsValid() bool {
	switch f {
	case FieldCompany, FieldPeriod, FieldSourceFile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f FilterField) String() string {
	return string(f)
}

// Filter restricts a search to chunks whose metadata field equals Value.
// Comparison is case-insensitive. A filter excludes by metadata only,
// never by similarity.
type Filter struct {
	Field FilterField
	Value string
}

// CompanyFilter returns a filter on the company field.
func CompanyFilter(company string) *Filter {
	return &Filter{Field: FieldCompany, Value: company}
}

// SingleFilter builds a filter from optional per-field values.
// At most one value may be non-empty; none returns a nil filter.
func SingleFilter(company, period, sourceFile string) (*Filter, error) {
	var f *Filter
	for _, candidate := range []Filter{
		{Field: FieldCompany, Value: company},
		{Field: FieldPeriod, Value: period},
		{Field: FieldSourceFile, Value: sourceFile},
	} {
		if candidate.Value == "" {
			continue
		}
		if f != nil {
			return nil, fmt.Errorf("%w: filter on one field at a time, got %s and %s",
				ErrInvalidInput, f.Field, candidate.Field)
		}
		c := candidate
		f = &c
	}
	return f, nil
}

// IsZero returns true for a nil filter or one with an empty value.
// Such a filter matches every chunk.
func (f *Filter) IsZero() bool {
	return f == nil || f.Value == ""
}

// Validate checks the filter names a known field.
func (f *Filter) Validate() error {
	if f.IsZero() {
		return nil
	}
	if !f.Field.IsValid() {
		return fmt.Errorf("%w: unknown filter field %q", ErrInvalidInput, f.Field)
	}
	return nil
}

// Matches reports whether the chunk passes the filter.
// A zero filter matches everything.
func (f *Filter) Matches(c *Chunk) bool {
	if f.IsZero() {
		return true
	}
	value, ok := c.MetadataField(f.Field)
	if !ok {
		return false
	}
	return strings.EqualFold(value, f.Value)
}

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// TopK is the maximum number of results. Values <= 0 use DefaultTopK.
	TopK int

	// Filter optionally restricts candidates by metadata.
	Filter *Filter
}

// Limit returns the effective result count.
func (o SearchOptions) Limit() int {
	if o.TopK <= 0 {
		return DefaultTopK
	}
	return o.TopK
}

// SearchResult represents a single ranked chunk.
type SearchResult struct {
	ID         string  `json:"id"`
	Company    string  `json:"company"`
	Period     string  `json:"period"`
	Text       string  `json:"text"`
	SourceFile string  `json:"source_file"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
}

// NewSearchResult builds a result from a stored chunk and its score.
func NewSearchResult(c *Chunk, similarity float64) SearchResult {
	return SearchResult{
		ID:         c.ID,
		Company:    c.Company,
		Period:     c.Period,
		Text:       c.Text,
		SourceFile: c.SourceFile,
		Position:   c.Position,
		Similarity: similarity,
	}
}

// Stats summarises the store contents.
type Stats struct {
	TotalChunks  int      `json:"total_chunks"`
	Companies    []string `json:"companies"`
	CompanyCount int      `json:"company_count"`

	// Dimensions is the embedding width, 0 for an empty store.
	Dimensions int `json:"dimensions"`
}
