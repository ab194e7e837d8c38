package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterField_IsValid(t *testing.T) {
	tests := []struct {
		field    FilterField
		expected bool
	}{
		{FieldCompany, true},
		{FieldPeriod, true},
		{FieldSourceFile, true},
		{FilterField("text"), false},
		{FilterField(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.field.IsValid())
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	t.Run("nil filter is valid", func(t *testing.T) {
		var f *Filter
		assert.NoError(t, f.Validate())
	})

	t.Run("known field", func(t *testing.T) {
		assert.NoError(t, CompanyFilter("Apple Inc").Validate())
	})

	t.Run("empty value skips field check", func(t *testing.T) {
		f := &Filter{Field: "ticker"}
		assert.NoError(t, f.Validate())
	})

	t.Run("unknown field", func(t *testing.T) {
		f := &Filter{Field: "ticker", Value: "AAPL"}
		err := f.Validate()
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "ticker")
	})
}

// TestFilter_Matches tests case-insensitive metadata matching
func TestFilter_Matches(t *testing.T) {
	chunk := &Chunk{
		ID:         "a",
		Company:    "Apple Inc",
		Period:     "Q4 2025",
		SourceFile: "apple-10k.pdf",
	}

	tests := []struct {
		name     string
		filter   *Filter
		expected bool
	}{
		{"nil matches everything", nil, true},
		{"empty value matches everything", CompanyFilter(""), true},
		{"exact company", CompanyFilter("Apple Inc"), true},
		{"company ignores case", CompanyFilter("APPLE INC"), true},
		{"other company", CompanyFilter("Microsoft Corp"), false},
		{"company prefix is not a match", CompanyFilter("Apple"), false},
		{"period", &Filter{Field: FieldPeriod, Value: "q4 2025"}, true},
		{"source file", &Filter{Field: FieldSourceFile, Value: "apple-10k.pdf"}, true},
		{"unknown field", &Filter{Field: "ticker", Value: "Apple Inc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(chunk))
		})
	}
}

func TestSearchOptions_Limit(t *testing.T) {
	assert.Equal(t, DefaultTopK, SearchOptions{}.Limit())
	assert.Equal(t, DefaultTopK, SearchOptions{TopK: -3}.Limit())
	assert.Equal(t, 5, SearchOptions{TopK: 5}.Limit())
}

func TestNewSearchResult(t *testing.T) {
	chunk := &Chunk{
		ID:         "abc_chunk_2",
		Text:       "Azure cloud growth accelerated.",
		Company:    "Microsoft Corp",
		Period:     "FY2025",
		SourceFile: "msft.txt",
		Position:   2,
		CharStart:  800,
		CharEnd:    1290,
	}

	result := NewSearchResult(chunk, 0.875)

	assert.Equal(t, "abc_chunk_2", result.ID)
	assert.Equal(t, "Microsoft Corp", result.Company)
	assert.Equal(t, "FY2025", result.Period)
	assert.Equal(t, chunk.Text, result.Text)
	assert.Equal(t, "msft.txt", result.SourceFile)
	assert.Equal(t, 2, result.Position)
	assert.InDelta(t, 0.875, result.Similarity, 1e-9)
}

func TestSingleFilter(t *testing.T) {
	f, err := SingleFilter("", "", "")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = SingleFilter("Apple Inc", "", "")
	require.NoError(t, err)
	assert.Equal(t, &Filter{Field: FieldCompany, Value: "Apple Inc"}, f)

	f, err = SingleFilter("", "", "aapl-10k.pdf")
	require.NoError(t, err)
	assert.Equal(t, &Filter{Field: FieldSourceFile, Value: "aapl-10k.pdf"}, f)

	_, err = SingleFilter("Apple Inc", "Q3 2024", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
