package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const filing = "Revenue grew 8% year over year. Services margin expanded to 74%. " +
	"Supply chain constraints eased in the fourth quarter."

func TestBestSentence(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		matches int
	}{
		{"single term", "margin", "Services margin expanded to 74%.", 1},
		{"most terms wins", "supply chain quarter revenue", "Supply chain constraints eased in the fourth quarter.", 3},
		{"case insensitive", "REVENUE", "Revenue grew 8% year over year.", 1},
		{"no match returns first sentence", "dividends", "Revenue grew 8% year over year.", 0},
		{"empty query returns first sentence", "", "Revenue grew 8% year over year.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := BestSentence(filing, tt.query)
			assert.Equal(t, tt.want, filing[span.Start:span.End])
			assert.Equal(t, tt.matches, span.Matches)
		})
	}
}

func TestBestSentence_EmptyText(t *testing.T) {
	span := BestSentence("", "revenue")
	assert.True(t, span.Empty())

	span = BestSentence("   \n ", "revenue")
	assert.True(t, span.Empty())
}

func TestBestSentence_TieGoesToEarlier(t *testing.T) {
	text := "Cash rose. Cash fell."
	span := BestSentence(text, "cash")
	assert.Equal(t, "Cash rose.", text[span.Start:span.End])
}

func TestSplit(t *testing.T) {
	span := BestSentence(filing, "margin")
	before, match, after := Split(filing, span)

	assert.Equal(t, "Revenue grew 8% year over year. ", before)
	assert.Equal(t, "Services margin expanded to 74%.", match)
	assert.Equal(t, filing, before+match+after)
}

func TestSplit_EmptySpan(t *testing.T) {
	before, match, after := Split("text", Span{})
	assert.Equal(t, "text", before)
	assert.Empty(t, match)
	assert.Empty(t, after)
}

func TestTerms(t *testing.T) {
	terms := Terms("Apple's Q4 revenue, revenue!")
	assert.Contains(t, terms, "revenue")
	assert.Contains(t, terms, "q4")
	assert.NotContains(t, terms, ",")
	assert.NotContains(t, terms, " ")
}
