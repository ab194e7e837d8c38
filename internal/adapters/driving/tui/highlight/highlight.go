// Package highlight picks the sentence of a chunk that best matches a query.
package highlight

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
)

// Span is a sentence within a text, as byte offsets.
type Span struct {
	Start int
	End   int

	// Matches is the number of distinct query terms the sentence contains.
	Matches int
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// BestSentence returns the sentence of text sharing the most distinct terms
// with query. Ties go to the earlier sentence. When nothing matches, the
// first sentence is returned with zero matches.
func BestSentence(text, query string) Span {
	terms := Terms(query)

	best := Span{}
	found := false
	offset := 0
	for _, segment := range sentences.SegmentAll([]byte(text)) {
		start := offset
		offset += len(segment)

		trimmed := strings.TrimSpace(string(segment))
		if trimmed == "" {
			continue
		}
		lead := strings.Index(string(segment), trimmed)
		span := Span{
			Start:   start + lead,
			End:     start + lead + len(trimmed),
			Matches: countMatches(trimmed, terms),
		}
		if !found || span.Matches > best.Matches {
			best = span
			found = true
		}
	}
	return best
}

// Split returns text before, inside and after the span.
func Split(text string, span Span) (before, match, after string) {
	if span.Empty() || span.End > len(text) {
		return text, "", ""
	}
	return text[:span.Start], text[span.Start:span.End], text[span.End:]
}

// Terms returns the distinct lowercased words of s that contain a letter or digit.
func Terms(s string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, w := range words.SegmentAll([]byte(s)) {
		token := strings.ToLower(string(w))
		if isWord(token) {
			terms[token] = struct{}{}
		}
	}
	return terms
}

func countMatches(sentence string, terms map[string]struct{}) int {
	if len(terms) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	for term := range Terms(sentence) {
		if _, ok := terms[term]; ok {
			seen[term] = struct{}{}
		}
	}
	return len(seen)
}

func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
