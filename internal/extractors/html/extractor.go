// Package html extracts readable text from HTML documents such as EDGAR filings.
package html

import (
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor strips markup from HTML files.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".htm", ".html"}
}

// MIMETypes returns the content types this extractor accepts.
// Filing fragments without an <html> element are detected as plain text.
func (e *Extractor) MIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml", "text/xml", "text/plain"}
}

// Extract reads the file and returns its text, one block element per line.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return Strip(strings.ToValidUTF8(string(data), "")), nil
}

var (
	droppedElements = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)\b[^>]*>.*?</(script|style|noscript|head|svg)>`)
	comments        = regexp.MustCompile(`(?s)<!--.*?-->`)
	hiddenBlocks    = regexp.MustCompile(`(?is)<ix:header[^>]*>.*?</ix:header>`)
	blockBoundaries = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|table|blockquote|pre|section|article)[^>]*>|<(br|hr)\s*/?>`)
	cellBoundaries  = regexp.MustCompile(`(?i)</t[dh]>`)
	anyTag          = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t\x{00a0}]+`)
)

// Strip converts HTML to plain text. Script, style and inline XBRL header
// content is dropped, entities are decoded and empty lines removed.
func Strip(content string) string {
	content = droppedElements.ReplaceAllString(content, "")
	content = hiddenBlocks.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = blockBoundaries.ReplaceAllString(content, "\n")
	content = cellBoundaries.ReplaceAllString(content, " ")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = horizontalSpace.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
