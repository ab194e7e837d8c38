package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/extractors/docx"
	"github.com/custodia-labs/filingvec/internal/extractors/html"
	"github.com/custodia-labs/filingvec/internal/extractors/pdf"
	"github.com/custodia-labs/filingvec/internal/extractors/plaintext"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry. Later extractors win when two claim the
// same extension.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		plaintext.New(),
		html.New(),
		pdf.New(),
		docx.New(),
	)
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Supports returns true if an extractor handles the path's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[extension(path)]
	return ok
}

// Extensions returns every handled extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract returns the text of the file at path.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.Extraction, error) {
	ext := extension(path)
	e, ok := r.byExt[ext]
	if !ok {
		if ext == "" {
			return nil, fmt.Errorf("%w: %s has no extension", domain.ErrUnsupportedFormat, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !accepts(e.MIMETypes(), mt) {
		if isLegacyOffice(mt) {
			return nil, fmt.Errorf("%w: legacy binary %s", domain.ErrUnsupportedFormat, ext)
		}
		return nil, fmt.Errorf("%w: %s content is %s, not %s",
			domain.ErrInvalidInput, filepath.Base(path), mt.String(), ext)
	}

	logger.Debug("extracting %s as %s (%s)", path, ext, mt.String())

	text, err := e.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}

	return &domain.Extraction{
		Path:     path,
		Format:   ext,
		MIMEType: mt.String(),
		Text:     text,
	}, nil
}

// isLegacyOffice reports whether the content is an OLE2 compound file,
// the container of pre-2007 Office formats.
func isLegacyOffice(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/x-ole-storage") || m.Is("application/msword") {
			return true
		}
	}
	return false
}

// accepts reports whether the detected type, or one of its parents, is in
// allowed. An empty allow list accepts anything.
func accepts(allowed []string, detected *mimetype.MIME) bool {
	if len(allowed) == 0 {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
