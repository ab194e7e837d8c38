package services

import (
	"context"
	"crypto/md5" //nolint:gosec // G501: ids only, not security
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts text from documents, chunks it and indexes the chunks.
type IngestService struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	index      driving.IndexService
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	index driving.IndexService,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunker:    chunker,
		index:      index,
	}
}

// IngestFile extracts, chunks and indexes a file.
// Chunk ids derive from the path as given, so ingesting the same path
// twice stores nothing the second time.
func (s *IngestService) IngestFile(
	ctx context.Context, path string, meta driving.IngestMetadata,
) (*domain.IngestReport, error) {
	logger.Section("Ingest " + path)
	logger.Debug("Company: %s, Period: %s", meta.Company, meta.Period)

	extraction, err := s.extractors.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	logger.Debug("Extracted %d characters (%s)", len(extraction.Text), extraction.MIMEType)

	return s.ingest(ctx, path, extraction.Text, domain.ChunkMetadata{
		Company:    meta.Company,
		Period:     meta.Period,
		SourceFile: filepath.Base(path),
	})
}

// IngestText chunks and indexes free text.
// The name keys the chunk ids and becomes the source file; an empty name
// is replaced by a random one, so such text is never deduplicated.
func (s *IngestService) IngestText(
	ctx context.Context, name, text string, meta driving.IngestMetadata,
) (*domain.IngestReport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "text-" + uuid.New().String()
	}
	logger.Section("Ingest " + name)

	return s.ingest(ctx, name, text, domain.ChunkMetadata{
		Company:    meta.Company,
		Period:     meta.Period,
		SourceFile: name,
	})
}

// Preview extracts and chunks a file without touching the store.
func (s *IngestService) Preview(ctx context.Context, path string) ([]domain.Segment, error) {
	extraction, err := s.extractors.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	segments, err := s.chunker.Chunk(ctx, extraction.Text)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", path, err)
	}
	return segments, nil
}

func (s *IngestService) ingest(
	ctx context.Context, key, text string, meta domain.ChunkMetadata,
) (*domain.IngestReport, error) {
	segments, err := s.chunker.Chunk(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", key, err)
	}
	logger.Debug("Produced %d chunks", len(segments))

	report := &domain.IngestReport{
		Path:            key,
		ChunksExtracted: len(segments),
	}

	if len(segments) > 0 {
		prefix := ChunkIDPrefix(key)
		chunks := make([]domain.Chunk, len(segments))
		for i, seg := range segments {
			chunks[i] = seg.ToChunk(ChunkID(prefix, seg.Position), meta)
		}

		indexed, err := s.index.InsertBatch(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", key, err)
		}
		report.ChunksIndexed = indexed
	} else {
		logger.Warn("No text extracted from %s", key)
	}

	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	report.TotalChunks = stats.TotalChunks
	report.Companies = stats.Companies

	logger.Info("Indexed %d new chunks from %s", report.ChunksIndexed, key)
	return report, nil
}

// ChunkIDPrefix returns the first 8 hex characters of the MD5 of key.
func ChunkIDPrefix(key string) string {
	sum := md5.Sum([]byte(key)) //nolint:gosec // G401: ids only
	return hex.EncodeToString(sum[:])[:8]
}

// ChunkID returns the stored id of the chunk at position within a document.
func ChunkID(prefix string, position int) string {
	return fmt.Sprintf("%s_chunk_%d", prefix, position)
}
