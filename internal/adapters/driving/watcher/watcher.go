// Package watcher ingests documents as they appear in a directory.
//
// Create and write events for supported files are debounced, so a file that
// is still being copied is ingested once after writes stop. Chunk ids are
// keyed by path, which makes re-ingesting an already indexed file a no-op;
// edits to an indexed file only add chunks at positions it did not have.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// DefaultDebounce is the quiet period after the last write before a file is ingested.
const DefaultDebounce = 500 * time.Millisecond

// Result reports the outcome of ingesting one file.
type Result struct {
	Path   string
	Report *domain.IngestReport
	Err    error
}

// Watcher ingests supported files written into a directory.
type Watcher struct {
	ingest       driving.IngestService
	extractors   driven.ExtractorRegistry
	meta         driving.IngestMetadata
	debounce     time.Duration
	initialScan  bool
	handleResult func(Result)

	mu      sync.Mutex
	pending map[string]time.Time
}

// minTick bounds how often pending files are checked.
const minTick = time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before ingestion.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialScan ingests files already in the directory when Run starts.
func WithInitialScan(enabled bool) Option {
	return func(w *Watcher) {
		w.initialScan = enabled
	}
}

// WithResultHandler receives every ingestion result.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) {
		w.handleResult = fn
	}
}

// New creates a watcher that tags ingested chunks with meta.
func New(
	ingest driving.IngestService,
	extractors driven.ExtractorRegistry,
	meta driving.IngestMetadata,
	opts ...Option,
) *Watcher {
	w := &Watcher{
		ingest:       ingest,
		extractors:   extractors,
		meta:         meta,
		debounce:     DefaultDebounce,
		handleResult: func(Result) {},
		pending:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches dir until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s", dir)

	if w.initialScan {
		if err := w.scan(ctx, dir); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(max(w.debounce/2, minTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.shouldHandle(event) {
				logger.Debug("watch: %s %s", event.Op, event.Name)
				w.mark(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				w.ingestFile(ctx, path)
			}
		}
	}
}

// shouldHandle reports whether an event names a supported, visible regular
// file that was created or written.
func (w *Watcher) shouldHandle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if !w.extractors.Supports(event.Name) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return true
}

func (w *Watcher) mark(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// due removes and returns the paths whose last event is older than the debounce period.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *Watcher) scan(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if w.extractors.Supports(path) {
			w.ingestFile(ctx, path)
		}
	}
	return nil
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	report, err := w.ingest.IngestFile(ctx, path, w.meta)
	if err != nil {
		logger.Warn("ingest %s: %v", path, err)
	} else {
		logger.Info("Ingested %s: %d new chunks (%d total)", filepath.Base(path), report.ChunksIndexed, report.TotalChunks)
	}
	w.handleResult(Result{Path: path, Report: report, Err: err})
}
