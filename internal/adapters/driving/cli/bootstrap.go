package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/filingvec/internal/adapters/driven/config/file"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/core/services"
	"github.com/custodia-labs/filingvec/internal/extractors"
	"github.com/custodia-labs/filingvec/internal/logger"
	"github.com/custodia-labs/filingvec/internal/postprocessors/chunker"
)

// API key environment variables, consulted when the config has no key.
//
//nolint:gosec // G101: variable names, not credentials.
var apiKeyEnv = map[domain.EmbeddingProvider]string{
	domain.EmbeddingProviderHuggingFace: "HUGGINGFACE_API_TOKEN",
	domain.EmbeddingProviderOpenAI:      "OPENAI_API_KEY",
}

// bootstrap wires the adapters into the core services.
// With settingsOnly set, the store and embedding service are not opened.
func bootstrap(settingsOnly bool) (*Services, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	svc := &Services{
		Settings:   settingsService,
		Extractors: extractors.NewDefaultRegistry(),
		Close:      func() error { return nil },
	}
	if settingsOnly {
		return svc, nil
	}

	settings, err := effectiveSettings(settingsService)
	if err != nil {
		return nil, err
	}

	chunks, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring chunker: %w", err)
	}

	embedder, err := embedding.New(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	logger.Debug("Embedding: %s (%s, %d dims)", settings.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())

	store, err := openStore(dir, settings.Store)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	index := services.NewIndexService(store, embedder)
	svc.Index = index
	svc.Ingest = services.NewIngestService(svc.Extractors, chunks, index)
	svc.Close = func() error {
		return errors.Join(embedder.Close(), store.Close())
	}
	return svc, nil
}

// effectiveSettings applies environment and flag overrides to the stored settings.
func effectiveSettings(settingsService *services.SettingsService) (*domain.AppSettings, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	applyAPIKeyEnv(&settings.Embedding)
	if storeBackend != "" {
		settings.Store.Backend = domain.StoreBackend(storeBackend)
	}
	return settings, nil
}

// applyAPIKeyEnv fills a missing API key from the provider's environment variable.
func applyAPIKeyEnv(e *domain.EmbeddingSettings) {
	if e.APIKey != "" {
		return
	}
	if name, ok := apiKeyEnv[e.Provider]; ok {
		e.APIKey = os.Getenv(name)
	}
}

func dataDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return file.DefaultDir()
}

// openStore opens the configured vector store. A relative path is resolved
// against the data directory.
func openStore(dir string, cfg domain.StoreSettings) (driven.VectorStore, error) {
	path := cfg.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	switch cfg.Backend {
	case domain.StoreBackendJSON:
		if path == "" {
			path = filepath.Join(dir, jsonfile.DefaultFileName)
		}
		logger.Debug("Store: json %s", path)
		return jsonfile.NewVectorStore(path)

	case domain.StoreBackendSQLite:
		if path == "" {
			path = filepath.Join(dir, sqlite.DefaultFileName)
		}
		logger.Debug("Store: sqlite %s", path)
		return sqlite.NewVectorStore(path)

	case domain.StoreBackendMemory:
		logger.Debug("Store: memory")
		return memory.NewVectorStore(), nil

	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
