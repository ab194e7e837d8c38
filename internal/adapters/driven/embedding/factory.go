// Package embedding builds the configured embedding service.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/huggingface"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// New creates the embedding service selected by settings.
// Remote providers are throttled when RequestsPerSecond is set.
func New(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s needs an API key, run 'filingvec config set-key'",
			domain.ErrEmbeddingUnavailable, settings.Provider.Description())
	}

	svc, err := create(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	if settings.Provider.IsRemote() {
		svc = ratelimit.Wrap(svc, settings.RequestsPerSecond, ratelimit.DefaultBurst)
	}
	return svc, nil
}

// Check creates the configured service and pings it.
func Check(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := New(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

func create(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	switch settings.Provider {
	case domain.EmbeddingProviderLocal:
		return local.NewEmbeddingService(local.WithDimensions(dimensions)), nil

	case domain.EmbeddingProviderHuggingFace:
		return huggingface.NewEmbeddingService(huggingface.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.EmbeddingProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}
