// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/embedding"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/jobmatch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/jobmatch/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
// It does not apply when Ollama may pull a missing model.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured. Run 'jobmatch settings set embedding.provider <name>' to fix",
			domain.ErrEmbeddingUnavailable)
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'jobmatch settings show' to check your configuration",
			domain.ErrEmbeddingUnavailable, err)
	}

	if err := ping(ctx, svc, settings); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// NewLazyEmbeddingService returns an embedding service that is created and
// validated on first use. Commands that never embed (status, an empty index)
// do not pay for a model load.
func NewLazyEmbeddingService(settings *domain.EmbeddingSettings) *embedding.Lazy {
	var model string
	var dims int
	if settings != nil {
		model = settings.Model
		dims = settings.EffectiveDimensions()
	}
	return embedding.NewLazy(func() (driven.EmbeddingService, error) {
		return CreateAndValidateEmbeddingService(context.Background(), settings)
	}, model, dims)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("embedding settings are required")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(hashing.Config{
			Dimensions: settings.EffectiveDimensions(),
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
}

func ping(ctx context.Context, svc driven.EmbeddingService, settings *domain.EmbeddingSettings) error {
	timeout := pingTimeout
	if settings.Provider == domain.AIProviderOllama && !settings.LocalOnly {
		timeout = 0
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return svc.Ping(ctx)
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) *ollamaembed.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.EffectiveDimensions(),
		Device:     settings.Device,
		LocalOnly:  settings.LocalOnly,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
