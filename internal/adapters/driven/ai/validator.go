package ai

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/vectormath"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// probeText is embedded to check a provider end to end.
const probeText = "职位名称: Go Engineer\n所需技能: Go, gRPC"

const normTolerance = 1e-3

// ConfigValidator checks that an embedding configuration produces usable vectors.
type ConfigValidator struct {
	create func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)
}

// NewConfigValidator creates a validator that builds services with CreateEmbeddingService.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{create: CreateEmbeddingService}
}

// ValidateEmbedding pings the provider, embeds a probe posting and checks
// that the vector has the configured size and unit length. An unconfigured
// provider is not an error.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	svc, err := v.create(config)
	if err != nil {
		return err
	}
	defer svc.Close() //nolint:errcheck // validation only

	if err := ping(context.Background(), svc, config); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	vec, err := svc.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("%w: probe embedding: %w", domain.ErrProviderFailure, err)
	}
	return checkProbe(vec, svc.Dimensions())
}

func checkProbe(vec []float32, dims int) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: provider returned an empty vector", domain.ErrProviderFailure)
	}
	if dims > 0 && len(vec) != dims {
		return fmt.Errorf("%w: model returned %d dimensions, configured %d; set embedding.dimensions",
			domain.ErrDimensionMismatch, len(vec), dims)
	}
	if n := vectormath.Norm(vec); math.Abs(n-1) > normTolerance {
		return fmt.Errorf("%w: vector norm %.4f is not 1", domain.ErrProviderFailure, n)
	}
	return nil
}
