package driving

import "github.com/custodia-labs/jobmatch/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves stored application settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Resolve returns stored settings with environment overrides applied.
	Resolve() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key (e.g. "search.top_k").
	Set(key, value string) error

	// Unset removes a stored setting so that its default applies again.
	Unset(key string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetVectorBackend configures the vector store backend.
	SetVectorBackend(backend domain.VectorBackend) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error
}
