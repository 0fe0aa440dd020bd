package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDevice     = "embedding.device"
	keyEmbedLocalOnly  = "embedding.local_only"
	keyEmbedDimensions = "embedding.dimensions"
	keyStoreBackend    = "vector_store.backend"
	keyStorePath       = "vector_store.path"
	keyStoreCollection = "vector_store.collection"
	keyQdrantHost      = "vector_store.qdrant_host"
	keyQdrantPort      = "vector_store.qdrant_port"
	keyIndexSource     = "index.source"
	keyIndexBatchSize  = "index.batch_size"
	keySearchTopK      = "search.top_k"
	keySearchCacheSize = "search.cache_size"
	keyTracingEndpoint = "tracing.endpoint"
)

// settingKeys lists every settable key in display order.
var settingKeys = []string{
	keyEmbedProvider,
	keyEmbedModel,
	keyEmbedBaseURL,
	keyEmbedAPIKey,
	keyEmbedDevice,
	keyEmbedLocalOnly,
	keyEmbedDimensions,
	keyStoreBackend,
	keyStorePath,
	keyStoreCollection,
	keyQdrantHost,
	keyQdrantPort,
	keyIndexSource,
	keyIndexBatchSize,
	keySearchTopK,
	keySearchCacheSize,
	keyTracingEndpoint,
}

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvStorePath         = "JOB_CHROMA_PATH"
	EnvCollection        = "JOB_CHROMA_COLLECTION"
	EnvEmbeddingModel    = "JOB_EMBEDDING_MODEL"
	EnvEmbeddingDevice   = "JOB_EMBEDDING_DEVICE"
	EnvEmbeddingLocal    = "JOB_EMBEDDING_LOCAL_ONLY"
	EnvEmbeddingProvider = "JOBMATCH_EMBEDDING_PROVIDER"
	EnvVectorBackend     = "JOBMATCH_VECTOR_BACKEND"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvOTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// defaultOllamaURL is used when a local provider has no base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup used by Resolve.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// Get retrieves stored application settings with defaults applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Device:     s.getString(keyEmbedDevice, defaults.Embedding.Device),
			LocalOnly:  s.getBool(keyEmbedLocalOnly, defaults.Embedding.LocalOnly),
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend:    s.getBackend(defaults.VectorStore.Backend),
			Path:       s.getString(keyStorePath, defaults.VectorStore.Path),
			Collection: s.getString(keyStoreCollection, defaults.VectorStore.Collection),
			QdrantHost: s.getString(keyQdrantHost, defaults.VectorStore.QdrantHost),
			QdrantPort: s.getInt(keyQdrantPort, defaults.VectorStore.QdrantPort),
		},
		Index: domain.IndexSettings{
			Source:    s.getString(keyIndexSource, defaults.Index.Source),
			BatchSize: s.getInt(keyIndexBatchSize, defaults.Index.BatchSize),
		},
		Search: domain.SearchSettings{
			TopK:      s.getInt(keySearchTopK, defaults.Search.TopK),
			CacheSize: s.getIntAllowZero(keySearchCacheSize, defaults.Search.CacheSize),
		},
		Tracing: domain.TracingSettings{
			Endpoint: s.configStore.GetString(keyTracingEndpoint),
		},
	}

	return settings, nil
}

// Resolve returns stored settings with environment overrides applied.
func (s *SettingsService) Resolve() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	ApplyEnv(settings, s.lookupEnv)
	return settings, nil
}

// ApplyEnv overrides settings from environment variables.
// Empty values are ignored.
func ApplyEnv(settings *domain.AppSettings, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvEmbeddingProvider); ok {
		if p := domain.AIProvider(strings.ToLower(v)); p.IsValid() {
			settings.Embedding.Provider = p
		}
	}
	if v, ok := get(EnvEmbeddingModel); ok {
		settings.Embedding.Model = v
	}
	if v, ok := get(EnvEmbeddingDevice); ok {
		settings.Embedding.Device = v
	}
	if v, ok := get(EnvEmbeddingLocal); ok {
		settings.Embedding.LocalOnly = parseLocalOnly(v)
	}
	if v, ok := get(EnvOpenAIAPIKey); ok && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = v
	}
	if v, ok := get(EnvVectorBackend); ok {
		if b := domain.VectorBackend(strings.ToLower(v)); b.IsValid() {
			settings.VectorStore.Backend = b
		}
	}
	if v, ok := get(EnvStorePath); ok {
		settings.VectorStore.Path = v
	}
	if v, ok := get(EnvCollection); ok {
		settings.VectorStore.Collection = v
	}
	if v, ok := get(EnvOTLPEndpoint); ok && settings.Tracing.Endpoint == "" {
		settings.Tracing.Endpoint = v
	}
}

// parseLocalOnly treats "0", "false" and "no" (any case) as false.
func parseLocalOnly(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDevice, settings.Embedding.Device},
		{keyEmbedLocalOnly, settings.Embedding.LocalOnly},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyStoreBackend, settings.VectorStore.Backend.String()},
		{keyStorePath, settings.VectorStore.Path},
		{keyStoreCollection, settings.VectorStore.Collection},
		{keyQdrantHost, settings.VectorStore.QdrantHost},
		{keyQdrantPort, settings.VectorStore.QdrantPort},
		{keyIndexSource, settings.Index.Source},
		{keyIndexBatchSize, settings.Index.BatchSize},
		{keySearchTopK, settings.Search.TopK},
		{keySearchCacheSize, settings.Search.CacheSize},
		{keyTracingEndpoint, settings.Tracing.Endpoint},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return nil
}

// Set updates a single setting by its dotted key.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)

	case keyStoreBackend:
		if !domain.VectorBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid vector backend: %s", domain.ErrInvalidInput, value)
		}
		return s.configStore.Set(key, value)

	case keyEmbedLocalOnly:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	case keyEmbedDimensions, keyQdrantPort, keyIndexBatchSize, keySearchTopK, keySearchCacheSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)

	default:
		if !slices.Contains(settingKeys, key) {
			return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, value)
	}
}

// Unset removes a stored setting so that its default applies again.
func (s *SettingsService) Unset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Delete(key)
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	switch {
	case provider == domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey
	// Dimensions follow the model unless set explicitly afterwards.
	settings.Embedding.Dimensions = 0

	return s.Save(settings)
}

// SetVectorBackend configures the vector store backend.
func (s *SettingsService) SetVectorBackend(backend domain.VectorBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", backend)
	}
	return s.configStore.Set(keyStoreBackend, backend.String())
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Resolve()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.VectorStore.Backend.IsValid() {
		return fmt.Errorf("%w: invalid vector backend: %s",
			domain.ErrVectorStoreUnavailable, settings.VectorStore.Backend)
	}
	if settings.VectorStore.Collection == "" {
		return fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	if settings.VectorStore.Backend == domain.VectorBackendQdrant && settings.VectorStore.QdrantHost == "" {
		return fmt.Errorf("%w: qdrant host is empty", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Resolve()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
