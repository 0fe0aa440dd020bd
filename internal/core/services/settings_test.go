package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// mockAIValidator records validated configurations.
type mockAIValidator struct {
	validated *domain.EmbeddingSettings
	err       error
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.validated = config
	return m.err
}

func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	service.SetEnvLookup(envMap(env))
	return service, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettingsService(nil)
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.local_only", false)
	_ = store.Set("vector_store.backend", "qdrant")
	_ = store.Set("vector_store.qdrant_port", int64(7000))
	_ = store.Set("index.batch_size", 64)
	_ = store.Set("search.cache_size", 0)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.False(t, settings.Embedding.LocalOnly)
	assert.Equal(t, domain.VectorBackendQdrant, settings.VectorStore.Backend)
	assert.Equal(t, 7000, settings.VectorStore.QdrantPort)
	assert.Equal(t, 64, settings.Index.BatchSize)
	assert.Equal(t, 0, settings.Search.CacheSize)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	service, store := newTestSettingsService(nil)
	_ = store.Set("embedding.provider", "anthropic")
	_ = store.Set("vector_store.backend", "chroma")
	_ = store.Set("search.top_k", -4)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.VectorStore.Backend, settings.VectorStore.Backend)
	assert.Equal(t, defaults.Search.TopK, settings.Search.TopK)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderOpenAI
	settings.Embedding.APIKey = "sk-test"
	settings.VectorStore.Path = "/var/lib/jobmatch"
	settings.Index.Source = "jobs.jsonl"
	settings.Tracing.Endpoint = "localhost:4317"

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Resolve_EnvOverrides(t *testing.T) {
	service, store := newTestSettingsService(map[string]string{
		EnvStorePath:         "/data/chroma",
		EnvCollection:        "jobs_v2",
		EnvEmbeddingModel:    "bge-m3",
		EnvEmbeddingDevice:   "cuda",
		EnvEmbeddingLocal:    "No",
		EnvEmbeddingProvider: "HASHING",
		EnvVectorBackend:     "memory",
		EnvOTLPEndpoint:      "otel:4317",
	})
	_ = store.Set("vector_store.collection", "stored")

	settings, err := service.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "/data/chroma", settings.VectorStore.Path)
	assert.Equal(t, "jobs_v2", settings.VectorStore.Collection)
	assert.Equal(t, "bge-m3", settings.Embedding.Model)
	assert.Equal(t, "cuda", settings.Embedding.Device)
	assert.False(t, settings.Embedding.LocalOnly)
	assert.Equal(t, domain.AIProviderHashing, settings.Embedding.Provider)
	assert.Equal(t, domain.VectorBackendMemory, settings.VectorStore.Backend)
	assert.Equal(t, "otel:4317", settings.Tracing.Endpoint)

	stored, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "stored", stored.VectorStore.Collection)
}

func TestApplyEnv_LocalOnlyParsing(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"no", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			settings := domain.DefaultAppSettings()
			settings.Embedding.LocalOnly = !tt.expected
			ApplyEnv(&settings, envMap(map[string]string{EnvEmbeddingLocal: tt.value}))
			assert.Equal(t, tt.expected, settings.Embedding.LocalOnly)
		})
	}
}

func TestApplyEnv_IgnoresEmptyAndInvalid(t *testing.T) {
	settings := domain.DefaultAppSettings()
	ApplyEnv(&settings, envMap(map[string]string{
		EnvCollection:        "  ",
		EnvEmbeddingProvider: "cohere",
		EnvVectorBackend:     "chroma",
	}))

	assert.Equal(t, domain.DefaultAppSettings(), settings)

	ApplyEnv(&settings, nil)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestApplyEnv_OpenAIKeyDoesNotOverrideStored(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "stored"
	ApplyEnv(&settings, envMap(map[string]string{EnvOpenAIAPIKey: "env"}))
	assert.Equal(t, "stored", settings.Embedding.APIKey)

	settings.Embedding.APIKey = ""
	ApplyEnv(&settings, envMap(map[string]string{EnvOpenAIAPIKey: "env"}))
	assert.Equal(t, "env", settings.Embedding.APIKey)
}

func TestSettingsService_Set(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	require.NoError(t, service.Set("search.top_k", "5"))
	require.NoError(t, service.Set("embedding.local_only", "false"))
	require.NoError(t, service.Set("vector_store.collection", " jobs_cn "))
	require.NoError(t, service.Set("embedding.provider", "hashing"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Search.TopK)
	assert.False(t, settings.Embedding.LocalOnly)
	assert.Equal(t, "jobs_cn", settings.VectorStore.Collection)
	assert.Equal(t, domain.AIProviderHashing, settings.Embedding.Provider)
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	tests := []struct {
		key   string
		value string
	}{
		{"search.top_k", "many"},
		{"search.top_k", "-1"},
		{"embedding.local_only", "maybe"},
		{"embedding.provider", "anthropic"},
		{"vector_store.backend", "chroma"},
		{"no.such.key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := service.Set(tt.key, tt.value)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	keys := service.Keys()
	assert.Contains(t, keys, "embedding.provider")
	assert.Contains(t, keys, "vector_store.collection")
	assert.Contains(t, keys, "search.top_k")

	keys[0] = "mutated"
	assert.Equal(t, "embedding.provider", service.Keys()[0])
}

func TestSettingsService_Unset(t *testing.T) {
	service, store := newTestSettingsService(nil)
	require.NoError(t, service.Set("search.top_k", "5"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Search.TopK)

	require.NoError(t, service.Unset("search.top_k"))
	_, ok := store.Get("search.top_k")
	assert.False(t, ok)

	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, settings.Search.TopK)

	assert.ErrorIs(t, service.Unset("no.such.key"), domain.ErrInvalidInput)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-test"))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "bge-m3", ""))
	settings, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "bge-m3", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)

	assert.Error(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""))
	assert.Error(t, service.SetEmbeddingProvider("cohere", "", ""))
}

func TestSettingsService_SetVectorBackend(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	require.NoError(t, service.SetVectorBackend(domain.VectorBackendQdrant))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.VectorBackendQdrant, settings.VectorStore.Backend)

	assert.Error(t, service.SetVectorBackend("chroma"))
}

func TestSettingsService_Validate(t *testing.T) {
	service, store := newTestSettingsService(nil)
	require.NoError(t, service.Validate())

	_ = store.Set("embedding.provider", "openai")
	err := service.Validate()
	assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))

	service.SetEnvLookup(envMap(map[string]string{EnvOpenAIAPIKey: "sk"}))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	service, _ := newTestSettingsService(nil)
	assert.NoError(t, service.ValidateEmbeddingConfig())

	validator := &mockAIValidator{err: errBoom}
	service = NewSettingsService(memory.NewConfigStore(), validator)
	service.SetEnvLookup(envMap(map[string]string{EnvEmbeddingModel: "all-minilm"}))

	err := service.ValidateEmbeddingConfig()
	assert.ErrorIs(t, err, errBoom)
	require.NotNil(t, validator.validated)
	assert.Equal(t, "all-minilm", validator.validated.Model)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service, _ := newTestSettingsService(nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
