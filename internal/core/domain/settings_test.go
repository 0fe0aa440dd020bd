package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "hashing is valid", provider: AIProviderHashing, expected: true},
		{name: "empty is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown is invalid", provider: AIProvider("cohere"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_Properties tests key and locality flags
func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.False(t, AIProviderHashing.RequiresAPIKey())

	assert.True(t, AIProviderOllama.IsLocal())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())

	assert.Equal(t, "ollama", AIProviderOllama.String())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

// TestEmbeddingSettings_IsConfigured tests configuration checks
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

// TestEmbeddingSettings_EffectiveDimensions tests dimension resolution
func TestEmbeddingSettings_EffectiveDimensions(t *testing.T) {
	assert.Equal(t, 768, EmbeddingSettings{Model: "nomic-embed-text"}.EffectiveDimensions())
	assert.Equal(t, 1536, EmbeddingSettings{Model: "text-embedding-3-small"}.EffectiveDimensions())
	assert.Equal(t, 64, EmbeddingSettings{Model: "nomic-embed-text", Dimensions: 64}.EffectiveDimensions())
	assert.Equal(t, DefaultDimensions, EmbeddingSettings{Model: "mystery"}.EffectiveDimensions())
}

// TestVectorBackend tests backend validation and properties
func TestVectorBackend(t *testing.T) {
	for _, b := range AllVectorBackends() {
		assert.True(t, b.IsValid(), b.String())
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, VectorBackend("chroma").IsValid())
	assert.True(t, VectorBackendSQLite.IsPersistent())
	assert.True(t, VectorBackendQdrant.IsPersistent())
	assert.False(t, VectorBackendMemory.IsPersistent())
}

// TestDefaultAppSettings tests default configuration values
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", s.Embedding.Model)
	assert.Equal(t, "cpu", s.Embedding.Device)
	assert.True(t, s.Embedding.LocalOnly)
	assert.Equal(t, VectorBackendSQLite, s.VectorStore.Backend)
	assert.Equal(t, "offline_jobs", s.VectorStore.Collection)
	assert.Empty(t, s.VectorStore.Path)
	assert.Equal(t, 32, s.Index.BatchSize)
	assert.Equal(t, 20, s.Search.TopK)
	assert.Equal(t, 128, s.Search.CacheSize)
	assert.Empty(t, s.Tracing.Endpoint)
}

// TestDefaultEmbeddingModels tests that every provider has a known model
func TestDefaultEmbeddingModels(t *testing.T) {
	models := DefaultEmbeddingModels()
	dims := EmbeddingDimensions()
	for _, p := range AllEmbeddingProviders() {
		model, ok := models[p]
		assert.True(t, ok, p.String())
		assert.Contains(t, dims, model)
	}
}
