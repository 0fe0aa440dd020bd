package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the built-in offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Device selects where a local model runs ("cpu" or "gpu").
	Device string

	// LocalOnly forbids downloading a model that is not already present.
	LocalOnly bool

	// Dimensions overrides the vector size. Zero uses the model's known size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// EffectiveDimensions returns the configured dimensions, falling back to
// the known size of the model and then to DefaultDimensions.
func (e EmbeddingSettings) EffectiveDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	if d, ok := EmbeddingDimensions()[e.Model]; ok {
		return d
	}
	return DefaultDimensions
}

// VectorBackend identifies a vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite is the embedded, persistent default.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendMemory keeps vectors in process memory only.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendQdrant uses a Qdrant server over gRPC.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendMemory, VectorBackendQdrant:
		return true
	default:
		return false
	}
}

// IsPersistent returns true if the backend survives process restarts.
func (b VectorBackend) IsPersistent() bool {
	return b != VectorBackendMemory
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendSQLite:
		return "SQLite (embedded, persistent)"
	case VectorBackendMemory:
		return "Memory (ephemeral)"
	case VectorBackendQdrant:
		return "Qdrant (server)"
	default:
		return unknownDescription
	}
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Backend selects the store implementation.
	Backend VectorBackend

	// Path is the storage directory for embedded backends.
	Path string

	// Collection is the logical collection name.
	Collection string

	// QdrantHost is the Qdrant gRPC host.
	QdrantHost string

	// QdrantPort is the Qdrant gRPC port.
	QdrantPort int
}

// IndexSettings holds ingestion configuration.
type IndexSettings struct {
	// Source is the default JSON Lines file to ingest.
	Source string

	// BatchSize is the number of documents per embed+upsert call.
	BatchSize int
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// TopK is the default number of results.
	TopK int

	// CacheSize is the number of query embeddings kept in memory.
	CacheSize int
}

// TracingSettings holds OpenTelemetry configuration.
type TracingSettings struct {
	// Endpoint is the OTLP gRPC collector address. Empty disables export.
	Endpoint string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// VectorStore holds vector store settings.
	VectorStore VectorStoreSettings

	// Index holds ingestion settings.
	Index IndexSettings

	// Search holds search behaviour settings.
	Search SearchSettings

	// Tracing holds tracing settings.
	Tracing TracingSettings
}

// Defaults used when nothing is configured.
const (
	DefaultCollection = "offline_jobs"
	DefaultDevice     = "cpu"
	DefaultQdrantPort = 6334
	DefaultCacheSize  = 128

	// DefaultDimensions is used for unknown models.
	DefaultDimensions = 768
)

// DefaultAppSettings returns settings with sensible defaults.
// The store path is left empty and resolved against the config directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     DefaultEmbeddingModels()[AIProviderOllama],
			Device:    DefaultDevice,
			LocalOnly: true,
		},
		VectorStore: VectorStoreSettings{
			Backend:    VectorBackendSQLite,
			Collection: DefaultCollection,
			QdrantHost: "localhost",
			QdrantPort: DefaultQdrantPort,
		},
		Index: IndexSettings{
			BatchSize: DefaultBatchSize,
		},
		Search: SearchSettings{
			TopK:      DefaultTopK,
			CacheSize: DefaultCacheSize,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// AllVectorBackends returns all available vector backends.
func AllVectorBackends() []VectorBackend {
	return []VectorBackend{
		VectorBackendSQLite,
		VectorBackendMemory,
		VectorBackendQdrant,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "fnv-hashing",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		"bge-m3":            1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Built-in
		"fnv-hashing": 512,
	}
}
