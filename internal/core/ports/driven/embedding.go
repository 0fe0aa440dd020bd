// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Every returned vector must be L2-normalised so that cosine similarity
// equals the dot product. Adapters enforce this; the core does not re-check.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, bge-m3)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - The built-in feature-hashing embedder for offline runs
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the VectorStore collection.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable and the model is available.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
