package driven

import (
	"context"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

// VectorStore persists job documents with their embeddings and answers
// nearest-neighbour queries under cosine similarity.
//
// Opening a store (locating or creating the named collection) is the job of
// each adapter's constructor.
type VectorStore interface {
	// Upsert inserts documents, replacing any existing document with the same ID.
	// Repeating an upsert with identical input leaves the collection unchanged.
	Upsert(ctx context.Context, docs []domain.IndexedDocument) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Query returns up to topK documents most similar to vector, best first.
	// A nil filter matches every document.
	Query(ctx context.Context, vector []float32, topK int, filter *domain.Filter) ([]VectorHit, error)

	// Reset drops the collection and recreates it empty.
	// A missing collection is not an error.
	Reset(ctx context.Context) error

	// Name returns the collection name.
	Name() string

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched document.
	ID domain.DocumentID

	// Similarity is the cosine similarity score.
	Similarity float64

	// Metadata is the stored metadata of the document.
	Metadata domain.Metadata
}
