package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/vectormath"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Contents are lost when the process exits.
type VectorStore struct {
	mu         sync.RWMutex
	name       string
	dimensions int
	order      []domain.DocumentID
	documents  map[domain.DocumentID]domain.IndexedDocument
}

// NewVectorStore creates a new, empty in-memory vector store.
func NewVectorStore(name string) *VectorStore {
	return &VectorStore{
		name:      name,
		documents: make(map[domain.DocumentID]domain.IndexedDocument),
	}
}

// Upsert stores documents, replacing any with the same ID.
func (s *VectorStore) Upsert(_ context.Context, docs []domain.IndexedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range docs {
		doc := docs[i]
		if s.dimensions == 0 {
			s.dimensions = len(doc.Embedding)
		}
		if len(doc.Embedding) != s.dimensions {
			return fmt.Errorf("%w: document %s has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, doc.ID, len(doc.Embedding), s.dimensions)
		}
	}

	for i := range docs {
		doc := docs[i]
		if _, exists := s.documents[doc.ID]; !exists {
			s.order = append(s.order, doc.ID)
		}
		s.documents[doc.ID] = domain.IndexedDocument{
			ID:        doc.ID,
			Text:      doc.Text,
			Metadata:  doc.Metadata.Clone(),
			Embedding: append([]float32(nil), doc.Embedding...),
		}
	}
	return nil
}

// Count returns the number of stored documents.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// Query ranks stored documents by cosine similarity to vector.
func (s *VectorStore) Query(
	_ context.Context, vector []float32, topK int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return []driven.VectorHit{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimensions != 0 && len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d",
			domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	candidates := make([]domain.IndexedDocument, 0, len(s.order))
	scores := make([]vectormath.Scored, 0, len(s.order))
	for _, id := range s.order {
		doc := s.documents[id]
		if !filter.Matches(doc.Metadata) {
			continue
		}
		scores = append(scores, vectormath.Scored{
			Index: len(candidates),
			Score: vectormath.Cosine(vector, doc.Embedding),
		})
		candidates = append(candidates, doc)
	}

	top := vectormath.TopK(scores, topK)
	hits := make([]driven.VectorHit, len(top))
	for i, sc := range top {
		doc := candidates[sc.Index]
		hits[i] = driven.VectorHit{
			ID:         doc.ID,
			Similarity: sc.Score,
			Metadata:   doc.Metadata.Clone(),
		}
	}
	return hits, nil
}

// Get returns a stored document by ID.
func (s *VectorStore) Get(_ context.Context, id domain.DocumentID) (*domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc.Metadata = doc.Metadata.Clone()
	doc.Embedding = append([]float32(nil), doc.Embedding...)
	return &doc, nil
}

// Reset removes every document.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[domain.DocumentID]domain.IndexedDocument)
	s.order = nil
	s.dimensions = 0
	return nil
}

// Name returns the collection name.
func (s *VectorStore) Name() string {
	return s.name
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
