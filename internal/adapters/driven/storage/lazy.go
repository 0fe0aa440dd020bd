package storage

import (
	"context"
	"sync"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// Ensure Lazy implements the interface.
var _ driven.VectorStore = (*Lazy)(nil)

// Lazy opens a vector store on first use and shares the handle, or the
// open error, with every later caller.
type Lazy struct {
	get  func() (driven.VectorStore, error)
	name string

	mu     sync.Mutex
	opened bool
}

// NewLazy wraps open. name is reported by Name before the store is opened.
func NewLazy(open func() (driven.VectorStore, error), name string) *Lazy {
	l := &Lazy{name: name}
	l.get = sync.OnceValues(func() (driven.VectorStore, error) {
		vs, err := open()
		l.mu.Lock()
		l.opened = true
		l.mu.Unlock()
		return vs, err
	})
	return l
}

// NewLazyVectorStore defers CreateVectorStore until first use.
func NewLazyVectorStore(settings *domain.VectorStoreSettings) *Lazy {
	name := domain.DefaultCollection
	if settings != nil && settings.Collection != "" {
		name = settings.Collection
	}
	return NewLazy(func() (driven.VectorStore, error) {
		return CreateVectorStore(context.Background(), settings)
	}, name)
}

// Upsert inserts or replaces documents.
func (l *Lazy) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	vs, err := l.get()
	if err != nil {
		return err
	}
	return vs.Upsert(ctx, docs)
}

// Count returns the number of documents.
func (l *Lazy) Count(ctx context.Context) (int, error) {
	vs, err := l.get()
	if err != nil {
		return 0, err
	}
	return vs.Count(ctx)
}

// Query returns the documents most similar to vector.
func (l *Lazy) Query(
	ctx context.Context, vector []float32, topK int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	vs, err := l.get()
	if err != nil {
		return nil, err
	}
	return vs.Query(ctx, vector, topK, filter)
}

// Reset drops and recreates the collection.
func (l *Lazy) Reset(ctx context.Context) error {
	vs, err := l.get()
	if err != nil {
		return err
	}
	return vs.Reset(ctx)
}

// Name returns the collection name.
func (l *Lazy) Name() string {
	return l.name
}

// Close closes the underlying store if it was opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	opened := l.opened
	l.mu.Unlock()
	if !opened {
		return nil
	}
	vs, err := l.get()
	if err != nil {
		return nil
	}
	return vs.Close()
}
