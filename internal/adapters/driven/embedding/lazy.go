// Package embedding holds provider-independent helpers for embedding adapters.
package embedding

import (
	"context"
	"sync"

	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// Ensure Lazy implements the interface.
var _ driven.EmbeddingService = (*Lazy)(nil)

// Lazy defers construction of an embedding service until first use.
// The first caller pays the initialisation cost; later callers share the
// resulting service, or the initialisation error.
type Lazy struct {
	get   func() (driven.EmbeddingService, error)
	model string
	dims  int

	mu     sync.Mutex
	inited bool
}

// NewLazy wraps init. model and dims are reported before initialisation so
// that status output does not force a model load.
func NewLazy(init func() (driven.EmbeddingService, error), model string, dims int) *Lazy {
	l := &Lazy{model: model, dims: dims}
	l.get = sync.OnceValues(func() (driven.EmbeddingService, error) {
		svc, err := init()
		l.mu.Lock()
		l.inited = true
		l.mu.Unlock()
		return svc, err
	})
	return l
}

// Embed generates a vector embedding for the given text.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts.
func (l *Lazy) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size.
func (l *Lazy) Dimensions() int {
	if l.initialised() {
		if svc, err := l.get(); err == nil {
			return svc.Dimensions()
		}
	}
	return l.dims
}

// ModelName returns the name of the embedding model.
func (l *Lazy) ModelName() string {
	if l.initialised() {
		if svc, err := l.get(); err == nil {
			return svc.ModelName()
		}
	}
	return l.model
}

// Ping initialises the service if needed and validates it.
func (l *Lazy) Ping(ctx context.Context) error {
	svc, err := l.get()
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close releases the underlying service if it was ever created.
func (l *Lazy) Close() error {
	if !l.initialised() {
		return nil
	}
	svc, err := l.get()
	if err != nil {
		return nil
	}
	return svc.Close()
}

func (l *Lazy) initialised() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inited
}
