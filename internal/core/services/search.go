package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/logger"
	"github.com/custodia-labs/jobmatch/internal/observability"
)

// Ensure QueryEngine implements the interface.
var _ driving.SearchService = (*QueryEngine)(nil)

// Query steps reported in QueryError.
const (
	opCount = "count"
	opQuery = "query"
)

// QueryEngine answers similarity searches against the job index.
// It is safe for concurrent use.
type QueryEngine struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	cache    *embeddingCache
}

// NewQueryEngine creates a new query engine.
// cacheSize bounds the number of query embeddings kept in memory; zero disables the cache.
func NewQueryEngine(embedder driven.EmbeddingService, store driven.VectorStore, cacheSize int) *QueryEngine {
	return &QueryEngine{
		embedder: embedder,
		store:    store,
		cache:    newEmbeddingCache(cacheSize),
	}
}

// Search returns the metadata of the postings closest to query.
//
// An empty collection short-circuits to an empty result without embedding
// the query. When a category is given and the filtered query finds nothing,
// exactly one unfiltered query is issued and its results are returned.
func (e *QueryEngine) Search(
	ctx context.Context, query string, opts domain.QueryOptions,
) (results []domain.Metadata, err error) {
	if e.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if e.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q", truncateForLog(query))

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.Metadata{}, nil
	}

	topK := opts.EffectiveTopK()
	logger.Debug("Top-k: %d, category: %q", topK, opts.Category)

	ctx, span := observability.StartSearchSpan(ctx, topK, opts.Category)
	var cacheHit, fellBack bool
	defer func() {
		observability.RecordSearchResult(span, len(results), cacheHit, fellBack)
		observability.RecordError(span, err)
		span.End()
	}()

	count, err := e.store.Count(ctx)
	if err != nil {
		logger.Warn("Count failed: %v", err)
		return nil, domain.NewQueryError(query, opCount, err)
	}
	if count == 0 {
		logger.Debug("Collection %s is empty, returning no results", e.store.Name())
		return []domain.Metadata{}, nil
	}
	logger.Debug("Collection %s holds %d documents", e.store.Name(), count)

	vector, cacheHit, err := e.embedQuery(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, domain.NewQueryError(query, domain.OpEmbed, err)
	}

	filter := domain.CategoryFilter(opts.Category)
	hits, err := e.store.Query(ctx, vector, topK, filter)
	if err != nil {
		logger.Warn("Vector query failed: %v", err)
		return nil, domain.NewQueryError(query, opQuery, err)
	}

	if len(hits) == 0 && filter != nil {
		logger.Info("No results in category %q, retrying without filter", opts.Category)
		fellBack = true
		hits, err = e.store.Query(ctx, vector, topK, nil)
		if err != nil {
			logger.Warn("Fallback query failed: %v", err)
			return nil, domain.NewQueryError(query, opQuery, err)
		}
	}

	results = make([]domain.Metadata, len(hits))
	for i, hit := range hits {
		results[i] = hit.Metadata
	}
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// Count returns the number of indexed postings.
func (e *QueryEngine) Count(ctx context.Context) (int, error) {
	if e.store == nil {
		return 0, domain.ErrVectorStoreUnavailable
	}
	return e.store.Count(ctx)
}

// embedQuery returns the query vector, consulting the cache first.
func (e *QueryEngine) embedQuery(ctx context.Context, query string) ([]float32, bool, error) {
	if vector, ok := e.cache.Get(query); ok {
		logger.Debug("Query embedding cache hit")
		return vector, true, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, false, err
	}
	if len(vectors) != 1 {
		return nil, false, domain.ErrProviderFailure
	}

	logger.Debug("Query embedding: %d dimensions", len(vectors[0]))
	e.cache.Put(query, vectors[0])
	return vectors[0], false, nil
}

// truncateForLog shortens long query text such as serialized resumes.
func truncateForLog(s string) string {
	const maxRunes = 120
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
