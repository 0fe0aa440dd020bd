package services

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"sync"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/vectormath"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors come from the vectors map when present, otherwise from a hash of the text.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	embedErr   error
	failOnCall int // 1-based EmbedBatch call that fails; 0 never
	batchCalls int
	batchSizes []int
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return vectormath.Normalize(append([]float32(nil), v...))
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum32()
	return vectormath.Normalize([]float32{
		float32(sum&0xff) + 1,
		float32((sum>>8)&0xff) + 1,
		float32((sum>>16)&0xff) + 1,
	})
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.embedErr != nil && (m.failOnCall == 0 || m.failOnCall == m.batchCalls) {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCalls
}

func (m *mockEmbeddingService) Dimensions() int   { return 3 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// countingStore wraps the memory store, counting calls and injecting errors.
type countingStore struct {
	*memory.VectorStore

	mu          sync.Mutex
	upsertCalls int
	queryCalls  int
	filters     []*domain.Filter
	upsertErr   error
	failUpsert  int // 1-based Upsert call that fails; 0 never
	queryErr    error
	countErr    error
	resetErr    error
}

func newCountingStore() *countingStore {
	return &countingStore{VectorStore: memory.NewVectorStore("jobs")}
}

func (s *countingStore) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	s.mu.Lock()
	s.upsertCalls++
	call := s.upsertCalls
	s.mu.Unlock()
	if s.upsertErr != nil && (s.failUpsert == 0 || s.failUpsert == call) {
		return s.upsertErr
	}
	return s.VectorStore.Upsert(ctx, docs)
}

func (s *countingStore) Count(ctx context.Context) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.VectorStore.Count(ctx)
}

func (s *countingStore) Query(
	ctx context.Context, vector []float32, topK int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	s.mu.Lock()
	s.queryCalls++
	s.filters = append(s.filters, filter)
	s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.VectorStore.Query(ctx, vector, topK, filter)
}

func (s *countingStore) Reset(ctx context.Context) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	return s.VectorStore.Reset(ctx)
}

// sourceItem is one Next result of a sliceSource.
type sourceItem struct {
	rec domain.JobRecord
	err error
}

// sliceSource implements driven.RecordSource over a fixed slice.
type sliceSource struct {
	items    []sourceItem
	pos      int
	total    int
	totalErr error
	nextErr  error
}

func newSliceSource(records ...domain.JobRecord) *sliceSource {
	items := make([]sourceItem, len(records))
	for i, rec := range records {
		items[i] = sourceItem{rec: rec}
	}
	return &sliceSource{items: items, total: len(records)}
}

func (s *sliceSource) Next(_ context.Context) (domain.JobRecord, error) {
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item.rec, item.err
}

func (s *sliceSource) Total(_ context.Context) (int, error) {
	return s.total, s.totalErr
}

func (s *sliceSource) Close() error {
	return nil
}

// job builds a record with the identity and text fields set.
func job(company, title, description string, extra ...string) domain.JobRecord {
	rec := domain.JobRecord{
		domain.FieldCompany:     company,
		domain.FieldTitle:       title,
		domain.FieldDescription: description,
	}
	for i := 0; i+1 < len(extra); i += 2 {
		rec[extra[i]] = extra[i+1]
	}
	return rec
}

var errBoom = errors.New("boom")
