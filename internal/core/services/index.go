package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/logger"
	"github.com/custodia-labs/jobmatch/internal/observability"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexService = (*IndexBuilder)(nil)

// IndexBuilder turns a stream of job records into the vector index.
// Runs are single-threaded and batches are flushed in order.
type IndexBuilder struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIndexBuilder creates a new index builder.
func NewIndexBuilder(embedder driven.EmbeddingService, store driven.VectorStore) *IndexBuilder {
	return &IndexBuilder{
		embedder: embedder,
		store:    store,
	}
}

// Build ingests every record from src into the vector store.
//
// Records are identified by their content hash; only the first occurrence
// within a run is kept. Records without embeddable text are skipped.
// Accepted records are embedded and upserted every BatchSize documents and
// once more at the end of the stream. A failing batch aborts the run with a
// *domain.BatchError; batches flushed before it stay committed.
//
//nolint:gocognit // Sequential pipeline with per-record bookkeeping
func (b *IndexBuilder) Build(
	ctx context.Context, src driven.RecordSource, opts domain.BuildOptions,
) (*domain.BuildStats, error) {
	if b.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if b.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil record source", domain.ErrInvalidInput)
	}
	if opts.MaxItems < 0 {
		return nil, fmt.Errorf("%w: max items must not be negative", domain.ErrInvalidInput)
	}

	logger.Section("Index Build")
	batchSize := opts.EffectiveBatchSize()
	logger.Debug("Collection: %s, model: %s, batch size: %d, max items: %d",
		b.store.Name(), b.embedder.ModelName(), batchSize, opts.MaxItems)

	if opts.Reset {
		logger.Info("Resetting collection %s", b.store.Name())
		if err := b.store.Reset(ctx); err != nil {
			return nil, &domain.BatchError{Op: domain.OpReset, Err: err}
		}
	}

	total := b.expectedTotal(ctx, src, opts.MaxItems)
	stats := &domain.BuildStats{}
	seen := make(map[domain.DocumentID]struct{})
	batch := make([]domain.IndexedDocument, 0, batchSize)
	batchOffset := 0

	report := func() {
		if opts.Progress != nil {
			opts.Progress(domain.Progress{
				Processed: stats.Processed,
				Total:     total,
				Indexed:   stats.Indexed,
			})
		}
	}

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := b.flush(ctx, batch, batchOffset); err != nil {
			return err
		}
		stats.Batches++
		batchOffset = stats.Indexed
		batch = make([]domain.IndexedDocument, 0, batchSize)
		return nil
	}

	for opts.MaxItems == 0 || stats.Indexed < opts.MaxItems {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var malformed *domain.MalformedRecordError
			if errors.As(err, &malformed) {
				stats.Processed++
				stats.Malformed++
				logger.Debug("Skipping malformed record: %v", malformed)
				report()
				continue
			}
			return stats, fmt.Errorf("read record: %w", err)
		}
		stats.Processed++

		id := domain.Identity(rec)
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			logger.Debug("Skipping duplicate %s", id)
			report()
			continue
		}
		seen[id] = struct{}{}

		text := domain.BuildText(rec)
		if text == "" {
			stats.Empty++
			logger.Debug("Skipping %s: no embeddable text", id)
			report()
			continue
		}

		batch = append(batch, domain.IndexedDocument{
			ID:       id,
			Text:     text,
			Metadata: domain.BuildMetadata(rec),
		})
		stats.Indexed++
		report()

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	logger.Info("Indexed %d jobs (%d processed, %d duplicates, %d empty, %d malformed, %d batches)",
		stats.Indexed, stats.Processed, stats.Duplicates, stats.Empty, stats.Malformed, stats.Batches)

	return stats, nil
}

// flush embeds one batch in a single call and upserts it in a single call.
func (b *IndexBuilder) flush(ctx context.Context, batch []domain.IndexedDocument, offset int) (err error) {
	ctx, span := observability.StartFlushSpan(ctx, offset, len(batch))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Text
	}

	logger.Debug("Embedding batch at offset %d (%d documents)", offset, len(batch))
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return &domain.BatchError{Op: domain.OpEmbed, Offset: offset, Size: len(batch), Err: err}
	}
	if len(vectors) != len(batch) {
		return &domain.BatchError{
			Op:     domain.OpEmbed,
			Offset: offset,
			Size:   len(batch),
			Err:    fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vectors)),
		}
	}
	for i := range batch {
		batch[i].Embedding = vectors[i]
	}

	if err := b.store.Upsert(ctx, batch); err != nil {
		return &domain.BatchError{Op: domain.OpUpsert, Offset: offset, Size: len(batch), Err: err}
	}
	return nil
}

// expectedTotal returns the progress total: the source's record count,
// capped by maxItems. An unknown count with a cap reports the cap.
func (b *IndexBuilder) expectedTotal(ctx context.Context, src driven.RecordSource, maxItems int) int {
	total, err := src.Total(ctx)
	if err != nil {
		logger.Warn("Could not count source records: %v", err)
		total = 0
	}
	if maxItems > 0 && (total == 0 || total > maxItems) {
		total = maxItems
	}
	return total
}
