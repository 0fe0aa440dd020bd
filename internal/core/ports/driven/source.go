package driven

import (
	"context"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

// RecordSource yields raw job records one at a time.
type RecordSource interface {
	// Next returns the next record. It returns io.EOF when the source is
	// exhausted, and a *domain.MalformedRecordError for an undecodable line,
	// after which reading may continue.
	Next(ctx context.Context) (domain.JobRecord, error)

	// Total returns the number of records the source expects to yield,
	// or 0 when unknown. Used for progress reporting only.
	Total(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
