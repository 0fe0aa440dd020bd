package driving

import (
	"context"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// IndexService builds the job index from a record stream.
type IndexService interface {
	// Build ingests every record from src. Records are deduplicated by
	// content identity within the run, records without embeddable text are
	// skipped, and the rest are embedded and upserted in batches.
	Build(ctx context.Context, src driven.RecordSource, opts domain.BuildOptions) (*domain.BuildStats, error)
}
