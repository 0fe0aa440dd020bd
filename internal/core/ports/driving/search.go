package driving

import (
	"context"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search returns the metadata of the postings most similar to query,
	// best first. An empty index yields an empty result, not an error.
	Search(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.Metadata, error)

	// Count returns the number of indexed postings.
	Count(ctx context.Context) (int, error)
}
