package domain

// DefaultTopK is the number of matches returned when none is requested.
const DefaultTopK = 20

// QueryOptions configures a job search.
type QueryOptions struct {
	// TopK is the maximum number of results. Values <= 0 use DefaultTopK.
	TopK int

	// Category restricts results to postings with this job_category.
	// When the filtered query finds nothing, an unfiltered query is used instead.
	Category string
}

// EffectiveTopK returns TopK with the default applied.
func (o QueryOptions) EffectiveTopK() int {
	if o.TopK <= 0 {
		return DefaultTopK
	}
	return o.TopK
}
