package domain

// DocumentID is the hex-encoded SHA-256 content hash identifying a job posting.
// Two postings with the same company, title and description share an ID.
type DocumentID string

// String returns the hex representation.
func (id DocumentID) String() string {
	return string(id)
}

// Metadata is the retrievable, filterable view of a posting.
// It always carries every key from MetadataFields.
type Metadata map[string]string

// Clone returns a shallow copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Category returns the classification used for filtered search.
func (m Metadata) Category() string {
	return m[FieldCategory]
}

// IndexedDocument is the unit stored in the vector collection.
type IndexedDocument struct {
	// ID is the content-addressed identity and upsert key.
	ID DocumentID

	// Text is the embeddable text built from title, skills and description.
	Text string

	// Metadata is used for filtering and display, not for similarity.
	Metadata Metadata

	// Embedding is the unit-normalised vector of Text.
	Embedding []float32
}

// Filter is an equality constraint on one metadata field.
type Filter struct {
	// Field is the metadata key to compare.
	Field string

	// Value is the required value.
	Value string
}

// CategoryFilter returns a filter on the classification field,
// or nil when category is empty.
func CategoryFilter(category string) *Filter {
	if category == "" {
		return nil
	}
	return &Filter{Field: FieldCategory, Value: category}
}

// Matches reports whether metadata satisfies the filter.
// A nil filter matches everything.
func (f *Filter) Matches(meta Metadata) bool {
	if f == nil {
		return true
	}
	return meta[f.Field] == f.Value
}
