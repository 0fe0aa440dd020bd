package domain

// DefaultBatchSize is the number of documents embedded and upserted per call.
const DefaultBatchSize = 32

// BuildOptions configures an ingestion run.
type BuildOptions struct {
	// BatchSize is the flush threshold. Values <= 0 use DefaultBatchSize.
	BatchSize int

	// MaxItems caps the number of accepted records. Zero means no cap.
	MaxItems int

	// Reset drops and recreates the target collection before ingesting.
	Reset bool

	// Progress, when set, is called once per processed source record.
	Progress func(Progress)
}

// EffectiveBatchSize returns the batch size with the default applied.
func (o BuildOptions) EffectiveBatchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

// Progress reports how far an ingestion run has got.
type Progress struct {
	// Processed is the number of source records consumed so far,
	// including skipped ones.
	Processed int

	// Total is the expected number of records, or 0 if unknown.
	Total int

	// Indexed is the number of records accepted for indexing so far.
	Indexed int
}

// Fraction returns progress in [0, 1], or 0 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Processed) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// BuildStats summarises an ingestion run.
type BuildStats struct {
	// Indexed is the number of documents embedded and upserted.
	Indexed int

	// Processed is the number of source records consumed.
	Processed int

	// Duplicates counts records dropped because their ID was already seen this run.
	Duplicates int

	// Empty counts records with no embeddable text.
	Empty int

	// Malformed counts source lines that could not be decoded.
	Malformed int

	// Batches is the number of embed+upsert flushes.
	Batches int
}
