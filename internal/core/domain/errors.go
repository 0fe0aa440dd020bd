package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates a source line could not be decoded.
	// Ingestion skips the line and continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch indicates a vector does not match the collection dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrProviderFailure indicates the embedding provider call failed.
	// It aborts the current ingestion run or query.
	ErrProviderFailure = errors.New("embedding provider failure")

	// ErrStoreFailure indicates a vector store call failed.
	// It aborts the current ingestion run or query.
	ErrStoreFailure = errors.New("vector store failure")
)

// MalformedRecordError reports an undecodable line in a record source.
type MalformedRecordError struct {
	// Line is the 1-based line number in the source.
	Line int

	// Err is the decoding error.
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %v: %v", e.Line, ErrMalformedRecord, e.Err)
}

// Is matches ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Batch operations reported by BatchError.
const (
	OpEmbed  = "embed"
	OpUpsert = "upsert"
	OpReset  = "reset"
)

// BatchError reports a failed flush during ingestion. Batches before
// Offset were committed; this batch and everything after were not.
type BatchError struct {
	// Op is the failing step (OpEmbed or OpUpsert).
	Op string

	// Offset is the index of the batch's first accepted record.
	Offset int

	// Size is the number of documents in the batch.
	Size int

	// Err is the underlying failure.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch at offset %d (%d documents): %v", e.Op, e.Offset, e.Size, e.Err)
}

// Is matches ErrProviderFailure for embed failures and ErrStoreFailure otherwise.
func (e *BatchError) Is(target error) bool {
	if e.Op == OpEmbed {
		return target == ErrProviderFailure
	}
	return target == ErrStoreFailure
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// maxQueryContext bounds how much of the query text is kept in errors.
const maxQueryContext = 80

// QueryError reports a failed search with the query that caused it.
type QueryError struct {
	// Query is the (possibly truncated) query text.
	Query string

	// Op is the failing step (OpEmbed or "count"/"query").
	Op string

	// Err is the underlying failure.
	Err error
}

// NewQueryError builds a QueryError, truncating long query text.
func NewQueryError(query, op string, err error) *QueryError {
	runes := []rune(query)
	if len(runes) > maxQueryContext {
		query = string(runes[:maxQueryContext]) + "..."
	}
	return &QueryError{Query: query, Op: op, Err: err}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("search %q: %s: %v", e.Query, e.Op, e.Err)
}

// Is matches ErrProviderFailure for embed failures and ErrStoreFailure otherwise.
func (e *QueryError) Is(target error) bool {
	if e.Op == OpEmbed {
		return target == ErrProviderFailure
	}
	return target == ErrStoreFailure
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
