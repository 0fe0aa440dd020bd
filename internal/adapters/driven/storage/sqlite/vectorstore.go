package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/vectormath"
)

// MetricCosine is the only distance metric collections are created with.
const MetricCosine = "cosine"

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is one named collection inside a Store.
type VectorStore struct {
	store     *Store
	name      string
	ownsStore bool
}

// VectorStore opens the named collection, creating it if it does not exist.
// The returned handle shares the Store's connection; closing it does not
// close the Store.
func (s *Store) VectorStore(ctx context.Context, name string) (*VectorStore, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}
	if err := s.ensureCollection(ctx, name); err != nil {
		return nil, err
	}
	return &VectorStore{store: s, name: name}, nil
}

// OpenVectorStore opens a database in dataDir and the named collection in it.
// Closing the returned handle closes the database.
func OpenVectorStore(ctx context.Context, dataDir, name string) (*VectorStore, error) {
	store, err := NewStore(ctx, dataDir)
	if err != nil {
		return nil, err
	}
	vs, err := store.VectorStore(ctx, name)
	if err != nil {
		store.Close()
		return nil, err
	}
	vs.ownsStore = true
	return vs, nil
}

func (s *Store) ensureCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (name, metric) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		name, MetricCosine)
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", name, err)
	}
	return nil
}

// Upsert inserts documents in a single transaction, replacing rows with the same ID.
func (v *VectorStore) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// A reset between open and upsert drops the collection row.
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name, metric) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		v.name, MetricCosine); err != nil {
		return fmt.Errorf("creating collection %s: %w", v.name, err)
	}

	var dims int
	if err := tx.QueryRowContext(ctx,
		"SELECT dimensions FROM collections WHERE name = ?", v.name).Scan(&dims); err != nil {
		return fmt.Errorf("reading collection dimensions: %w", err)
	}

	if dims == 0 {
		dims = len(docs[0].Embedding)
		if _, err := tx.ExecContext(ctx,
			"UPDATE collections SET dimensions = ? WHERE name = ?", dims, v.name); err != nil {
			return fmt.Errorf("recording collection dimensions: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, document, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i := range docs {
		doc := &docs[i]
		if len(doc.Embedding) != dims {
			return fmt.Errorf("%w: document %s has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, doc.ID, len(doc.Embedding), dims)
		}

		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			v.name, doc.ID.String(), doc.Text, string(metadataJSON), vectormath.Encode(doc.Embedding),
		); err != nil {
			return fmt.Errorf("upserting document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?", v.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Query scans the collection and ranks documents by cosine similarity.
// Ties keep insertion order.
func (v *VectorStore) Query(
	ctx context.Context, vector []float32, topK int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return []driven.VectorHit{}, nil
	}

	var dims int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT dimensions FROM collections WHERE name = ?", v.name).Scan(&dims)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading collection dimensions: %w", err)
	}
	if dims != 0 && len(vector) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d",
			domain.ErrDimensionMismatch, len(vector), dims)
	}

	query, args := selectForQuery(v.name, filter)
	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var (
		candidates []driven.VectorHit
		scores     []vectormath.Scored
	)
	for rows.Next() {
		var (
			id           string
			metadataJSON string
			blob         []byte
		)
		if err := rows.Scan(&id, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		embedding, err := vectormath.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", id, err)
		}

		var meta domain.Metadata
		if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", id, err)
		}

		scores = append(scores, vectormath.Scored{
			Index: len(candidates),
			Score: vectormath.Cosine(vector, embedding),
		})
		candidates = append(candidates, driven.VectorHit{
			ID:       domain.DocumentID(id),
			Metadata: meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	top := vectormath.TopK(scores, topK)
	hits := make([]driven.VectorHit, len(top))
	for i, sc := range top {
		hit := candidates[sc.Index]
		hit.Similarity = sc.Score
		hits[i] = hit
	}
	return hits, nil
}

// selectForQuery builds the candidate scan for a collection and optional filter.
func selectForQuery(collection string, filter *domain.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT id, metadata, embedding FROM documents WHERE collection = ?")
	args := []any{collection}

	if filter != nil {
		if filter.Field == domain.FieldCategory {
			// Matches the expression index on job_category.
			b.WriteString(" AND json_extract(metadata, '$.job_category') = ?")
		} else {
			b.WriteString(" AND json_extract(metadata, ?) = ?")
			args = append(args, jsonPath(filter.Field))
		}
		args = append(args, filter.Value)
	}

	b.WriteString(" ORDER BY rowid")
	return b.String(), args
}

// jsonPath quotes a metadata key for json_extract.
func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

// Reset drops every document in the collection and forgets its dimensions.
func (v *VectorStore) Reset(ctx context.Context) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", v.name); err != nil {
		return fmt.Errorf("dropping collection %s: %w", v.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO collections (name, metric) VALUES (?, ?)", v.name, MetricCosine); err != nil {
		return fmt.Errorf("recreating collection %s: %w", v.name, err)
	}
	return tx.Commit()
}

// Name returns the collection name.
func (v *VectorStore) Name() string {
	return v.name
}

// Close closes the database if this handle opened it.
func (v *VectorStore) Close() error {
	if v.ownsStore {
		return v.store.Close()
	}
	return nil
}
