// Package storage creates vector store adapters from settings.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// DefaultDataDir returns ~/.jobmatch/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".jobmatch", "data"), nil
}

// CreateVectorStore opens the configured backend and collection.
func CreateVectorStore(ctx context.Context, settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", domain.ErrVectorStoreUnavailable)
	}

	collection := settings.Collection
	if collection == "" {
		collection = domain.DefaultCollection
	}

	switch settings.Backend {
	case domain.VectorBackendSQLite, "":
		dir := settings.Path
		if dir == "" {
			var err error
			if dir, err = DefaultDataDir(); err != nil {
				return nil, err
			}
		}
		vs, err := sqlite.OpenVectorStore(ctx, dir, collection)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return vs, nil

	case domain.VectorBackendMemory:
		return memory.NewVectorStore(collection), nil

	case domain.VectorBackendQdrant:
		port := settings.QdrantPort
		if port == 0 {
			port = domain.DefaultQdrantPort
		}
		vs, err := qdrant.NewVectorStore(settings.QdrantHost, port, collection)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
		}
		return vs, nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector backend: %q",
			domain.ErrVectorStoreUnavailable, settings.Backend)
	}
}
