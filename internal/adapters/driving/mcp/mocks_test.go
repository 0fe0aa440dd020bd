package mcp

import (
	"context"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.Metadata
	count   int
	err     error

	lastQuery string
	lastOpts  domain.QueryOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.QueryOptions,
) ([]domain.Metadata, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

// mockSettingsService only answers Resolve; other methods are not used by the server.
type mockSettingsService struct {
	driving.SettingsService
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Resolve() (*domain.AppSettings, error) {
	return m.settings, m.err
}
