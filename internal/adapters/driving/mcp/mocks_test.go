package mcp

import (
	"context"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

// mockRetrieverService is a mock implementation of driving.RetrieverService.
type mockRetrieverService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockRetrieverService) Retrieve(
	_ context.Context,
	_ string,
	_ domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockIndexerService is a mock implementation of driving.IndexerService.
type mockIndexerService struct {
	result  *driving.UpsertResult
	stats   domain.IndexStats
	err     error
	removed []string
}

func (m *mockIndexerService) Upsert(
	_ context.Context,
	_ *domain.Document,
	_ bool,
) (*driving.UpsertResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &driving.UpsertResult{}, nil
}

func (m *mockIndexerService) Remove(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, documentID)
	return nil
}

func (m *mockIndexerService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}
