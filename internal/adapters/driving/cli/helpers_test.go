package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

// mockRetrieverService returns canned search results.
type mockRetrieverService struct {
	results  []domain.SearchResult
	lastOpts domain.RetrieveOptions
}

func (m *mockRetrieverService) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	if m.results != nil {
		return m.results, nil
	}
	return []domain.SearchResult{
		{
			DocumentID:   "doc-1",
			DocumentName: "Master Services Agreement",
			ChunkIndex:   0,
			Score:        0.08,
			ClauseType:   "indemnification",
			Text:         "Contractor shall indemnify and hold harmless the Client.",
		},
	}, nil
}

// mockRetrieverServiceError always fails.
type mockRetrieverServiceError struct{}

func (m *mockRetrieverServiceError) Retrieve(
	_ context.Context,
	_ string,
	_ domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}

// mockIndexerService records calls and returns canned results.
type mockIndexerService struct {
	upserted []*domain.Document
	removed  []string
	result   *driving.UpsertResult
	stats    domain.IndexStats
	err      error
}

func (m *mockIndexerService) Upsert(
	_ context.Context,
	doc *domain.Document,
	_ bool,
) (*driving.UpsertResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.upserted = append(m.upserted, doc)
	if m.result != nil {
		return m.result, nil
	}
	return &driving.UpsertResult{ChunkCount: 2, Fingerprint: "fp"}, nil
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

// mockSettingsService is an in-memory driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	saved    []domain.Settings
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings()}
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = settings
	m.saved = append(m.saved, settings)
	return nil
}

// setupTestServices installs mock services into the package-level
// variables and returns a cleanup that restores the previous ones.
func setupTestServices() func() {
	oldIndexer := indexerService
	oldRetriever := retrieverService
	oldSettings := settingsService

	indexerService = &mockIndexerService{}
	retrieverService = &mockRetrieverService{}
	settingsService = newMockSettingsService()

	return func() {
		indexerService = oldIndexer
		retrieverService = oldRetriever
		settingsService = oldSettings
	}
}
