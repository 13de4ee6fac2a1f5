package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockRetriever := &mockRetrieverService{
			results: []domain.SearchResult{
				{
					DocumentID:    "doc-1",
					DocumentName:  "Master Services Agreement",
					ChunkIndex:    3,
					Score:         0.12,
					SectionTitle:  "Indemnification.",
					SectionNumber: "7.1",
					Citations:     []string{"42 U.S.C. § 1983"},
					ClauseType:    "indemnification",
					Text:          "Contractor shall indemnify and hold harmless...",
				},
			},
		}

		ports := &Ports{Retriever: mockRetriever}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "indemnification", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "Master Services Agreement", output.Results[0].DocumentName)
		assert.Equal(t, 3, output.Results[0].ChunkIndex)
		assert.Equal(t, 0.12, output.Results[0].Score)
		assert.Equal(t, "7.1", output.Results[0].SectionNumber)
		assert.Equal(t, "indemnification", output.Results[0].ClauseType)
		assert.Equal(t, []string{"42 U.S.C. § 1983"}, output.Results[0].Citations)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		mockRetriever := &mockRetrieverService{}
		ports := &Ports{Retriever: mockRetriever}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test", Limit: 0}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockRetriever := &mockRetrieverService{
			err: errors.New("search failed"),
		}

		ports := &Ports{Retriever: mockRetriever}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes a document", func(t *testing.T) {
		mockIndexer := &mockIndexerService{
			result: &driving.UpsertResult{ChunkCount: 4, Fingerprint: "abc123"},
		}

		ports := &Ports{Retriever: &mockRetrieverService{}, Indexer: mockIndexer}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := IndexInput{DocumentID: "doc-1", Name: "NDA", Text: "Confidential..."}
		_, output, err := server.handleIndex(ctx, nil, input)

		require.NoError(t, err)
		assert.False(t, output.Skipped)
		assert.Equal(t, 4, output.ChunkCount)
		assert.Equal(t, "abc123", output.Fingerprint)
	})

	t.Run("errors without an indexer", func(t *testing.T) {
		ports := &Ports{Retriever: &mockRetrieverService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIndex(ctx, nil, IndexInput{DocumentID: "doc-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}

func TestServer_handleRemove(t *testing.T) {
	ctx := context.Background()

	mockIndexer := &mockIndexerService{}
	ports := &Ports{Retriever: &mockRetrieverService{}, Indexer: mockIndexer}
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleRemove(ctx, nil, RemoveInput{DocumentID: "doc-1"})

	require.NoError(t, err)
	assert.True(t, output.Removed)
	assert.Equal(t, []string{"doc-1"}, mockIndexer.removed)
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	mockIndexer := &mockIndexerService{
		stats: domain.IndexStats{DocumentCount: 2, ChunkCount: 17},
	}
	ports := &Ports{Retriever: &mockRetrieverService{}, Indexer: mockIndexer}
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleStats(ctx, nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.DocumentCount)
	assert.Equal(t, 17, output.ChunkCount)
}
