package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// SearchInput is the input schema for the legal_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the natural-language search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the legal_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID    string   `json:"document_id"`
	DocumentName  string   `json:"document_name"`
	ChunkIndex    int      `json:"chunk_index"`
	Score         float64  `json:"score"`
	SectionTitle  string   `json:"section_title,omitempty"`
	SectionNumber string   `json:"section_number,omitempty"`
	Citations     []string `json:"citations,omitempty"`
	ClauseType    string   `json:"clause_type,omitempty"`
	Text          string   `json:"text"`
}

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	DocumentID string `json:"document_id" jsonschema:"stable identifier for the document"`
	Name       string `json:"name,omitempty" jsonschema:"human-readable document name"`
	Text       string `json:"text" jsonschema:"full document text to index"`
	Category   string `json:"category,omitempty" jsonschema:"legal category such as contract or brief"`
	Force      bool   `json:"force,omitempty" jsonschema:"reindex even if the document is unchanged"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	Skipped     bool   `json:"skipped"`
	ChunkCount  int    `json:"chunk_count"`
	Fingerprint string `json:"fingerprint"`
}

// RemoveInput is the input schema for the remove_document tool.
type RemoveInput struct {
	DocumentID string `json:"document_id" jsonschema:"identifier of the document to remove"`
}

// RemoveOutput is the output schema for the remove_document tool.
type RemoveOutput struct {
	Removed bool `json:"removed"`
}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	DocumentCount int `json:"document_count"`
	ChunkCount    int `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "legal_search",
		Description: "Search indexed legal documents with hybrid semantic and keyword retrieval",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Index a legal document for retrieval, replacing any prior version",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document from the index",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report the number of indexed documents and chunks",
	}, s.handleStats)
}

// handleSearch handles the legal_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	retrieval := domain.DefaultSettings().Retrieval
	opts := domain.RetrieveOptions{
		Limit:             limit,
		VectorWeight:      retrieval.VectorWeight,
		KeywordWeight:     retrieval.KeywordWeight,
		MinKeywordScore:   retrieval.MinKeywordScore,
		Reranking:         retrieval.Reranking,
		ContextWindowSize: retrieval.ContextWindowSize,
	}

	results, err := s.ports.Retriever.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID:    results[i].DocumentID,
			DocumentName:  results[i].DocumentName,
			ChunkIndex:    results[i].ChunkIndex,
			Score:         results[i].Score,
			SectionTitle:  results[i].SectionTitle,
			SectionNumber: results[i].SectionNumber,
			Citations:     results[i].Citations,
			ClauseType:    results[i].ClauseType,
			Text:          results[i].Text,
		}
	}

	return nil, output, nil
}

// handleIndex handles the index_document tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if s.ports.Indexer == nil {
		return nil, IndexOutput{}, errors.New("indexer service not configured")
	}

	doc := &domain.Document{
		ID:   input.DocumentID,
		Name: input.Name,
		Text: input.Text,
		Metadata: domain.DocumentMetadata{
			Category: input.Category,
		},
	}

	result, err := s.ports.Indexer.Upsert(ctx, doc, input.Force)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{
		Skipped:     result.Skipped,
		ChunkCount:  result.ChunkCount,
		Fingerprint: result.Fingerprint,
	}, nil
}

// handleRemove handles the remove_document tool invocation.
func (s *Server) handleRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveInput,
) (*mcp.CallToolResult, RemoveOutput, error) {
	if s.ports.Indexer == nil {
		return nil, RemoveOutput{}, errors.New("indexer service not configured")
	}

	if err := s.ports.Indexer.Remove(ctx, input.DocumentID); err != nil {
		return nil, RemoveOutput{}, err
	}

	return nil, RemoveOutput{Removed: true}, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Indexer == nil {
		return nil, StatsOutput{}, errors.New("indexer service not configured")
	}

	stats, err := s.ports.Indexer.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
	}, nil
}
