package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Lexica resources.
const uriScheme = "lexica://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Index statistics: document and chunk counts",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleStatsResource returns the index statistics as JSON.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexer == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	stats, err := s.ports.Indexer.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}

	data, err := json.MarshalIndent(StatsOutput{
		DocumentCount: stats.DocumentCount,
		ChunkCount:    stats.ChunkCount,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
