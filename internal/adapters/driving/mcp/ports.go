package mcp

import (
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers search queries.
	Retriever driving.RetrieverService

	// Indexer manages indexed documents. Optional; without it the
	// indexing tools are registered but return an error.
	Indexer driving.IndexerService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetrieverService
	}
	return nil
}
