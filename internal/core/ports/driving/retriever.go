package driving

import (
	"context"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// RetrieverService answers natural-language queries with ranked,
// context-packed excerpts.
type RetrieverService interface {
	// Retrieve runs the hybrid retrieval pipeline. An empty query
	// returns domain.ErrInvalidQuery; a query with no matches returns
	// an empty slice and no error.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.SearchResult, error)
}
