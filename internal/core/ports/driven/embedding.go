package driven

import "context"

// EmbeddingService maps text to fixed-dimension vectors.
// The engine treats it as an opaque function; both methods may fail,
// in which case callers degrade as described on the retrieval and
// indexing services.
type EmbeddingService interface {
	// Embed generates an embedding for document text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates an embedding for a query. Some providers
	// use distinct document/query instructions; others alias Embed.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimension for the configured model.
	Dimensions() int
}
