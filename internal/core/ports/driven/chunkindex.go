package driven

import (
	"context"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// ChunkIndex owns the indexed chunks per document. It supports
// atomic replace-by-document and raw scoring for both retrieval
// signals. Adapters normalise whatever the underlying storage returns
// into the single hit shapes below; callers never sniff result shapes.
type ChunkIndex interface {
	// Replace atomically swaps all chunks for a document with the new
	// set. The old set remains queryable until the new set is fully
	// written; on failure the old set is left untouched.
	Replace(ctx context.Context, documentID string, chunks []domain.IndexedChunk) error

	// Delete removes all chunks for a document. Deleting a document
	// that is not indexed is a no-op, not an error.
	Delete(ctx context.Context, documentID string) error

	// Get retrieves one chunk by (documentID, chunkIndex).
	Get(ctx context.Context, documentID string, chunkIndex int) (*domain.IndexedChunk, error)

	// VectorSearch scores every chunk with a non-zero vector against
	// the query vector and returns up to k hits with raw cosine
	// distances (0 = identical), ascending.
	VectorSearch(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// KeywordSearch scores chunks by summed occurrences of each
	// keyword (case-insensitive whole-word match) weighted by keyword
	// length, and returns up to k hits with raw scores, descending.
	KeywordSearch(ctx context.Context, keywords []string, k int) ([]KeywordHit, error)

	// Stats returns document and chunk counts.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}

// VectorHit is the normalised vector search result shape.
type VectorHit struct {
	// DocumentID and ChunkIndex identify the chunk.
	DocumentID string
	ChunkIndex int

	// Distance is the raw cosine distance. 0 means identical.
	Distance float64
}

// KeywordHit is the normalised keyword search result shape.
type KeywordHit struct {
	// DocumentID and ChunkIndex identify the chunk.
	DocumentID string
	ChunkIndex int

	// Score is the raw length-weighted occurrence score. Higher means
	// more keyword mass; the retriever normalises and inverts it.
	Score float64
}
