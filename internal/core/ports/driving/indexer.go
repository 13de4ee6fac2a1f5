package driving

import (
	"context"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// IndexerService manages the lifecycle of indexed documents.
type IndexerService interface {
	// Upsert indexes a document, replacing any prior chunks for it.
	// When the document's fingerprint matches the stored entry and
	// force is false, the call is a no-op.
	Upsert(ctx context.Context, doc *domain.Document, force bool) (*UpsertResult, error)

	// Remove deletes a document's chunks and fingerprint entry.
	// Removing a document that was never indexed succeeds.
	Remove(ctx context.Context, documentID string) error

	// Stats returns index counts.
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// UpsertResult reports what an Upsert call did.
type UpsertResult struct {
	// Skipped is true when the fingerprint was unchanged and no
	// reindex happened.
	Skipped bool

	// ChunkCount is the number of chunks written (0 when skipped).
	ChunkCount int

	// Fingerprint is the document's content fingerprint.
	Fingerprint string
}
