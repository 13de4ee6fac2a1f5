package driven

import (
	"context"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// VersionStore persists document fingerprints. Entries survive process
// restarts so unchanged documents are never re-embedded.
type VersionStore interface {
	// Get retrieves the stored entry for a document.
	// Returns domain.ErrNotFound when the document has never been indexed.
	Get(ctx context.Context, documentID string) (*domain.VersionEntry, error)

	// Save stores or updates the entry for a document.
	Save(ctx context.Context, entry domain.VersionEntry) error

	// Delete removes the entry for a document. Deleting an absent
	// entry is a no-op.
	Delete(ctx context.Context, documentID string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
