package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
)

// Ensure VersionStore implements the interface.
var _ driven.VersionStore = (*VersionStore)(nil)

// VersionStore is an in-memory fingerprint store.
// Safe for concurrent use.
type VersionStore struct {
	mu      sync.RWMutex
	entries map[string]domain.VersionEntry
}

// NewVersionStore creates an empty in-memory version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		entries: make(map[string]domain.VersionEntry),
	}
}

// Get retrieves the stored entry for a document.
func (m *VersionStore) Get(_ context.Context, documentID string) (*domain.VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[documentID]
	if !ok {
		return nil, fmt.Errorf("version entry %s: %w", documentID, domain.ErrNotFound)
	}
	return &entry, nil
}

// Save stores or updates the entry for a document.
func (m *VersionStore) Save(_ context.Context, entry domain.VersionEntry) error {
	if entry.DocumentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.DocumentID] = entry
	return nil
}

// Delete removes the entry for a document. Absent entries are a no-op.
func (m *VersionStore) Delete(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, documentID)
	return nil
}

// Count returns the number of stored entries.
func (m *VersionStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
