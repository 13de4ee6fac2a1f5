// Package memory provides in-memory storage adapters. They back tests
// and ephemeral runs; durable deployments use the sqlite package.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/storage/scoring"
	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
)

// Ensure ChunkIndex implements the interface.
var _ driven.ChunkIndex = (*ChunkIndex)(nil)

// ChunkIndex is an in-memory chunk store with brute-force scoring.
// Safe for concurrent use.
type ChunkIndex struct {
	mu         sync.RWMutex
	docs       map[string][]domain.IndexedChunk
	dimensions int
	closed     bool
}

// NewChunkIndex creates an empty in-memory chunk index.
func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{
		docs: make(map[string][]domain.IndexedChunk),
	}
}

// Replace atomically swaps all chunks for a document with the new set.
func (m *ChunkIndex) Replace(_ context.Context, documentID string, chunks []domain.IndexedChunk) error {
	if documentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	// Validate and copy outside the write lock so readers keep seeing
	// the old set until the swap below.
	next := make([]domain.IndexedChunk, len(chunks))
	copy(next, chunks)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrIndexClosed
	}

	for i := range next {
		if !next[i].HasVector() {
			continue
		}
		if m.dimensions == 0 {
			m.dimensions = len(next[i].Vector)
		} else if len(next[i].Vector) != m.dimensions {
			return fmt.Errorf("%w: chunk %d has dimension %d, index has %d",
				domain.ErrDimensionMismatch, next[i].Index, len(next[i].Vector), m.dimensions)
		}
	}

	if len(next) == 0 {
		delete(m.docs, documentID)
		return nil
	}
	m.docs[documentID] = next
	return nil
}

// Delete removes all chunks for a document.
func (m *ChunkIndex) Delete(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrIndexClosed
	}
	delete(m.docs, documentID)
	return nil
}

// Get retrieves one chunk by (documentID, chunkIndex).
func (m *ChunkIndex) Get(_ context.Context, documentID string, chunkIndex int) (*domain.IndexedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, domain.ErrIndexClosed
	}

	for _, c := range m.docs[documentID] {
		if c.Index == chunkIndex {
			chunk := c
			return &chunk, nil
		}
	}
	return nil, fmt.Errorf("chunk %s/%d: %w", documentID, chunkIndex, domain.ErrNotFound)
}

// VectorSearch scores every chunk with a non-zero vector against the
// query and returns up to k hits with raw cosine distances, ascending.
func (m *ChunkIndex) VectorSearch(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, domain.ErrIndexClosed
	}
	if m.dimensions != 0 && len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrDimensionMismatch, len(query), m.dimensions)
	}

	var hits []driven.VectorHit
	for docID, chunks := range m.docs {
		for i := range chunks {
			if !chunks[i].HasVector() {
				continue
			}
			hits = append(hits, driven.VectorHit{
				DocumentID: docID,
				ChunkIndex: chunks[i].Index,
				Distance:   scoring.CosineDistance(query, chunks[i].Vector),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		if hits[i].DocumentID != hits[j].DocumentID {
			return hits[i].DocumentID < hits[j].DocumentID
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// KeywordSearch scores chunks by summed whole-word occurrences of each
// keyword weighted by keyword length, and returns up to k hits with
// raw scores, descending. Chunks scoring zero are omitted.
func (m *ChunkIndex) KeywordSearch(_ context.Context, keywords []string, k int) ([]driven.KeywordHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, domain.ErrIndexClosed
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	var hits []driven.KeywordHit
	for docID, chunks := range m.docs {
		for i := range chunks {
			score := scoring.KeywordScore(chunks[i].Text, keywords)
			if score <= 0 {
				continue
			}
			hits = append(hits, driven.KeywordHit{
				DocumentID: docID,
				ChunkIndex: chunks[i].Index,
				Score:      score,
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].DocumentID != hits[j].DocumentID {
			return hits[i].DocumentID < hits[j].DocumentID
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Stats returns document and chunk counts.
func (m *ChunkIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return domain.IndexStats{}, domain.ErrIndexClosed
	}

	stats := domain.IndexStats{DocumentCount: len(m.docs)}
	for _, chunks := range m.docs {
		stats.ChunkCount += len(chunks)
	}
	return stats, nil
}

// Close marks the index closed. Further calls fail with ErrIndexClosed.
func (m *ChunkIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.docs = nil
	return nil
}

