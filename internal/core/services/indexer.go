package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexica-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService manages the document indexing lifecycle: fingerprint
// gating, chunking, enrichment, vectorisation, and the atomic swap of
// a document's chunk set.
type IndexerService struct {
	index     driven.ChunkIndex
	versions  driven.VersionStore
	chunker   driven.Chunker
	extractor driven.ReferenceExtractor
	embedder  driven.EmbeddingService
}

// NewIndexerService creates a new indexer service.
// The embedder parameter is optional (can be nil); without it chunks
// are indexed with zero vectors and remain keyword-searchable.
func NewIndexerService(
	index driven.ChunkIndex,
	versions driven.VersionStore,
	chunker driven.Chunker,
	extractor driven.ReferenceExtractor,
	embedder driven.EmbeddingService,
) *IndexerService {
	return &IndexerService{
		index:     index,
		versions:  versions,
		chunker:   chunker,
		extractor: extractor,
		embedder:  embedder,
	}
}

// Upsert indexes a document, replacing any prior chunks for it.
//
// When the fingerprint matches the stored entry and force is false the
// call is a no-op. On any failure during vectorisation or the index
// write, the previously indexed set and fingerprint entry are left
// untouched, so a failed upsert is safely retryable.
func (s *IndexerService) Upsert(
	ctx context.Context, doc *domain.Document, force bool,
) (*driving.UpsertResult, error) {
	if doc == nil || doc.ID == "" {
		return nil, fmt.Errorf("%w: document with an ID is required", domain.ErrInvalidInput)
	}

	logger.Section("Index Document")
	logger.Debug("Document: %s (%q), force=%t", doc.ID, doc.Name, force)

	fingerprint := domain.Fingerprint(doc)

	if !force {
		unchanged, err := s.isUnchanged(ctx, doc.ID, fingerprint)
		if err != nil {
			return nil, err
		}
		if unchanged {
			logger.Debug("Fingerprint unchanged, skipping reindex")
			return &driving.UpsertResult{Skipped: true, Fingerprint: fingerprint}, nil
		}
	}

	chunks := s.chunker.Split(doc.Text, doc.ID, doc.Name)
	logger.Debug("Chunked into %d chunks", len(chunks))

	for i := range chunks {
		refs := s.extractor.Extract(chunks[i].Text)
		chunks[i].Citations = refs.Citations
		chunks[i].ClauseType = refs.ClauseType
	}

	indexed, err := s.vectorise(ctx, doc, chunks, fingerprint)
	if err != nil {
		return nil, err
	}

	if err := s.index.Replace(ctx, doc.ID, indexed); err != nil {
		return nil, fmt.Errorf("replacing chunks for %s: %w", doc.ID, err)
	}

	entry := domain.VersionEntry{
		DocumentID:  doc.ID,
		Fingerprint: fingerprint,
		IndexedAt:   time.Now(),
	}
	if err := s.versions.Save(ctx, entry); err != nil {
		// Chunks are written but the fingerprint is not; the next
		// upsert simply reindexes.
		return nil, fmt.Errorf("saving version entry for %s: %w", doc.ID, err)
	}

	logger.Info("Indexed %s: %d chunks", doc.ID, len(indexed))
	return &driving.UpsertResult{
		ChunkCount:  len(indexed),
		Fingerprint: fingerprint,
	}, nil
}

// Remove deletes a document's chunks and fingerprint entry.
func (s *IndexerService) Remove(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	logger.Section("Remove Document")
	logger.Debug("Document: %s", documentID)

	if err := s.index.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", documentID, err)
	}
	if err := s.versions.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("deleting version entry for %s: %w", documentID, err)
	}
	return nil
}

// Stats returns index counts.
func (s *IndexerService) Stats(ctx context.Context) (domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

// isUnchanged reports whether the stored fingerprint for the document
// matches. A missing or malformed entry counts as changed.
func (s *IndexerService) isUnchanged(ctx context.Context, documentID, fingerprint string) (bool, error) {
	entry, err := s.versions.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading version entry for %s: %w", documentID, err)
	}
	return entry.IsValid() && entry.Fingerprint == fingerprint, nil
}

// vectorise builds the indexed chunk set. Without an embedder every
// chunk gets a zero vector; with one, any embedding failure aborts the
// whole upsert before the index is touched.
func (s *IndexerService) vectorise(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk, fingerprint string,
) ([]domain.IndexedChunk, error) {
	now := time.Now()
	indexed := make([]domain.IndexedChunk, 0, len(chunks))
	for _, c := range chunks {
		ic := domain.IndexedChunk{
			Chunk:           c,
			DocumentVersion: fingerprint,
			IndexedAt:       now,
			Category:        doc.Metadata.Category,
			UpdatedAt:       doc.Metadata.UpdatedAt,
		}
		if s.embedder != nil {
			vec, err := s.embedder.Embed(ctx, c.Text)
			if err != nil {
				return nil, fmt.Errorf("embedding chunk %d of %s: %w", c.Index, doc.ID, err)
			}
			ic.Vector = vec
		}
		indexed = append(indexed, ic)
	}
	return indexed, nil
}
