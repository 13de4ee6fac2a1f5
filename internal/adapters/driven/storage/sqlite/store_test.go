package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunk(docID string, index int, text string, vector []float32) domain.IndexedChunk {
	return domain.IndexedChunk{
		Chunk: domain.Chunk{
			ID:            docID + "-c",
			Index:         index,
			Text:          text,
			SourceDocID:   docID,
			SourceName:    "Doc " + docID,
			SectionTitle:  "Scope.",
			SectionNumber: "1",
			Citations:     []string{"42 U.S.C. § 1983"},
			ClauseType:    "indemnification",
		},
		Vector:          vector,
		DocumentVersion: strings.Repeat("ab", 32),
		IndexedAt:       time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Category:        "contract",
		UpdatedAt:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestStoreMigratesOnce(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestChunkIndexRoundTrip(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	want := testChunk("doc-1", 0, "Seller shall indemnify the Buyer.", []float32{0.5, -1, 2})
	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{want}))

	got, err := idx.Get(ctx, "doc-1", 0)
	require.NoError(t, err)
	assert.Equal(t, want.Text, got.Text)
	assert.Equal(t, want.SectionTitle, got.SectionTitle)
	assert.Equal(t, want.SectionNumber, got.SectionNumber)
	assert.Equal(t, want.Citations, got.Citations)
	assert.Equal(t, want.ClauseType, got.ClauseType)
	assert.Equal(t, want.Vector, got.Vector)
	assert.Equal(t, want.DocumentVersion, got.DocumentVersion)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestChunkIndexGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ChunkIndex().Get(context.Background(), "doc-1", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkIndexReplaceSwapsWholeSet(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "old one", nil),
		testChunk("doc-1", 1, "old two", nil),
	}))
	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "new one", nil),
	}))

	got, err := idx.Get(ctx, "doc-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "new one", got.Text)

	_, err = idx.Get(ctx, "doc-1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkIndexVectorSearch(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "exact", []float32{1, 0, 0}),
		testChunk("doc-1", 1, "no vector", nil),
	}))
	require.NoError(t, idx.Replace(ctx, "doc-2", []domain.IndexedChunk{
		testChunk("doc-2", 0, "close", []float32{0.9, 0.1, 0}),
	}))

	hits, err := idx.VectorSearch(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-1", hits[0].DocumentID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "doc-2", hits[1].DocumentID)
}

func TestChunkIndexVectorDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "three dims", []float32{1, 0, 0}),
	}))

	err := idx.Replace(ctx, "doc-2", []domain.IndexedChunk{
		testChunk("doc-2", 0, "two dims", []float32{1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.VectorSearch(ctx, []float32{1, 0}, 10)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestChunkIndexKeywordSearch(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "arbitration arbitration panel", nil),
		testChunk("doc-1", 1, "unrelated prose", nil),
	}))
	require.NoError(t, idx.Replace(ctx, "doc-2", []domain.IndexedChunk{
		testChunk("doc-2", 0, "one arbitration reference", nil),
	}))

	hits, err := idx.KeywordSearch(ctx, []string{"arbitration"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-1", hits[0].DocumentID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestChunkIndexStatsAndDelete(t *testing.T) {
	store := newTestStore(t)
	idx := store.ChunkIndex()
	ctx := context.Background()

	require.NoError(t, idx.Replace(ctx, "doc-1", []domain.IndexedChunk{
		testChunk("doc-1", 0, "a", nil),
		testChunk("doc-1", 1, "b", nil),
	}))
	require.NoError(t, idx.Replace(ctx, "doc-2", []domain.IndexedChunk{
		testChunk("doc-2", 0, "c", nil),
	}))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DocumentCount)
	assert.Equal(t, 3, stats.ChunkCount)

	require.NoError(t, idx.Delete(ctx, "doc-1"))
	require.NoError(t, idx.Delete(ctx, "doc-1"))

	stats, err = idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
}

func TestVersionStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	versions := store.VersionStore()
	ctx := context.Background()

	entry := domain.VersionEntry{
		DocumentID:  "doc-1",
		Fingerprint: strings.Repeat("cd", 32),
		IndexedAt:   time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, versions.Save(ctx, entry))

	got, err := versions.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)
	assert.True(t, got.IsValid())

	// Upsert overwrites.
	entry.Fingerprint = strings.Repeat("ef", 32)
	require.NoError(t, versions.Save(ctx, entry))
	got, err = versions.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)

	count, err := versions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, versions.Delete(ctx, "doc-1"))
	require.NoError(t, versions.Delete(ctx, "doc-1"))
	_, err = versions.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVersionStoreMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.VersionStore().Get(context.Background(), "never")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
