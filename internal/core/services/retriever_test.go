package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexica-cli/internal/chunker"
	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/references"
)

func indexedChunk(docID string, index int, text string, vector []float32) domain.IndexedChunk {
	return domain.IndexedChunk{
		Chunk: domain.Chunk{
			Index:       index,
			Text:        text,
			SourceDocID: docID,
			SourceName:  "Doc " + docID,
		},
		Vector:    vector,
		IndexedAt: time.Now(),
	}
}

func hybridOpts() domain.RetrieveOptions {
	return domain.RetrieveOptions{
		Limit:         10,
		VectorWeight:  0.7,
		KeywordWeight: 0.3,
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	svc := NewRetrieverService(memory.NewChunkIndex(), nil, domain.DefaultRerankWeights())

	_, err := svc.Retrieve(context.Background(), "   ", hybridOpts())
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestRetrieveNoMatches(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "payment schedule details", nil),
	}))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	results, err := svc.Retrieve(ctx, "indemnification", hybridOpts())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestRetrieveKeywordOnlyRanking(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "arbitration arbitration arbitration panel", nil),
	}))
	require.NoError(t, index.Replace(ctx, "doc-b", []domain.IndexedChunk{
		indexedChunk("doc-b", 0, "one arbitration reference inside unrelated prose", nil),
	}))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	results, err := svc.Retrieve(ctx, "arbitration", hybridOpts())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "doc-a", results[0].DocumentID)
	assert.Less(t, results[0].Score, results[1].Score)
}

func TestRetrieveHybridFusion(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "indemnification obligations survive closing", []float32{1, 0, 0}),
	}))
	require.NoError(t, index.Replace(ctx, "doc-b", []domain.IndexedChunk{
		indexedChunk("doc-b", 0, "payment terms and wire instructions", []float32{0, 1, 0}),
	}))

	embedder := &stubEmbedder{queryVec: []float32{1, 0, 0}}
	svc := NewRetrieverService(index, embedder, domain.DefaultRerankWeights())

	results, err := svc.Retrieve(ctx, "indemnification", hybridOpts())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// doc-a wins both signals: zero vector distance and all keyword mass.
	assert.Equal(t, "doc-a", results[0].DocumentID)
	assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	assert.Equal(t, "doc-b", results[1].DocumentID)
	assert.InDelta(t, 0.7, results[1].Score, 1e-9)
}

func TestRetrieveFusionMonotonicity(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-vec", []domain.IndexedChunk{
		indexedChunk("doc-vec", 0, "warranty mentioned once in otherwise unrelated boilerplate", []float32{1, 0, 0}),
	}))
	require.NoError(t, index.Replace(ctx, "doc-key", []domain.IndexedChunk{
		indexedChunk("doc-key", 0, "warranty warranty warranty warranty coverage", []float32{0, 1, 0}),
	}))

	svc := NewRetrieverService(index, &stubEmbedder{queryVec: []float32{1, 0, 0}}, domain.DefaultRerankWeights())

	// doc-vec wins the vector signal outright and loses the keyword
	// signal; shifting weight from keywords to vectors must never
	// raise its fused score.
	prev := math.Inf(1)
	for _, vw := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		opts := domain.RetrieveOptions{
			Limit:         10,
			VectorWeight:  vw,
			KeywordWeight: 1 - vw,
		}

		results, err := svc.Retrieve(ctx, "warranty", opts)
		require.NoError(t, err)
		require.Len(t, results, 2)

		score := math.Inf(-1)
		for _, r := range results {
			if r.DocumentID == "doc-vec" {
				score = r.Score
			}
		}
		require.False(t, math.IsInf(score, -1), "doc-vec missing at weight %.1f", vw)
		assert.LessOrEqual(t, score, prev, "score rose when vector weight grew to %.1f", vw)
		prev = score
	}
}

func TestRetrieveRanksTermSectionForDurationQuery(t *testing.T) {
	index := memory.NewChunkIndex()
	versions := memory.NewVersionStore()
	// The duration query shares no keywords with the document, so the
	// ranking rides entirely on the vector signal.
	embedder := &stubEmbedder{
		embedFn: func(text string) []float32 {
			if strings.Contains(text, "Term") {
				return []float32{0, 1, 0}
			}
			return []float32{1, 0, 0}
		},
		queryVec: []float32{0, 1, 0},
	}
	split := chunker.New(chunker.WithMaxSize(60), chunker.WithOverlap(10))
	indexer := NewIndexerService(index, versions, split, references.New(), embedder)
	ctx := context.Background()

	doc := &domain.Document{
		ID:   "doc1",
		Name: "Widget Agreement",
		Text: "SECTION 1. Scope.\nThis applies to all widgets.\n\n" +
			"SECTION 2. Term.\nFive (5) years from the Effective Date.",
	}
	res, err := indexer.Upsert(ctx, doc, false)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.ChunkCount, 2)

	svc := NewRetrieverService(index, embedder, domain.DefaultRerankWeights())
	results, err := svc.Retrieve(ctx, "how long does the agreement last", hybridOpts())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "2", results[0].SectionNumber)
	for _, r := range results[1:] {
		assert.Greater(t, r.Score, results[0].Score)
	}
}

func TestRetrieveMinKeywordScoreCut(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "warranty warranty warranty warranty", nil),
	}))
	require.NoError(t, index.Replace(ctx, "doc-b", []domain.IndexedChunk{
		indexedChunk("doc-b", 0, "a single warranty word in much longer unrelated text", nil),
	}))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	opts := hybridOpts()
	opts.MinKeywordScore = 0.5

	results, err := svc.Retrieve(ctx, "warranty", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-a", results[0].DocumentID)
}

func TestRetrieveDegradesWhenEmbeddingFails(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "severability clause survives", []float32{1, 0, 0}),
	}))

	svc := NewRetrieverService(index, &stubEmbedder{fail: true}, domain.DefaultRerankWeights())
	results, err := svc.Retrieve(ctx, "severability", hybridOpts())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-a", results[0].DocumentID)
}

func TestRetrieveLimitTruncates(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	chunks := make([]domain.IndexedChunk, 6)
	for i := range chunks {
		chunks[i] = indexedChunk("doc-a", i, "notice shall be delivered in writing", nil)
	}
	require.NoError(t, index.Replace(ctx, "doc-a", chunks))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	opts := hybridOpts()
	opts.Limit = 3

	results, err := svc.Retrieve(ctx, "notice delivered", opts)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRetrieveCachesQueryEmbedding(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "assignment requires written consent", []float32{1, 0, 0}),
	}))

	embedder := &stubEmbedder{queryVec: []float32{1, 0, 0}}
	svc := NewRetrieverService(index, embedder, domain.DefaultRerankWeights())

	_, err := svc.Retrieve(ctx, "assignment consent", hybridOpts())
	require.NoError(t, err)
	_, err = svc.Retrieve(ctx, "assignment consent", hybridOpts())
	require.NoError(t, err)

	_, queryCalls := embedder.calls()
	assert.Equal(t, 1, queryCalls)
}

func TestRetrieveRerankPrefersRecentDocument(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()

	stale := indexedChunk("doc-old", 0, "governing law of Delaware applies", nil)
	stale.UpdatedAt = time.Now().AddDate(-1, 0, 0)
	fresh := indexedChunk("doc-new", 0, "governing law of Delaware applies", nil)
	fresh.UpdatedAt = time.Now().AddDate(0, 0, -2)

	require.NoError(t, index.Replace(ctx, "doc-old", []domain.IndexedChunk{stale}))
	require.NoError(t, index.Replace(ctx, "doc-new", []domain.IndexedChunk{fresh}))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	opts := hybridOpts()
	opts.Reranking = true

	results, err := svc.Retrieve(ctx, "governing law Delaware", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "doc-new", results[0].DocumentID)
}

func TestRetrieveContextPackingSpreadsDocuments(t *testing.T) {
	index := memory.NewChunkIndex()
	ctx := context.Background()

	// doc-a has two confidentiality chunks, one stronger than doc-b's.
	require.NoError(t, index.Replace(ctx, "doc-a", []domain.IndexedChunk{
		indexedChunk("doc-a", 0, "confidentiality confidentiality obligations bind recipients", nil),
		indexedChunk("doc-a", 1, "confidentiality confidentiality survives for five years", nil),
	}))
	require.NoError(t, index.Replace(ctx, "doc-b", []domain.IndexedChunk{
		indexedChunk("doc-b", 0, "confidentiality applies to all disclosures made here", nil),
	}))

	svc := NewRetrieverService(index, nil, domain.DefaultRerankWeights())
	opts := hybridOpts()
	// Budget fits two chunks; breadth-first packing must pick one chunk
	// from each document rather than both doc-a chunks.
	opts.ContextWindowSize = 115

	results, err := svc.Retrieve(ctx, "confidentiality", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	docs := map[string]bool{}
	for _, r := range results {
		docs[r.DocumentID] = true
	}
	assert.True(t, docs["doc-a"])
	assert.True(t, docs["doc-b"])
}

func TestTokenize(t *testing.T) {
	keywords := Tokenize("What ARE the Indemnification obligations under Section 4.2?")

	assert.Equal(t, []string{"indemnification", "obligations", "section"}, keywords)
}

func TestTokenizeDropsShortAndStopwords(t *testing.T) {
	assert.Empty(t, Tokenize("is it of an"))
	assert.Equal(t, []string{"termination"}, Tokenize("the termination and the termination"))
}
