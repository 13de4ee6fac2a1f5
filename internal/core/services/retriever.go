package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexica-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrieverService = (*RetrieverService)(nil)

// DefaultLimit is the result count when the caller does not set one.
const DefaultLimit = 10

// embedCacheSize bounds the query-embedding cache.
const embedCacheSize = 256

// stopwords are excluded from query tokenisation.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "with": true, "that": true, "this": true,
	"from": true, "have": true, "has": true, "was": true, "were": true,
	"can": true, "will": true, "shall": true, "any": true, "all": true,
	"its": true, "such": true, "may": true, "under": true, "upon": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"how": true, "does": true,
}

// chunkKey identifies a chunk within the index.
type chunkKey struct {
	documentID string
	chunkIndex int
}

// candidate holds a chunk's per-signal scores before fusion.
type candidate struct {
	vectorDistance  float64
	hasVector       bool
	keywordDistance float64
	keywordNorm     float64
	hasKeyword      bool
}

// hit is a hydrated result inside the pipeline. It carries the chunk
// metadata that re-ranking needs but the result shape does not expose.
type hit struct {
	domain.SearchResult
	category  string
	updatedAt time.Time
}

// RetrieverService answers queries with the hybrid retrieval pipeline:
// vector search, keyword search, weighted fusion, heuristic re-ranking,
// and context packing under a character budget. Lower score means more
// relevant throughout.
type RetrieverService struct {
	index    driven.ChunkIndex
	embedder driven.EmbeddingService
	rerank   domain.RerankWeights
	cache    *embeddingCache
}

// NewRetrieverService creates a new retriever service.
// The embedder parameter is optional (can be nil); without it retrieval
// runs keyword-only.
func NewRetrieverService(
	index driven.ChunkIndex,
	embedder driven.EmbeddingService,
	rerank domain.RerankWeights,
) *RetrieverService {
	return &RetrieverService{
		index:    index,
		embedder: embedder,
		rerank:   rerank,
		cache:    newEmbeddingCache(embedCacheSize),
	}
}

// Retrieve runs the retrieval pipeline for a query.
//
// An empty query returns domain.ErrInvalidQuery. An unavailable
// embedding service degrades to keyword-only search; no matches from
// either signal yields an empty slice, not an error.
func (s *RetrieverService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Retrieve")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if opts.VectorWeight == 0 && opts.KeywordWeight == 0 {
		defaults := domain.DefaultSettings().Retrieval
		opts.VectorWeight = defaults.VectorWeight
		opts.KeywordWeight = defaults.KeywordWeight
	}

	// Overfetch so fusion, the keyword cut, and packing have slack.
	candidateK := limit * 4
	keywords := Tokenize(query)
	logger.Debug("Keywords: %v, limit %d, candidates %d", keywords, limit, candidateK)

	candidates := make(map[chunkKey]*candidate)

	if err := s.vectorStage(ctx, query, candidateK, candidates); err != nil {
		return nil, err
	}
	if err := s.keywordStage(ctx, keywords, candidateK, candidates); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Debug("No candidates from either signal")
		return []domain.SearchResult{}, nil
	}

	hits, err := s.fuse(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}

	if opts.Reranking {
		s.applyRerank(hits, keywords)
	}
	sortHits(hits)

	if opts.ContextWindowSize > 0 {
		hits = packContext(hits, opts.ContextWindowSize)
		sortHits(hits)
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}
	logger.Info("Retrieved %d results", len(hits))

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.SearchResult
	}
	return results, nil
}

// vectorStage embeds the query and records normalised cosine distances
// for the nearest chunks. Embedding or vector-search unavailability
// degrades to keyword-only with a warning.
func (s *RetrieverService) vectorStage(
	ctx context.Context, query string, k int, candidates map[chunkKey]*candidate,
) error {
	if s.embedder == nil {
		logger.Debug("No embedding service, keyword-only retrieval")
		return nil
	}

	qvec, err := s.embedQuery(ctx, query)
	if err != nil {
		logger.Warn("Embedding failed, degrading to keyword-only: %v", err)
		return nil
	}

	hits, err := s.index.VectorSearch(ctx, qvec, k)
	if err != nil {
		if errors.Is(err, domain.ErrVectorSearchUnavailable) || errors.Is(err, domain.ErrEmbeddingUnavailable) {
			logger.Warn("Vector search unavailable, degrading to keyword-only: %v", err)
			return nil
		}
		return fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		return nil
	}

	maxDistance := 0.0
	for _, h := range hits {
		if h.Distance > maxDistance {
			maxDistance = h.Distance
		}
	}
	for _, h := range hits {
		distance := 0.0
		if maxDistance > 0 {
			distance = h.Distance / maxDistance
		}
		key := chunkKey{h.DocumentID, h.ChunkIndex}
		c := ensureCandidate(candidates, key)
		c.vectorDistance = distance
		c.hasVector = true
	}
	return nil
}

// keywordStage scores chunks by the raw length-weighted occurrence
// scores from the index, normalised and inverted so lower is better.
func (s *RetrieverService) keywordStage(
	ctx context.Context, keywords []string, k int, candidates map[chunkKey]*candidate,
) error {
	if len(keywords) == 0 {
		return nil
	}

	hits, err := s.index.KeywordSearch(ctx, keywords, k)
	if err != nil {
		return fmt.Errorf("keyword search: %w", err)
	}
	if len(hits) == 0 {
		return nil
	}

	maxScore := 0.0
	for _, h := range hits {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}
	for _, h := range hits {
		norm := 0.0
		if maxScore > 0 {
			norm = h.Score / maxScore
		}
		key := chunkKey{h.DocumentID, h.ChunkIndex}
		c := ensureCandidate(candidates, key)
		c.keywordNorm = norm
		c.keywordDistance = 1 - norm
		c.hasKeyword = true
	}
	return nil
}

// fuse combines both signals into one score per chunk and hydrates the
// surviving candidates from the index. A chunk present in one signal
// only uses that signal's weighted term; keyword-only matches below
// the minimum normalised keyword score are discarded.
func (s *RetrieverService) fuse(
	ctx context.Context, candidates map[chunkKey]*candidate, opts domain.RetrieveOptions,
) ([]hit, error) {
	hits := make([]hit, 0, len(candidates))
	for key, c := range candidates {
		if c.hasKeyword && !c.hasVector && c.keywordNorm < opts.MinKeywordScore {
			continue
		}

		score := 0.0
		if c.hasVector {
			score += opts.VectorWeight * c.vectorDistance
		}
		if c.hasKeyword {
			score += opts.KeywordWeight * c.keywordDistance
		}

		chunk, err := s.index.Get(ctx, key.documentID, key.chunkIndex)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Replaced between scoring and hydration.
				continue
			}
			return nil, fmt.Errorf("loading chunk %s/%d: %w", key.documentID, key.chunkIndex, err)
		}

		hits = append(hits, hit{
			SearchResult: domain.SearchResult{
				DocumentID:    chunk.SourceDocID,
				DocumentName:  chunk.SourceName,
				ChunkIndex:    chunk.Index,
				Text:          chunk.Text,
				Score:         score,
				SectionTitle:  chunk.SectionTitle,
				SectionNumber: chunk.SectionNumber,
				Citations:     chunk.Citations,
				ClauseType:    chunk.ClauseType,
			},
			category:  chunk.Category,
			updatedAt: chunk.UpdatedAt,
		})
	}
	return hits, nil
}

// embedQuery returns a cached query embedding or asks the service.
func (s *RetrieverService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := s.cache.get(query); ok {
		logger.Debug("Query embedding cache hit")
		return vec, nil
	}
	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.put(query, vec)
	return vec, nil
}

// sortHits orders ascending by score with a stable identity tie-break
// so equal scores rank deterministically.
func sortHits(hits []hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score < hits[j].Score
		}
		if hits[i].DocumentID != hits[j].DocumentID {
			return hits[i].DocumentID < hits[j].DocumentID
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
}

func ensureCandidate(candidates map[chunkKey]*candidate, key chunkKey) *candidate {
	c, ok := candidates[key]
	if !ok {
		c = &candidate{}
		candidates[key] = c
	}
	return c
}

// Tokenize splits a query into lowercase keywords: words longer than
// two characters with stopwords removed, in query order.
func Tokenize(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	keywords := make([]string, 0, len(words))
	seen := make(map[string]bool)
	for _, w := range words {
		if len(w) <= 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}
