package domain

// Score convention: lower is more relevant. Vector distances and
// inverted keyword scores are both normalised to [0,1] before fusion,
// so a perfect match approaches 0 and an irrelevant chunk approaches 1.

// RetrieveOptions configures a retrieval request.
type RetrieveOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// VectorWeight is the fusion weight for the vector signal, in [0,1].
	VectorWeight float64

	// KeywordWeight is the fusion weight for the keyword signal, in [0,1].
	KeywordWeight float64

	// MinKeywordScore discards keyword-only matches whose raw
	// normalised keyword score falls below this threshold.
	MinKeywordScore float64

	// Reranking enables the domain-heuristic re-ranking stage.
	Reranking bool

	// ContextWindowSize is the character budget for packed results.
	// Zero disables context packing.
	ContextWindowSize int
}

// SearchResult represents a single retrieval hit with provenance.
// Results are ephemeral; they are produced per query and never persisted.
type SearchResult struct {
	// DocumentID identifies the source document.
	DocumentID string

	// DocumentName is the source document's display name.
	DocumentName string

	// ChunkIndex is the hit chunk's position within the document.
	ChunkIndex int

	// Text is the chunk text.
	Text string

	// Score is the fused relevance score. Lower is more relevant.
	Score float64

	// SectionTitle and SectionNumber echo the chunk's structural metadata.
	SectionTitle  string
	SectionNumber string

	// Citations echoes the chunk's extracted citations.
	Citations []string

	// ClauseType echoes the chunk's clause category, if any.
	ClauseType string
}

// RerankWeights holds the empirically chosen re-ranking constants.
// The source values have no documented derivation, so they are
// configuration rather than hard-coded numbers.
type RerankWeights struct {
	// ProximityWindow is the character window within which a pair of
	// query keywords earns a proximity bonus.
	ProximityWindow int

	// ProximityScale divides (window - distance) to produce the bonus.
	ProximityScale float64

	// RecencyDays is the age horizon for the recency bonus.
	RecencyDays int

	// RecencyScale divides (horizon - ageDays) to produce the bonus.
	RecencyScale float64

	// CategoryBonus is the fixed bonus for a known legal category.
	CategoryBonus float64

	// DensityScale divides keyword occurrences per 100 characters.
	DensityScale float64

	// Damping scales the accumulated bonus so re-ranking perturbs the
	// base ranking without inverting it arbitrarily.
	Damping float64
}

// DefaultRerankWeights returns the re-ranking constants carried over
// from the source heuristics.
func DefaultRerankWeights() RerankWeights {
	return RerankWeights{
		ProximityWindow: 50,
		ProximityScale:  100,
		RecencyDays:     30,
		RecencyScale:    100,
		CategoryBonus:   0.05,
		DensityScale:    20,
		Damping:         0.3,
	}
}

// IndexStats summarises the state of the index store.
type IndexStats struct {
	// DocumentCount is the number of indexed documents.
	DocumentCount int

	// ChunkCount is the total number of indexed chunks.
	ChunkCount int
}
