package domain

import "time"

// Chunk represents a structure-aware searchable unit within a document.
// Chunks are produced by the structural chunker and enriched by the
// reference extractor before indexing.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Index is the 0-based position within the document.
	// Insertion order equals document order.
	Index int

	// Text is the chunk content. Non-empty after trimming.
	Text string

	// SourceDocID links to the document this chunk came from.
	SourceDocID string

	// SourceName is the document name, carried for provenance.
	SourceName string

	// SectionTitle is the title of the legal section this chunk
	// belongs to, when a structural pattern matched. Empty otherwise.
	SectionTitle string

	// SectionNumber is the section/article number, when matched.
	SectionNumber string

	// IsHeading is true when the chunk is dominated by a short
	// heading-like span rather than body prose.
	IsHeading bool

	// Citations are the legal citations found in the chunk text,
	// de-duplicated, in first-seen order.
	Citations []string

	// ClauseType is the single best-matching clause category
	// (indemnification, termination, ...). Empty when none matched.
	ClauseType string
}

// IndexedChunk is a chunk as held by the index store: the chunk plus
// its embedding and versioning data. Keyed by (SourceDocID, Index).
type IndexedChunk struct {
	Chunk

	// Vector is the embedding for semantic search. All vectors in an
	// index share the dimension fixed by the embedding model. A zero
	// vector marks a chunk indexed without an embedding; it remains
	// keyword-searchable.
	Vector []float32

	// DocumentVersion is the fingerprint of the document at the time
	// this chunk was indexed.
	DocumentVersion string

	// IndexedAt is when the chunk was written to the index.
	IndexedAt time.Time

	// Category is the document category, carried onto the chunk so
	// re-ranking does not need a document lookup.
	Category string

	// UpdatedAt is the source document's last-modified time, carried
	// for the recency bonus during re-ranking.
	UpdatedAt time.Time
}

// HasVector reports whether the chunk carries a non-zero embedding.
func (c *IndexedChunk) HasVector() bool {
	for _, v := range c.Vector {
		if v != 0 {
			return true
		}
	}
	return false
}

// References holds the citations and structural references extracted
// from a span of text.
type References struct {
	// Citations are full legal citations (case, statute, regulation),
	// de-duplicated in first-seen order.
	Citations []string

	// Sections are referenced section numbers ("§ 12", "Section 3.1").
	Sections []string

	// Paragraphs are referenced paragraph numbers ("¶ 14").
	Paragraphs []string

	// Pages are referenced pages or page ranges ("p. 3", "pp. 12-14").
	Pages []string

	// ClauseType is the first matching clause category, or empty.
	ClauseType string
}

// IsEmpty reports whether nothing was extracted.
func (r *References) IsEmpty() bool {
	return len(r.Citations) == 0 && len(r.Sections) == 0 &&
		len(r.Paragraphs) == 0 && len(r.Pages) == 0 && r.ClauseType == ""
}
