package driven

import "github.com/custodia-labs/lexica-cli/internal/core/domain"

// Chunker splits document text into bounded, overlapping chunks while
// preserving legal section and clause boundaries. Splitting is pure
// CPU work, so no context is threaded through.
type Chunker interface {
	// Split chunks a document's text. Empty or whitespace-only text
	// yields an empty slice, not an error.
	Split(text, documentID, documentName string) []domain.Chunk
}

// ReferenceExtractor scans text for citations, structural references,
// and clause-type signals. Pure function: never fails, returns empty
// collections on no matches.
type ReferenceExtractor interface {
	// Extract finds references in a span of text.
	Extract(text string) domain.References
}
