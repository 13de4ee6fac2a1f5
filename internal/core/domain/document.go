package domain

import (
	"strings"
	"time"
)

// Document represents a legal document submitted for indexing.
// The caller owns the document; the engine only reads it.
type Document struct {
	// ID is the stable, opaque identifier assigned by the caller.
	ID string

	// Name is the human-readable document name.
	Name string

	// Text is the full extracted body text.
	// Text extraction from binary formats happens upstream.
	Text string

	// Metadata describes the document as known to the source system.
	Metadata DocumentMetadata
}

// DocumentMetadata holds the source-system metadata for a document.
type DocumentMetadata struct {
	// ContentType is the MIME type of the original document.
	ContentType string

	// Category is the legal document category (contract, brief, statute, ...).
	Category string

	// CreatedAt is when the document was created in the source system.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified in the source system.
	UpdatedAt time.Time

	// ParentID is the identifier of the containing folder, if any.
	ParentID string

	// ParentName is the display name of the containing folder, if any.
	ParentName string

	// SizeBytes is the size of the original document in bytes.
	SizeBytes int64
}

// LegalCategories lists the document categories the re-ranker recognises.
// A category match earns a small relevance bonus during re-ranking.
var LegalCategories = []string{
	"contract",
	"agreement",
	"brief",
	"motion",
	"opinion",
	"statute",
	"regulation",
	"memorandum",
	"pleading",
}

// IsLegalCategory reports whether category matches a known legal
// document category (case-insensitive).
func IsLegalCategory(category string) bool {
	for _, c := range LegalCategories {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}
