package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Fingerprint computes the content fingerprint for a document.
//
// The hash covers the document text, its name, and the metadata subset
// that affects rendering: the updated timestamp, content type, and
// category. Folder location and byte size do not affect chunk content,
// so they are excluded; moving a document must not force a reindex.
func Fingerprint(doc *Document) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s\x00%s",
		doc.Text,
		doc.Name,
		doc.Metadata.UpdatedAt.UTC().Unix(),
		doc.Metadata.ContentType,
		doc.Metadata.Category,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// VersionEntry records the fingerprint stored for an indexed document.
type VersionEntry struct {
	// DocumentID identifies the document.
	DocumentID string

	// Fingerprint is the content hash at last successful index.
	Fingerprint string

	// IndexedAt is when the entry was last updated.
	IndexedAt time.Time
}

// IsValid reports whether the stored entry is well formed. Malformed
// entries are treated as unknown versions, forcing a reindex.
func (e *VersionEntry) IsValid() bool {
	if e.DocumentID == "" {
		return false
	}
	if len(e.Fingerprint) != hex.EncodedLen(sha256.Size) {
		return false
	}
	if _, err := hex.DecodeString(e.Fingerprint); err != nil {
		return false
	}
	return true
}
