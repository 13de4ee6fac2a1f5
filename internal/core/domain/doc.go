// Package domain defines the core business entities for Lexica.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A legal document submitted for indexing
//   - Chunk: A structure-aware searchable unit within a document
//   - IndexedChunk: A chunk with its embedding and version fingerprint
//   - References: Citations and structural references found in text
//   - SearchResult: A ranked retrieval hit with provenance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
