package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates an empty or unusable query string.
	// This is the only retrieval failure surfaced to callers; every
	// other degradation yields an empty result list instead.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or is failing. Retrieval degrades to keyword-only;
	// indexing stores zero vectors when no service is configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorSearchUnavailable indicates the index store cannot serve
	// vector queries. The retriever checks this once per request and
	// falls back to keyword search.
	ErrVectorSearchUnavailable = errors.New("vector search unavailable")

	// ErrDimensionMismatch indicates a vector whose dimension differs
	// from the index's established dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexClosed indicates the index store has been closed.
	ErrIndexClosed = errors.New("index store closed")
)
