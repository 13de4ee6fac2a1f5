// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - Chunker: Splits document text into structure-aware chunks
//   - ReferenceExtractor: Finds citations and clause signals in text
//   - ChunkIndex: Chunk persistence plus raw vector/keyword scoring
//   - VersionStore: Document fingerprint persistence
//   - ConfigStore: Engine configuration
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it,
//     chunks are indexed with zero vectors and retrieval is
//     keyword-only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
