package domain

import "fmt"

const unknownDescription = "Unknown"

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderNone disables embeddings; retrieval is keyword-only.
	EmbeddingProviderNone EmbeddingProvider = "none"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderNone, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderNone:
		return "None (keyword search only)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkingSettings configures the structural chunker.
type ChunkingSettings struct {
	// MaxSize is the chunk size ceiling in characters. A single
	// atomic structural unit may exceed it by up to 20%.
	MaxSize int

	// Overlap is the number of characters retained between
	// consecutive chunks.
	Overlap int
}

// RetrievalSettings configures the hybrid retriever.
type RetrievalSettings struct {
	// VectorWeight is the default fusion weight for the vector signal.
	VectorWeight float64

	// KeywordWeight is the default fusion weight for the keyword signal.
	KeywordWeight float64

	// MinKeywordScore is the default keyword-only cut-off.
	MinKeywordScore float64

	// Reranking enables re-ranking by default.
	Reranking bool

	// ContextWindowSize is the default character budget for packing.
	ContextWindowSize int
}

// EmbeddingSettings configures the embedding client.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// Settings holds the full engine configuration.
type Settings struct {
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Rerank    RerankWeights
	Embedding EmbeddingSettings
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			MaxSize: 1000,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			VectorWeight:      0.7,
			KeywordWeight:     0.3,
			MinKeywordScore:   0.1,
			Reranking:         true,
			ContextWindowSize: 8000,
		},
		Rerank: DefaultRerankWeights(),
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderNone,
			Model:    "",
		},
	}
}

// Validate checks settings for consistency.
func (s *Settings) Validate() error {
	if s.Chunking.MaxSize <= 0 {
		return fmt.Errorf("%w: chunking max size must be positive", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.MaxSize {
		return fmt.Errorf("%w: chunking overlap must be in [0, max size)", ErrInvalidInput)
	}
	if s.Retrieval.VectorWeight < 0 || s.Retrieval.VectorWeight > 1 {
		return fmt.Errorf("%w: vector weight must be in [0,1]", ErrInvalidInput)
	}
	if s.Retrieval.KeywordWeight < 0 || s.Retrieval.KeywordWeight > 1 {
		return fmt.Errorf("%w: keyword weight must be in [0,1]", ErrInvalidInput)
	}
	if s.Retrieval.ContextWindowSize < 0 {
		return fmt.Errorf("%w: context window size must not be negative", ErrInvalidInput)
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", ErrInvalidInput, s.Embedding.Provider)
	}
	return nil
}
