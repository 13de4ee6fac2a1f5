package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage engine settings",
	Long: `View and configure chunking, retrieval, and embedding settings.

Settings persist in the lexica config file and apply to subsequent
index and search commands.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var (
	embeddingProvider string
	embeddingModel    string
	embeddingBaseURL  string
	embeddingAPIKey   string
)

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used for semantic search.

Providers:
  none    - keyword search only (default, no setup required)
  ollama  - local Ollama instance
  openai  - OpenAI cloud API (requires --api-key)`,
	RunE: runSettingsEmbedding,
}

var (
	chunkMaxSize int
	chunkOverlap int
)

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure chunk size and overlap",
	Long: `Configure the structural chunker. Changes apply to documents
indexed afterwards; existing chunks are untouched until reindexed.`,
	RunE: runSettingsChunking,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&embeddingProvider, "provider", "", "embedding provider (none, ollama, openai)")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingModel, "model", "", "embedding model name")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingBaseURL, "base-url", "", "override the provider endpoint")
	settingsEmbeddingCmd.Flags().StringVar(&embeddingAPIKey, "api-key", "", "API key for cloud providers")

	settingsChunkingCmd.Flags().IntVar(&chunkMaxSize, "max-size", 0, "chunk size ceiling in characters")
	settingsChunkingCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "overlap between chunks in characters")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max size: %d\n", settings.Chunking.MaxSize)
	cmd.Printf("  Overlap:  %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Vector weight:       %.2f\n", settings.Retrieval.VectorWeight)
	cmd.Printf("  Keyword weight:      %.2f\n", settings.Retrieval.KeywordWeight)
	cmd.Printf("  Min keyword score:   %.2f\n", settings.Retrieval.MinKeywordScore)
	cmd.Printf("  Reranking:           %t\n", settings.Retrieval.Reranking)
	cmd.Printf("  Context window size: %d\n", settings.Retrieval.ContextWindowSize)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	if settings.Embedding.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	}
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if embeddingProvider != "" {
		provider := domain.EmbeddingProvider(embeddingProvider)
		if !provider.IsValid() {
			return fmt.Errorf("unknown embedding provider %q", embeddingProvider)
		}
		settings.Embedding.Provider = provider
	}
	if embeddingModel != "" {
		settings.Embedding.Model = embeddingModel
	}
	if embeddingBaseURL != "" {
		settings.Embedding.BaseURL = embeddingBaseURL
	}
	if embeddingAPIKey != "" {
		settings.Embedding.APIKey = embeddingAPIKey
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s\n", settings.Embedding.Provider.Description())

	// Best-effort connectivity check; the saved settings stand either way.
	if settings.Embedding.Provider != domain.EmbeddingProviderNone {
		cmd.Print("Validating configuration... ")
		if err := embedding.Validate(settings.Embedding); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			cmd.Println("Fix the provider and rerun, or switch back with --provider none.")
			return nil
		}
		cmd.Println("OK")
	}

	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if chunkMaxSize > 0 {
		settings.Chunking.MaxSize = chunkMaxSize
	}
	if chunkOverlap >= 0 {
		settings.Chunking.Overlap = chunkOverlap
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Chunking configured: max size %d, overlap %d.\n",
		settings.Chunking.MaxSize, settings.Chunking.Overlap)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
