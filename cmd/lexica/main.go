// Command lexica is the legal document retrieval CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexica-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexica-cli/internal/chunker"
	"github.com/custodia-labs/lexica-cli/internal/core/services"
	"github.com/custodia-labs/lexica-cli/internal/references"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	embedder, err := embedding.NewService(settings.Embedding)
	if err != nil {
		return err
	}

	splitter := chunker.New(
		chunker.WithMaxSize(settings.Chunking.MaxSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	extractor := references.New()

	indexerService := services.NewIndexerService(
		store.ChunkIndex(),
		store.VersionStore(),
		splitter,
		extractor,
		embedder,
	)
	retrieverService := services.NewRetrieverService(
		store.ChunkIndex(),
		embedder,
		settings.Rerank,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Indexer:   indexerService,
		Retriever: retrieverService,
		Settings:  settingsService,
	})

	return cli.Execute()
}
