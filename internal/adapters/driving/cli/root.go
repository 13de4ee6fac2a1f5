// Package cli provides the cobra command tree for the lexica binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexica-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by main. Commands check for nil so the tree can be
// exercised without a full backend.
var (
	indexerService   driving.IndexerService
	retrieverService driving.RetrieverService
	settingsService  driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lexica",
	Short: "Semantic retrieval for legal documents",
	Long: `Lexica indexes legal documents into searchable chunks and answers
natural-language queries with ranked, context-packed excerpts.

Documents are split along structural boundaries (articles, sections,
clauses), enriched with extracted citations and clause types, and
retrieved through hybrid vector plus keyword search.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Services aggregates everything the command tree needs.
type Services struct {
	Indexer   driving.IndexerService
	Retriever driving.RetrieverService
	Settings  driving.SettingsService
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	indexerService = s.Indexer
	retrieverService = s.Retriever
	settingsService = s.Settings
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
