package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

var (
	searchLimit     int
	searchJSON      bool
	searchNoRerank  bool
	searchNoContext bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Runs hybrid retrieval across all indexed documents.
Combines semantic (vector) and keyword search, re-ranks results with
legal-domain heuristics, and packs excerpts under a context budget.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchNoRerank, "no-rerank", false, "disable heuristic re-ranking")
	searchCmd.Flags().BoolVar(&searchNoContext, "no-context-packing", false, "disable context window packing")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	results, err := retrieverService.Retrieve(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

// searchOptions builds retrieve options from persisted settings and
// command flags. Flags win over settings.
func searchOptions() (domain.RetrieveOptions, error) {
	settings := domain.DefaultSettings()
	if settingsService != nil {
		loaded, err := settingsService.Get()
		if err != nil {
			return domain.RetrieveOptions{}, fmt.Errorf("loading settings: %w", err)
		}
		settings = loaded
	}

	opts := domain.RetrieveOptions{
		Limit:             searchLimit,
		VectorWeight:      settings.Retrieval.VectorWeight,
		KeywordWeight:     settings.Retrieval.KeywordWeight,
		MinKeywordScore:   settings.Retrieval.MinKeywordScore,
		Reranking:         settings.Retrieval.Reranking,
		ContextWindowSize: settings.Retrieval.ContextWindowSize,
	}
	if searchNoRerank {
		opts.Reranking = false
	}
	if searchNoContext {
		opts.ContextWindowSize = 0
	}
	return opts, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		name := results[i].DocumentName
		if name == "" {
			name = results[i].DocumentID
		}

		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, name, results[i].ChunkIndex, results[i].Score)
		if results[i].SectionNumber != "" || results[i].SectionTitle != "" {
			cmd.Printf("      Section %s %s\n", results[i].SectionNumber, results[i].SectionTitle)
		}
		if results[i].ClauseType != "" {
			cmd.Printf("      Clause: %s\n", results[i].ClauseType)
		}
		if len(results[i].Citations) > 0 {
			cmd.Printf("      Citations: %v\n", results[i].Citations)
		}
		cmd.Printf("      %s\n", snippet(results[i].Text, 160))
		cmd.Println()
	}

	return nil
}

// snippet truncates text to at most n characters for table display.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
