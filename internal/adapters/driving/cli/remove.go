package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the index",
	Long: `Deletes a document's chunks and version entry from the index.
Removing a document that was never indexed succeeds quietly.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	docID := args[0]
	if err := indexerService.Remove(cmd.Context(), docID); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Document %s removed from index.\n", docID)
	return nil
}
