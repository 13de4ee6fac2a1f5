package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

var (
	indexForce    bool
	indexID       string
	indexName     string
	indexCategory string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a document",
	Long: `Reads a text file and indexes it for retrieval.

The document is chunked along structural boundaries, enriched with
extracted citations and clause types, embedded (when an embedding
provider is configured), and stored. Re-indexing an unchanged file is
a no-op unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "reindex even if the document is unchanged")
	indexCmd.Flags().StringVar(&indexID, "id", "", "document ID (defaults to the absolute file path)")
	indexCmd.Flags().StringVar(&indexName, "name", "", "document name (defaults to the file name)")
	indexCmd.Flags().StringVarP(&indexCategory, "category", "c", "", "legal category (contract, brief, statute, ...)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	doc, err := documentFromFile(args[0], indexID, indexName, indexCategory)
	if err != nil {
		return err
	}

	result, err := indexerService.Upsert(cmd.Context(), doc, indexForce)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.Skipped {
		cmd.Printf("Document %s is unchanged, skipped. Use --force to reindex.\n", doc.ID)
		return nil
	}

	cmd.Printf("Indexed %s: %d chunks.\n", doc.ID, result.ChunkCount)
	return nil
}

// documentFromFile builds a domain document from a file on disk.
func documentFromFile(path, id, name, category string) (*domain.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if id == "" {
		id = absPath
	}
	if name == "" {
		name = filepath.Base(absPath)
	}

	return &domain.Document{
		ID:   id,
		Name: name,
		Text: string(data),
		Metadata: domain.DocumentMetadata{
			ContentType: "text/plain",
			Category:    category,
			// Filesystems don't expose creation time portably; the
			// modification time serves for both.
			CreatedAt:  info.ModTime().UTC(),
			UpdatedAt:  info.ModTime().UTC(),
			ParentID:   filepath.Dir(absPath),
			ParentName: filepath.Base(filepath.Dir(absPath)),
			SizeBytes:  info.Size(),
		},
	}, nil
}
