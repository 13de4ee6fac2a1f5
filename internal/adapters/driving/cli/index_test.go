package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [file]", indexCmd.Use)
}

func TestIndexCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndexCmd_IndexesFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := filepath.Join(dir, "nda.txt")
	require.NoError(t, os.WriteFile(path, []byte("SECTION 1. Scope. Confidential."), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed")
	assert.Contains(t, buf.String(), "2 chunks")

	mock := indexerService.(*mockIndexerService)
	require.Len(t, mock.upserted, 1)
	assert.Equal(t, path, mock.upserted[0].ID)
	assert.Equal(t, "nda.txt", mock.upserted[0].Name)
	assert.Equal(t, "SECTION 1. Scope. Confidential.", mock.upserted[0].Text)
	assert.Equal(t, dir, mock.upserted[0].Metadata.ParentID)
}

func TestIndexCmd_FlagsOverrideDefaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--id", "case-42", "--name", "Brief", "--category", "brief", path})
	defer func() {
		rootCmd.SetArgs(nil)
		indexID = ""
		indexName = ""
		indexCategory = ""
	}()

	require.NoError(t, rootCmd.Execute())

	mock := indexerService.(*mockIndexerService)
	require.Len(t, mock.upserted, 1)
	assert.Equal(t, "case-42", mock.upserted[0].ID)
	assert.Equal(t, "Brief", mock.upserted[0].Name)
	assert.Equal(t, "brief", mock.upserted[0].Metadata.Category)
}

func TestIndexCmd_ReportsSkipped(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	indexerService.(*mockIndexerService).result = &driving.UpsertResult{Skipped: true, Fingerprint: "fp"}

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "unchanged")
	assert.Contains(t, buf.String(), "--force")
}

func TestIndexCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", filepath.Join(t.TempDir(), "missing.txt")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading file")
}

func TestIndexCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexerService
	indexerService = nil
	defer func() {
		indexerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "whatever.txt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "indexer service not configured")
}
