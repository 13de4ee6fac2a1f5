// Package sqlite provides the durable storage adapter. One database
// file holds both the chunk index and the document version entries;
// WAL mode keeps reads serving the old state while a replace commits.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lexica-cli/internal/adapters/driven/storage/scoring"
	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed storage. It exposes the chunk index and
// version store interfaces through wrapper types sharing one database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lexica/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexica", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode so searches keep reading the committed state while a
	// replace transaction is in flight.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkIndex returns a ChunkIndex interface backed by this store.
func (s *Store) ChunkIndex() driven.ChunkIndex {
	return &chunkIndex{store: s}
}

// VersionStore returns a VersionStore interface backed by this store.
func (s *Store) VersionStore() driven.VersionStore {
	return &versionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Index ====================

// chunkIndex implements driven.ChunkIndex.
type chunkIndex struct {
	store *Store
}

var _ driven.ChunkIndex = (*chunkIndex)(nil)

// Replace atomically swaps all chunks for a document with the new set.
// The delete and inserts share one transaction, so readers observe the
// old set until commit and a failed write changes nothing.
func (c *chunkIndex) Replace(ctx context.Context, documentID string, chunks []domain.IndexedChunk) error {
	if documentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	if err := c.checkDimensions(ctx, chunks); err != nil {
		return err
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing chunks for %s: %w", documentID, err)
	}

	for _, chunk := range chunks {
		citationsJSON, err := json.Marshal(chunk.Citations)
		if err != nil {
			return fmt.Errorf("marshalling citations: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (
				document_id, chunk_index, chunk_id, document_name, text,
				section_title, section_number, is_heading, citations, clause_type,
				vector, document_version, category, indexed_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, documentID, chunk.Index, chunk.ID, chunk.SourceName, chunk.Text,
			chunk.SectionTitle, chunk.SectionNumber, chunk.IsHeading,
			string(citationsJSON), chunk.ClauseType,
			vectorBlob(chunk), chunk.DocumentVersion, chunk.Category,
			chunk.IndexedAt.UTC(), chunk.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("inserting chunk %d for %s: %w", chunk.Index, documentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace for %s: %w", documentID, err)
	}
	return nil
}

// Delete removes all chunks for a document.
func (c *chunkIndex) Delete(ctx context.Context, documentID string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", documentID, err)
	}
	return nil
}

// Get retrieves one chunk by (documentID, chunkIndex).
func (c *chunkIndex) Get(ctx context.Context, documentID string, chunkIndex int) (*domain.IndexedChunk, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT document_id, chunk_index, chunk_id, document_name, text,
			section_title, section_number, is_heading, citations, clause_type,
			vector, document_version, category, indexed_at, updated_at
		FROM chunks WHERE document_id = ? AND chunk_index = ?
	`, documentID, chunkIndex)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chunk %s/%d: %w", documentID, chunkIndex, domain.ErrNotFound)
		}
		return nil, err
	}
	return chunk, nil
}

// VectorSearch scores every stored non-zero vector against the query
// and returns up to k hits with raw cosine distances, ascending.
func (c *chunkIndex) VectorSearch(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	rows, err := c.store.db.QueryContext(ctx,
		"SELECT document_id, chunk_index, vector FROM chunks WHERE vector IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("scanning vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var docID string
		var index int
		var blob []byte
		if err := rows.Scan(&docID, &index, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector row: %w", err)
		}

		vector := bytesToFloat32Slice(blob)
		if !hasNonZero(vector) {
			continue
		}
		if len(vector) != len(query) {
			return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
				domain.ErrDimensionMismatch, len(query), len(vector))
		}
		hits = append(hits, driven.VectorHit{
			DocumentID: docID,
			ChunkIndex: index,
			Distance:   scoring.CosineDistance(query, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		if hits[i].DocumentID != hits[j].DocumentID {
			return hits[i].DocumentID < hits[j].DocumentID
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// KeywordSearch scores chunk texts by length-weighted whole-word
// occurrences and returns up to k hits with raw scores, descending.
func (c *chunkIndex) KeywordSearch(ctx context.Context, keywords []string, k int) ([]driven.KeywordHit, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	rows, err := c.store.db.QueryContext(ctx, "SELECT document_id, chunk_index, text FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("scanning chunk texts: %w", err)
	}
	defer rows.Close()

	var hits []driven.KeywordHit
	for rows.Next() {
		var docID, text string
		var index int
		if err := rows.Scan(&docID, &index, &text); err != nil {
			return nil, fmt.Errorf("scanning text row: %w", err)
		}

		score := scoring.KeywordScore(text, keywords)
		if score <= 0 {
			continue
		}
		hits = append(hits, driven.KeywordHit{
			DocumentID: docID,
			ChunkIndex: index,
			Score:      score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk texts: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].DocumentID != hits[j].DocumentID {
			return hits[i].DocumentID < hits[j].DocumentID
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Stats returns document and chunk counts.
func (c *chunkIndex) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats
	row := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT document_id), COUNT(*) FROM chunks")
	if err := row.Scan(&stats.DocumentCount, &stats.ChunkCount); err != nil {
		return domain.IndexStats{}, fmt.Errorf("counting chunks: %w", err)
	}
	return stats, nil
}

// Close closes the underlying store.
func (c *chunkIndex) Close() error {
	return c.store.Close()
}

// checkDimensions rejects a chunk set whose non-zero vectors disagree
// with each other or with the dimension already established on disk.
func (c *chunkIndex) checkDimensions(ctx context.Context, chunks []domain.IndexedChunk) error {
	dimensions := 0
	row := c.store.db.QueryRowContext(ctx,
		"SELECT length(vector) / 4 FROM chunks WHERE vector IS NOT NULL LIMIT 1")
	if err := row.Scan(&dimensions); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading index dimension: %w", err)
	}

	for i := range chunks {
		if !chunks[i].HasVector() {
			continue
		}
		if dimensions == 0 {
			dimensions = len(chunks[i].Vector)
		} else if len(chunks[i].Vector) != dimensions {
			return fmt.Errorf("%w: chunk %d has dimension %d, index has %d",
				domain.ErrDimensionMismatch, chunks[i].Index, len(chunks[i].Vector), dimensions)
		}
	}
	return nil
}

// scanChunk reads one chunks row into a domain.IndexedChunk.
func scanChunk(row *sql.Row) (*domain.IndexedChunk, error) {
	var chunk domain.IndexedChunk
	var citationsJSON string
	var blob []byte
	var indexedAt, updatedAt sql.NullTime

	err := row.Scan(&chunk.SourceDocID, &chunk.Index, &chunk.ID, &chunk.SourceName, &chunk.Text,
		&chunk.SectionTitle, &chunk.SectionNumber, &chunk.IsHeading, &citationsJSON, &chunk.ClauseType,
		&blob, &chunk.DocumentVersion, &chunk.Category, &indexedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(citationsJSON), &chunk.Citations); err != nil {
		return nil, fmt.Errorf("unmarshaling citations: %w", err)
	}
	chunk.Vector = bytesToFloat32Slice(blob)
	if indexedAt.Valid {
		chunk.IndexedAt = indexedAt.Time
	}
	if updatedAt.Valid {
		chunk.UpdatedAt = updatedAt.Time
	}
	return &chunk, nil
}

// vectorBlob serialises a chunk's vector, storing NULL for chunks
// indexed without an embedding.
func vectorBlob(chunk domain.IndexedChunk) any {
	if !chunk.HasVector() {
		return nil
	}
	return float32SliceToBytes(chunk.Vector)
}

// ==================== Version Store ====================

// versionStore implements driven.VersionStore.
type versionStore struct {
	store *Store
}

var _ driven.VersionStore = (*versionStore)(nil)

// Get retrieves the stored entry for a document.
func (v *versionStore) Get(ctx context.Context, documentID string) (*domain.VersionEntry, error) {
	row := v.store.db.QueryRowContext(ctx,
		"SELECT document_id, fingerprint, indexed_at FROM document_versions WHERE document_id = ?",
		documentID)

	var entry domain.VersionEntry
	var indexedAt sql.NullTime
	if err := row.Scan(&entry.DocumentID, &entry.Fingerprint, &indexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("version entry %s: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning version entry: %w", err)
	}
	if indexedAt.Valid {
		entry.IndexedAt = indexedAt.Time
	}
	return &entry, nil
}

// Save stores or updates the entry for a document.
func (v *versionStore) Save(ctx context.Context, entry domain.VersionEntry) error {
	if entry.DocumentID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	if entry.IndexedAt.IsZero() {
		entry.IndexedAt = time.Now()
	}

	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO document_versions (document_id, fingerprint, indexed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			indexed_at = excluded.indexed_at
	`, entry.DocumentID, entry.Fingerprint, entry.IndexedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving version entry: %w", err)
	}
	return nil
}

// Delete removes the entry for a document. Absent entries are a no-op.
func (v *versionStore) Delete(ctx context.Context, documentID string) error {
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM document_versions WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting version entry for %s: %w", documentID, err)
	}
	return nil
}

// Count returns the number of stored entries.
func (v *versionStore) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM document_versions")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting version entries: %w", err)
	}
	return count, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// hasNonZero reports whether any component of the vector is non-zero.
func hasNonZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return true
		}
	}
	return false
}
