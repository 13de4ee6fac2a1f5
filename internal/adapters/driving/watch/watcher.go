// Package watch keeps the index in sync with a directory tree.
// File creations and writes are upserted, removals and renames are
// deleted from the index.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexica-cli/internal/logger"
)

// textExtensions are the file extensions the watcher indexes.
// Binary formats need upstream text extraction and are skipped.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".rst": true,
}

// Watcher mirrors a directory tree into the index.
type Watcher struct {
	root    string
	indexer driving.IndexerService
}

// NewWatcher creates a watcher over root.
func NewWatcher(root string, indexer driving.IndexerService) (*Watcher, error) {
	if indexer == nil {
		return nil, errors.New("watch: indexer service is required")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", absRoot)
	}

	return &Watcher{root: absRoot, indexer: indexer}, nil
}

// Run indexes the existing tree, then blocks processing filesystem
// events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer notifier.Close() //nolint:errcheck

	if err := w.initialSync(ctx, notifier); err != nil {
		return err
	}

	logger.Info("Watching %s", w.root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, notifier, event)

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// initialSync walks the tree, registering directories with the
// notifier and upserting every indexable file.
func (w *Watcher) initialSync(ctx context.Context, notifier *fsnotify.Watcher) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if isHidden(path) {
			if d.IsDir() && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return notifier.Add(path)
		}

		if indexable(path) {
			w.upsert(ctx, path)
		}
		return nil
	})
}

// handleEvent maps a filesystem event to an index operation.
// Directory creations extend the watch set; chmods are ignored.
func (w *Watcher) handleEvent(ctx context.Context, notifier *fsnotify.Watcher, event fsnotify.Event) {
	if isHidden(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := notifier.Add(event.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", event.Name, err)
			}
			return
		}
		if indexable(event.Name) {
			w.upsert(ctx, event.Name)
		}

	case event.Op.Has(fsnotify.Write):
		if indexable(event.Name) {
			w.upsert(ctx, event.Name)
		}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if indexable(event.Name) {
			w.remove(ctx, event.Name)
		}
	}
}

func (w *Watcher) upsert(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("Failed to stat %s: %v", path, err)
		return
	}

	doc := &domain.Document{
		ID:   path,
		Name: filepath.Base(path),
		Text: string(data),
		Metadata: domain.DocumentMetadata{
			ContentType: "text/plain",
			CreatedAt:   info.ModTime().UTC(),
			UpdatedAt:   info.ModTime().UTC(),
			ParentID:    filepath.Dir(path),
			ParentName:  filepath.Base(filepath.Dir(path)),
			SizeBytes:   info.Size(),
		},
	}

	result, err := w.indexer.Upsert(ctx, doc, false)
	if err != nil {
		logger.Warn("Failed to index %s: %v", path, err)
		return
	}
	if !result.Skipped {
		logger.Info("Indexed %s (%d chunks)", path, result.ChunkCount)
	}
}

func (w *Watcher) remove(ctx context.Context, path string) {
	if err := w.indexer.Remove(ctx, path); err != nil {
		logger.Warn("Failed to remove %s: %v", path, err)
		return
	}
	logger.Info("Removed %s", path)
}

// indexable reports whether path has a supported text extension.
func indexable(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// isHidden reports whether any element of path starts with a dot.
// The relative elements "." and ".." do not count as hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
