// Package watch keeps a directory of extracted rows in step with a
// directory of parsed documents.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/format"
	"github.com/cltl/micro-portraits/pkg/format/csvrows"
	"github.com/cltl/micro-portraits/pkg/loader"
	ioloader "github.com/cltl/micro-portraits/pkg/loader/io"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/portrait"
	"github.com/cltl/micro-portraits/pkg/store"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher re-extracts documents in a directory whenever they change and
// writes one CSV file per document to an output directory.
type Watcher struct {
	dir       string
	outDir    string
	debounce  time.Duration
	extractor *portrait.ExtractorClient
	loader    *ioloader.IODocumentLoader
	store     store.PortraitStorage

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	seen    map[string]extraction
}

// extraction remembers what the last run produced for a file.
type extraction struct {
	hash       string
	documentID string
}

// NewWatcherParams configures a Watcher. Store is optional; when set,
// every extraction is also saved there under a fresh run id.
type NewWatcherParams struct {
	Dir       string
	OutDir    string
	Debounce  time.Duration
	Extractor *portrait.ExtractorClient
	Store     store.PortraitStorage
}

func NewWatcher(params NewWatcherParams) (*Watcher, error) {
	if params.Dir == "" || params.OutDir == "" {
		return nil, errors.New("watch: Dir and OutDir are required")
	}
	if params.Extractor == nil {
		return nil, errors.New("watch: Extractor is required")
	}
	debounce := params.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		dir:       params.Dir,
		outDir:    params.OutDir,
		debounce:  debounce,
		extractor: params.Extractor,
		loader:    ioloader.NewIODocumentLoader(),
		store:     params.Store,
		pending:   make(map[string]fsnotify.Op),
		seen:      make(map[string]extraction),
	}, nil
}

// Sync extracts every document already present in the directory.
func (w *Watcher) Sync(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Update(ctx, filepath.Join(w.dir, e.Name()))
	}
	return nil
}

// Run watches the directory until ctx ends. Changes are collected and
// handled once per debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logger.Info("[Watch] Watching directory", "dir", w.dir, "out", w.outDir)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if _, err := format.ForPath(event.Name); err != nil {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] |= event.Op
			w.mu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("[Watch] Watcher error", "err", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	for path, op := range batch {
		if ctx.Err() != nil {
			return
		}
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				w.Remove(ctx, path)
				continue
			}
		}
		w.Update(ctx, path)
	}
}

// OutputPath returns where the rows of the document at path are written.
func (w *Watcher) OutputPath(path string) string {
	return filepath.Join(w.outDir, util.DocumentIDFromPath(path)+".csv")
}

// Update extracts the document at path unless its content is unchanged
// since the last extraction. Files of unknown format are ignored.
func (w *Watcher) Update(ctx context.Context, path string) bool {
	if _, err := format.ForPath(path); err != nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("[Watch] Failed to read document", "path", path, "err", err)
		return false
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	w.mu.Lock()
	unchanged := w.seen[path].hash == hash
	w.mu.Unlock()
	if unchanged {
		return false
	}

	file := loader.NewDocumentFile(loader.NewDocumentFileParams{
		FilePath: path,
		Loader:   w.loader,
	})
	defer w.loader.Forget(file)

	res, err := w.extractor.ExtractFile(ctx, file)
	if err != nil {
		logger.Warn("[Watch] Failed to extract document", "path", path, "err", err)
		return false
	}
	rows := res.Rows()
	if err := w.writeRows(w.OutputPath(path), rows); err != nil {
		logger.Error("[Watch] Failed to write rows", "path", path, "err", err)
		return false
	}
	if w.store != nil {
		runID, err := util.NewID()
		if err == nil {
			err = w.store.SaveDocument(ctx, res.DocumentID, runID, rows)
		}
		if err != nil {
			logger.Error("[Watch] Failed to store rows", "document", res.DocumentID, "err", err)
		}
	}

	w.mu.Lock()
	w.seen[path] = extraction{hash: hash, documentID: res.DocumentID}
	w.mu.Unlock()

	logger.Info("[Watch] Extracted document", "path", path, "portraits", len(res.Portraits), "rows", len(rows))
	return true
}

// Remove deletes the output of a document that disappeared.
func (w *Watcher) Remove(ctx context.Context, path string) {
	w.mu.Lock()
	prev, ok := w.seen[path]
	delete(w.seen, path)
	w.mu.Unlock()

	if err := os.Remove(w.OutputPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("[Watch] Failed to remove rows", "path", path, "err", err)
	}
	if w.store != nil {
		id := util.DocumentIDFromPath(path)
		if ok {
			id = prev.documentID
		}
		if err := w.store.DeleteDocument(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Watch] Failed to delete stored rows", "document", id, "err", err)
		}
	}
	logger.Info("[Watch] Removed document", "path", path)
}

func (w *Watcher) writeRows(target string, rows []common.Row) error {
	tmp, err := os.CreateTemp(w.outDir, ".rows-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	cw := csvrows.NewWriter(tmp)
	if err := cw.Write(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
