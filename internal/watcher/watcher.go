// Package watcher keeps a namespace in sync with a directory tree.
//
// Create and write events for supported files are debounced per path and
// submitted as ingestion jobs; removals delete the matching document. The
// document id is a slug of the path relative to the watched root, so a file
// maps back to the same document across restarts.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// DefaultDebounce is the quiet period after the last write event before a
// file is submitted for ingestion.
const DefaultDebounce = 500 * time.Millisecond

// noticeBuffer bounds the activity stream; events beyond it are dropped.
const noticeBuffer = 64

// NoticeOp names a watcher action.
type NoticeOp string

// Watcher actions reported through Notices.
const (
	NoticeSubmitted NoticeOp = "submitted"
	NoticeRemoved   NoticeOp = "removed"
	NoticeError     NoticeOp = "error"
)

// Notice reports one watcher action for display.
type Notice struct {
	// Op is the action taken.
	Op NoticeOp

	// Path is the absolute file path that triggered the action.
	Path string

	// DocumentID is the derived document id.
	DocumentID string

	// JobID is set on submissions.
	JobID string

	// Err is set when Op is NoticeError.
	Err error
}

// Config describes what to watch and how.
type Config struct {
	// Root is the directory to watch.
	Root string

	// Namespace receives the ingested documents.
	Namespace string

	// Debounce is the quiet period after the last write before a file is
	// submitted. Zero or negative uses DefaultDebounce.
	Debounce time.Duration

	// Extensions is the allow-list of file extensions, lowercase with a
	// leading dot. Empty uses the application defaults.
	Extensions []string
}

// Watcher mirrors filesystem changes under a root directory into a
// namespace via the job and catalog services.
type Watcher struct {
	jobs    driving.JobService
	catalog driving.CatalogService

	root       string
	namespace  string
	debounce   time.Duration
	extensions map[string]struct{}

	notices chan Notice

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New validates the configuration and returns a watcher ready to Run.
func New(cfg Config, jobs driving.JobService, catalog driving.CatalogService) (*Watcher, error) {
	if jobs == nil {
		return nil, fmt.Errorf("watcher: job service is required")
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("watcher: namespace is required")
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watcher: root path error: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watcher: root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watcher: %s is not a directory", root)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = domain.DefaultAppSettings().Watch.Extensions
	}
	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	return &Watcher{
		jobs:       jobs,
		catalog:    catalog,
		root:       root,
		namespace:  cfg.Namespace,
		debounce:   debounce,
		extensions: extSet,
		notices:    make(chan Notice, noticeBuffer),
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Notices returns the activity stream. Events are dropped, not queued,
// when the consumer falls behind.
func (w *Watcher) Notices() <-chan Notice {
	return w.notices
}

// Run watches the tree until the context ends. Subdirectories created while
// running are picked up automatically.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	logger.Info("Watching %s (namespace %s)", w.root, w.namespace)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// addTree registers the root and every non-hidden subdirectory.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watcher: walk %s: %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watcher: watch %s: %w", path, err)
		}
		return nil
	})
}

// handleEvent maps one fsnotify event onto a submission or a deletion.
// Chmod-only events carry no content change and are ignored.
func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if isHidden(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// The path is gone; a pending submission for it is stale.
		w.cancelTimer(event.Name)
		if !w.supported(event.Name) {
			return
		}
		w.remove(ctx, event.Name)

	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if event.Op&fsnotify.Create != 0 {
				if err := fsw.Add(event.Name); err != nil {
					logger.Warn("Watch %s: %v", event.Name, err)
				}
			}
			return
		}
		if !w.supported(event.Name) {
			return
		}
		w.schedule(ctx, event.Name)
	}
}

// schedule arms or resets the per-path debounce timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.submit(ctx, path)
	})
}

func (w *Watcher) cancelTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// submit enqueues an ingestion job for the file.
func (w *Watcher) submit(ctx context.Context, path string) {
	id := w.documentID(path)
	job, err := w.jobs.Submit(ctx, driving.IngestRequest{
		Namespace:  w.namespace,
		DocumentID: id,
		FileName:   filepath.Base(path),
		Path:       path,
	})
	if err != nil {
		logger.Warn("Watch submit %s: %v", path, err)
		w.notify(Notice{Op: NoticeError, Path: path, DocumentID: id, Err: err})
		return
	}

	logger.Debug("Watch submitted %s as job %s", path, job.ID)
	w.notify(Notice{Op: NoticeSubmitted, Path: path, DocumentID: id, JobID: job.ID})
}

// remove deletes the document derived from a removed path. Paths that were
// never ingested are not an error.
func (w *Watcher) remove(ctx context.Context, path string) {
	if w.catalog == nil {
		return
	}

	id := w.documentID(path)
	if err := w.catalog.DeleteDocument(ctx, w.namespace, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		logger.Warn("Watch delete %s: %v", path, err)
		w.notify(Notice{Op: NoticeError, Path: path, DocumentID: id, Err: err})
		return
	}

	logger.Debug("Watch removed document %s for %s", id, path)
	w.notify(Notice{Op: NoticeRemoved, Path: path, DocumentID: id})
}

func (w *Watcher) notify(n Notice) {
	select {
	case w.notices <- n:
	default:
		// Consumer is behind; the notice is dropped.
	}
}

// supported reports whether the file extension is on the allow-list.
func (w *Watcher) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := w.extensions[ext]
	return ok
}

// documentID derives a stable document id from the path relative to the
// watched root.
func (w *Watcher) documentID(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return Slug(rel)
}

// Slug normalises a relative path into a document id: lowercase, with every
// run of characters outside [a-z0-9._] collapsed to a single dash.
func Slug(rel string) string {
	rel = strings.ToLower(filepath.ToSlash(rel))

	var b strings.Builder
	b.Grow(len(rel))
	dashed := false
	for _, r := range rel {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dashed = false
		default:
			if !dashed {
				b.WriteByte('-')
				dashed = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// isHidden reports whether any path segment is a dotfile. The "." and ".."
// elements do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
