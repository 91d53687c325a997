// Package watch reloads the portfolio when its file is edited outside archfolio.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"archfolio/internal/logging"
	"archfolio/internal/portfolio"
)

// DefaultDebounce batches the burst of events an editor produces for one save.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one document file and replaces the store's document with each
// valid version written to it. Invalid files are logged and ignored.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *portfolio.Store
	path     string // absolute path of the document
	dir      string
	debounce time.Duration
	pending  time.Time // time of the newest unprocessed event; zero when idle
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool

	// written is the digest of the last bytes archfolio wrote to path itself
	written [sha256.Size]byte
	wrote   bool

	stats Stats
}

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Reloads   int
	Unchanged int
	Own       int
	Rejected  int
	Errors    int
	LastError string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, store *portfolio.Store, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		store:    store,
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Start begins watching. It watches the directory rather than the file so that
// atomic saves (write to a temp file, then rename) are seen.
// This method is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return nil
	}
	if _, err := os.Stat(w.dir); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("cannot watch %s: %w", w.dir, err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true
	w.mu.Unlock()

	logging.Watch("watching %s", w.path)
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit. It is safe to call
// more than once, and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		logging.WatchWarn("error closing watcher: %v", err)
	}
	logging.Watch("stopped")
}

// Export writes doc to path. When path is the watched file the write is
// remembered, so the event it causes does not reload the file over edits made
// since. It matches the signature of portfolio.Export.
func (w *Watcher) Export(path string, doc portfolio.Portfolio) error {
	data, err := portfolio.Encode(doc, portfolio.FormatForPath(path))
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil && abs == w.path {
		w.mu.Lock()
		w.written = sha256.Sum256(data)
		w.wrote = true
		w.mu.Unlock()
	}
	return portfolio.WriteFile(path, data)
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchWarn("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.stats.LastError = err.Error()
			w.mu.Unlock()

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return // removals and chmod leave the current document in place
	}

	logging.WatchDebug("%s %s", event.Op, event.Name)
	w.mu.Lock()
	w.stats.Events++
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	w.reload()
}

// reload imports the file and commits it unless it fails to decode, holds the
// bytes archfolio last wrote itself, or matches the current document.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.reject(fmt.Errorf("failed to read document: %w", err))
		return
	}

	w.mu.Lock()
	own := w.wrote && sha256.Sum256(data) == w.written
	if own {
		w.stats.Own++
	}
	w.mu.Unlock()
	if own {
		logging.WatchDebug("skipping own write of %s", w.path)
		return
	}

	doc, err := portfolio.Decode(data, portfolio.FormatForPath(w.path))
	if err != nil {
		w.reject(err)
		return
	}

	if cmp.Equal(doc, w.store.Current(), cmpopts.EquateEmpty()) {
		w.mu.Lock()
		w.stats.Unchanged++
		w.mu.Unlock()
		return
	}

	if err := w.store.Replace("watch", doc); err != nil {
		w.reject(fmt.Errorf("store rejected document: %w", err))
		return
	}

	logging.Watch("reloaded %s (%d projects)", w.path, len(doc.Projects))
	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
}

func (w *Watcher) reject(err error) {
	logging.WatchWarn("ignoring %s: %v", w.path, err)
	w.mu.Lock()
	w.stats.Rejected++
	w.stats.LastError = err.Error()
	w.mu.Unlock()
}
