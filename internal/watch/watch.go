// Package watch re-runs the docs sync whenever the source tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsync/internal/logfields"
)

// SyncFunc performs one full sync.
type SyncFunc func(ctx context.Context) error

// Watcher watches a source directory and calls its SyncFunc after changes
// settle for the debounce interval. Calls never overlap.
type Watcher struct {
	source   string
	debounce time.Duration
	run      SyncFunc
	logger   *slog.Logger
}

// New creates a Watcher. A non-positive debounce triggers immediately.
func New(source string, debounce time.Duration, fn SyncFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{source: source, debounce: debounce, run: fn, logger: logger}
}

// Run syncs once and then keeps syncing on changes until ctx is canceled.
// Sync errors are logged and do not stop the watcher. Run returns nil on
// cancellation and an error only if the watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	// fsnotify and WalkDir do not descend into a symlinked root.
	root := w.source
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	w.addDirsRecursive(fsw, root)

	requests := make(chan struct{}, 1)
	requests <- struct{}{}

	d := newDebouncer(w.debounce, requests)
	defer d.stop()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, requests)
	}()
	defer wg.Wait()
	defer cancel()

	w.logger.Info("Watching for changes", logfields.Source(w.source))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, d.trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// worker drains sync requests one at a time. A request arriving during a
// sync is buffered and causes exactly one follow-up run.
func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			if ctx.Err() != nil {
				return
			}
			if err := w.run(ctx); err != nil {
				w.logger.Warn("Sync failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for editor temp and swap files. Other hidden
// files are mirrored like any other file, so their changes trigger a sync.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}

type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	delay    time.Duration
	requests chan<- struct{}
}

func newDebouncer(delay time.Duration, requests chan<- struct{}) *debouncer {
	return &debouncer{delay: delay, requests: requests}
}

// trigger (re)starts the timer; when it fires a request is queued unless one
// is already pending.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.requests <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
