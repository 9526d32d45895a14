// Package watch reloads a graph document when it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/passgraph/internal/ctxlog"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is called with the document path after it changed.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher watches a single document file. The parent directory is watched
// so that editors replacing the file through a rename are noticed too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	reload   ReloadFunc
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a watcher for path. A zero debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, reload ReloadFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		watcher:  w,
		reload:   reload,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	ctxlog.FromContext(ctx).Info("Document watcher started", "path", w.path)

	go w.loop(ctx)
	return nil
}

// Stop ends the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.done
	return w.watcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		close(w.done)
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			logger.Debug("Document event detected", "event", event.Op.String(), "file", event.Name)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.trigger(ctx) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Document watcher error", "error", err)

		case <-w.stopCh:
			logger.Info("Document watcher stopped")
			return

		case <-ctx.Done():
			logger.Info("Document watcher context cancelled")
			return
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	docPath, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return eventPath == docPath
}

func (w *Watcher) trigger(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Document changed, reloading", "path", w.path)

	start := time.Now()
	if err := w.reload(ctx, w.path); err != nil {
		logger.Error("Document reload failed", "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("Document reloaded", "duration", time.Since(start))
}
