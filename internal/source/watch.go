package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// ErrNotWatchable is returned when watching a source that is not a local file.
var ErrNotWatchable = errors.New("only file sources can be watched")

// DefaultDebounce is how long a file must be quiet before a change fires.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a function when a source file changes. Rapid successive
// writes are coalesced into one call.
//
// The parent directory is watched rather than the file so editors that
// save by rename are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	debounce time.Duration
	lastSeen time.Time
	dirty    bool
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	closeMu  sync.Once
	log      logr.Logger
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(lgr logr.Logger) WatchOption {
	return func(w *Watcher) {
		w.log = lgr
	}
}

// NewWatcher prepares a watcher for location. Call Start to begin and Stop
// to release it.
func NewWatcher(location string, onChange func(), opts ...WatchOption) (*Watcher, error) {
	if !IsFile(location) {
		return nil, fmt.Errorf("%s: %w", location, ErrNotWatchable)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		path:     filepath.Clean(abs),
		onChange: onChange,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching in a background goroutine. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.log.V(1).Info("watching source", "path", w.path)
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, waits for it to exit and closes the underlying
// watcher. It is safe to call more than once and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.closeMu.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.log.Error(err, "closing watcher")
		}
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
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
			w.log.Error(err, "watch error", "path", w.path)
		case <-ticker.C:
			w.fireIfSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.log.V(1).Info("source changed", "path", w.path, "op", event.Op.String())
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.dirty = true
	w.mu.Unlock()
}

func (w *Watcher) fireIfSettled() {
	w.mu.Lock()
	fire := w.dirty && time.Since(w.lastSeen) >= w.debounce
	if fire {
		w.dirty = false
	}
	w.mu.Unlock()
	if fire && w.onChange != nil {
		w.onChange()
	}
}
