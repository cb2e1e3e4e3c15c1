// Package watcher provides file watching for rule live reload.
//
// The watcher monitors rule files for changes and triggers reload
// callbacks when modifications are detected. Files are watched through
// their parent directory so that editors which save by writing a temporary
// file and renaming it over the original are still observed.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Errors returned by the watcher.
var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrNotWatching indicates the path is not being watched.
	ErrNotWatching = errors.New("path not watched")
)

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	// fsnotify watcher
	fsw *fsnotify.Watcher

	// Watched files and the reference count of their directories
	files map[string]bool
	dirs  map[string]int

	// Handlers to call on file changes
	handlers []Handler

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc

	// Wait group for shutdown
	wg sync.WaitGroup

	// Lifecycle
	running bool
	closed  bool

	// Debounce settings
	debounce     time.Duration
	pendingMu    sync.Mutex
	pendingFiles map[string]pendingEvent

	log *logrus.Logger
}

// pendingEvent stores a pending event with its operation for debouncing.
type pendingEvent struct {
	Op   Operation
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(log *logrus.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a new file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:          fsw,
		files:        make(map[string]bool),
		dirs:         make(map[string]int),
		handlers:     make([]Handler, 0),
		debounce:     100 * time.Millisecond,
		pendingFiles: make(map[string]pendingEvent),
		log:          logrus.New(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch adds a file to the watch list. The file itself may not exist yet,
// but its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if _, err := os.Stat(dir); err != nil {
			return err
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.processLoop()

	if w.debounce > 0 {
		w.wg.Add(1)
		go w.debounceLoop()
	}
}

// Close stops the watcher and releases the fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.running {
		w.cancel()
		w.running = false
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// processLoop translates fsnotify events for watched files.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("rule file watch error")
		}
	}
}

// handleFSEvent filters and converts a raw fsnotify event.
func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	var op Operation
	switch {
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpWrite
	default:
		return // chmod only
	}

	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// queueEvent queues an event for debounced delivery.
// It coalesces events:
// - create + write => create (first seen operation wins for creation)
// - write + write => write (latest time)
// - any + remove => remove (deletion takes precedence)
// - remove + create => create (the file was replaced)
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pendingFiles[event.Path]
	if !exists {
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
		return
	}

	switch event.Op {
	case OpRemove, OpCreate:
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
	case OpWrite:
		// Write doesn't override create or remove
		w.pendingFiles[event.Path] = pendingEvent{Op: existing.Op, Time: event.Time}
	default:
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
	}
}

// debounceLoop processes debounced events.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processPendingEvents()
		}
	}
}

// processPendingEvents emits events that have been stable.
func (w *Watcher) processPendingEvents() {
	w.pendingMu.Lock()
	stableThreshold := time.Now().Add(-w.debounce)

	var toEmit []Event
	for path, pending := range w.pendingFiles {
		if pending.Time.Before(stableThreshold) {
			toEmit = append(toEmit, Event{
				Path: path,
				Op:   pending.Op,
				Time: pending.Time,
			})
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	for _, event := range toEmit {
		w.emitEvent(event)
	}
}

// emitEvent calls all handlers with the event.
// Handlers are called with panic recovery to prevent a panicking handler
// from crashing the watcher goroutine.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

// safeCallHandler calls a handler with panic recovery.
func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("path", event.Path).Errorf("watch handler panicked: %v", r)
		}
	}()
	handler(event)
}
