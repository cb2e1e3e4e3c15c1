package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dshills/lintite/internal/rules"
	"github.com/dshills/lintite/internal/rules/loader"
)

// Reloader reloads rule files into a store when the watcher reports a change.
type Reloader struct {
	w      *Watcher
	loader *loader.Loader
	store  *rules.Store

	mu    sync.RWMutex
	kinds map[string]rules.Kind
}

// NewReloader binds a watcher, loader and store together and registers the
// reload handler on w.
func NewReloader(w *Watcher, l *loader.Loader, store *rules.Store) *Reloader {
	r := &Reloader{
		w:      w,
		loader: l,
		store:  store,
		kinds:  make(map[string]rules.Kind),
	}
	w.OnChange(r.handle)
	return r
}

// Track loads path once and then watches it for changes.
// The initial load error is returned but the file is watched regardless,
// so a broken file can be fixed in place. Files the loader cannot decode
// are rejected without being watched.
func (r *Reloader) Track(kind rules.Kind, path string) error {
	if !loader.Supported(path) {
		return fmt.Errorf("%s: %w", path, loader.ErrUnsupportedFormat)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.kinds[abs] = kind
	r.mu.Unlock()

	if err := r.w.Watch(abs); err != nil {
		return err
	}
	return r.loader.Reload(r.store, kind, abs)
}

func (r *Reloader) handle(ev Event) {
	r.mu.RLock()
	kind, ok := r.kinds[ev.Path]
	r.mu.RUnlock()
	if !ok {
		return
	}

	// Errors are logged by the store; the previous rules stay active.
	_ = r.loader.Reload(r.store, kind, ev.Path)
}
