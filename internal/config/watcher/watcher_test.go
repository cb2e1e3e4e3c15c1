package watcher

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintite/internal/rules"
	"github.com/dshills/lintite/internal/rules/loader"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	w, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNew(t *testing.T) {
	w := newWatcher(t)
	assert.Equal(t, 100*time.Millisecond, w.debounce)

	w = newWatcher(t, WithDebounce(0))
	assert.Equal(t, time.Duration(0), w.debounce)

	w = newWatcher(t, WithDebounce(-time.Second))
	assert.Equal(t, 100*time.Millisecond, w.debounce, "negative debounce is ignored")
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	w := newWatcher(t)
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b), "file need not exist")
	require.NoError(t, w.Watch(a), "watching twice is a no-op")
	assert.Len(t, w.WatchedFiles(), 2)
	assert.Equal(t, 1, len(w.dirs))

	require.NoError(t, w.Unwatch(a))
	assert.ErrorIs(t, w.Unwatch(a), ErrNotWatching)
	require.NoError(t, w.Unwatch(b))
	assert.Empty(t, w.dirs)

	assert.Error(t, w.Watch(filepath.Join(dir, "missing", "c.json")))
}

func TestWatcher_Closed(t *testing.T) {
	w := newWatcher(t)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "x.json")), ErrWatcherClosed)
	w.Start()
	assert.False(t, w.IsRunning())
}

func TestWatcher_StartStop(t *testing.T) {
	w := newWatcher(t)
	assert.False(t, w.IsRunning())

	w.Start()
	w.Start()
	assert.True(t, w.IsRunning())

	require.NoError(t, w.Close())
	assert.False(t, w.IsRunning())
}

func TestWatcher_DetectsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linting.json")
	other := filepath.Join(dir, "other.json")

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	require.NoError(t, w.Watch(path))

	var mu sync.Mutex
	var events []Event
	w.OnChange(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	w.Start()

	require.NoError(t, os.WriteFile(other, []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, ev := range events {
		assert.Equal(t, path, ev.Path, "unwatched siblings are filtered")
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Hour))
	now := time.Now()

	w.queueEvent(Event{Path: "/r.json", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "/r.json", Op: OpWrite, Time: now.Add(time.Millisecond)})
	assert.Equal(t, OpCreate, w.pendingFiles["/r.json"].Op)

	w.queueEvent(Event{Path: "/r.json", Op: OpRemove, Time: now.Add(2 * time.Millisecond)})
	assert.Equal(t, OpRemove, w.pendingFiles["/r.json"].Op)

	w.queueEvent(Event{Path: "/r.json", Op: OpCreate, Time: now.Add(3 * time.Millisecond)})
	assert.Equal(t, OpCreate, w.pendingFiles["/r.json"].Op)
	assert.Len(t, w.pendingFiles, 1)

	// Nothing is stable yet under an hour-long debounce.
	var calls int32
	w.OnChange(func(Event) { atomic.AddInt32(&calls, 1) })
	w.processPendingEvents()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))

	var called int32
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { atomic.AddInt32(&called, 1) })

	w.emitEvent(Event{Path: "/x", Op: OpWrite, Time: time.Now()})
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instaplace.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"find": "teh", "replace": "the"}]`), 0o644))

	store := rules.NewStore(rules.WithLogger(quietLogger()))
	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	r := NewReloader(w, loader.New(), store)

	require.NoError(t, r.Track(rules.KindSubstitution, path))
	require.Len(t, store.Snapshot().Substitution, 1)
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte(`[
		{"find": "teh", "replace": "the"},
		{"find": "adn", "replace": "and"}
	]`), 0o644))

	require.Eventually(t, func() bool {
		return len(store.Snapshot().Substitution) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// A broken save keeps the last good rules.
	version := store.Snapshot().Version
	require.NoError(t, os.WriteFile(path, []byte(`[{"find": `), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, version, store.Snapshot().Version)
	assert.Len(t, store.Snapshot().Substitution, 2)
}

func TestReloaderTrackReportsInitialError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linting.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	store := rules.NewStore(rules.WithLogger(quietLogger()))
	w := newWatcher(t)
	r := NewReloader(w, loader.New(), store)

	assert.ErrorIs(t, r.Track(rules.KindHighlight, path), rules.ErrRuleParse)
	assert.Len(t, w.WatchedFiles(), 1, "broken files stay watched")
}

func TestReloaderTrackRejectsUnsupportedFormat(t *testing.T) {
	store := rules.NewStore(rules.WithLogger(quietLogger()))
	w := newWatcher(t)
	r := NewReloader(w, loader.New(), store)

	err := r.Track(rules.KindHighlight, filepath.Join(t.TempDir(), "linting.ini"))
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)
	assert.Empty(t, w.WatchedFiles())
}
