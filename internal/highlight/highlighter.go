// Package highlight paints text lines with the colors of lexical rules.
//
// Every line is first painted in a base color, then each highlight rule in
// order repaints the whole-word, case-insensitive occurrences of its word.
// Later rules win where occurrences overlap. The painted line is returned as
// maximal same-color spans.
package highlight

import (
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/metrics"
	"github.com/dshills/lintite/internal/rules"
)

// DefaultCacheSize is the number of lines cached when no size is given.
const DefaultCacheSize = 4096

// cacheKey identifies a highlighted line under one rule snapshot.
type cacheKey struct {
	version uint64
	line    string
}

// Highlighter paints lines with the highlight rules of a snapshot.
// It is safe for concurrent use. A Highlighter should serve snapshots of a
// single rules.Store, since cached lines are keyed by snapshot version.
type Highlighter struct {
	base    rules.RGB
	log     *logrus.Logger
	metrics *metrics.Metrics

	// cache holds coalesced spans per (version, line); nil when disabled
	cache *lru.Cache[cacheKey, []Span]

	// compiled matchers for the last snapshot seen
	mu       sync.Mutex
	snap     *rules.Snapshot
	matchers []matcher
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithBaseColor sets the color of text no rule matches.
func WithBaseColor(c rules.RGB) Option {
	return func(h *Highlighter) {
		h.base = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(h *Highlighter) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMetrics records cache and pass metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Highlighter) {
		h.metrics = m
	}
}

// WithCacheSize sets the line cache capacity. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(h *Highlighter) {
		h.cache = nil
		if n <= 0 {
			return
		}
		if c, err := lru.New[cacheKey, []Span](n); err == nil {
			h.cache = c
		}
	}
}

// New creates a highlighter with a white base color and the default cache.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		base: rules.White,
		log:  logrus.New(),
	}
	WithCacheSize(DefaultCacheSize)(h)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseColor returns the color of unmatched text.
func (h *Highlighter) BaseColor() rules.RGB {
	return h.base
}

// HighlightLine paints one line (without terminator) and returns its spans.
// A nil snapshot paints the whole line in the base color.
func (h *Highlighter) HighlightLine(line string, snap *rules.Snapshot) []Span {
	if snap == nil {
		snap = &rules.Snapshot{}
	}

	key := cacheKey{version: snap.Version, line: line}
	if h.cache != nil {
		if spans, ok := h.cache.Get(key); ok {
			h.metrics.RecordCacheHit()
			return slices.Clone(spans)
		}
		h.metrics.RecordCacheMiss()
	}

	spans := h.paint(line, h.compiled(snap))
	if h.cache != nil {
		h.cache.Add(key, slices.Clone(spans))
	}
	return spans
}

// HighlightDocument paints every line of text.
func (h *Highlighter) HighlightDocument(text string, snap *rules.Snapshot) [][]Span {
	doc := buffer.NewText(text)
	return h.HighlightLines(text, 0, doc.LineCount(), snap)
}

// HighlightLines paints lines [from, to) of text. The range is clamped to
// the document.
func (h *Highlighter) HighlightLines(text string, from, to int, snap *rules.Snapshot) [][]Span {
	start := time.Now()
	defer func() {
		h.metrics.ObserveHighlightPass(time.Since(start))
	}()

	doc := buffer.NewText(text)
	from = max(from, 0)
	to = min(to, doc.LineCount())
	if from >= to {
		return nil
	}

	out := make([][]Span, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, h.HighlightLine(doc.LineText(i), snap))
	}

	h.log.WithFields(logrus.Fields{
		"from":  from,
		"to":    to,
		"lines": len(out),
	}).Trace("highlight pass")
	return out
}

// Purge empties the line cache.
func (h *Highlighter) Purge() {
	if h.cache != nil {
		h.cache.Purge()
	}
}

// compiled returns the matchers for snap, compiling them on first use.
func (h *Highlighter) compiled(snap *rules.Snapshot) []matcher {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.snap != snap {
		h.matchers = compile(snap.Highlight)
		h.snap = snap
	}
	return h.matchers
}

func (h *Highlighter) paint(line string, ms []matcher) []Span {
	idx := newLineIndex(line)
	colors := make([]rules.RGB, len(idx.runes))
	for i := range colors {
		colors[i] = h.base
	}
	for _, m := range ms {
		m.paint(idx, colors)
	}
	return coalesce(colors, h.base)
}
