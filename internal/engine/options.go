package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/config"
	"github.com/dshills/lintite/internal/metrics"
	"github.com/dshills/lintite/internal/rules"
	"github.com/dshills/lintite/internal/rules/loader"
)

// Default configuration values.
const (
	DefaultSentencesPerParagraph = config.DefaultSentencesPerParagraph
	DefaultCacheSize             = config.DefaultCacheSize
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithStore shares an existing rule store, for example one kept up to date
// by a file watcher.
func WithStore(s *rules.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithLoader sets the loader used by the file reload methods.
func WithLoader(l *loader.Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics instruments all components.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithBaseColor sets the color of unhighlighted text.
func WithBaseColor(c rules.RGB) Option {
	return func(e *Engine) {
		e.baseColor = c
	}
}

// WithCacheSize sets the highlight line cache size. Zero disables it.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.cacheSize = n
		}
	}
}

// WithLiveSubstitution enables or disables substitution on change events.
func WithLiveSubstitution(enabled bool) Option {
	return func(e *Engine) {
		e.live = enabled
	}
}

// WithSuggestions enables or disables suggestions on change events.
func WithSuggestions(enabled bool) Option {
	return func(e *Engine) {
		e.suggestions = enabled
	}
}

// WithSentencesPerParagraph sets the paragraph estimate divisor.
func WithSentencesPerParagraph(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.sentencesPerParagraph = n
		}
	}
}

// FromConfig returns the options matching cfg.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithBaseColor(cfg.BaseColor()),
		WithCacheSize(cfg.Highlight.CacheSize),
		WithLiveSubstitution(cfg.Substitution.Live),
		WithSuggestions(cfg.Substitution.Suggestions),
		WithSentencesPerParagraph(cfg.Stats.SentencesPerParagraph),
	}
}
