// Package metrics instruments the editing-assist engine with Prometheus
// collectors.
//
// All recording methods are safe to call on a nil *Metrics, so components
// can be built without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Rule metrics
	RuleReloadsTotal  *prometheus.CounterVec
	RulesLoaded       *prometheus.GaugeVec
	RulesSkippedTotal *prometheus.CounterVec

	// Highlight metrics
	HighlightCacheHitsTotal   prometheus.Counter
	HighlightCacheMissesTotal prometheus.Counter
	HighlightPassDuration     prometheus.Histogram

	// Editing metrics
	BracketProbesTotal  *prometheus.CounterVec
	IndentEditsTotal    *prometheus.CounterVec
	SubstitutionsTotal  prometheus.Counter
	SuggestionsServed   prometheus.Histogram
	SuppressedEchoTotal prometheus.Counter
}

// New creates and registers all engine metrics on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RuleReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lintite_rule_reloads_total",
				Help: "Total number of rule reloads",
			},
			[]string{"kind", "result"},
		),
		RulesLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lintite_rules_loaded",
				Help: "Number of rules in the active snapshot",
			},
			[]string{"kind"},
		),
		RulesSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lintite_rules_skipped_total",
				Help: "Total number of unusable rule entries skipped during reloads",
			},
			[]string{"kind"},
		),
		HighlightCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lintite_highlight_cache_hits_total",
				Help: "Total number of highlighted lines served from cache",
			},
		),
		HighlightCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lintite_highlight_cache_misses_total",
				Help: "Total number of highlighted lines computed",
			},
		),
		HighlightPassDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lintite_highlight_pass_duration_seconds",
				Help:    "Duration of multi-line highlight passes",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		BracketProbesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lintite_bracket_probes_total",
				Help: "Total number of bracket probes by outcome",
			},
			[]string{"result"},
		),
		IndentEditsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lintite_indent_edits_total",
				Help: "Total number of indent transforms by direction",
			},
			[]string{"direction"},
		),
		SubstitutionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lintite_substitutions_total",
				Help: "Total number of live substitutions applied",
			},
		),
		SuggestionsServed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lintite_suggestions_served",
				Help:    "Size of suggestion sets returned",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
			},
		),
		SuppressedEchoTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lintite_substitution_echo_suppressed_total",
				Help: "Total number of change events ignored as echoes of engine edits",
			},
		),
	}

	registry.MustRegister(
		m.RuleReloadsTotal,
		m.RulesLoaded,
		m.RulesSkippedTotal,
		m.HighlightCacheHitsTotal,
		m.HighlightCacheMissesTotal,
		m.HighlightPassDuration,
		m.BracketProbesTotal,
		m.IndentEditsTotal,
		m.SubstitutionsTotal,
		m.SuggestionsServed,
		m.SuppressedEchoTotal,
	)

	return m
}

// RecordReload records the outcome of a rule reload.
func (m *Metrics) RecordReload(kind string, loaded, skipped int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RuleReloadsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	m.RuleReloadsTotal.WithLabelValues(kind, "ok").Inc()
	m.RulesLoaded.WithLabelValues(kind).Set(float64(loaded))
	if skipped > 0 {
		m.RulesSkippedTotal.WithLabelValues(kind).Add(float64(skipped))
	}
}

// RecordCacheHit records a highlight cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.HighlightCacheHitsTotal.Inc()
}

// RecordCacheMiss records a highlight cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.HighlightCacheMissesTotal.Inc()
}

// ObserveHighlightPass records the duration of a highlight pass.
func (m *Metrics) ObserveHighlightPass(d time.Duration) {
	if m == nil {
		return
	}
	m.HighlightPassDuration.Observe(d.Seconds())
}

// RecordBracketProbe records a bracket probe outcome
// ("matched", "unmatched" or "none").
func (m *Metrics) RecordBracketProbe(result string) {
	if m == nil {
		return
	}
	m.BracketProbesTotal.WithLabelValues(result).Inc()
}

// RecordIndent records an indent transform.
func (m *Metrics) RecordIndent(direction string) {
	if m == nil {
		return
	}
	m.IndentEditsTotal.WithLabelValues(direction).Inc()
}

// RecordSubstitution records an applied live substitution.
func (m *Metrics) RecordSubstitution() {
	if m == nil {
		return
	}
	m.SubstitutionsTotal.Inc()
}

// RecordSuppressedEcho records a change event ignored as an engine echo.
func (m *Metrics) RecordSuppressedEcho() {
	if m == nil {
		return
	}
	m.SuppressedEchoTotal.Inc()
}

// ObserveSuggestions records the size of a suggestion set.
func (m *Metrics) ObserveSuggestions(n int) {
	if m == nil {
		return
	}
	m.SuggestionsServed.Observe(float64(n))
}

// Handler returns an HTTP handler exposing registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
