package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	assert.NotNil(t, m.RuleReloadsTotal)
	assert.NotNil(t, m.HighlightPassDuration)
	assert.NotNil(t, m.SubstitutionsTotal)
}

func TestRecordReload(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordReload("highlight", 4, 1, nil)
	m.RecordReload("highlight", 0, 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleReloadsTotal.WithLabelValues("highlight", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleReloadsTotal.WithLabelValues("highlight", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RulesLoaded.WithLabelValues("highlight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RulesSkippedTotal.WithLabelValues("highlight")))
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordSubstitution()
	m.RecordSuppressedEcho()
	m.RecordBracketProbe("matched")
	m.RecordIndent("dedent")
	m.ObserveSuggestions(3)
	m.ObserveHighlightPass(2 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HighlightCacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HighlightCacheMissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubstitutionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SuppressedEchoTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BracketProbesTotal.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndentEditsTotal.WithLabelValues("dedent")))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordReload("substitution", 1, 0, nil)
		m.RecordCacheHit()
		m.RecordCacheMiss()
		m.ObserveHighlightPass(time.Second)
		m.RecordBracketProbe("none")
		m.RecordIndent("indent")
		m.RecordSubstitution()
		m.RecordSuppressedEcho()
		m.ObserveSuggestions(0)
	})
}

func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.RecordSubstitution()

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "lintite_substitutions_total 1"))
}
