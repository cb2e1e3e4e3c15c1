package rules

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintite/internal/metrics"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"red", RGB{R: 255}},
		{"White", RGB{R: 255, G: 255, B: 255}},
		{"#00ff80", RGB{G: 255, B: 128}},
		{"#0f8", RGB{G: 255, B: 136}},
		{" #FFA500 ", RGB{R: 255, G: 165}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "notacolor", "#12", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, "ParseColor(%q)", bad)
	}
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#0a0bff", RGB{R: 10, G: 11, B: 255}.Hex())
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, uint64(0), snap.Version)
	assert.Empty(t, snap.Highlight)
	assert.Empty(t, snap.Substitution)
}

func TestLoadHighlightRules(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))

	err := s.LoadHighlightRules([]Record{
		{"word": "very", "color": "red"},
		{"word": "really", "color": "#00ff00"},
		{"word": "very", "color": "blue"},
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Version)
	require.Len(t, snap.Highlight, 3)
	assert.Equal(t, HighlightRule{Word: "really", Color: RGB{G: 255}}, snap.Highlight[1])
	assert.Equal(t, []string{"very", "really"}, snap.Vocabulary)
}

func TestLoadHighlightRulesSkipsUnusableEntries(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))

	err := s.LoadHighlightRules([]Record{
		{"word": "", "color": "red"},
		{"word": "ok", "color": "nope"},
		{"word": "fine", "color": "green"},
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Highlight, 1)
	assert.Equal(t, "fine", snap.Highlight[0].Word)
}

func TestLoadRejectsMalformedRecordsAndKeepsSnapshot(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	s := NewStore(WithLogger(quietLogger()), WithMetrics(m))

	require.NoError(t, s.LoadHighlightRules([]Record{{"word": "keep", "color": "red"}}))
	before := s.Snapshot()

	tests := []struct {
		name    string
		records []Record
	}{
		{"missing color", []Record{{"word": "x"}}},
		{"missing word", []Record{{"color": "red"}}},
		{"non-string word", []Record{{"word": 42, "color": "red"}}},
		{"nil record", []Record{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.LoadHighlightRulesFrom("linting.json", tt.records)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRuleParse))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "linting.json", pe.Path)
			assert.Equal(t, 0, pe.Index)

			assert.Same(t, before, s.Snapshot())
		})
	}

	assert.Equal(t, 4.0, testutil.ToFloat64(m.RuleReloadsTotal.WithLabelValues("highlight", "error")))
}

func TestLoadSubstitutionRules(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))
	require.NoError(t, s.LoadHighlightRules([]Record{{"word": "very", "color": "red"}}))

	err := s.LoadSubstitutionRules([]Record{
		{"find": "teh", "replace": "the"},
		{"find": "", "replace": "skipped"},
		{"find": "adn", "replace": "and"},
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, []SubstitutionRule{{"teh", "the"}, {"adn", "and"}}, snap.Substitution)
	// The highlight side of the snapshot is carried over.
	assert.Len(t, snap.Highlight, 1)

	err = s.LoadSubstitutionRules([]Record{{"find": "x"}})
	assert.ErrorIs(t, err, ErrRuleParse)
	assert.Len(t, s.Snapshot().Substitution, 2)
}

func TestLoadDispatchesByKind(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))

	require.NoError(t, s.Load(KindSubstitution, "", []Record{{"find": "a", "replace": "b"}}))
	require.NoError(t, s.Load(KindHighlight, "", []Record{{"word": "a", "color": "red"}}))

	snap := s.Snapshot()
	assert.Len(t, snap.Substitution, 1)
	assert.Len(t, snap.Highlight, 1)
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))
	require.NoError(t, s.LoadSubstitutionRules([]Record{{"find": "a", "replace": "b"}}))

	held := s.Snapshot()
	require.NoError(t, s.LoadSubstitutionRules([]Record{{"find": "c", "replace": "d"}}))

	assert.Equal(t, "a", held.Substitution[0].Find, "held snapshot must not change")
	assert.Equal(t, "c", s.Snapshot().Substitution[0].Find)
}

func TestConcurrentReloads(t *testing.T) {
	s := NewStore(WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.LoadHighlightRules([]Record{{"word": "w", "color": "red"}})
		}()
		go func() {
			defer wg.Done()
			_ = s.LoadSubstitutionRules([]Record{{"find": "f", "replace": "r"}})
			_ = s.Snapshot().Substitution
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, uint64(100), snap.Version)
	assert.Len(t, snap.Highlight, 1)
	assert.Len(t, snap.Substitution, 1)
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Index: -1, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
		{&ParseError{Path: "a.yaml", Line: 2, Index: -1, Message: "bad"}, "parse error in a.yaml at line 2: bad"},
		{&ParseError{Index: 4, Message: "bad"}, "parse error in <records> at rule 4: bad"},
		{&ParseError{Path: "a.lua", Index: -1, Message: "bad"}, "parse error in a.lua: bad"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "highlight", KindHighlight.String())
	assert.Equal(t, "substitution", KindSubstitution.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
