package rules

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/metrics"
)

// Snapshot is an immutable view of both rule collections.
// Callers must not modify the slices.
type Snapshot struct {
	// Version increases by one on every successful reload.
	Version uint64

	// Highlight rules in load order. Later rules win on overlap.
	Highlight []HighlightRule

	// Substitution rules in load order. The first match wins.
	Substitution []SubstitutionRule

	// Vocabulary is the deduplicated list of highlight words.
	Vocabulary []string
}

// empty is the snapshot served before any reload.
var empty = &Snapshot{}

// Store owns the active rule snapshot.
//
// Snapshot is lock-free. Reloads are serialised with a mutex so that two
// concurrent reloads of different kinds cannot lose each other's update.
type Store struct {
	current atomic.Pointer[Snapshot]

	// writeMu serialises reloads
	writeMu sync.Mutex

	log     *logrus.Logger
	metrics *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report reloads and skipped entries.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a store holding an empty snapshot.
func NewStore(opts ...Option) *Store {
	s := &Store{log: logrus.New()}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(empty)
	return s
}

// Snapshot returns the active snapshot. It never returns nil.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// LoadHighlightRules replaces the highlight rules with records.
// Each record needs string fields "word" and "color".
func (s *Store) LoadHighlightRules(records []Record) error {
	return s.LoadHighlightRulesFrom("", records)
}

// LoadHighlightRulesFrom is LoadHighlightRules with the source path used
// in errors and log entries.
func (s *Store) LoadHighlightRulesFrom(path string, records []Record) error {
	parsed, skipped, err := parseHighlight(records, s.skipLogger(path, KindHighlight))
	if err != nil {
		return s.Reject(KindHighlight, path, err)
	}

	next := s.swap(func(next *Snapshot) {
		next.Highlight = parsed
		next.Vocabulary = vocabulary(parsed)
	})
	s.accept(path, KindHighlight, next, len(parsed), skipped)
	return nil
}

// LoadSubstitutionRules replaces the substitution rules with records.
// Each record needs string fields "find" and "replace".
func (s *Store) LoadSubstitutionRules(records []Record) error {
	return s.LoadSubstitutionRulesFrom("", records)
}

// LoadSubstitutionRulesFrom is LoadSubstitutionRules with the source path
// used in errors and log entries.
func (s *Store) LoadSubstitutionRulesFrom(path string, records []Record) error {
	parsed, skipped, err := parseSubstitution(records, s.skipLogger(path, KindSubstitution))
	if err != nil {
		return s.Reject(KindSubstitution, path, err)
	}

	next := s.swap(func(next *Snapshot) {
		next.Substitution = parsed
	})
	s.accept(path, KindSubstitution, next, len(parsed), skipped)
	return nil
}

// Load dispatches records to the loader for kind.
func (s *Store) Load(kind Kind, path string, records []Record) error {
	if kind == KindSubstitution {
		return s.LoadSubstitutionRulesFrom(path, records)
	}
	return s.LoadHighlightRulesFrom(path, records)
}

// swap publishes a copy of the current snapshot modified by mutate.
func (s *Store) swap(mutate func(next *Snapshot)) *Snapshot {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.current.Load()
	next := *prev
	next.Version = prev.Version + 1
	mutate(&next)
	s.current.Store(&next)
	return &next
}

func (s *Store) accept(path string, kind Kind, snap *Snapshot, loaded, skipped int) {
	s.metrics.RecordReload(kind.String(), loaded, skipped, nil)
	s.log.WithFields(logrus.Fields{
		"kind":    kind.String(),
		"path":    path,
		"version": snap.Version,
		"rules":   loaded,
		"skipped": skipped,
	}).Debug("rules reloaded")
}

// Reject reports a failed reload of kind from path and returns err.
// The active snapshot is left untouched. Loaders call it for source-level
// failures that never reach the record validation step.
func (s *Store) Reject(kind Kind, path string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
	}
	s.metrics.RecordReload(kind.String(), 0, 0, err)
	s.log.WithFields(logrus.Fields{
		"kind":    kind.String(),
		"path":    path,
		"version": s.Snapshot().Version,
	}).WithError(err).Error("rule reload rejected, keeping previous rules")
	return err
}

func (s *Store) skipLogger(path string, kind Kind) func(i int, reason string) {
	return func(i int, reason string) {
		s.log.WithFields(logrus.Fields{
			"kind":  kind.String(),
			"path":  path,
			"index": i,
		}).Warn("skipping rule: " + reason)
	}
}

// parseHighlight validates records into highlight rules.
func parseHighlight(records []Record, skip func(int, string)) ([]HighlightRule, int, error) {
	out := make([]HighlightRule, 0, len(records))
	skipped := 0
	for i, r := range records {
		if r == nil {
			return nil, 0, recordError(i, "rule must be an object")
		}
		word, err := requireString(i, r, "word")
		if err != nil {
			return nil, 0, err
		}
		colorName, err := requireString(i, r, "color")
		if err != nil {
			return nil, 0, err
		}

		if strings.TrimSpace(word) == "" {
			skip(i, "empty word")
			skipped++
			continue
		}
		color, err := ParseColor(colorName)
		if err != nil {
			skip(i, err.Error())
			skipped++
			continue
		}
		out = append(out, HighlightRule{Word: word, Color: color})
	}
	return out, skipped, nil
}

// parseSubstitution validates records into substitution rules.
func parseSubstitution(records []Record, skip func(int, string)) ([]SubstitutionRule, int, error) {
	out := make([]SubstitutionRule, 0, len(records))
	skipped := 0
	for i, r := range records {
		if r == nil {
			return nil, 0, recordError(i, "rule must be an object")
		}
		find, err := requireString(i, r, "find")
		if err != nil {
			return nil, 0, err
		}
		replace, err := requireString(i, r, "replace")
		if err != nil {
			return nil, 0, err
		}

		if find == "" {
			skip(i, "empty find")
			skipped++
			continue
		}
		out = append(out, SubstitutionRule{Find: find, Replace: replace})
	}
	return out, skipped, nil
}

// vocabulary collects highlight words in rule order without duplicates.
func vocabulary(rules []HighlightRule) []string {
	seen := make(map[string]bool, len(rules))
	words := make([]string, 0, len(rules))
	for _, r := range rules {
		if seen[r.Word] {
			continue
		}
		seen[r.Word] = true
		words = append(words, r.Word)
	}
	return words
}
