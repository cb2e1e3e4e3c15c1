// Package bracket matches bracket pairs around the caret.
//
// The bracket set is (), [] and {}. Only brackets of the probed type are
// counted while scanning, so "( ] )" still pairs the parentheses.
package bracket

import (
	"fmt"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/metrics"
)

// None marks an absent bracket offset.
const None = -1

// pairs maps each bracket to its partner and scan direction.
var pairs = map[rune]struct {
	match   rune
	opening bool
}{
	'(': {')', true},
	'[': {']', true},
	'{': {'}', true},
	')': {'(', false},
	']': {'[', false},
	'}': {'{', false},
}

// IsBracket reports whether r is one of the matched brackets.
func IsBracket(r rune) bool {
	_, ok := pairs[r]
	return ok
}

// State is the result of a bracket probe. Offsets are rune offsets or None.
type State struct {
	Open    int
	Close   int
	Matched bool
}

// Empty is the state when no bracket touches the caret.
var Empty = State{Open: None, Close: None}

// IsEmpty reports whether no bracket was probed.
func (s State) IsEmpty() bool {
	return s.Open == None && s.Close == None
}

// String returns a debug representation.
func (s State) String() string {
	switch {
	case s.IsEmpty():
		return "none"
	case s.Matched:
		return fmt.Sprintf("matched(%d,%d)", s.Open, s.Close)
	case s.Open != None:
		return fmt.Sprintf("unmatched-open(%d)", s.Open)
	default:
		return fmt.Sprintf("unmatched-close(%d)", s.Close)
	}
}

// MarkKind is the render treatment of a bracket.
type MarkKind int

const (
	// KindMatch highlights one half of a matched pair.
	KindMatch MarkKind = iota

	// KindUnmatched highlights a bracket without a partner.
	KindUnmatched
)

// String returns the kind name.
func (k MarkKind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// Mark is a single-rune highlight at Offset.
type Mark struct {
	Offset int
	Kind   MarkKind
}

// Range returns the one-rune range of the mark.
func (m Mark) Range() buffer.Range {
	return buffer.NewRange(m.Offset, m.Offset+1)
}

// Spans returns the render marks for s: two match marks for a pair, one
// unmatched mark for a lone bracket and none otherwise.
func (s State) Spans() []Mark {
	switch {
	case s.Matched:
		return []Mark{{s.Open, KindMatch}, {s.Close, KindMatch}}
	case s.Open != None:
		return []Mark{{s.Open, KindUnmatched}}
	case s.Close != None:
		return []Mark{{s.Close, KindUnmatched}}
	}
	return nil
}

// Matcher probes brackets. The zero value is ready to use.
type Matcher struct {
	metrics *metrics.Metrics
}

// New creates a matcher reporting probe results to m, which may be nil.
func New(m *metrics.Metrics) *Matcher {
	return &Matcher{metrics: m}
}

// Update probes the bracket touching caret in text. The rune before the caret
// is tried first, then the rune after it.
func (m *Matcher) Update(text string, caret int) (State, error) {
	doc := buffer.NewText(text)
	if err := doc.ValidateOffset(caret); err != nil {
		return Empty, fmt.Errorf("bracket probe: %w", err)
	}

	probe := None
	if r, ok := doc.RuneAt(caret - 1); ok && IsBracket(r) {
		probe = caret - 1
	} else if r, ok := doc.RuneAt(caret); ok && IsBracket(r) {
		probe = caret
	}
	if probe == None {
		m.metrics.RecordBracketProbe("none")
		return Empty, nil
	}

	st := match(doc, probe)
	if st.Matched {
		m.metrics.RecordBracketProbe("matched")
	} else {
		m.metrics.RecordBracketProbe("unmatched")
	}
	return st, nil
}

// Update probes with a zero Matcher.
func Update(text string, caret int) (State, error) {
	var m Matcher
	return m.Update(text, caret)
}

// match scans from the bracket at offset for its partner.
func match(doc *buffer.Text, offset int) State {
	bracket, _ := doc.RuneAt(offset)
	p := pairs[bracket]
	depth := 0

	if p.opening {
		for i := offset; i < doc.Len(); i++ {
			r, _ := doc.RuneAt(i)
			switch r {
			case bracket:
				depth++
			case p.match:
				depth--
				if depth == 0 {
					return State{Open: offset, Close: i, Matched: true}
				}
			}
		}
		return State{Open: offset, Close: None}
	}

	for i := offset; i >= 0; i-- {
		r, _ := doc.RuneAt(i)
		switch r {
		case bracket:
			depth++
		case p.match:
			depth--
			if depth == 0 {
				return State{Open: i, Close: offset, Matched: true}
			}
		}
	}
	return State{Open: None, Close: offset}
}
