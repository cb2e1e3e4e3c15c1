package highlight

import (
	"fmt"

	"github.com/dshills/lintite/internal/rules"
)

// Span is a run of same-colored runes on one line. Start and End are rune
// offsets relative to the line start.
type Span struct {
	Start int
	End   int
	Color rules.RGB
}

// Len returns the number of runes in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// String returns a debug representation.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)%s", s.Start, s.End, s.Color.Hex())
}

// coalesce turns a per-rune paint array into maximal same-color spans.
// An empty line yields a single empty span in base.
func coalesce(paint []rules.RGB, base rules.RGB) []Span {
	if len(paint) == 0 {
		return []Span{{Start: 0, End: 0, Color: base}}
	}

	spans := make([]Span, 0, 4)
	start := 0
	for i := 1; i <= len(paint); i++ {
		if i < len(paint) && paint[i] == paint[start] {
			continue
		}
		spans = append(spans, Span{Start: start, End: i, Color: paint[start]})
		start = i
	}
	return spans
}
