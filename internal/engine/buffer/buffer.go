package buffer

import (
	"sort"
	"strings"
)

// Line terminators recognised by the line index.
const (
	lineSeparator      = '\u2028'
	paragraphSeparator = '\u2029'
)

// Text is an immutable snapshot of buffer content addressed by rune offsets.
// Slices and edits are cut from the source string, so bytes that are not
// valid UTF-8 pass through untouched.
type Text struct {
	src   string
	runes []rune
	bytes []int // rune offset -> byte offset, with len(src) appended
	lines []Line
}

// NewText creates a Text from s.
func NewText(s string) *Text {
	t := &Text{
		src:   s,
		runes: make([]rune, 0, len(s)),
		bytes: make([]int, 0, len(s)+1),
	}
	for i, r := range s {
		t.runes = append(t.runes, r)
		t.bytes = append(t.bytes, i)
	}
	t.bytes = append(t.bytes, len(s))
	t.index()
	return t
}

// index builds the line table.
func (t *Text) index() {
	t.lines = t.lines[:0]
	start := 0
	n := len(t.runes)
	for i := 0; i < n; i++ {
		term := 0
		switch t.runes[i] {
		case '\n', lineSeparator, paragraphSeparator:
			term = 1
		case '\r':
			term = 1
			if i+1 < n && t.runes[i+1] == '\n' {
				term = 2
			}
		}
		if term == 0 {
			continue
		}
		t.lines = append(t.lines, Line{Start: start, Len: i - start, TermLen: term})
		i += term - 1
		start = i + 1
	}
	t.lines = append(t.lines, Line{Start: start, Len: n - start})
}

// String returns the full content.
func (t *Text) String() string {
	return t.src
}

// Len returns the total length in runes.
func (t *Text) Len() int {
	return len(t.runes)
}

// IsEmpty returns true if the text has no content.
func (t *Text) IsEmpty() bool {
	return len(t.runes) == 0
}

// RuneAt returns the rune at offset.
// Returns false if offset is out of range.
func (t *Text) RuneAt(offset Offset) (rune, bool) {
	if offset < 0 || offset >= len(t.runes) {
		return 0, false
	}
	return t.runes[offset], true
}

// Slice returns the text in [start, end), clamped to the buffer.
func (t *Text) Slice(start, end Offset) string {
	if start < 0 {
		start = 0
	}
	if end > len(t.runes) {
		end = len(t.runes)
	}
	if start >= end {
		return ""
	}
	return t.src[t.bytes[start]:t.bytes[end]]
}

// LineCount returns the number of lines. An empty text has one line.
func (t *Text) LineCount() int {
	return len(t.lines)
}

// Line returns the descriptor of line i.
// Out of range indexes are clamped.
func (t *Text) Line(i int) Line {
	if i < 0 {
		i = 0
	}
	if i >= len(t.lines) {
		i = len(t.lines) - 1
	}
	return t.lines[i]
}

// LineText returns the content of line i without its terminator.
func (t *Text) LineText(i int) string {
	l := t.Line(i)
	return t.src[t.bytes[l.Start]:t.bytes[l.End()]]
}

// LineAt returns the index of the line containing offset.
// An offset inside a terminator belongs to the line it terminates.
func (t *Text) LineAt(offset Offset) int {
	if offset <= 0 {
		return 0
	}
	i := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i].Start > offset
	})
	return i - 1
}

// OffsetToPoint converts an offset to a line/column point.
func (t *Text) OffsetToPoint(offset Offset) Point {
	line := t.LineAt(offset)
	return Point{Line: line, Column: offset - t.lines[line].Start}
}

// PointToOffset converts a line/column point to an offset.
// The column is clamped to the line content.
func (t *Text) PointToOffset(p Point) Offset {
	l := t.Line(p.Line)
	col := p.Column
	if col < 0 {
		col = 0
	}
	if col > l.Len {
		col = l.Len
	}
	return l.Start + col
}

// ValidateRange checks that 0 <= r.Start <= r.End <= Len().
func (t *Text) ValidateRange(r Range) error {
	if !r.IsValid() || r.Start < 0 || r.End > len(t.runes) {
		return rangeError(r, len(t.runes))
	}
	return nil
}

// ValidateOffset checks that 0 <= offset <= Len().
func (t *Text) ValidateOffset(offset Offset) error {
	return t.ValidateRange(Range{Start: offset, End: offset})
}

// Apply returns a new Text with edit applied.
// The receiver is not modified.
func (t *Text) Apply(edit Edit) (*Text, error) {
	if err := t.ValidateRange(edit.Range); err != nil {
		return nil, err
	}
	start, end := t.bytes[edit.Range.Start], t.bytes[edit.Range.End]
	var sb strings.Builder
	sb.Grow(len(t.src) - (end - start) + len(edit.NewText))
	sb.WriteString(t.src[:start])
	sb.WriteString(edit.NewText)
	sb.WriteString(t.src[end:])
	return NewText(sb.String()), nil
}
