package buffer

import "fmt"

// Offset is a position in the buffer measured in runes.
type Offset = int

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in runes from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (rune offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Line describes one line of a Text.
type Line struct {
	// Start is the offset of the first rune of the line.
	Start Offset

	// Len is the content length in runes, excluding the terminator.
	Len int

	// TermLen is the terminator length in runes (0 for the last line).
	TermLen int
}

// End returns the offset just past the line content.
func (l Line) End() Offset {
	return l.Start + l.Len
}

// Next returns the offset just past the terminator.
func (l Line) Next() Offset {
	return l.Start + l.Len + l.TermLen
}

// Range returns the content range of the line.
func (l Line) Range() Range {
	return Range{Start: l.Start, End: l.End()}
}
