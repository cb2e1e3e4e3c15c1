package buffer

import "fmt"

// Range represents a rune range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start Offset // Inclusive start position
	End   Offset // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end Offset) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in runes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Selection is a half-open range selected by the user.
// Start == End denotes a bare caret.
type Selection struct {
	Start Offset
	End   Offset
}

// Caret returns a selection with no extent at offset.
func Caret(offset Offset) Selection {
	return Selection{Start: offset, End: offset}
}

// NewSelection returns the selection spanning anchor and head in
// document order.
func NewSelection(anchor, head Offset) Selection {
	if head < anchor {
		anchor, head = head, anchor
	}
	return Selection{Start: anchor, End: head}
}

// IsCaret returns true if nothing is selected.
func (s Selection) IsCaret() bool {
	return s.Start == s.End
}

// Range returns the selection as a Range.
func (s Selection) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("caret(%d)", s.Start)
	}
	return s.Range().String()
}
