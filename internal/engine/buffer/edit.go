package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset Offset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end Offset) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: "",
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// NewLen returns the rune length of the replacement text.
func (e Edit) NewLen() int {
	n := 0
	for range e.NewText {
		n++
	}
	return n
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() int {
	return e.NewLen() - e.Range.Len()
}

// NewRange returns the range the replacement text occupies once applied.
func (e Edit) NewRange() Range {
	return Range{Start: e.Range.Start, End: e.Range.Start + e.NewLen()}
}
