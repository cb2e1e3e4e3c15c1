// Package buffer provides the immutable text snapshot the editing-assist
// engine operates on.
//
// A Text is created from the host's current buffer content on every event.
// All offsets are measured in Unicode scalar values (runes), not bytes, so
// they line up with the caret positions a rich-text host reports.
//
// The buffer package provides:
//
//   - Rune-offset addressing with O(1) rune access
//   - A line index that understands \n, \r\n, \r, U+2028 and U+2029
//   - Coordinate conversion between offsets and line/column points
//   - Range and Selection types with bounds validation
//   - Edit descriptions that the host applies to its own buffer
//
// Basic usage:
//
//	text := buffer.NewText("foo(bar)\nbaz")
//
//	line := text.LineAt(5)         // 0
//	p := text.OffsetToPoint(10)    // (1:1)
//
//	edit := buffer.NewEdit(buffer.NewRange(0, 3), "qux")
//	next, err := text.Apply(edit)  // "qux(bar)\nbaz"
//
// Thread Safety:
//
// A Text is never mutated after construction. Apply returns a new Text.
// Values may be shared freely between goroutines.
package buffer
