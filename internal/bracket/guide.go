package bracket

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/lintite/internal/engine/buffer"
)

// Guide returns the display column shared by a matched pair that spans
// several lines, for drawing a vertical guide between them. Columns count
// terminal cells, so wide runes take two. ok is false when the pair is
// unmatched, on one line or misaligned.
func Guide(text string, s State) (col int, ok bool) {
	if !s.Matched {
		return 0, false
	}

	doc := buffer.NewText(text)
	if s.Open > s.Close || doc.ValidateRange(buffer.NewRange(s.Open, s.Close+1)) != nil {
		return 0, false
	}

	openLine, closeLine := doc.LineAt(s.Open), doc.LineAt(s.Close)
	if openLine == closeLine {
		return 0, false
	}

	openCol := displayColumn(doc, openLine, s.Open)
	if openCol != displayColumn(doc, closeLine, s.Close) {
		return 0, false
	}
	return openCol, true
}

// displayColumn is the cell width of line's text before offset.
func displayColumn(doc *buffer.Text, line, offset int) int {
	start := doc.Line(line).Start
	return uniseg.StringWidth(doc.Slice(start, offset))
}
