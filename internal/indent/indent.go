// Package indent shifts a caret position or a block of lines by one
// indent unit.
//
// The indent unit is a tab. Dedent also accepts four leading spaces as one
// unit. A block transform is returned as a single edit so hosts can undo it
// in one step.
package indent

import (
	"fmt"
	"strings"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/metrics"
)

// Unit is the text inserted by one indent step.
const Unit = "\t"

// spaceUnit is the secondary dedent marker.
const spaceUnit = "    "

// Direction selects indent or dedent.
type Direction int

const (
	// Indent adds one unit.
	Indent Direction = iota

	// Dedent removes one unit.
	Dedent
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	default:
		return "unknown"
	}
}

// Result is the outcome of a transform.
type Result struct {
	// Text is the document after the edit.
	Text string

	// Selection is the selection to show after the edit.
	Selection buffer.Selection

	// Edit describes the change against the original text.
	Edit buffer.Edit
}

// Changed reports whether the transform modified the text.
func (r Result) Changed() bool {
	return !r.Edit.IsNoOp()
}

// Indenter applies indent transforms. The zero value is ready to use.
type Indenter struct {
	metrics *metrics.Metrics
}

// New creates an indenter reporting edits to m, which may be nil.
func New(m *metrics.Metrics) *Indenter {
	return &Indenter{metrics: m}
}

// Transform indents or dedents sel in text.
//
// With a bare caret, Indent inserts a tab at the caret and Dedent removes one
// unit from the caret's line only when the caret sits at the line start.
// With a selection, every line whose span intersects the selection is
// shifted; a line starting exactly at the selection end is left alone.
func (in *Indenter) Transform(text string, sel buffer.Selection, dir Direction) (Result, error) {
	doc := buffer.NewText(text)
	if err := doc.ValidateRange(sel.Range()); err != nil {
		return Result{Text: text, Selection: sel}, err
	}
	if dir != Indent && dir != Dedent {
		return Result{Text: text, Selection: sel}, fmt.Errorf("unknown direction %d", dir)
	}

	var res Result
	if sel.IsCaret() {
		res = caretTransform(doc, sel.Start, dir)
	} else {
		res = blockTransform(doc, sel, dir)
	}

	if res.Changed() {
		in.metrics.RecordIndent(dir.String())
		next, err := doc.Apply(res.Edit)
		if err != nil {
			return Result{Text: text, Selection: sel}, err
		}
		res.Text = next.String()
	} else {
		res.Text = text
	}
	return res, nil
}

// Transform applies dir with a zero Indenter.
func Transform(text string, sel buffer.Selection, dir Direction) (Result, error) {
	var in Indenter
	return in.Transform(text, sel, dir)
}

func caretTransform(doc *buffer.Text, caret int, dir Direction) Result {
	if dir == Indent {
		return Result{
			Selection: buffer.Caret(caret + 1),
			Edit:      buffer.NewInsert(caret, Unit),
		}
	}

	line := doc.Line(doc.LineAt(caret))
	n := unitLen(doc.LineText(doc.LineAt(caret)))
	if caret != line.Start || n == 0 {
		return Result{Selection: buffer.Caret(caret), Edit: buffer.NewInsert(caret, "")}
	}
	return Result{
		Selection: buffer.Caret(caret),
		Edit:      buffer.NewDelete(line.Start, line.Start+n),
	}
}

func blockTransform(doc *buffer.Text, sel buffer.Selection, dir Direction) Result {
	first, last := affectedLines(doc, sel)
	start := doc.Line(first).Start
	end := doc.Line(last).End()

	var b strings.Builder
	changed := false
	for i := first; i <= last; i++ {
		content := doc.LineText(i)
		switch dir {
		case Indent:
			b.WriteString(Unit)
			changed = true
		case Dedent:
			if n := unitLen(content); n > 0 {
				content = content[n:]
				changed = true
			}
		}
		b.WriteString(content)
		if i < last {
			line := doc.Line(i)
			b.WriteString(doc.Slice(line.End(), line.Next()))
		}
	}

	edit := buffer.NewEdit(buffer.NewRange(start, end), b.String())
	if !changed {
		edit = buffer.NewInsert(start, "")
		return Result{Selection: buffer.NewSelection(start, end), Edit: edit}
	}
	return Result{
		Selection: buffer.NewSelection(start, end+edit.Delta()),
		Edit:      edit,
	}
}

// affectedLines returns the first and last line whose span, terminator
// included, intersects the non-empty selection.
func affectedLines(doc *buffer.Text, sel buffer.Selection) (first, last int) {
	first = doc.LineAt(sel.Start)
	last = doc.LineAt(sel.End)
	if last > first && doc.Line(last).Start >= sel.End {
		last--
	}
	return first, last
}

// unitLen returns the length of the indent unit leading content. The unit is
// ASCII, so the length is the same in bytes and runes.
func unitLen(content string) int {
	switch {
	case strings.HasPrefix(content, Unit):
		return 1
	case strings.HasPrefix(content, spaceUnit):
		return len(spaceUnit)
	}
	return 0
}
