// Package search implements the find and replace operations of the editor.
//
// Queries are literal text. Offsets are rune offsets.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/lintite/internal/engine/buffer"
)

// ErrEmptyQuery is returned when a replace is requested with no query.
var ErrEmptyQuery = errors.New("empty search query")

// Options controls query matching.
type Options struct {
	// CaseSensitive requires exact case.
	CaseSensitive bool
}

// CompileQuery compiles a literal query into a regular expression.
func CompileQuery(query string, opts Options) (*regexp.Regexp, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	pattern := regexp.QuoteMeta(query)
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// FindNext returns the first occurrence of query at or after from, wrapping
// around to the start of the text when there is none.
func FindNext(text, query string, from int, caseSensitive bool) (buffer.Range, bool) {
	re, err := CompileQuery(query, Options{CaseSensitive: caseSensitive})
	if err != nil {
		return buffer.Range{}, false
	}

	fromByte := byteOffset(text, from)
	if loc := re.FindStringIndex(text[fromByte:]); loc != nil {
		return runeRange(text, fromByte+loc[0], fromByte+loc[1]), true
	}
	if loc := re.FindStringIndex(text); loc != nil {
		return runeRange(text, loc[0], loc[1]), true
	}
	return buffer.Range{}, false
}

// Replacement is the outcome of ReplaceSelection.
type Replacement struct {
	// Text is the document after the replacement.
	Text string

	// Edit is the applied change; a no-op when nothing was replaced.
	Edit buffer.Edit

	// Replaced reports whether the selection was replaced.
	Replaced bool

	// Next is the following occurrence of the query, when Found.
	Next  buffer.Range
	Found bool
}

// ReplaceSelection replaces the selected text with replacement when it
// equals query exactly, then finds the next occurrence after the caret.
func ReplaceSelection(text string, sel buffer.Selection, query, replacement string, caseSensitive bool) (Replacement, error) {
	doc := buffer.NewText(text)
	if err := doc.ValidateRange(sel.Range()); err != nil {
		return Replacement{Text: text}, err
	}
	if query == "" {
		return Replacement{Text: text}, ErrEmptyQuery
	}

	res := Replacement{Text: text, Edit: buffer.NewInsert(sel.End, "")}
	caret := sel.End
	if !sel.IsCaret() && doc.Slice(sel.Start, sel.End) == query {
		res.Edit = buffer.NewEdit(sel.Range(), replacement)
		next, err := doc.Apply(res.Edit)
		if err != nil {
			return Replacement{Text: text}, fmt.Errorf("replace selection: %w", err)
		}
		res.Text = next.String()
		res.Replaced = true
		caret = res.Edit.NewRange().End
	}

	res.Next, res.Found = FindNext(res.Text, query, caret, caseSensitive)
	return res, nil
}

// ReplaceAll replaces every occurrence of query with replacement, inserted
// literally, and returns the new text and the number of replacements.
func ReplaceAll(text, query, replacement string, caseSensitive bool) (string, int) {
	if query == "" {
		return text, 0
	}
	if caseSensitive {
		return strings.ReplaceAll(text, query, replacement), strings.Count(text, query)
	}

	re, err := CompileQuery(query, Options{})
	if err != nil {
		return text, 0
	}
	n := len(re.FindAllStringIndex(text, -1))
	return re.ReplaceAllLiteralString(text, replacement), n
}

// byteOffset converts a rune offset to a byte offset, clamped to the text.
func byteOffset(text string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == runes {
			return i
		}
		n++
	}
	return len(text)
}

func runeRange(text string, start, end int) buffer.Range {
	s := utf8.RuneCountInString(text[:start])
	return buffer.NewRange(s, s+utf8.RuneCountInString(text[start:end]))
}
