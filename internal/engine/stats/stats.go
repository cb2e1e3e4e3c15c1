// Package stats counts words, characters, sentences and paragraphs for the
// status line.
package stats

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Counts holds document statistics.
type Counts struct {
	Words      int
	Characters int
	Sentences  int

	// Paragraphs is an estimate derived from the sentence count.
	Paragraphs int
}

// String formats the counts the way the status line shows them.
func (c Counts) String() string {
	return fmt.Sprintf("Words: %d | Characters: %d | Paragraphs (est.): %d", c.Words, c.Characters, c.Paragraphs)
}

// Count computes the statistics of text. Words are whitespace separated,
// characters are runes and every '.', '!' or '?' ends a sentence. Paragraphs
// are estimated as sentences / sentencesPerParagraph, at least one; a
// non-positive sentencesPerParagraph always yields one.
func Count(text string, sentencesPerParagraph int) Counts {
	c := Counts{
		Words:      len(strings.Fields(text)),
		Characters: utf8.RuneCountInString(text),
		Sentences:  strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?"),
		Paragraphs: 1,
	}
	if sentencesPerParagraph > 0 {
		c.Paragraphs = max(1, c.Sentences/sentencesPerParagraph)
	}
	return c
}
