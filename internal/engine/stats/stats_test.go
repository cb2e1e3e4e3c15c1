package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		per  int
		want Counts
	}{
		{"empty", "", 3, Counts{Paragraphs: 1}},
		{"one sentence", "Hello there.", 3, Counts{Words: 2, Characters: 12, Sentences: 1, Paragraphs: 1}},
		{
			name: "paragraph estimate",
			text: "A. B! C? D. E. F. G.",
			per:  3,
			want: Counts{Words: 7, Characters: 20, Sentences: 7, Paragraphs: 2},
		},
		{"zero per paragraph", "A. B. C. D.", 0, Counts{Words: 4, Characters: 11, Sentences: 4, Paragraphs: 1}},
		{"runes not bytes", "héllo wörld", 3, Counts{Words: 2, Characters: 11, Paragraphs: 1}},
		{"mixed whitespace", " a\tb\n\nc  ", 3, Counts{Words: 3, Characters: 9, Paragraphs: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text, tt.per))
		})
	}
}

func TestCountsString(t *testing.T) {
	c := Counts{Words: 2, Characters: 12, Sentences: 1, Paragraphs: 1}
	assert.Equal(t, "Words: 2 | Characters: 12 | Paragraphs (est.): 1", c.String())
}
