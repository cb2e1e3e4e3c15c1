package highlight

import (
	"regexp"
	"unicode/utf8"

	"github.com/dshills/lintite/internal/engine/buffer"
	"github.com/dshills/lintite/internal/rules"
)

// matcher finds whole-word, case-insensitive occurrences of one rule word.
type matcher struct {
	re    *regexp.Regexp
	color rules.RGB
}

// compile builds one matcher per highlight rule, in rule order.
// Words are quoted so regex metacharacters match literally.
func compile(hl []rules.HighlightRule) []matcher {
	out := make([]matcher, 0, len(hl))
	for _, r := range hl {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(r.Word))
		if err != nil {
			continue
		}
		out = append(out, matcher{re: re, color: r.Color})
	}
	return out
}

// lineIndex maps byte offsets of a line to rune offsets.
type lineIndex struct {
	text   string
	runes  []rune
	byRune []int // byte offset -> rune offset, valid at rune starts and len
}

func newLineIndex(line string) *lineIndex {
	idx := &lineIndex{
		text:   line,
		runes:  make([]rune, 0, len(line)),
		byRune: make([]int, len(line)+1),
	}
	n := 0
	for i, r := range line {
		idx.byRune[i] = n
		idx.runes = append(idx.runes, r)
		n++
	}
	idx.byRune[len(line)] = n
	return idx
}

// paint repaints every bounded occurrence of m in the line.
// Matches are non-overlapping and scanned left to right; a match that fails
// the boundary test is retried one rune further on.
func (m matcher) paint(idx *lineIndex, dst []rules.RGB) {
	pos := 0
	for pos < len(idx.text) {
		loc := m.re.FindStringIndex(idx.text[pos:])
		if loc == nil {
			return
		}
		sb, eb := pos+loc[0], pos+loc[1]
		if eb == sb {
			return
		}

		start, end := idx.byRune[sb], idx.byRune[eb]
		if buffer.IsWordBoundary(idx.runes, start) && buffer.IsWordBoundary(idx.runes, end) {
			for i := start; i < end; i++ {
				dst[i] = m.color
			}
			pos = eb
			continue
		}
		_, size := utf8.DecodeRuneInString(idx.text[sb:])
		pos = sb + size
	}
}
