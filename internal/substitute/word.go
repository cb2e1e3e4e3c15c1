package substitute

import "github.com/dshills/lintite/internal/engine/buffer"

// WordAt returns the maximal run of word runes containing or touching caret.
// When the caret sits between two words the one on its left wins. The range
// is empty when no word touches the caret or the caret is out of bounds.
func WordAt(text string, caret int) (buffer.Range, string) {
	runes := []rune(text)
	if caret < 0 || caret > len(runes) {
		return buffer.Range{}, ""
	}

	var seed int
	switch {
	case caret > 0 && buffer.IsWordRune(runes[caret-1]):
		seed = caret - 1
	case caret < len(runes) && buffer.IsWordRune(runes[caret]):
		seed = caret
	default:
		return buffer.NewRange(caret, caret), ""
	}

	start, end := seed, seed+1
	for start > 0 && buffer.IsWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && buffer.IsWordRune(runes[end]) {
		end++
	}
	return buffer.NewRange(start, end), string(runes[start:end])
}
