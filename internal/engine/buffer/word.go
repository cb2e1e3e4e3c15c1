package buffer

import "unicode"

// IsWordRune reports whether r belongs to a word: a letter, a number of any
// kind (decimal, letterlike or other), a mark or an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// IsWordBoundary reports whether offset p in runes sits between a word rune
// and a non-word rune. Positions outside the slice count as non-word.
func IsWordBoundary(runes []rune, p int) bool {
	before := p > 0 && p <= len(runes) && IsWordRune(runes[p-1])
	after := p >= 0 && p < len(runes) && IsWordRune(runes[p])
	return before != after
}
