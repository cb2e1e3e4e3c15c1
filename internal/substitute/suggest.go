package substitute

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/lintite/internal/rules"
)

// Set is an unordered, deduplicated collection of suggestions.
type Set map[string]struct{}

// Add inserts s.
func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order for display.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Suggest returns completions for word. A substitution rule contributes its
// replacement when its find or replace text starts with word; a vocabulary
// entry contributes itself when it starts with word. Comparison ignores
// case. A blank word yields an empty set.
func Suggest(word string, snap *rules.Snapshot) Set {
	out := Set{}
	if strings.TrimSpace(word) == "" || snap == nil {
		return out
	}

	lower := cases.Lower(language.Und)
	prefix := lower.String(word)
	hasPrefix := func(s string) bool {
		return strings.HasPrefix(lower.String(s), prefix)
	}

	for _, r := range snap.Substitution {
		if hasPrefix(r.Find) || hasPrefix(r.Replace) {
			out.Add(r.Replace)
		}
	}
	for _, w := range snap.Vocabulary {
		if hasPrefix(w) {
			out.Add(w)
		}
	}
	return out
}
