package rules

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Kind identifies one of the two rule collections.
type Kind int

const (
	// KindHighlight is the word/color collection.
	KindHighlight Kind = iota

	// KindSubstitution is the find/replace collection.
	KindSubstitution
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "highlight"
	case KindSubstitution:
		return "substitution"
	default:
		return "unknown"
	}
}

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// White is the default base color of highlighted text.
var White = RGB{R: 255, G: 255, B: 255}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the hex form.
func (c RGB) String() string {
	return c.Hex()
}

// ParseColor parses a color name ("red", "darkorange") or a hex triplet
// ("#ff8800", "#f80").
func ParseColor(s string) (RGB, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) == 4 && name[0] == '#' {
		name = string([]byte{'#', name[1], name[1], name[2], name[2], name[3], name[3]})
	}

	c := tcell.GetColor(name)
	if c == tcell.ColorDefault || !c.Valid() {
		return RGB{}, fmt.Errorf("unknown color %q", s)
	}
	r, g, b := c.RGB()
	if r < 0 || g < 0 || b < 0 {
		return RGB{}, fmt.Errorf("color %q has no RGB value", s)
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// HighlightRule paints every whole-word occurrence of Word with Color.
type HighlightRule struct {
	Word  string
	Color RGB
}

// SubstitutionRule replaces a typed Find word with Replace.
type SubstitutionRule struct {
	Find    string
	Replace string
}

// Record is one decoded entry of a rule source.
type Record map[string]any

// field returns the string value of key, reporting whether the key exists
// and whether it is a string.
func (r Record) field(key string) (value string, present, isString bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false, false
	}
	s, ok := v.(string)
	return s, true, ok
}

// requireString extracts a mandatory string field of record i.
func requireString(i int, r Record, key string) (string, error) {
	v, present, isString := r.field(key)
	if !present {
		return "", recordError(i, "missing field %q", key)
	}
	if !isString {
		return "", recordError(i, "field %q must be a string, got %T", key, r[key])
	}
	return v, nil
}
