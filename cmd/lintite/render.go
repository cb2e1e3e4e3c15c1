package main

import (
	"fmt"
	"strings"

	"github.com/dshills/lintite/internal/highlight"
)

// colorize renders line with 24-bit ANSI foreground colors per span.
func colorize(line string, spans []highlight.Span) string {
	runes := []rune(line)
	var b strings.Builder
	for _, s := range spans {
		if s.Len() == 0 {
			continue
		}
		end := min(s.End, len(runes))
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%s", s.Color.R, s.Color.G, s.Color.B, string(runes[s.Start:end]))
	}
	if b.Len() > 0 {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}
