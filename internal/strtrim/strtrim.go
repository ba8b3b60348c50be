// Package strtrim bounds program output to a rectangle of text.
package strtrim

import (
	"strings"
	"unicode/utf8"
)

const Ellipsis = "[...]"

// ToRect keeps at most maxHeight lines of at most maxWidth runes each.
// Cut lines and a cut tail are marked with Ellipsis.
func ToRect(s string, maxHeight, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	cut := false
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		cut = true
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if utf8.RuneCountInString(line) > maxWidth {
			b.WriteString(string([]rune(line)[:maxWidth]))
			b.WriteString(Ellipsis)
		} else {
			b.WriteString(line)
		}
	}
	if cut {
		b.WriteByte('\n')
		b.WriteString(Ellipsis)
	}
	return b.String()
}
