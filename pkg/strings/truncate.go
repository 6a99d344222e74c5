// Package strings holds small text helpers for terminal output.
package strings

import (
	"strings"
)

// DefaultCellMaxLen bounds free-form values, such as backend error
// messages, shown in a single table cell.
const DefaultCellMaxLen = 80

// minTruncateLen leaves room for one character plus the ellipsis.
const minTruncateLen = 4

// SingleLine collapses every run of whitespace, newlines included, into one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate flattens s to a single line and cuts it to at most maxLen runes,
// ending with "..." when anything was removed. maxLen below 4 is raised to 4.
func Truncate(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}
	s = SingleLine(s)

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
