package strings

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "setup failed", 20, "setup failed"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string cut", "Internal Server Error: setup exploded", 15, "Internal Ser..."},
		{"multi-line error flattened", "line one\nline two", 40, "line one line two"},
		{"tabs and runs of spaces collapsed", "a\t\t b   c", 10, "a b c"},
		{"tiny max is clamped", "abcdefgh", 1, "a..."},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestTruncate_CountsRunes(t *testing.T) {
	got := Truncate("日本語テスト", 5)
	assert.Equal(t, "日本...", got)
	assert.Equal(t, 5, utf8.RuneCountInString(got))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b", SingleLine("  a\r\n b \n"))
}
