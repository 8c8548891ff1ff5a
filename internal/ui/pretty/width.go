package pretty

import (
	"io"
	"strconv"

	"golang.org/x/term"
)

// DefaultWidth is used when the writer is not a terminal.
const DefaultWidth = 100

// minExcerpt is the shortest excerpt worth showing.
const minExcerpt = 8

// TerminalWidth returns the column count of writer if it is a terminal,
// otherwise DefaultWidth.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// Excerpt quotes text as a Go string literal, shortened to at most limit
// bytes with a trailing ellipsis.
func Excerpt(text string, limit int) string {
	quoted := strconv.Quote(text)
	limit = max(limit, minExcerpt)
	if len(quoted) <= limit {
		return quoted
	}
	// Cut on a rune boundary of the source text, then quote again so
	// escapes are never split.
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		quoted = strconv.Quote(string(runes) + "…")
		if len(quoted) <= limit {
			return quoted
		}
	}
	return strconv.Quote("…")
}
