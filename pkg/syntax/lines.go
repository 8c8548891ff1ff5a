package syntax

import "sort"

// LineIndex maps byte offsets of a text to 1-based line and column numbers.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds a line index for text. Both LF and CRLF endings are
// handled; a CR belongs to the line it terminates.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{starts: []int{0}, size: len(text)}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// LineCount returns the number of lines.
func (l *LineIndex) LineCount() int {
	return len(l.starts)
}

// Position converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) if the offset is out of
// range.
func (l *LineIndex) Position(offset int) (int, int) {
	if offset < 0 || offset > l.size {
		return 0, 0
	}

	// Binary search for the last line starting at or before offset.
	line := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	}) - 1

	return line + 1, offset - l.starts[line] + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (l *LineIndex) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(l.starts) || col < 1 {
		return 0, false
	}

	end := l.size
	if line < len(l.starts) {
		end = l.starts[line]
	}

	offset := l.starts[line-1] + col - 1
	if offset > end {
		return 0, false
	}
	return offset, true
}
