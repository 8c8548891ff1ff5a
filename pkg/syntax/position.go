package syntax

// Range represents a byte range in the tree text.
type Range struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Shift returns the range moved by delta bytes.
func (r Range) Shift(delta int) Range {
	return Range{StartOffset: r.StartOffset + delta, EndOffset: r.EndOffset + delta}
}
