package textedit

import "strings"

// Apply applies a sorted, validated slice of edits to content.
// Edits must be prepared with Prepare before calling.
func Apply(content string, edits []Edit) string {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.WriteString(content[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.WriteString(content[cursor:])

	return out.String()
}

// Span returns the smallest old range covering every edit of a prepared
// batch. ok is false for an empty batch.
//
// Replacing Span's range of the original text turns it into the result of
// Apply, so a batch can be handed to a reparser as a single change.
func Span(edits []Edit) (start, end int, ok bool) {
	if len(edits) == 0 {
		return 0, 0, false
	}
	start, end = edits[0].Start, edits[0].End
	for _, e := range edits[1:] {
		start = min(start, e.Start)
		end = max(end, e.End)
	}
	return start, end, true
}

// ApplyAll prepares and applies edits in one step.
func ApplyAll(content string, edits []Edit) (string, error) {
	prepared, err := Prepare(edits, len(content))
	if err != nil {
		return "", err
	}
	return Apply(content, prepared), nil
}
