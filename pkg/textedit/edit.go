// Package textedit validates and applies byte-range edits to a document.
//
// Edits are expressed against the original text. A batch is prepared once
// (validated, sorted, checked for overlaps), then applied in a single pass.
// Span reports the old range a batch touches, which is what an incremental
// reparse needs to know about the change.
package textedit

// Edit replaces the half-open byte range [Start, End) of the original text
// with NewText.
type Edit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"text"`
}

// Delta returns the change in text length caused by the edit.
func (e Edit) Delta() int {
	return len(e.NewText) - (e.End - e.Start)
}

// Builder accumulates edits for one document.
type Builder struct {
	edits []Edit
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Replace adds an edit that replaces bytes [start, end) with newText.
func (b *Builder) Replace(start, end int, newText string) {
	b.edits = append(b.edits, Edit{Start: start, End: end, NewText: newText})
}

// Insert adds an edit that inserts text at offset.
func (b *Builder) Insert(offset int, text string) {
	b.Replace(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *Builder) Delete(start, end int) {
	b.Replace(start, end, "")
}

// Edits returns the accumulated edits in insertion order.
func (b *Builder) Edits() []Edit {
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)
	return out
}

// Len returns the number of accumulated edits.
func (b *Builder) Len() int {
	return len(b.edits)
}
