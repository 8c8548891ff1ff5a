package textedit

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	First  Edit
	Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Validate checks that all edits have valid ranges for the given content
// length. It returns the first problem found.
func Validate(edits []Edit, contentLen int) error {
	for _, edit := range edits {
		if edit.Start < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.End < edit.Start {
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.End > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.End, contentLen),
			}
		}
	}
	return nil
}

// Sort orders edits by start offset, then by end offset. The sort is stable
// so insertions at one offset keep their relative order.
func Sort(edits []Edit) {
	slices.SortStableFunc(edits, func(a, b Edit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
}

// DetectConflicts checks a sorted slice for overlapping edits. Two
// insertions at the same offset do not overlap.
func DetectConflicts(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		if curr.Start < prev.End {
			return &ConflictError{First: prev, Second: curr}
		}
	}
	return nil
}

// Prepare validates, sorts, and checks for conflicts. The input slice is
// not modified.
func Prepare(edits []Edit, contentLen int) ([]Edit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := Validate(edits, contentLen); err != nil {
		return nil, err
	}

	result := make([]Edit, len(edits))
	copy(result, edits)
	Sort(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
