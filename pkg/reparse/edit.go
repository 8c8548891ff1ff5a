package reparse

import (
	"errors"
	"fmt"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// Errors returned by the reparse entry points.
var (
	// ErrInvalidEdit is returned when an edit range does not fit the tree or
	// the new text.
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrNoRoot is returned when the live tree has no root.
	ErrNoRoot = errors.New("tree has no root")
)

// Edit is a single text change expressed in old-text offsets: the half-open
// range [Start, End) of the old text was replaced. The replacement itself is
// implied by the full new text handed to the reparser.
type Edit struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the replaced old range.
func (e Edit) Len() int {
	return e.End - e.Start
}

// check validates the edit against the old and new text lengths.
func (e Edit) check(oldLen, newLen int) error {
	if e.Start < 0 || e.End < e.Start || e.End > oldLen {
		return fmt.Errorf("%w: range [%d, %d) outside text of length %d", ErrInvalidEdit, e.Start, e.End, oldLen)
	}
	if inserted := newLen - oldLen + e.Len(); inserted < 0 {
		return fmt.Errorf("%w: new text of length %d is too short for range [%d, %d)", ErrInvalidEdit, newLen, e.Start, e.End)
	}
	return nil
}

// EditBetween returns the smallest edit turning oldText into newText: the
// range between their common prefix and common suffix. The suffix never
// overlaps the prefix. Identical texts yield an empty edit at len(oldText).
func EditBetween(oldText, newText string) Edit {
	limit := min(len(oldText), len(newText))
	prefix := 0
	for prefix < limit && oldText[prefix] == newText[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < limit-prefix && oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}
	return Edit{Start: prefix, End: len(oldText) - suffix}
}

// Status is the outcome of locating a reparse scope.
type Status uint8

const (
	// StatusFound means a reparseable ancestor was sub-parsed successfully.
	StatusFound Status = iota

	// StatusNoReparseableAncestor means no ancestor could be reparsed in
	// isolation; the caller falls back to a full reparse.
	StatusNoReparseableAncestor

	// StatusTooDeep means the tree is flagged too deep for incremental work.
	StatusTooDeep
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNoReparseableAncestor:
		return "no-reparseable-ancestor"
	case StatusTooDeep:
		return "too-deep"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// Inconsistency records a sub-parse whose result length disagreed with the
// text it was given. It points at a language plugin bug; the locator keeps
// walking up after recording it.
type Inconsistency struct {
	Node           syntax.NodeID `json:"node"`
	Type           string        `json:"type"`
	Start          int           `json:"start"`
	End            int           `json:"end"`
	ExpectedLength int           `json:"expected_length"`
	ActualLength   int           `json:"actual_length"`
	Excerpt        string        `json:"excerpt"`
}

func (i Inconsistency) Error() string {
	return fmt.Sprintf("inconsistent reparse of %s at [%d, %d): expected length %d, got %d",
		i.Type, i.Start, i.End, i.ExpectedLength, i.ActualLength)
}

// Scope is a located reparse region: the anchor node in the old tree and
// the candidate subtree parsed from the anchor's new text.
type Scope struct {
	Anchor    syntax.NodeID
	Candidate *syntax.Tree

	// Start and End delimit the anchor's text in the new document.
	Start int
	End   int
}

// LocateResult is the outcome of Locator.Locate.
type LocateResult struct {
	Status          Status
	Scope           Scope
	Inconsistencies []Inconsistency

	// Attempts counts the sub-parses tried.
	Attempts int
}
