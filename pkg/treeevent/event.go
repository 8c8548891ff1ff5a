// Package treeevent defines the change notifications fired while a diff log
// is replayed onto a live tree.
//
// Every structural edit produces a Before event, then the mutation, then an
// After event carrying the same node references. Listeners observe the tree
// in its pre-edit state during BeforeChange and in its post-edit state during
// AfterChange.
package treeevent

import (
	"fmt"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// Kind identifies the edit an event describes.
type Kind uint8

const (
	// ChildReplaced reports that OldChild is swapped for NewChild.
	ChildReplaced Kind = iota + 1

	// ChildRemoved reports that OldChild is detached from Parent.
	ChildRemoved

	// ChildAdded reports that NewChild is linked under Parent.
	ChildAdded

	// RootReplaced reports a whole-tree replacement. Its events are always
	// Generic.
	RootReplaced
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case ChildReplaced:
		return "replace"
	case ChildRemoved:
		return "remove"
	case ChildAdded:
		return "add"
	case RootReplaced:
		return "replace-root"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Event describes one structural edit of a live tree.
//
// Node references are live-tree IDs. NewChild is NoNode until the candidate
// subtree has been grafted, so it is only set on After events of
// replacements and additions. OldChild stays valid through the After event;
// detached subtrees are released only after the whole replay.
type Event struct {
	Kind   Kind
	Tree   *syntax.Tree
	Parent syntax.NodeID

	OldChild syntax.NodeID
	NewChild syntax.NodeID

	// Offset is the start of the affected range in the live text before the
	// edit. Position is the child index under Parent.
	Offset   int
	Position int

	OldLength int
	NewLength int

	// Generic is set when the edit is not described child by child.
	// Listeners should drop anything cached for the whole tree.
	Generic bool
}

// Delta returns the change in text length caused by the edit.
func (e Event) Delta() int {
	return e.NewLength - e.OldLength
}

// String renders a compact description for logs.
func (e Event) String() string {
	return fmt.Sprintf("%s parent=%d old=%d new=%d offset=%d len=%d->%d generic=%t",
		e.Kind, e.Parent, e.OldChild, e.NewChild, e.Offset, e.OldLength, e.NewLength, e.Generic)
}

// Listener receives change notifications.
type Listener interface {
	BeforeChange(ev Event)
	AfterChange(ev Event)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are
// skipped.
type ListenerFuncs struct {
	Before func(Event)
	After  func(Event)
}

// BeforeChange implements Listener.
func (f ListenerFuncs) BeforeChange(ev Event) {
	if f.Before != nil {
		f.Before(ev)
	}
}

// AfterChange implements Listener.
func (f ListenerFuncs) AfterChange(ev Event) {
	if f.After != nil {
		f.After(ev)
	}
}
