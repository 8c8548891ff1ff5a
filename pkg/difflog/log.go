// Package difflog records the edit script produced by a tree diff and
// replays it onto the live tree.
//
// A Log is filled by diff.Trees through the diff.ChangeBuilder interface,
// then consumed exactly once by PerformChanges. Node references in entries
// point into two trees: old nodes and parents into the live tree, new nodes
// into the candidate tree the diff compared against.
package difflog

import (
	"errors"
	"fmt"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// ErrAlreadyPerformed is returned when a log is replayed a second time.
var ErrAlreadyPerformed = errors.New("diff log already performed")

// Op is the kind of an edit entry.
type Op uint8

const (
	// OpReplace swaps a live node for a candidate subtree.
	OpReplace Op = iota + 1

	// OpReplaceRoot swaps the whole live tree for the candidate tree.
	OpReplaceRoot

	// OpInsert links a candidate subtree under a live parent.
	OpInsert

	// OpDelete detaches a live node.
	OpDelete
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpReplace:
		return "replace"
	case OpReplaceRoot:
		return "replace-root"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// Entry is one immutable edit operation.
//
//   - OpReplace, OpReplaceRoot: OldChild is replaced by NewChild.
//   - OpInsert: NewChild becomes child number Pos of OldParent.
//   - OpDelete: OldChild is removed from OldParent.
//
// Unused node fields hold syntax.NoNode.
type Entry struct {
	Op        Op
	OldParent syntax.NodeID
	OldChild  syntax.NodeID
	NewChild  syntax.NodeID
	Pos       int
}

func (e Entry) String() string {
	switch e.Op {
	case OpInsert:
		return fmt.Sprintf("insert %d into %d at %d", e.NewChild, e.OldParent, e.Pos)
	case OpDelete:
		return fmt.Sprintf("delete %d from %d", e.OldChild, e.OldParent)
	default:
		return fmt.Sprintf("%s %d with %d", e.Op, e.OldChild, e.NewChild)
	}
}

// Log is an ordered edit script from a live tree to a candidate tree.
type Log struct {
	live      *syntax.Tree
	candidate *syntax.Tree
	entries   []Entry
	performed bool
}

// New creates an empty log between the live tree and the candidate tree
// new nodes are taken from.
func New(live, candidate *syntax.Tree) *Log {
	return &Log{live: live, candidate: candidate}
}

// Live returns the tree the log edits.
func (l *Log) Live() *syntax.Tree {
	return l.live
}

// Candidate returns the tree new nodes come from.
func (l *Log) Candidate() *syntax.Tree {
	return l.candidate
}

// Entries returns a copy of the recorded entries.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Empty reports whether the log has no entries.
func (l *Log) Empty() bool {
	return len(l.entries) == 0
}

// Performed reports whether the log has been consumed.
func (l *Log) Performed() bool {
	return l.performed
}

// NodeReplaced implements diff.ChangeBuilder. Replacing the live root is
// recorded as OpReplaceRoot.
func (l *Log) NodeReplaced(oldChild, newChild syntax.NodeID) {
	op := OpReplace
	if oldChild == l.live.Root() {
		op = OpReplaceRoot
	}
	l.entries = append(l.entries, Entry{
		Op:        op,
		OldParent: syntax.NoNode,
		OldChild:  oldChild,
		NewChild:  newChild,
	})
}

// NodeDeleted implements diff.ChangeBuilder.
func (l *Log) NodeDeleted(oldParent, oldChild syntax.NodeID) {
	l.entries = append(l.entries, Entry{
		Op:        OpDelete,
		OldParent: oldParent,
		OldChild:  oldChild,
		NewChild:  syntax.NoNode,
	})
}

// NodeInserted implements diff.ChangeBuilder.
func (l *Log) NodeInserted(oldParent, newChild syntax.NodeID, pos int) {
	l.entries = append(l.entries, Entry{
		Op:        OpInsert,
		OldParent: oldParent,
		OldChild:  syntax.NoNode,
		NewChild:  newChild,
		Pos:       pos,
	})
}
