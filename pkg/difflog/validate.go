package difflog

import (
	"fmt"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// excerptLimit bounds the node text carried by a DefectError.
const excerptLimit = 40

// DefectError reports an entry that cannot be applied without breaking the
// live tree. It always indicates a bug in the diff or in a language plugin.
type DefectError struct {
	Index   int
	Entry   Entry
	Node    syntax.NodeID
	Type    string
	Offset  int
	Excerpt string
	Message string
	Err     error
}

func (e *DefectError) Error() string {
	msg := fmt.Sprintf("diff log entry %d (%s): %s", e.Index, e.Entry, e.Message)
	if e.Type != "" {
		msg += fmt.Sprintf(" [%s at %d: %q]", e.Type, e.Offset, e.Excerpt)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DefectError) Unwrap() error {
	return e.Err
}

// Validate simulates the log against the live tree without mutating it and
// returns a *DefectError for the first entry that would fail.
func (l *Log) Validate() error {
	v := validator{
		log:    l,
		counts: make(map[syntax.NodeID]int),
		gone:   make(map[syntax.NodeID]bool),
	}
	for i, e := range l.entries {
		if err := v.check(i, e); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	log    *Log
	counts map[syntax.NodeID]int
	gone   map[syntax.NodeID]bool
}

func (v *validator) check(i int, e Entry) error {
	live := v.log.live
	switch e.Op {
	case OpReplaceRoot:
		if i != 0 || len(v.log.entries) != 1 {
			return v.defect(i, e, e.OldChild, "root replacement must be the only entry")
		}
		if e.OldChild != live.Root() {
			return v.defect(i, e, e.OldChild, "node is not the live root")
		}
		if err := v.checkNew(i, e); err != nil {
			return err
		}
		if e.NewChild != v.log.candidate.Root() {
			return v.defect(i, e, e.OldChild, "replacement is not the candidate root")
		}
		return nil

	case OpReplace:
		if err := v.checkOld(i, e, e.OldChild); err != nil {
			return err
		}
		if live.Parent(e.OldChild) == syntax.NoNode {
			return v.defect(i, e, e.OldChild, "replaced node has no parent")
		}
		if err := v.checkNew(i, e); err != nil {
			return err
		}
		v.gone[e.OldChild] = true
		return nil

	case OpDelete:
		if err := v.checkOld(i, e, e.OldChild); err != nil {
			return err
		}
		if live.Parent(e.OldChild) != e.OldParent {
			return v.defect(i, e, e.OldChild, fmt.Sprintf("node is not a child of %d", e.OldParent))
		}
		v.counts[e.OldParent] = v.count(e.OldParent) - 1
		v.gone[e.OldChild] = true
		return nil

	case OpInsert:
		if err := v.checkOld(i, e, e.OldParent); err != nil {
			return err
		}
		if live.IsLeaf(e.OldParent) || live.IsCollapsed(e.OldParent) {
			return v.defect(i, e, e.OldParent, "parent cannot hold children")
		}
		count := v.count(e.OldParent)
		if e.Pos < 0 || e.Pos > count {
			return v.defect(i, e, e.OldParent, fmt.Sprintf("position %d outside [0, %d]", e.Pos, count))
		}
		if err := v.checkNew(i, e); err != nil {
			return err
		}
		v.counts[e.OldParent] = count + 1
		return nil

	default:
		return v.defect(i, e, syntax.NoNode, "unknown operation")
	}
}

// checkOld verifies that id is attached to the live tree and not inside a
// subtree an earlier entry removed.
func (v *validator) checkOld(i int, e Entry, id syntax.NodeID) error {
	live := v.log.live
	if !live.Attached(id) {
		return v.defect(i, e, syntax.NoNode, fmt.Sprintf("node %d is not attached to the live tree", id))
	}
	for cur := id; cur != syntax.NoNode; cur = live.Parent(cur) {
		if v.gone[cur] {
			return v.defect(i, e, id, "node was already removed by an earlier entry")
		}
	}
	return nil
}

func (v *validator) checkNew(i int, e Entry) error {
	if v.log.candidate == nil || !v.log.candidate.Valid(e.NewChild) {
		return v.defect(i, e, syntax.NoNode, fmt.Sprintf("candidate node %d is not valid", e.NewChild))
	}
	return nil
}

func (v *validator) count(parent syntax.NodeID) int {
	if n, ok := v.counts[parent]; ok {
		return n
	}
	return v.log.live.ChildCount(parent)
}

func (v *validator) defect(i int, e Entry, node syntax.NodeID, msg string) error {
	return newDefect(v.log.live, i, e, node, msg, nil)
}

func newDefect(t *syntax.Tree, i int, e Entry, node syntax.NodeID, msg string, err error) *DefectError {
	d := &DefectError{Index: i, Entry: e, Node: node, Message: msg, Err: err}
	if node != syntax.NoNode && t.Valid(node) {
		d.Type = t.TypeName(node)
		d.Offset = t.StartOffset(node)
		d.Excerpt = excerpt(t.Text(node))
	}
	return d
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit] + "..."
}
