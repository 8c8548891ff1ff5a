package difflog

import (
	"context"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// nopListener swallows events when the caller passes no listener.
type nopListener struct{}

func (nopListener) BeforeChange(treeevent.Event) {}
func (nopListener) AfterChange(treeevent.Event)  {}

// PerformChanges replays the log onto the live tree, firing a Before event,
// the mutation, and an After event for every entry in order.
//
// The log is consumed by the first call whatever its outcome; later calls
// return ErrAlreadyPerformed. The log is validated first, so a
// *DefectError or a canceled ctx leaves the live tree untouched. Once
// mutation has started the replay runs to completion. Subtrees detached
// from the live tree are released after the last After event.
func (l *Log) PerformChanges(ctx context.Context, listener treeevent.Listener) (*treeevent.Summary, error) {
	if l.performed {
		return nil, ErrAlreadyPerformed
	}
	l.performed = true

	if err := progress.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = nopListener{}
	}

	logger := logging.FromContext(ctx)
	logger.Debug("replaying diff log", logging.FieldEntries, len(l.entries))

	summary := &treeevent.Summary{}
	if root := l.live.Root(); root != syntax.NoNode {
		summary.OldLength = l.live.Len(root)
	}

	surgeon := l.live.Surgeon()
	for i, e := range l.entries {
		kind, err := l.apply(surgeon, listener, i, e)
		if err != nil {
			surgeon.Release()
			return summary, err
		}
		summary.Record(kind)
	}
	surgeon.Release()

	if root := l.live.Root(); root != syntax.NoNode {
		summary.NewLength = l.live.Len(root)
	}
	logger.Debug("diff log replayed",
		logging.FieldReplaced, summary.Replaced,
		logging.FieldInserted, summary.Inserted,
		logging.FieldDeleted, summary.Deleted)

	return summary, nil
}

func (l *Log) apply(surgeon *syntax.Surgeon, listener treeevent.Listener, i int, e Entry) (treeevent.Kind, error) {
	live := l.live

	switch e.Op {
	case OpReplaceRoot:
		ev := treeevent.Event{
			Kind:      treeevent.RootReplaced,
			Tree:      live,
			Parent:    syntax.NoNode,
			OldChild:  e.OldChild,
			NewChild:  syntax.NoNode,
			OldLength: lengthOf(live, e.OldChild),
			NewLength: l.candidate.Len(e.NewChild),
			Generic:   true,
		}
		listener.BeforeChange(ev)
		root, err := surgeon.ReplaceRoot(l.candidate)
		if err != nil {
			return ev.Kind, newDefect(live, i, e, syntax.NoNode, "root replacement failed", err)
		}
		ev.NewChild = root
		listener.AfterChange(ev)
		return ev.Kind, nil

	case OpReplace:
		ev := treeevent.Event{
			Kind:      treeevent.ChildReplaced,
			Tree:      live,
			Parent:    live.Parent(e.OldChild),
			OldChild:  e.OldChild,
			NewChild:  syntax.NoNode,
			Offset:    live.StartOffset(e.OldChild),
			Position:  indexOf(live, e.OldChild),
			OldLength: live.Len(e.OldChild),
			NewLength: l.candidate.Len(e.NewChild),
		}
		listener.BeforeChange(ev)
		adopted, err := surgeon.Adopt(l.candidate, e.NewChild)
		if err == nil {
			err = surgeon.Replace(e.OldChild, adopted)
		}
		if err != nil {
			return ev.Kind, newDefect(live, i, e, e.OldChild, "replace failed", err)
		}
		ev.NewChild = adopted
		listener.AfterChange(ev)
		return ev.Kind, nil

	case OpDelete:
		ev := treeevent.Event{
			Kind:      treeevent.ChildRemoved,
			Tree:      live,
			Parent:    e.OldParent,
			OldChild:  e.OldChild,
			NewChild:  syntax.NoNode,
			Offset:    live.StartOffset(e.OldChild),
			Position:  indexOf(live, e.OldChild),
			OldLength: live.Len(e.OldChild),
		}
		listener.BeforeChange(ev)
		if err := surgeon.Remove(e.OldChild); err != nil {
			return ev.Kind, newDefect(live, i, e, e.OldChild, "remove failed", err)
		}
		listener.AfterChange(ev)
		return ev.Kind, nil

	default:
		ev := treeevent.Event{
			Kind:      treeevent.ChildAdded,
			Tree:      live,
			Parent:    e.OldParent,
			OldChild:  syntax.NoNode,
			NewChild:  syntax.NoNode,
			Offset:    insertOffset(live, e.OldParent, e.Pos),
			Position:  e.Pos,
			NewLength: l.candidate.Len(e.NewChild),
		}
		listener.BeforeChange(ev)
		adopted, err := surgeon.Adopt(l.candidate, e.NewChild)
		if err == nil {
			err = surgeon.InsertAt(e.OldParent, e.Pos, adopted)
		}
		if err != nil {
			return ev.Kind, newDefect(live, i, e, e.OldParent, "insert failed", err)
		}
		ev.NewChild = adopted
		listener.AfterChange(ev)
		return ev.Kind, nil
	}
}

func lengthOf(t *syntax.Tree, id syntax.NodeID) int {
	if id == syntax.NoNode {
		return 0
	}
	return t.Len(id)
}

func indexOf(t *syntax.Tree, id syntax.NodeID) int {
	i := 0
	for sib := t.PrevSibling(id); sib != syntax.NoNode; sib = t.PrevSibling(sib) {
		i++
	}
	return i
}

// insertOffset is the live offset a node inserted at pos under parent will
// start at.
func insertOffset(t *syntax.Tree, parent syntax.NodeID, pos int) int {
	offset := t.StartOffset(parent)
	child := t.FirstChild(parent)
	for ; pos > 0 && child != syntax.NoNode; pos-- {
		offset += t.Len(child)
		child = t.NextSibling(child)
	}
	return offset
}
