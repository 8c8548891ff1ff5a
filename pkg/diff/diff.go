// Package diff computes structural differences between an old syntax tree
// and a freshly parsed candidate tree.
//
// The algorithm walks both trees level by level. At each level it skips the
// common prefix and suffix of matching children, then scans the remaining
// middle left to right. When the heads diverge it looks ahead a bounded
// number of siblings on each side to recognise plain insertions and
// deletions; otherwise it pairs the heads, descending into same-typed
// composites and replacing anything else. Results are reported to a
// ChangeBuilder in an order that can be applied sequentially.
package diff

import (
	"context"

	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// DefaultLookahead is the default realignment window.
const DefaultLookahead = 4

// ChangeBuilder receives the edit operations found by the diff.
//
// Operations arrive in application order: for each parent, positions of
// inserts refer to the parent's child list after all earlier operations on
// that parent have been applied.
type ChangeBuilder interface {
	NodeReplaced(oldChild, newChild syntax.NodeID)
	NodeDeleted(oldParent, oldChild syntax.NodeID)
	NodeInserted(oldParent, newChild syntax.NodeID, pos int)
}

// Options tune the diff.
type Options struct {
	// Lookahead bounds how many siblings are skipped when looking for a
	// realignment after the heads diverge. Zero means DefaultLookahead.
	Lookahead int

	// CheckInterval is the cancellation polling interval in visited nodes.
	// Zero means every node.
	CheckInterval int

	// Custom is an optional comparator override used when Comparator is nil.
	Custom CustomFunc

	// Comparator replaces the default comparator when set.
	Comparator Comparator
}

// match classifies a head pair.
type match uint8

const (
	matchNone match = iota
	matchEqual
	matchDrill
	matchTypeOnly
)

type differ struct {
	ctx       context.Context
	old       *syntax.View
	new       *syntax.View
	cmp       Comparator
	builder   ChangeBuilder
	checker   *progress.Checker
	lookahead int
}

// Trees diffs the whole old tree against the whole new tree.
func Trees(ctx context.Context, oldView, newView *syntax.View, builder ChangeBuilder, opts Options) error {
	return Subtrees(ctx, oldView, oldView.Root(), newView, newView.Root(), builder, opts)
}

// Subtrees diffs the subtree at oldRoot against the subtree at newRoot.
//
// If the old tree is flagged as too deep, or the root types differ, a single
// replacement of oldRoot is reported without looking further. Returns an
// error wrapping progress.ErrCanceled if ctx is done during the walk; the
// builder must then be discarded.
func Subtrees(
	ctx context.Context,
	oldView *syntax.View, oldRoot syntax.NodeID,
	newView *syntax.View, newRoot syntax.NodeID,
	builder ChangeBuilder, opts Options,
) error {
	d := &differ{
		ctx:       ctx,
		old:       oldView,
		new:       newView,
		builder:   builder,
		checker:   progress.NewChecker(ctx, opts.CheckInterval),
		lookahead: opts.Lookahead,
	}
	if d.lookahead <= 0 {
		d.lookahead = DefaultLookahead
	}
	d.cmp = opts.Comparator
	if d.cmp == nil {
		d.cmp = NewComparator(oldView.Tree(), newView.Tree(), d.checker, opts.Custom)
	}

	if err := d.checker.Check(); err != nil {
		return err
	}
	if oldView.Tree().TooDeep() || !d.cmp.TypesEqual(oldRoot, newRoot) {
		builder.NodeReplaced(oldRoot, newRoot)
		return nil
	}

	result, err := d.compare(oldRoot, newRoot)
	if err != nil {
		return err
	}
	switch result {
	case matchEqual:
		return nil
	case matchDrill:
		return d.build(oldRoot, newRoot)
	default:
		builder.NodeReplaced(oldRoot, newRoot)
		return nil
	}
}

// compare classifies a pair of nodes.
func (d *differ) compare(oldNode, newNode syntax.NodeID) (match, error) {
	if !d.cmp.TypesEqual(oldNode, newNode) {
		return matchNone, nil
	}
	state, err := d.cmp.DeepEqual(oldNode, newNode)
	if err != nil {
		return matchNone, err
	}
	switch state {
	case Yes:
		return matchEqual, nil
	case No:
		return matchTypeOnly, nil
	default:
		return matchDrill, nil
	}
}

// strong reports whether a pair is safe to align on: equal, or shallow-equal
// composites (same type, same child count, same text hash).
func (d *differ) strong(oldNode, newNode syntax.NodeID) (match, bool, error) {
	result, err := d.compare(oldNode, newNode)
	if err != nil {
		return matchNone, false, err
	}
	switch result {
	case matchEqual:
		return result, true, nil
	case matchDrill:
		return result, d.shallowEqual(oldNode, newNode), nil
	default:
		return result, false, nil
	}
}

func (d *differ) shallowEqual(oldNode, newNode syntax.NodeID) bool {
	if !d.cmp.HashesEqual(oldNode, newNode) {
		return false
	}
	newTree := d.new.Tree()
	if newTree.IsCollapsed(newNode) {
		return true
	}
	return d.old.Tree().ChildCount(oldNode) == newTree.ChildCount(newNode)
}

// build diffs the children of two nodes the comparator could not decide on.
func (d *differ) build(oldParent, newParent syntax.NodeID) error {
	if err := d.checker.Check(); err != nil {
		return err
	}

	oldKids, err := d.old.Children(d.ctx, oldParent, nil)
	if err != nil {
		return err
	}
	newKids, err := d.new.Children(d.ctx, newParent, nil)
	if err != nil {
		return err
	}

	if len(oldKids) == 0 && len(newKids) == 0 {
		if !d.cmp.HashesEqual(oldParent, newParent) {
			d.builder.NodeReplaced(oldParent, newParent)
		}
		return nil
	}

	// Common prefix.
	prefix := 0
	for prefix < len(oldKids) && prefix < len(newKids) {
		result, ok, err := d.strong(oldKids[prefix], newKids[prefix])
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if result == matchDrill {
			if err := d.build(oldKids[prefix], newKids[prefix]); err != nil {
				return err
			}
		}
		prefix++
	}

	// Common suffix, bounded so it never overlaps the prefix.
	var suffixDrills [][2]syntax.NodeID
	suffix := 0
	for suffix < len(oldKids)-prefix && suffix < len(newKids)-prefix {
		oldChild := oldKids[len(oldKids)-1-suffix]
		newChild := newKids[len(newKids)-1-suffix]
		result, ok, err := d.strong(oldChild, newChild)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if result == matchDrill {
			suffixDrills = append(suffixDrills, [2]syntax.NodeID{oldChild, newChild})
		}
		suffix++
	}

	if err := d.middle(oldParent, oldKids[prefix:len(oldKids)-suffix], newKids[:len(newKids)-suffix], prefix); err != nil {
		return err
	}

	for i := len(suffixDrills) - 1; i >= 0; i-- {
		if err := d.build(suffixDrills[i][0], suffixDrills[i][1]); err != nil {
			return err
		}
	}
	return nil
}

// middle walks the differing span. oldKids holds only the span; newKids
// holds all new children up to the suffix so that insert positions are
// absolute. start is the index where both spans begin.
func (d *differ) middle(oldParent syntax.NodeID, oldKids, newKids []syntax.NodeID, start int) error {
	oi, nj := 0, start
	for oi < len(oldKids) && nj < len(newKids) {
		result, ok, err := d.strong(oldKids[oi], newKids[nj])
		if err != nil {
			return err
		}
		if ok {
			if result == matchDrill {
				if err := d.build(oldKids[oi], newKids[nj]); err != nil {
					return err
				}
			}
			oi++
			nj++
			continue
		}

		inserted, deleted, err := d.realign(oldKids, newKids, oi, nj)
		if err != nil {
			return err
		}
		if inserted > 0 && (deleted == 0 || inserted <= deleted) {
			for range inserted {
				d.builder.NodeInserted(oldParent, newKids[nj], nj)
				nj++
			}
			continue
		}
		if deleted > 0 {
			for range deleted {
				d.builder.NodeDeleted(oldParent, oldKids[oi])
				oi++
			}
			continue
		}

		if result == matchDrill {
			if err := d.build(oldKids[oi], newKids[nj]); err != nil {
				return err
			}
		} else {
			d.builder.NodeReplaced(oldKids[oi], newKids[nj])
		}
		oi++
		nj++
	}

	for ; oi < len(oldKids); oi++ {
		d.builder.NodeDeleted(oldParent, oldKids[oi])
	}
	for ; nj < len(newKids); nj++ {
		d.builder.NodeInserted(oldParent, newKids[nj], nj)
	}
	return nil
}

// realign looks ahead for the smallest k such that the old head matches
// new[nj+k] (k insertions) or old[oi+k] matches the new head (k deletions).
// Zero means no realignment within the window.
func (d *differ) realign(oldKids, newKids []syntax.NodeID, oi, nj int) (int, int, error) {
	inserted := 0
	for k := 1; k <= d.lookahead && nj+k < len(newKids); k++ {
		_, ok, err := d.strong(oldKids[oi], newKids[nj+k])
		if err != nil {
			return 0, 0, err
		}
		if ok {
			inserted = k
			break
		}
	}

	deleted := 0
	for k := 1; k <= d.lookahead && oi+k < len(oldKids); k++ {
		if inserted > 0 && k > inserted {
			break
		}
		_, ok, err := d.strong(oldKids[oi+k], newKids[nj])
		if err != nil {
			return 0, 0, err
		}
		if ok {
			deleted = k
			break
		}
	}
	return inserted, deleted, nil
}
