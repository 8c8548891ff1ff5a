package diff

import (
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// ThreeState is the answer of a shallow comparison.
type ThreeState uint8

const (
	// Unsure means the nodes look alike but their children decide.
	Unsure ThreeState = iota

	// Yes means the subtrees are interchangeable.
	Yes

	// No means the nodes differ.
	No
)

// String returns a human-readable name for the state.
func (s ThreeState) String() string {
	switch s {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unsure"
	}
}

// Comparator decides node equality between an old tree and a new tree
// without descending into children.
type Comparator interface {
	// TypesEqual reports whether both nodes have the same element type.
	TypesEqual(oldNode, newNode syntax.NodeID) bool

	// HashesEqual is a fast filter: false means the texts differ.
	HashesEqual(oldNode, newNode syntax.NodeID) bool

	// DeepEqual compares the nodes shallowly. It must never recurse.
	DeepEqual(oldNode, newNode syntax.NodeID) (ThreeState, error)
}

// CustomFunc lets a language override the default comparison. Returning
// Unsure falls through to the default rules.
type CustomFunc func(oldTree *syntax.Tree, oldNode syntax.NodeID, newTree *syntax.Tree, newNode syntax.NodeID) ThreeState

// DefaultComparator implements the language-agnostic comparison rules:
//   - error elements only match error elements, and only by text,
//   - leaves match iff their text is identical,
//   - chameleons match iff their text is identical; a collapsed old
//     chameleon with different text is never dived into,
//   - any other composite pair is Unsure.
type DefaultComparator struct {
	old     *syntax.Tree
	new     *syntax.Tree
	checker *progress.Checker
	custom  CustomFunc
}

// NewComparator creates the default comparator. Every DeepEqual call is a
// cancellation checkpoint on checker. custom may be nil.
func NewComparator(oldTree, newTree *syntax.Tree, checker *progress.Checker, custom CustomFunc) *DefaultComparator {
	return &DefaultComparator{old: oldTree, new: newTree, checker: checker, custom: custom}
}

// TypesEqual implements Comparator.
func (c *DefaultComparator) TypesEqual(oldNode, newNode syntax.NodeID) bool {
	oldType, newType := c.old.Type(oldNode), c.new.Type(newNode)
	if c.old.Registry() == c.new.Registry() {
		return oldType == newType
	}
	oldInfo, newInfo := c.old.Registry().Info(oldType), c.new.Registry().Info(newType)
	return oldInfo.Language == newInfo.Language && oldInfo.Name == newInfo.Name
}

// HashesEqual implements Comparator.
func (c *DefaultComparator) HashesEqual(oldNode, newNode syntax.NodeID) bool {
	return c.old.Len(oldNode) == c.new.Len(newNode) && c.old.Hash(oldNode) == c.new.Hash(newNode)
}

// DeepEqual implements Comparator.
func (c *DefaultComparator) DeepEqual(oldNode, newNode syntax.NodeID) (ThreeState, error) {
	if c.checker != nil {
		if err := c.checker.Check(); err != nil {
			return No, err
		}
	}

	oldIsError := c.old.Has(oldNode, syntax.FlagError)
	newIsError := c.new.Has(newNode, syntax.FlagError)
	if oldIsError != newIsError {
		return No, nil
	}
	if oldIsError {
		if c.textEqual(oldNode, newNode) {
			return Unsure, nil
		}
		return No, nil
	}

	if c.custom != nil {
		if result := c.custom(c.old, oldNode, c.new, newNode); result != Unsure {
			return result, nil
		}
	}

	oldIsLeaf, newIsLeaf := c.old.IsLeaf(oldNode), c.new.IsLeaf(newNode)
	switch {
	case oldIsLeaf && newIsLeaf:
		if c.textEqual(oldNode, newNode) {
			return Yes, nil
		}
		return No, nil
	case oldIsLeaf != newIsLeaf:
		return No, nil
	}

	oldCollapsed, newCollapsed := c.old.IsCollapsed(oldNode), c.new.IsCollapsed(newNode)
	if oldCollapsed || newCollapsed || c.old.Has(oldNode, syntax.FlagLazy) {
		if c.textEqual(oldNode, newNode) {
			return Yes, nil
		}
		if oldCollapsed {
			return No, nil
		}
	}

	return Unsure, nil
}

// textEqual compares subtree texts, starting with the hash filter.
func (c *DefaultComparator) textEqual(oldNode, newNode syntax.NodeID) bool {
	if !c.HashesEqual(oldNode, newNode) {
		return false
	}
	if c.new.IsLeaf(newNode) || c.new.IsCollapsed(newNode) {
		return c.old.TextMatches(oldNode, c.new.LeafText(newNode))
	}
	if c.old.IsLeaf(oldNode) || c.old.IsCollapsed(oldNode) {
		return c.new.TextMatches(newNode, c.old.LeafText(oldNode))
	}
	return c.old.TextMatches(oldNode, c.new.Text(newNode))
}
