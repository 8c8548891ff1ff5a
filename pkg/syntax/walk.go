package syntax

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(id NodeID) error

// Walk performs a pre-order traversal of the subtree rooted at id.
// If walkFunc returns a non-nil error, the walk stops immediately and
// returns that error. Collapsed chameleons are visited but not entered.
func (t *Tree) Walk(id NodeID, walkFunc WalkFunc) error {
	if id == NoNode {
		return nil
	}

	if err := walkFunc(id); err != nil {
		return err
	}

	for child := t.slots[id].firstChild; child != NoNode; child = t.slots[child].next {
		if err := t.Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// Leaves returns the leaves and collapsed chameleons of the subtree in text
// order.
func (t *Tree) Leaves(id NodeID) []NodeID {
	var leaves []NodeID

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	t.Walk(id, func(n NodeID) error {
		if t.slots[n].kind == KindLeaf || t.slots[n].collapsed {
			leaves = append(leaves, n)
		}
		return nil
	})

	return leaves
}

// FindAll returns all nodes of the subtree matching the predicate.
func (t *Tree) FindAll(id NodeID, predicate func(n NodeID) bool) []NodeID {
	var result []NodeID

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	t.Walk(id, func(n NodeID) error {
		if predicate(n) {
			result = append(result, n)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or NoNode.
func (t *Tree) FindFirst(id NodeID, predicate func(n NodeID) bool) NodeID {
	found := NoNode

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	t.Walk(id, func(n NodeID) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByType returns all nodes of the given element type.
func (t *Tree) FindByType(id NodeID, typ ElementType) []NodeID {
	return t.FindAll(id, func(n NodeID) bool {
		return t.slots[n].typ == typ
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
