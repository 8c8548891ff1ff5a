package syntax

import "fmt"

// InvariantError describes a node that breaks a tree invariant.
type InvariantError struct {
	Node    NodeID
	Type    string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated at node %d (%s): %s", e.Node, e.Type, e.Message)
}

// Validate checks the structural invariants of the whole tree:
//   - the root has no parent or siblings,
//   - parent and sibling links are mutually consistent,
//   - every composite's length and hash derive from its children,
//   - leaves carry text.
//
// Returns nil if the tree is sound, or the first violation found.
func Validate(t *Tree) error {
	if t.root == NoNode {
		return nil
	}
	root := &t.slots[t.root]
	if root.parent != NoNode || root.prev != NoNode || root.next != NoNode {
		return t.violation(t.root, "root is linked to a parent or siblings")
	}
	return t.validateNode(t.root)
}

func (t *Tree) validateNode(id NodeID) error {
	s := &t.slots[id]
	if s.free {
		return t.violation(id, "node slot is free")
	}

	switch {
	case s.kind == KindLeaf:
		if s.firstChild != NoNode {
			return t.violation(id, "leaf has children")
		}
		if s.text == "" || s.length != len(s.text) {
			return t.violation(id, fmt.Sprintf("leaf length %d does not match text %q", s.length, s.text))
		}
		return nil
	case s.collapsed:
		if s.firstChild != NoNode {
			return t.violation(id, "collapsed chameleon has children")
		}
		if s.length != len(s.text) {
			return t.violation(id, "collapsed chameleon length does not match its text")
		}
		return nil
	}

	length := 0
	var hash uint64
	prev := NoNode
	for child := s.firstChild; child != NoNode; child = t.slots[child].next {
		c := &t.slots[child]
		if c.parent != id {
			return t.violation(child, fmt.Sprintf("parent link is %d, want %d", c.parent, id))
		}
		if c.prev != prev {
			return t.violation(child, "prev sibling link is inconsistent")
		}
		if err := t.validateNode(child); err != nil {
			return err
		}
		length += c.length
		hash = hashConcat(hash, c.hash, c.length)
		prev = child
	}
	if s.lastChild != prev {
		return t.violation(id, "last child link is inconsistent")
	}
	if s.length != length {
		return t.violation(id, fmt.Sprintf("length %d differs from sum of children %d", s.length, length))
	}
	if s.hash != hash {
		return t.violation(id, "cached hash is stale")
	}
	return nil
}

func (t *Tree) violation(id NodeID, msg string) error {
	return &InvariantError{Node: id, Type: t.TypeName(id), Message: msg}
}

// Covers reports whether the concatenated leaf text of the tree equals text.
func Covers(t *Tree, text string) bool {
	if t.root == NoNode {
		return text == ""
	}
	return t.TextMatches(t.root, text)
}
