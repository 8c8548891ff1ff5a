package syntax

import "fmt"

// alloc returns a fresh slot, reusing released slots first.
func (t *Tree) alloc(kind NodeKind, typ ElementType) NodeID {
	s := slot{
		kind:       kind,
		typ:        typ,
		parent:     NoNode,
		firstChild: NoNode,
		lastChild:  NoNode,
		prev:       NoNode,
		next:       NoNode,
	}
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[id] = s
		return id
	}
	t.slots = append(t.slots, s)
	return NodeID(len(t.slots) - 1)
}

// appendChild links a detached child as the last child of parent.
func (t *Tree) appendChild(parent, child NodeID) {
	c := &t.slots[child]
	c.parent = parent
	c.prev = t.slots[parent].lastChild
	c.next = NoNode

	if last := t.slots[parent].lastChild; last != NoNode {
		t.slots[last].next = child
	} else {
		t.slots[parent].firstChild = child
	}
	t.slots[parent].lastChild = child
}

// prependChild links a detached child as the first child of parent.
func (t *Tree) prependChild(parent, child NodeID) {
	c := &t.slots[child]
	c.parent = parent
	c.prev = NoNode
	c.next = t.slots[parent].firstChild

	if first := t.slots[parent].firstChild; first != NoNode {
		t.slots[first].prev = child
	} else {
		t.slots[parent].lastChild = child
	}
	t.slots[parent].firstChild = child
}

// insertAfter links a detached node directly after sibling.
func (t *Tree) insertAfter(sibling, node NodeID) {
	parent := t.slots[sibling].parent
	n := &t.slots[node]
	n.parent = parent
	n.prev = sibling
	n.next = t.slots[sibling].next

	if next := t.slots[sibling].next; next != NoNode {
		t.slots[next].prev = node
	} else {
		t.slots[parent].lastChild = node
	}
	t.slots[sibling].next = node
}

// unlink detaches child from its parent, keeping its subtree intact.
func (t *Tree) unlink(child NodeID) {
	c := &t.slots[child]
	parent := c.parent

	if c.prev != NoNode {
		t.slots[c.prev].next = c.next
	} else if parent != NoNode {
		t.slots[parent].firstChild = c.next
	}

	if c.next != NoNode {
		t.slots[c.next].prev = c.prev
	} else if parent != NoNode {
		t.slots[parent].lastChild = c.prev
	}

	c.parent = NoNode
	c.prev = NoNode
	c.next = NoNode
}

// swapIn puts a detached replacement where old is and detaches old.
func (t *Tree) swapIn(old, replacement NodeID) {
	o := &t.slots[old]
	parent := o.parent
	r := &t.slots[replacement]
	r.parent = parent
	r.prev = o.prev
	r.next = o.next

	if o.prev != NoNode {
		t.slots[o.prev].next = replacement
	} else {
		t.slots[parent].firstChild = replacement
	}
	if o.next != NoNode {
		t.slots[o.next].prev = replacement
	} else {
		t.slots[parent].lastChild = replacement
	}

	o.parent = NoNode
	o.prev = NoNode
	o.next = NoNode
}

// recompute refreshes the cached length and hash of a composite from its
// children.
func (t *Tree) recompute(id NodeID) {
	s := &t.slots[id]
	if s.kind == KindLeaf || s.collapsed {
		return
	}
	length := 0
	var hash uint64
	for child := s.firstChild; child != NoNode; child = t.slots[child].next {
		c := &t.slots[child]
		hash = hashConcat(hash, c.hash, c.length)
		length += c.length
	}
	s.length = length
	s.hash = hash
}

// recomputeUp refreshes cached state on id and all its ancestors.
func (t *Tree) recomputeUp(id NodeID) {
	for cur := id; cur != NoNode; cur = t.slots[cur].parent {
		t.recompute(cur)
	}
}

// release returns a detached subtree's slots to the free list.
func (t *Tree) release(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for child := t.slots[cur].firstChild; child != NoNode; child = t.slots[child].next {
			stack = append(stack, child)
		}
		t.slots[cur] = slot{free: true, parent: NoNode, firstChild: NoNode, lastChild: NoNode, prev: NoNode, next: NoNode}
		t.free = append(t.free, cur)
	}
}

// adopt deep-copies the subtree rooted at src's id into t and returns the
// detached copy. Leaf text is interned into t's char table.
func (t *Tree) adopt(src *Tree, id NodeID) NodeID {
	s := &src.slots[id]
	copied := t.alloc(s.kind, s.typ)
	c := &t.slots[copied]
	c.text = t.chars.Intern(s.text)
	c.length = s.length
	c.hash = s.hash
	c.collapsed = s.collapsed

	for child := s.firstChild; child != NoNode; child = src.slots[child].next {
		t.appendChild(copied, t.adopt(src, child))
	}
	return copied
}

// StructureError reports a surgery request that would break tree
// invariants. It always indicates a caller bug.
type StructureError struct {
	Op      string
	Node    NodeID
	Message string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s on node %d: %s", e.Op, e.Node, e.Message)
}

// Surgeon performs low-level structural edits on a live tree. It is the
// only way to mutate an attached tree; the diff log replayer is its only
// intended user.
type Surgeon struct {
	tree     *Tree
	detached []NodeID
}

// Surgeon returns a surgeon bound to t.
func (t *Tree) Surgeon() *Surgeon {
	return &Surgeon{tree: t}
}

// Adopt copies a subtree of src into the live arena, detached.
func (s *Surgeon) Adopt(src *Tree, id NodeID) (NodeID, error) {
	if !src.Valid(id) {
		return NoNode, &StructureError{Op: "adopt", Node: id, Message: "source node is not valid"}
	}
	return s.tree.adopt(src, id), nil
}

// Replace puts the detached node replacement in place of old.
func (s *Surgeon) Replace(old, replacement NodeID) error {
	t := s.tree
	if !t.Valid(old) || !t.Valid(replacement) {
		return &StructureError{Op: "replace", Node: old, Message: "node is not valid"}
	}
	parent := t.slots[old].parent
	if parent == NoNode {
		return &StructureError{Op: "replace", Node: old, Message: "node has no parent"}
	}
	if t.slots[replacement].parent != NoNode {
		return &StructureError{Op: "replace", Node: replacement, Message: "replacement is still attached"}
	}
	t.swapIn(old, replacement)
	t.recomputeUp(parent)
	s.detached = append(s.detached, old)
	return nil
}

// Remove detaches child from its parent.
func (s *Surgeon) Remove(child NodeID) error {
	t := s.tree
	if !t.Valid(child) {
		return &StructureError{Op: "remove", Node: child, Message: "node is not valid"}
	}
	parent := t.slots[child].parent
	if parent == NoNode {
		return &StructureError{Op: "remove", Node: child, Message: "node has no parent"}
	}
	t.unlink(child)
	t.recomputeUp(parent)
	s.detached = append(s.detached, child)
	return nil
}

// InsertAt links the detached node child as the pos-th child of parent.
func (s *Surgeon) InsertAt(parent NodeID, pos int, child NodeID) error {
	t := s.tree
	if !t.Valid(parent) || !t.Valid(child) {
		return &StructureError{Op: "insert", Node: parent, Message: "node is not valid"}
	}
	if t.slots[parent].kind != KindComposite || t.slots[parent].collapsed {
		return &StructureError{Op: "insert", Node: parent, Message: "parent cannot hold children"}
	}
	if t.slots[child].parent != NoNode {
		return &StructureError{Op: "insert", Node: child, Message: "child is still attached"}
	}
	if pos == 0 {
		t.prependChild(parent, child)
	} else {
		anchor := t.ChildAt(parent, pos-1)
		if anchor == NoNode {
			return &StructureError{
				Op:      "insert",
				Node:    parent,
				Message: fmt.Sprintf("position %d exceeds child count %d", pos, t.ChildCount(parent)),
			}
		}
		t.insertAfter(anchor, child)
	}
	t.recomputeUp(parent)
	return nil
}

// ReplaceRoot swaps the whole tree content for a copy of src. The char
// table and depth guard of src are taken over together with the root so
// that text lookups stay consistent.
func (s *Surgeon) ReplaceRoot(src *Tree) (NodeID, error) {
	t := s.tree
	if src.root == NoNode {
		return NoNode, &StructureError{Op: "replace root", Node: NoNode, Message: "source tree is empty"}
	}
	oldRoot := t.root
	t.chars = src.chars
	t.root = t.adopt(src, src.root)
	t.tooDeep = src.tooDeep
	t.maxDepth = src.maxDepth
	if oldRoot != NoNode {
		s.detached = append(s.detached, oldRoot)
	}
	return t.root, nil
}

// Release frees every subtree detached through this surgeon. Node IDs of
// those subtrees become invalid.
func (s *Surgeon) Release() {
	for _, id := range s.detached {
		if s.tree.Valid(id) && s.tree.slots[id].parent == NoNode && id != s.tree.root {
			s.tree.release(id)
		}
	}
	s.detached = nil
}
