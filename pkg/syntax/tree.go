package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// NodeKind is the closed set of node shapes.
type NodeKind uint8

const (
	// KindLeaf is a token carrying its own text.
	KindLeaf NodeKind = iota

	// KindComposite is an interior node whose text is the concatenation of
	// its children. A collapsed chameleon is a composite that still holds
	// its text and has no materialised children.
	KindComposite
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindComposite:
		return "Composite"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// NodeID addresses a node slot in a Tree arena. IDs are stable for as long
// as the node stays attached; slots of detached nodes are recycled once a
// replay has finished.
type NodeID int32

// NoNode is the null NodeID.
const NoNode NodeID = -1

// Errors reported by tree accessors and surgery.
var (
	// ErrInvalidNode is returned when a NodeID does not address a live slot.
	ErrInvalidNode = errors.New("invalid node")

	// ErrNotParsable is returned by sub-parsers when text cannot be parsed
	// as a single node of the requested type.
	ErrNotParsable = errors.New("text is not parsable in isolation")
)

// slot is one arena entry.
type slot struct {
	kind NodeKind
	typ  ElementType

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prev       NodeID
	next       NodeID

	// text is the leaf text, or the full text of a collapsed chameleon.
	text string

	// length and hash are derived from the subtree and kept current by
	// every mutation.
	length int
	hash   uint64

	collapsed bool
	free      bool
}

// Tree is an arena-backed syntax tree. Nodes are addressed by NodeID and
// linked through explicit parent/child/sibling indices.
//
// A Tree is not safe for concurrent mutation. Concurrent readers are safe
// as long as no replay is running.
type Tree struct {
	registry *Registry
	chars    *CharTable
	slots    []slot
	free     []NodeID
	root     NodeID

	tooDeep  bool
	maxDepth int
}

// newTree creates an empty tree bound to a registry and char table.
func newTree(registry *Registry, chars *CharTable) *Tree {
	if chars == nil {
		chars = NewCharTable()
	}
	return &Tree{
		registry: registry,
		chars:    chars,
		root:     NoNode,
	}
}

// Registry returns the element type registry of the tree.
func (t *Tree) Registry() *Registry {
	return t.registry
}

// Chars returns the interning table currently owned by the tree.
func (t *Tree) Chars() *CharTable {
	return t.chars
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// Valid reports whether id addresses a live slot.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.slots) && !t.slots[id].free
}

// Kind returns the node kind.
func (t *Tree) Kind(id NodeID) NodeKind {
	return t.slots[id].kind
}

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.slots[id].kind == KindLeaf
}

// IsCollapsed reports whether id is a chameleon whose children have not
// been materialised.
func (t *Tree) IsCollapsed(id NodeID) bool {
	return t.slots[id].collapsed
}

// Type returns the element type.
func (t *Tree) Type(id NodeID) ElementType {
	return t.slots[id].typ
}

// TypeName returns the registered name of the node's element type.
func (t *Tree) TypeName(id NodeID) string {
	return t.registry.Name(t.slots[id].typ)
}

// Has reports whether the node's element type carries flag.
func (t *Tree) Has(id NodeID, flag TypeFlags) bool {
	return t.registry.Has(t.slots[id].typ, flag)
}

// Parent returns the parent node, or NoNode for the root and detached nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.slots[id].parent
}

// FirstChild returns the first child, or NoNode.
func (t *Tree) FirstChild(id NodeID) NodeID {
	return t.slots[id].firstChild
}

// LastChild returns the last child, or NoNode.
func (t *Tree) LastChild(id NodeID) NodeID {
	return t.slots[id].lastChild
}

// NextSibling returns the next sibling, or NoNode.
func (t *Tree) NextSibling(id NodeID) NodeID {
	return t.slots[id].next
}

// PrevSibling returns the previous sibling, or NoNode.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	return t.slots[id].prev
}

// Children appends the direct children of id to into and returns it.
// Passing a reused slice avoids allocation in hot loops.
func (t *Tree) Children(id NodeID, into []NodeID) []NodeID {
	into = into[:0]
	for child := t.slots[id].firstChild; child != NoNode; child = t.slots[child].next {
		into = append(into, child)
	}
	return into
}

// ChildCount returns the number of direct children.
func (t *Tree) ChildCount(id NodeID) int {
	count := 0
	for child := t.slots[id].firstChild; child != NoNode; child = t.slots[child].next {
		count++
	}
	return count
}

// ChildAt returns the child at index i, or NoNode when out of range.
func (t *Tree) ChildAt(id NodeID, i int) NodeID {
	if i < 0 {
		return NoNode
	}
	child := t.slots[id].firstChild
	for ; child != NoNode && i > 0; i-- {
		child = t.slots[child].next
	}
	return child
}

// Len returns the text length of the subtree.
func (t *Tree) Len(id NodeID) int {
	return t.slots[id].length
}

// Hash returns the composable text hash of the subtree.
func (t *Tree) Hash(id NodeID) uint64 {
	return t.slots[id].hash
}

// LeafText returns the text stored on a leaf or collapsed chameleon.
// Materialised composites return "".
func (t *Tree) LeafText(id NodeID) string {
	return t.slots[id].text
}

// Text returns the full text of the subtree.
func (t *Tree) Text(id NodeID) string {
	s := &t.slots[id]
	if s.kind == KindLeaf || s.collapsed {
		return s.text
	}
	var sb strings.Builder
	sb.Grow(s.length)
	t.writeText(&sb, id)
	return sb.String()
}

func (t *Tree) writeText(sb *strings.Builder, id NodeID) {
	s := &t.slots[id]
	if s.kind == KindLeaf || s.collapsed {
		sb.WriteString(s.text)
		return
	}
	for child := s.firstChild; child != NoNode; child = t.slots[child].next {
		t.writeText(sb, child)
	}
}

// TextMatches reports whether the subtree text equals s without building
// the text of composites.
func (t *Tree) TextMatches(id NodeID, s string) bool {
	if t.slots[id].length != len(s) {
		return false
	}
	_, ok := t.matchPrefix(id, s)
	return ok
}

func (t *Tree) matchPrefix(id NodeID, s string) (string, bool) {
	slot := &t.slots[id]
	if slot.kind == KindLeaf || slot.collapsed {
		if !strings.HasPrefix(s, slot.text) {
			return s, false
		}
		return s[len(slot.text):], true
	}
	for child := slot.firstChild; child != NoNode; child = t.slots[child].next {
		var ok bool
		if s, ok = t.matchPrefix(child, s); !ok {
			return s, false
		}
	}
	return s, true
}

// StartOffset returns the offset of the node relative to the tree root.
func (t *Tree) StartOffset(id NodeID) int {
	offset := 0
	for cur := id; cur != NoNode; cur = t.slots[cur].parent {
		for sib := t.slots[cur].prev; sib != NoNode; sib = t.slots[sib].prev {
			offset += t.slots[sib].length
		}
	}
	return offset
}

// Range returns the text range of the node relative to the tree root.
func (t *Tree) Range(id NodeID) Range {
	start := t.StartOffset(id)
	return Range{StartOffset: start, EndOffset: start + t.slots[id].length}
}

// LeafAt returns the leaf (or collapsed chameleon) covering offset.
// Offsets outside [0, Len(root)) return NoNode.
func (t *Tree) LeafAt(offset int) NodeID {
	if t.root == NoNode || offset < 0 || offset >= t.slots[t.root].length {
		return NoNode
	}
	cur := t.root
	for {
		s := &t.slots[cur]
		if s.kind == KindLeaf || s.collapsed {
			return cur
		}
		next := NoNode
		for child := s.firstChild; child != NoNode; child = t.slots[child].next {
			length := t.slots[child].length
			if offset < length {
				next = child
				break
			}
			offset -= length
		}
		if next == NoNode {
			return cur
		}
		cur = next
	}
}

// CommonAncestor returns the nearest node that is an ancestor of (or equal
// to) both a and b, or NoNode when they are in different trees.
func (t *Tree) CommonAncestor(a, b NodeID) NodeID {
	depthA, depthB := t.DepthOf(a), t.DepthOf(b)
	for depthA > depthB {
		a = t.slots[a].parent
		depthA--
	}
	for depthB > depthA {
		b = t.slots[b].parent
		depthB--
	}
	for a != b {
		if a == NoNode || b == NoNode {
			return NoNode
		}
		a = t.slots[a].parent
		b = t.slots[b].parent
	}
	return a
}

// DepthOf returns the number of ancestors of id.
func (t *Tree) DepthOf(id NodeID) int {
	depth := 0
	for cur := t.slots[id].parent; cur != NoNode; cur = t.slots[cur].parent {
		depth++
	}
	return depth
}

// IsAncestor reports whether ancestor is id or one of its ancestors.
func (t *Tree) IsAncestor(ancestor, id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.slots[cur].parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Attached reports whether id is reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	return t.Valid(id) && t.root != NoNode && t.IsAncestor(t.root, id)
}

// MaxDepth returns the depth recorded when the tree was built or last
// measured with MeasureDepth.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// MeasureDepth recomputes and records the maximum depth of the tree.
func (t *Tree) MeasureDepth() int {
	t.maxDepth = 0
	if t.root == NoNode {
		return 0
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > t.maxDepth {
			t.maxDepth = top.depth
		}
		for child := t.slots[top.id].firstChild; child != NoNode; child = t.slots[child].next {
			stack = append(stack, frame{child, top.depth + 1})
		}
	}
	return t.maxDepth
}

// TooDeep reports whether the tree is flagged as too deep to reparse
// incrementally.
func (t *Tree) TooDeep() bool {
	return t.tooDeep
}

// SetTooDeep sets or clears the depth guard flag.
func (t *Tree) SetTooDeep(tooDeep bool) {
	t.tooDeep = tooDeep
}

// NodeCount returns the number of live slots.
func (t *Tree) NodeCount() int {
	return len(t.slots) - len(t.free)
}

// Dump renders the subtree as an indented outline for debugging and tests.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id, 0)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(t.TypeName(id))
	s := &t.slots[id]
	if s.kind == KindLeaf || s.collapsed {
		fmt.Fprintf(sb, " %q", s.text)
	}
	sb.WriteByte('\n')
	for child := s.firstChild; child != NoNode; child = t.slots[child].next {
		t.dump(sb, child, indent+1)
	}
}
