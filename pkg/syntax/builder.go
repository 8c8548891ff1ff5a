package syntax

import (
	"errors"
	"fmt"
)

// ErrUnbalanced is returned by Build when Start and Finish calls do not
// pair up into exactly one root.
var ErrUnbalanced = errors.New("unbalanced tree: Start/Finish markers do not match")

// Builder constructs a Tree bottom-up. Parsers call Start for each
// composite, Leaf or Lazy for tokens, and Finish to close the innermost
// open composite.
//
//	b := syntax.NewBuilder(reg)
//	b.Start(file)
//	b.Leaf(ident, "x")
//	b.Finish()
//	tree, err := b.Build()
type Builder struct {
	tree  *Tree
	stack []NodeID
	err   error
}

// NewBuilder creates a builder with a fresh char table.
func NewBuilder(registry *Registry) *Builder {
	return NewBuilderWithChars(registry, nil)
}

// NewBuilderWithChars creates a builder interning leaf text into chars.
func NewBuilderWithChars(registry *Registry, chars *CharTable) *Builder {
	return &Builder{tree: newTree(registry, chars)}
}

// Start opens a composite node of type typ.
func (b *Builder) Start(typ ElementType) {
	if b.err != nil {
		return
	}
	id := b.tree.alloc(KindComposite, typ)
	if !b.attach(id) {
		return
	}
	b.stack = append(b.stack, id)
	if depth := len(b.stack); depth > b.tree.maxDepth {
		b.tree.maxDepth = depth
	}
}

// Finish closes the innermost open composite.
func (b *Builder) Finish() {
	if b.err != nil {
		return
	}
	n := len(b.stack)
	if n == 0 {
		b.err = fmt.Errorf("%w: Finish without Start", ErrUnbalanced)
		return
	}
	id := b.stack[n-1]
	b.stack = b.stack[:n-1]
	b.tree.recompute(id)
}

// Leaf appends a token. Empty text is ignored; leaves always carry at least
// one byte.
func (b *Builder) Leaf(typ ElementType, text string) {
	if b.err != nil || text == "" {
		return
	}
	id := b.tree.alloc(KindLeaf, typ)
	b.setText(id, text)
	b.attach(id)
}

// Lazy appends a collapsed chameleon holding text. Its children are parsed
// on demand.
func (b *Builder) Lazy(typ ElementType, text string) {
	if b.err != nil {
		return
	}
	id := b.tree.alloc(KindComposite, typ)
	b.setText(id, text)
	b.tree.slots[id].collapsed = true
	b.attach(id)
}

// Depth returns the number of currently open composites.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Build finishes construction. The builder must not be used afterwards.
func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("%w: %d composite(s) left open", ErrUnbalanced, len(b.stack))
	}
	if b.tree.root == NoNode {
		return nil, fmt.Errorf("%w: no root", ErrUnbalanced)
	}
	if b.tree.maxDepth == 0 {
		b.tree.maxDepth = 1
	}
	tree := b.tree
	b.tree = nil
	return tree, nil
}

func (b *Builder) setText(id NodeID, text string) {
	s := &b.tree.slots[id]
	s.text = b.tree.chars.Intern(text)
	s.length = len(text)
	s.hash = hashString(text)
}

// attach links id under the innermost open composite, or makes it the root.
func (b *Builder) attach(id NodeID) bool {
	if n := len(b.stack); n > 0 {
		b.tree.appendChild(b.stack[n-1], id)
		if depth := n + 1; depth > b.tree.maxDepth {
			b.tree.maxDepth = depth
		}
		return true
	}
	if b.tree.root != NoNode {
		b.err = fmt.Errorf("%w: second root %s", ErrUnbalanced, b.tree.registry.Name(b.tree.slots[id].typ))
		return false
	}
	b.tree.root = id
	return true
}
