package syntax

import (
	"context"
	"errors"
	"fmt"
)

// ErrInconsistentParse is returned when a sub-parse yields a node whose
// type or length disagrees with the text it was asked to parse.
var ErrInconsistentParse = errors.New("inconsistent parse")

// Expander parses the text of a single node in isolation.
//
// ParseSubstring must return a tree whose root has type typ and whose text
// is exactly text. It returns an error wrapping ErrNotParsable when text is
// not a well-formed node of that type on its own.
type Expander interface {
	ParseSubstring(ctx context.Context, typ ElementType, text string) (*Tree, error)
}

// Language is the contract a language plugin fulfills for the engine.
//
// Implementations must be deterministic for identical input, must not
// retain the returned trees, and must produce trees covering their input
// byte for byte.
type Language interface {
	Expander

	// Name returns the language identifier (e.g. "markdown").
	Name() string

	// Registry returns the registry holding the language's element types.
	Registry() *Registry

	// Parse parses a complete file.
	Parse(ctx context.Context, text string) (*Tree, error)
}

// Expand materialises the children of a collapsed chameleon in place.
// Expanding a node that is not collapsed is a no-op.
func (t *Tree) Expand(ctx context.Context, id NodeID, expander Expander) error {
	if !t.Valid(id) {
		return ErrInvalidNode
	}
	s := &t.slots[id]
	if !s.collapsed {
		return nil
	}

	typ, text := s.typ, s.text
	sub, err := expander.ParseSubstring(ctx, typ, text)
	if err != nil {
		return fmt.Errorf("expand %s: %w", t.registry.Name(typ), err)
	}

	subRoot := sub.Root()
	if sub.Type(subRoot) != typ || sub.Len(subRoot) != len(text) {
		return fmt.Errorf("expand %s: %w: got %s of length %d, want length %d",
			t.registry.Name(typ), ErrInconsistentParse, sub.TypeName(subRoot), sub.Len(subRoot), len(text))
	}
	if sub.Kind(subRoot) != KindComposite || sub.IsCollapsed(subRoot) {
		return fmt.Errorf("expand %s: %w: sub-parse did not produce children",
			t.registry.Name(typ), ErrInconsistentParse)
	}

	for child := sub.FirstChild(subRoot); child != NoNode; child = sub.NextSibling(child) {
		t.appendChild(id, t.adopt(sub, child))
	}

	s = &t.slots[id]
	s.collapsed = false
	s.text = ""
	t.recompute(id)
	return nil
}
