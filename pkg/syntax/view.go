package syntax

import "context"

// View is a flyweight structure adapter over a tree. The diff walks old and
// new trees through views so that subtrees of the new tree are only
// materialised when the diff actually descends into them.
//
// A view created with NewView never mutates its tree: collapsed chameleons
// report no children. A view created with NewExpandingView owns its tree
// and expands chameleons on first access.
type View struct {
	tree     *Tree
	expander Expander
}

// NewView returns a read-only view.
func NewView(tree *Tree) *View {
	return &View{tree: tree}
}

// NewExpandingView returns a view that expands collapsed chameleons with
// expander. Only use it on trees the caller owns.
func NewExpandingView(tree *Tree, expander Expander) *View {
	return &View{tree: tree, expander: expander}
}

// Tree returns the viewed tree.
func (v *View) Tree() *Tree {
	return v.tree
}

// Root returns the root of the viewed tree.
func (v *View) Root() NodeID {
	return v.tree.root
}

// Children returns the children of id, expanding a collapsed chameleon
// first when the view is allowed to.
func (v *View) Children(ctx context.Context, id NodeID, into []NodeID) ([]NodeID, error) {
	if v.expander != nil && v.tree.slots[id].collapsed {
		if err := v.tree.Expand(ctx, id, v.expander); err != nil {
			return into[:0], err
		}
	}
	return v.tree.Children(id, into), nil
}
