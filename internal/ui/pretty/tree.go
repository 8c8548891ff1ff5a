package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// TreeOptions tune FormatTree.
type TreeOptions struct {
	// Width bounds each output line; leaf excerpts are shortened to fit.
	Width int

	// MaxDepth stops the outline below this depth. Zero means no limit.
	MaxDepth int

	// Lines, when set, adds line:col positions next to byte ranges.
	Lines *syntax.LineIndex
}

// FormatTree renders the subtree at id as an indented outline:
//
//	DOCUMENT [0,12)
//	  HEADING [0,5)
//	    LINE [0,4) "# Hi"
func (s *Styles) FormatTree(tree *syntax.Tree, id syntax.NodeID, opts TreeOptions) string {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	var sb strings.Builder
	s.writeNode(&sb, tree, id, tree.StartOffset(id), 0, opts)
	return sb.String()
}

func (s *Styles) writeNode(sb *strings.Builder, tree *syntax.Tree, id syntax.NodeID, start, depth int, opts TreeOptions) {
	indent := strings.Repeat("  ", depth)
	end := start + tree.Len(id)

	name := tree.TypeName(id)
	nameStyle := s.TypeName
	if tree.Has(id, syntax.FlagError) {
		nameStyle = s.ErrorType
	}

	head := fmt.Sprintf("%s%s %s", indent, nameStyle.Render(name), s.Range.Render(s.rangeLabel(start, end, opts.Lines)))
	used := len(indent) + len(name) + 1 + len(s.rangeLabel(start, end, opts.Lines))
	sb.WriteString(head)

	switch {
	case tree.IsLeaf(id):
		style := s.LeafText
		if tree.Has(id, syntax.FlagWhitespace) || tree.Has(id, syntax.FlagComment) {
			style = s.Whitespace
		}
		sb.WriteString(" " + style.Render(Excerpt(tree.LeafText(id), opts.Width-used-1)))
	case tree.IsCollapsed(id):
		sb.WriteString(" " + s.Collapsed.Render("(collapsed) "+Excerpt(tree.Text(id), opts.Width-used-len(" (collapsed) "))))
	}
	sb.WriteByte('\n')

	if opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth {
		if tree.FirstChild(id) != syntax.NoNode {
			sb.WriteString(indent + "  " + s.Dim.Render(fmt.Sprintf("… %d children", tree.ChildCount(id))) + "\n")
		}
		return
	}
	for child := tree.FirstChild(id); child != syntax.NoNode; child = tree.NextSibling(child) {
		s.writeNode(sb, tree, child, start, depth+1, opts)
		start += tree.Len(child)
	}
}

func (s *Styles) rangeLabel(start, end int, lines *syntax.LineIndex) string {
	if lines == nil {
		return fmt.Sprintf("[%d,%d)", start, end)
	}
	line, col := lines.Position(start)
	return fmt.Sprintf("[%d,%d) %d:%d", start, end, line, col)
}
