package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// opStyle picks the style for an op name.
func (s *Styles) opStyle(op difflog.Op) lipgloss.Style {
	switch op {
	case difflog.OpInsert:
		return s.Insert
	case difflog.OpDelete:
		return s.Delete
	case difflog.OpReplaceRoot:
		return s.RootReplace
	default:
		return s.Replace
	}
}

// FormatEntry renders one diff log entry against the trees of log. Old
// nodes are shown with their range in the live tree, new nodes with their
// length and an excerpt of their text.
func (s *Styles) FormatEntry(log *difflog.Log, e difflog.Entry, width int) string {
	live, candidate := log.Live(), log.Candidate()
	op := s.opStyle(e.Op).Render(fmt.Sprintf("%-12s", e.Op))
	excerpt := max(width/3, minExcerpt)

	switch e.Op {
	case difflog.OpInsert:
		return fmt.Sprintf("%s %s into %s at %d %s\n",
			op,
			s.TypeName.Render(candidate.TypeName(e.NewChild)),
			s.TypeName.Render(live.TypeName(e.OldParent)),
			e.Pos,
			s.LeafText.Render(Excerpt(candidate.Text(e.NewChild), excerpt)))

	case difflog.OpDelete:
		return fmt.Sprintf("%s %s %s %s\n",
			op,
			s.TypeName.Render(live.TypeName(e.OldChild)),
			s.Range.Render(liveRange(live, e.OldChild)),
			s.LeafText.Render(Excerpt(live.Text(e.OldChild), excerpt)))

	default:
		return fmt.Sprintf("%s %s %s %s -> %s %s\n",
			op,
			s.TypeName.Render(live.TypeName(e.OldChild)),
			s.Range.Render(liveRange(live, e.OldChild)),
			s.LeafText.Render(Excerpt(live.Text(e.OldChild), excerpt)),
			s.TypeName.Render(candidate.TypeName(e.NewChild)),
			s.LeafText.Render(Excerpt(candidate.Text(e.NewChild), excerpt)))
	}
}

// FormatLog renders every entry of log, or a note when it is empty.
func (s *Styles) FormatLog(log *difflog.Log, width int) string {
	if log.Empty() {
		return s.Success.Render("No structural changes") + "\n"
	}
	var sb strings.Builder
	for _, e := range log.Entries() {
		sb.WriteString(s.FormatEntry(log, e, width))
	}
	return sb.String()
}

func liveRange(tree *syntax.Tree, id syntax.NodeID) string {
	r := tree.Range(id)
	return fmt.Sprintf("[%d,%d)", r.StartOffset, r.EndOffset)
}

// FormatEvent renders a change notification. Before events are dimmed;
// the After event carries the new child and is the one worth reading.
func (s *Styles) FormatEvent(ev treeevent.Event, after bool) string {
	phase := "before"
	if after {
		phase = "after "
	}

	var kind lipgloss.Style
	switch ev.Kind {
	case treeevent.ChildAdded:
		kind = s.Insert
	case treeevent.ChildRemoved:
		kind = s.Delete
	case treeevent.RootReplaced:
		kind = s.RootReplace
	default:
		kind = s.Replace
	}

	node := ev.OldChild
	if after && ev.NewChild != syntax.NoNode {
		node = ev.NewChild
	}
	typeName := "-"
	if ev.Tree != nil && node != syntax.NoNode {
		typeName = ev.Tree.TypeName(node)
	}

	line := fmt.Sprintf("%s %s %s @%d len %d->%d",
		phase, kind.Render(fmt.Sprintf("%-12s", ev.Kind)), s.TypeName.Render(typeName),
		ev.Offset, ev.OldLength, ev.NewLength)
	if !after {
		return s.Dim.Render(line) + "\n"
	}
	return line + "\n"
}

// FormatSummary renders the outcome of a commit as one line, e.g.
// "incremental reparse: 1 replaced, 0 inserted, 0 deleted (len 30 -> 32)".
func (s *Styles) FormatSummary(mode string, summary *treeevent.Summary) string {
	if summary == nil {
		summary = &treeevent.Summary{}
	}
	title := s.SummaryTitle.Render(mode + " reparse:")
	if summary.Empty() {
		return fmt.Sprintf("%s %s\n", title, s.Success.Render("no changes"))
	}

	counts := fmt.Sprintf("%s replaced, %s inserted, %s deleted",
		s.Replace.Render(fmt.Sprint(summary.Replaced)),
		s.Insert.Render(fmt.Sprint(summary.Inserted)),
		s.Delete.Render(fmt.Sprint(summary.Deleted)))
	if summary.RootReplaced {
		counts += ", " + s.RootReplace.Render("root replaced")
	}
	return fmt.Sprintf("%s %s %s\n", title, counts,
		s.Dim.Render(fmt.Sprintf("(len %d -> %d)", summary.OldLength, summary.NewLength)))
}
