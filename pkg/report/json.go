package report

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version  string       `json:"version"`
	Path     string       `json:"path,omitempty"`
	Language string       `json:"language,omitempty"`
	Trees    []*JSONNode  `json:"trees,omitempty"`
	Changes  []JSONChange `json:"changes,omitempty"`
	Events   []JSONEvent  `json:"events,omitempty"`
	Result   *JSONResult  `json:"result,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
}

// JSONNode is one node of a tree outline.
type JSONNode struct {
	Type      string      `json:"type"`
	Start     int         `json:"start"`
	End       int         `json:"end"`
	Text      *string     `json:"text,omitempty"`
	Collapsed bool        `json:"collapsed,omitempty"`
	Children  []*JSONNode `json:"children,omitempty"`
}

// JSONChange is one diff log entry. Old ranges are offsets in the live
// text; new nodes are described by their text.
type JSONChange struct {
	Op         string `json:"op"`
	ParentType string `json:"parentType,omitempty"`
	Pos        *int   `json:"pos,omitempty"`
	OldType    string `json:"oldType,omitempty"`
	OldStart   int    `json:"oldStart"`
	OldEnd     int    `json:"oldEnd"`
	NewType    string `json:"newType,omitempty"`
	NewText    string `json:"newText,omitempty"`
}

// JSONEvent is one change notification.
type JSONEvent struct {
	Phase     string `json:"phase"`
	Kind      string `json:"kind"`
	Type      string `json:"type,omitempty"`
	Offset    int    `json:"offset"`
	Position  int    `json:"position"`
	OldLength int    `json:"oldLength"`
	NewLength int    `json:"newLength"`
}

// JSONResult is the outcome of a reparse.
type JSONResult struct {
	Mode            string                  `json:"mode"`
	Status          string                  `json:"status"`
	Anchor          string                  `json:"anchor,omitempty"`
	Summary         treeevent.Summary       `json:"summary"`
	Inconsistencies []reparse.Inconsistency `json:"inconsistencies,omitempty"`
}

// JSONReporter collects a run and encodes it as one JSON document on Flush.
type JSONReporter struct {
	opts   Options
	bw     *bufio.Writer
	output JSONOutput
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts:   opts,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		output: JSONOutput{Version: jsonVersion},
	}
}

// Output returns the collected document.
func (r *JSONReporter) Output() *JSONOutput {
	return &r.output
}

// Begin implements Reporter.
func (r *JSONReporter) Begin(path, language string) {
	r.output.Path = path
	r.output.Language = language
}

// Tree implements Reporter.
func (r *JSONReporter) Tree(tree *syntax.Tree, _ string) error {
	if tree.Root() == syntax.NoNode {
		return nil
	}
	r.output.Trees = append(r.output.Trees, buildNode(tree, tree.Root(), 0, r.opts.MaxDepth, 0))
	return nil
}

func buildNode(tree *syntax.Tree, id syntax.NodeID, start, maxDepth, depth int) *JSONNode {
	node := &JSONNode{
		Type:  tree.TypeName(id),
		Start: start,
		End:   start + tree.Len(id),
	}
	switch {
	case tree.IsLeaf(id):
		text := tree.LeafText(id)
		node.Text = &text
		return node
	case tree.IsCollapsed(id):
		text := tree.Text(id)
		node.Text = &text
		node.Collapsed = true
		return node
	}
	if maxDepth > 0 && depth+1 >= maxDepth {
		return node
	}
	for child := tree.FirstChild(id); child != syntax.NoNode; child = tree.NextSibling(child) {
		node.Children = append(node.Children, buildNode(tree, child, start, maxDepth, depth+1))
		start += tree.Len(child)
	}
	return node
}

// Log implements Reporter.
func (r *JSONReporter) Log(log *difflog.Log) error {
	live, candidate := log.Live(), log.Candidate()
	for _, e := range log.Entries() {
		change := JSONChange{Op: e.Op.String()}
		switch e.Op {
		case difflog.OpInsert:
			pos := e.Pos
			change.Pos = &pos
			change.ParentType = live.TypeName(e.OldParent)
			change.OldStart = insertOffset(live, e.OldParent, e.Pos)
			change.OldEnd = change.OldStart
		default:
			span := live.Range(e.OldChild)
			change.OldType = live.TypeName(e.OldChild)
			change.OldStart, change.OldEnd = span.StartOffset, span.EndOffset
			if e.OldParent != syntax.NoNode {
				change.ParentType = live.TypeName(e.OldParent)
			}
		}
		if e.Op != difflog.OpDelete {
			change.NewType = candidate.TypeName(e.NewChild)
			change.NewText = candidate.Text(e.NewChild)
		}
		r.output.Changes = append(r.output.Changes, change)
	}
	return nil
}

// insertOffset is the live offset a child inserted at pos would start at.
// Earlier entries of the same log may shift it; it is informational.
func insertOffset(tree *syntax.Tree, parent syntax.NodeID, pos int) int {
	offset := tree.StartOffset(parent)
	child := tree.FirstChild(parent)
	for i := 0; i < pos && child != syntax.NoNode; i++ {
		offset += tree.Len(child)
		child = tree.NextSibling(child)
	}
	return offset
}

// Listener implements Reporter.
//
//nolint:ireturn // the listener contract is an interface
func (r *JSONReporter) Listener() treeevent.Listener {
	if !r.opts.ShowEvents {
		return nil
	}
	record := func(phase string) func(treeevent.Event) {
		return func(ev treeevent.Event) {
			node := ev.OldChild
			if ev.NewChild != syntax.NoNode {
				node = ev.NewChild
			}
			event := JSONEvent{
				Phase:     phase,
				Kind:      ev.Kind.String(),
				Offset:    ev.Offset,
				Position:  ev.Position,
				OldLength: ev.OldLength,
				NewLength: ev.NewLength,
			}
			if ev.Tree != nil && node != syntax.NoNode {
				event.Type = ev.Tree.TypeName(node)
			}
			r.output.Events = append(r.output.Events, event)
		}
	}
	return treeevent.ListenerFuncs{Before: record("before"), After: record("after")}
}

// Result implements Reporter.
func (r *JSONReporter) Result(result *reparse.Result, summary *treeevent.Summary) error {
	if result == nil {
		return nil
	}
	out := &JSONResult{
		Mode:            string(result.Mode),
		Status:          result.Status.String(),
		Inconsistencies: result.Inconsistencies,
	}
	if summary != nil {
		out.Summary = *summary
	}
	if result.Log != nil {
		live := result.Log.Live()
		if live.Attached(result.Anchor) {
			out.Anchor = live.TypeName(result.Anchor)
		}
	}
	r.output.Result = out
	return nil
}

// Note implements Reporter.
func (r *JSONReporter) Note(message string) {
	r.output.Notes = append(r.output.Notes, message)
}

// Flush implements Reporter.
func (r *JSONReporter) Flush() (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(&r.output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
