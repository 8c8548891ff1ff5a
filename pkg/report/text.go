package report

import (
	"bufio"
	"fmt"

	"github.com/yaklabco/reparse/internal/ui/pretty"
	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// TextReporter writes styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	width  int
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		width:  width,
	}
}

// Begin implements Reporter.
func (r *TextReporter) Begin(path, language string) {
	if path == "" {
		return
	}
	fmt.Fprintf(r.bw, "%s %s\n", r.styles.FilePath.Render(path), r.styles.Dim.Render("("+language+")"))
}

// Tree implements Reporter.
func (r *TextReporter) Tree(tree *syntax.Tree, text string) error {
	opts := pretty.TreeOptions{Width: r.width, MaxDepth: r.opts.MaxDepth}
	if r.opts.ShowPositions {
		opts.Lines = syntax.NewLineIndex(text)
	}
	if tree.Root() == syntax.NoNode {
		_, err := fmt.Fprintln(r.bw, r.styles.Dim.Render("(empty tree)"))
		return err
	}
	_, err := r.bw.WriteString(r.styles.FormatTree(tree, tree.Root(), opts))
	return err
}

// Log implements Reporter.
func (r *TextReporter) Log(log *difflog.Log) error {
	_, err := r.bw.WriteString(r.styles.FormatLog(log, r.width))
	return err
}

// Listener implements Reporter.
//
//nolint:ireturn // the listener contract is an interface
func (r *TextReporter) Listener() treeevent.Listener {
	if !r.opts.ShowEvents {
		return nil
	}
	return treeevent.ListenerFuncs{
		Before: func(ev treeevent.Event) { _, _ = r.bw.WriteString(r.styles.FormatEvent(ev, false)) },
		After:  func(ev treeevent.Event) { _, _ = r.bw.WriteString(r.styles.FormatEvent(ev, true)) },
	}
}

// Result implements Reporter.
func (r *TextReporter) Result(result *reparse.Result, summary *treeevent.Summary) error {
	if result == nil {
		return nil
	}
	for _, inc := range result.Inconsistencies {
		fmt.Fprintln(r.bw, r.styles.Warning.Render("warning: "+inc.Error()))
	}
	_, err := r.bw.WriteString(r.styles.FormatSummary(string(result.Mode), summary))
	return err
}

// Note implements Reporter.
func (r *TextReporter) Note(message string) {
	fmt.Fprintln(r.bw, r.styles.Dim.Render(message))
}

// Flush implements Reporter.
func (r *TextReporter) Flush() error {
	return r.bw.Flush()
}
