// Package report renders parse trees, diff logs and reparse outcomes for
// the command line, as styled text or as JSON.
//
// A Reporter is fed in the order a reparse happens: Begin, then Tree and
// Log while the live tree still holds the old nodes, then the Listener
// during the commit, then Result. Nothing is guaranteed to reach the writer
// before Flush.
package report

import (
	"fmt"

	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
)

// Reporter receives the stages of one command run.
type Reporter interface {
	// Begin names the file and language being reported.
	Begin(path, language string)

	// Tree reports a parse tree. text is the source it was parsed from.
	Tree(tree *syntax.Tree, text string) error

	// Log reports a diff log. It must be called before the log is
	// performed.
	Log(log *difflog.Log) error

	// Listener returns the listener to pass to the commit, or nil when
	// events are not reported.
	Listener() treeevent.Listener

	// Result reports the outcome of a reparse and its commit.
	Result(result *reparse.Result, summary *treeevent.Summary) error

	// Note reports a free-form status line such as "wrote file".
	Note(message string)

	// Flush writes any buffered output.
	Flush() error
}

// New creates a Reporter for the specified options.
//
//nolint:ireturn // callers pick the implementation through Options.Format
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
