// Package reparse drives incremental reparsing of a live syntax tree.
//
// A Reparser turns a text edit into a diff log: it locates the smallest
// reparseable region around the edit, parses that region in isolation,
// diffs the result against the old subtree, and records the edit script.
// Commit replays the script onto the live tree. When no region can be
// reparsed on its own, the whole text is parsed and diffed instead.
package reparse

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/diff"
	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// DefaultDepthLimit is the tree depth above which incremental reparse is
// disabled.
const DefaultDepthLimit = 1000

// Mode tells how a reparse was performed.
type Mode string

const (
	// ModeIncremental reparsed a single located region.
	ModeIncremental Mode = "incremental"

	// ModeFull reparsed the whole text.
	ModeFull Mode = "full"
)

// Options configure a Reparser.
type Options struct {
	// DepthLimit flags trees deeper than this as too deep. Zero means
	// DefaultDepthLimit.
	DepthLimit int

	// Lookahead is the diff realignment window. Zero means
	// diff.DefaultLookahead.
	Lookahead int

	// CheckInterval is the cancellation polling interval.
	CheckInterval int

	// FullReparseOnly skips the locator and always reparses everything.
	FullReparseOnly bool

	// Custom is an optional comparator hook consulted before the default
	// comparison rules.
	Custom diff.CustomFunc
}

// DefaultOptions returns the default reparse options.
func DefaultOptions() Options {
	return Options{
		DepthLimit:    DefaultDepthLimit,
		Lookahead:     diff.DefaultLookahead,
		CheckInterval: progress.DefaultInterval,
	}
}

// Result is a computed but not yet applied reparse.
type Result struct {
	Mode   Mode
	Status Status
	Log    *difflog.Log

	// Anchor is the old node the diff started from.
	Anchor syntax.NodeID

	Inconsistencies []Inconsistency
}

// Reparser computes and applies incremental reparses for one language.
type Reparser struct {
	lang    syntax.Language
	opts    Options
	locator *Locator
}

// New creates a reparser.
func New(lang syntax.Language, opts Options) *Reparser {
	if opts.DepthLimit <= 0 {
		opts.DepthLimit = DefaultDepthLimit
	}
	return &Reparser{
		lang:    lang,
		opts:    opts,
		locator: NewLocator(lang),
	}
}

// Language returns the language the reparser parses with.
func (r *Reparser) Language() syntax.Language {
	return r.lang
}

// Parse parses a whole text and sets the tree's too-deep flag from its
// measured depth.
func (r *Reparser) Parse(ctx context.Context, text string) (*syntax.Tree, error) {
	tree, err := r.lang.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	r.checkDepth(tree)
	return tree, nil
}

func (r *Reparser) checkDepth(tree *syntax.Tree) {
	tree.SetTooDeep(tree.MaxDepth() > r.opts.DepthLimit)
}

// Reparse computes the diff log turning tree into the parse of newText,
// where edit is the old range that was replaced. The tree is not modified.
//
// Returns an error wrapping progress.ErrCanceled if ctx is done; no partial
// result is returned in that case.
func (r *Reparser) Reparse(ctx context.Context, tree *syntax.Tree, edit Edit, newText string) (*Result, error) {
	logger := logging.FromContext(ctx)

	root := tree.Root()
	if root == syntax.NoNode {
		return nil, ErrNoRoot
	}
	if err := edit.check(tree.Len(root), len(newText)); err != nil {
		return nil, err
	}

	if !r.opts.FullReparseOnly {
		located, err := r.locator.Locate(ctx, tree, edit, newText)
		if err != nil {
			return nil, err
		}
		if located.Status == StatusFound {
			result, err := r.incremental(ctx, tree, located)
			if err != nil {
				return nil, err
			}
			logger.Debug("reparse computed",
				logging.FieldMode, result.Mode,
				logging.FieldElementType, tree.TypeName(result.Anchor),
				logging.FieldOffset, located.Scope.Start,
				logging.FieldEntries, result.Log.Len())
			return result, nil
		}
		logger.Debug("no incremental scope",
			logging.FieldStatus, located.Status.String(),
			logging.FieldInconsistencies, len(located.Inconsistencies))

		result, err := r.full(ctx, tree, newText)
		if err != nil {
			return nil, err
		}
		result.Status = located.Status
		result.Inconsistencies = located.Inconsistencies
		return result, nil
	}

	return r.full(ctx, tree, newText)
}

func (r *Reparser) incremental(ctx context.Context, tree *syntax.Tree, located LocateResult) (*Result, error) {
	scope := located.Scope
	log := difflog.New(tree, scope.Candidate)
	err := diff.Subtrees(ctx,
		syntax.NewView(tree), scope.Anchor,
		syntax.NewExpandingView(scope.Candidate, r.lang), scope.Candidate.Root(),
		log, r.diffOptions())
	if err != nil {
		return nil, err
	}
	return &Result{
		Mode:            ModeIncremental,
		Status:          StatusFound,
		Log:             log,
		Anchor:          scope.Anchor,
		Inconsistencies: located.Inconsistencies,
	}, nil
}

func (r *Reparser) full(ctx context.Context, tree *syntax.Tree, newText string) (*Result, error) {
	logger := logging.FromContext(ctx)

	candidate, err := r.Parse(ctx, newText)
	if err != nil {
		return nil, err
	}

	root := tree.Root()
	log := difflog.New(tree, candidate)
	if tree.TooDeep() || candidate.TooDeep() {
		log.NodeReplaced(root, candidate.Root())
	} else {
		err := diff.Trees(ctx, syntax.NewView(tree), syntax.NewExpandingView(candidate, r.lang), log, r.diffOptions())
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("reparse computed",
		logging.FieldMode, ModeFull,
		logging.FieldDepth, candidate.MaxDepth(),
		logging.FieldEntries, log.Len())

	return &Result{
		Mode:   ModeFull,
		Status: StatusNoReparseableAncestor,
		Log:    log,
		Anchor: root,
	}, nil
}

func (r *Reparser) diffOptions() diff.Options {
	return diff.Options{
		Lookahead:     r.opts.Lookahead,
		CheckInterval: r.opts.CheckInterval,
		Custom:        r.opts.Custom,
	}
}

// Commit replays a computed reparse onto its live tree and notifies
// listener. Structural defects are logged with the offending node and
// returned; the tree is left untouched in that case.
func (r *Reparser) Commit(ctx context.Context, result *Result, listener treeevent.Listener) (*treeevent.Summary, error) {
	if result == nil || result.Log == nil {
		return &treeevent.Summary{}, nil
	}

	summary, err := result.Log.PerformChanges(ctx, listener)
	if err != nil {
		var defect *difflog.DefectError
		if errors.As(err, &defect) {
			logging.FromContext(ctx).Error("diff log defect",
				logging.FieldElementType, defect.Type,
				logging.FieldOffset, defect.Offset,
				logging.FieldExcerpt, defect.Excerpt,
				logging.FieldError, defect.Message)
		}
		return summary, fmt.Errorf("commit %s reparse: %w", result.Mode, err)
	}

	// Incremental commits can nest deeper too.
	live := result.Log.Live()
	live.MeasureDepth()
	r.checkDepth(live)
	return summary, nil
}

// Apply computes and commits a reparse in one step.
func (r *Reparser) Apply(
	ctx context.Context,
	tree *syntax.Tree,
	edit Edit,
	newText string,
	listener treeevent.Listener,
) (*Result, *treeevent.Summary, error) {
	result, err := r.Reparse(ctx, tree, edit, newText)
	if err != nil {
		return nil, nil, err
	}
	summary, err := r.Commit(ctx, result, listener)
	if err != nil {
		return result, nil, err
	}
	return result, summary, nil
}
