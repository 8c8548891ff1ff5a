package reparse

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// excerptLimit bounds text excerpts attached to log lines.
const excerptLimit = 60

// Locator finds the smallest reparseable node around an edit and parses
// its new text in isolation. It never mutates the tree it inspects.
type Locator struct {
	lang syntax.Language
}

// NewLocator creates a locator sub-parsing with lang.
func NewLocator(lang syntax.Language) *Locator {
	return &Locator{lang: lang}
}

// Locate walks from the nearest common ancestor of the leaves bordering the
// edit up to the root and returns the first reparseable node whose new text
// parses as a single node of the same type.
//
// Nodes that are not reparseable, or host embedded content, are skipped.
// Sub-parses rejected with syntax.ErrNotParsable or yielding another root
// type are skipped too. A sub-parse of the wrong length is recorded as an
// Inconsistency, logged, and skipped.
func (l *Locator) Locate(ctx context.Context, tree *syntax.Tree, edit Edit, newText string) (LocateResult, error) {
	var result LocateResult

	root := tree.Root()
	if root == syntax.NoNode {
		return result, ErrNoRoot
	}
	oldLen := tree.Len(root)
	if err := edit.check(oldLen, len(newText)); err != nil {
		return result, err
	}
	if tree.TooDeep() {
		result.Status = StatusTooDeep
		return result, nil
	}
	result.Status = StatusNoReparseableAncestor
	if oldLen == 0 {
		return result, nil
	}

	left := tree.LeafAt(clamp(edit.Start-1, 0, oldLen-1))
	right := tree.LeafAt(clamp(edit.End, 0, oldLen-1))
	delta := len(newText) - oldLen
	logger := logging.FromContext(ctx)

	for cur := tree.CommonAncestor(left, right); cur != syntax.NoNode; cur = tree.Parent(cur) {
		if err := progress.Canceled(ctx); err != nil {
			return result, err
		}
		if !tree.Has(cur, syntax.FlagReparseable) || tree.Has(cur, syntax.FlagTemplateHost) {
			continue
		}

		span := tree.Range(cur)
		if edit.Start < span.StartOffset || edit.End > span.EndOffset {
			continue
		}
		newEnd := span.EndOffset + delta
		if newEnd < span.StartOffset || newEnd > len(newText) {
			continue
		}
		text := newText[span.StartOffset:newEnd]
		typ := tree.Type(cur)

		result.Attempts++
		candidate, err := l.lang.ParseSubstring(ctx, typ, text)
		switch {
		case errors.Is(err, syntax.ErrNotParsable):
			continue
		case err != nil:
			return result, fmt.Errorf("reparse %s: %w", tree.TypeName(cur), err)
		}

		candRoot := candidate.Root()
		if candRoot == syntax.NoNode || candidate.Type(candRoot) != typ {
			continue
		}
		if got := candidate.Len(candRoot); got != len(text) {
			inc := Inconsistency{
				Node:           cur,
				Type:           tree.TypeName(cur),
				Start:          span.StartOffset,
				End:            newEnd,
				ExpectedLength: len(text),
				ActualLength:   got,
				Excerpt:        excerpt(text),
			}
			result.Inconsistencies = append(result.Inconsistencies, inc)
			logger.Error("inconsistent reparse",
				logging.FieldLanguage, l.lang.Name(),
				logging.FieldElementType, inc.Type,
				logging.FieldOffset, inc.Start,
				logging.FieldEndOffset, inc.End,
				logging.FieldExpectedLength, inc.ExpectedLength,
				logging.FieldActualLength, inc.ActualLength,
				logging.FieldExcerpt, inc.Excerpt)
			continue
		}

		result.Status = StatusFound
		result.Scope = Scope{
			Anchor:    cur,
			Candidate: candidate,
			Start:     span.StartOffset,
			End:       newEnd,
		}
		return result, nil
	}

	return result, nil
}

func clamp(v, low, high int) int {
	return max(low, min(v, high))
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit] + "..."
}
