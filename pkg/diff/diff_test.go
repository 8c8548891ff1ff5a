package diff_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/pkg/diff"
	"github.com/yaklabco/reparse/pkg/lang/mini"
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// recorder renders diff operations as readable strings.
type recorder struct {
	old *syntax.Tree
	new *syntax.Tree
	ops []string
}

func (r *recorder) NodeReplaced(oldChild, newChild syntax.NodeID) {
	r.ops = append(r.ops, fmt.Sprintf("replace %s %q -> %q",
		r.old.TypeName(oldChild), r.old.Text(oldChild), r.new.Text(newChild)))
}

func (r *recorder) NodeDeleted(oldParent, oldChild syntax.NodeID) {
	r.ops = append(r.ops, fmt.Sprintf("delete %q from %s",
		r.old.Text(oldChild), r.old.TypeName(oldParent)))
}

func (r *recorder) NodeInserted(oldParent, newChild syntax.NodeID, pos int) {
	r.ops = append(r.ops, fmt.Sprintf("insert %q into %s at %d",
		r.new.Text(newChild), r.old.TypeName(oldParent), pos))
}

func parse(t *testing.T, lang *mini.Language, text string) *syntax.Tree {
	t.Helper()
	tree, err := lang.Parse(context.Background(), text)
	require.NoError(t, err)
	return tree
}

func diffTexts(t *testing.T, oldText, newText string, opts diff.Options) []string {
	t.Helper()
	lang := mini.New()
	oldTree := parse(t, lang, oldText)
	newTree := parse(t, lang, newText)

	rec := &recorder{old: oldTree, new: newTree}
	err := diff.Trees(context.Background(),
		syntax.NewView(oldTree), syntax.NewExpandingView(newTree, lang), rec, opts)
	require.NoError(t, err)
	return rec.ops
}

func TestTrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		oldText string
		newText string
		want    []string
	}{
		{
			name:    "identical",
			oldText: "{x = 1;}",
			newText: "{x = 1;}",
			want:    nil,
		},
		{
			name:    "leaf edit",
			oldText: "{x = 1;}",
			newText: "{x = 12;}",
			want:    []string{`replace NUMBER "1" -> "12"`},
		},
		{
			name:    "append statement",
			oldText: "{x = 1;}",
			newText: "{x = 1;y = 2;}",
			want:    []string{`insert "y = 2;" into BLOCK at 2`},
		},
		{
			name:    "delete middle statement",
			oldText: "{x = 1;y = 2;z = 3;}",
			newText: "{x = 1;z = 3;}",
			want:    []string{`delete "y = 2;" from BLOCK`},
		},
		{
			name:    "scattered inserts realign",
			oldText: "{a;b;c;}",
			newText: "{a;X;b;Y;c;}",
			want: []string{
				`insert "X;" into BLOCK at 2`,
				`insert "Y;" into BLOCK at 4`,
			},
		},
		{
			name:    "scattered deletes realign",
			oldText: "{a;X;b;Y;c;}",
			newText: "{a;b;c;}",
			want: []string{
				`delete "X;" from BLOCK`,
				`delete "Y;" from BLOCK`,
			},
		},
		{
			name:    "different kinds are replaced",
			oldText: "x;{y;}",
			newText: "x;[y]",
			want:    []string{`replace BLOCK "{y;}" -> "[y]"`},
		},
		{
			name:    "collapsed old chameleon is replaced whole",
			oldText: "x = [1, 2];",
			newText: "x = [1, 3];",
			want:    []string{`replace LIST "[1, 2]" -> "[1, 3]"`},
		},
		{
			name:    "equal chameleons are kept",
			oldText: "x = [1, 2]; y;",
			newText: "x = [1, 2]; z;",
			want:    []string{`replace IDENT "y" -> "z"`},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := diffTexts(t, testCase.oldText, testCase.newText, diff.Options{})
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestTreesDivesIntoExpandedChameleon(t *testing.T) {
	t.Parallel()

	lang := mini.New()
	oldTree := parse(t, lang, "x = [1, 2];")
	newTree := parse(t, lang, "x = [1, 3];")

	list := oldTree.FindByType(oldTree.Root(), lang.Types().List)[0]
	require.NoError(t, oldTree.Expand(context.Background(), list, lang))

	rec := &recorder{old: oldTree, new: newTree}
	err := diff.Trees(context.Background(),
		syntax.NewView(oldTree), syntax.NewExpandingView(newTree, lang), rec, diff.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{`replace NUMBER "2" -> "3"`}, rec.ops)
}

func TestTreesTooDeep(t *testing.T) {
	t.Parallel()

	lang := mini.New()
	oldTree := parse(t, lang, "{x = 1;}")
	newTree := parse(t, lang, "{x = 1;}")
	oldTree.SetTooDeep(true)

	rec := &recorder{old: oldTree, new: newTree}
	err := diff.Trees(context.Background(), syntax.NewView(oldTree), syntax.NewView(newTree), rec, diff.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{`replace FILE "{x = 1;}" -> "{x = 1;}"`}, rec.ops)
}

func TestSubtreesRootTypeMismatch(t *testing.T) {
	t.Parallel()

	lang := mini.New()
	oldTree := parse(t, lang, "{x = 1;}")
	newTree, err := lang.ParseSubstring(context.Background(), lang.Types().Block, "{x = 1;}")
	require.NoError(t, err)

	rec := &recorder{old: oldTree, new: newTree}
	err = diff.Trees(context.Background(), syntax.NewView(oldTree), syntax.NewView(newTree), rec, diff.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{`replace FILE "{x = 1;}" -> "{x = 1;}"`}, rec.ops)
}

func TestTreesCanceled(t *testing.T) {
	t.Parallel()

	lang := mini.New()
	oldTree := parse(t, lang, "{x = 1;}")
	newTree := parse(t, lang, "{x = 2;}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{old: oldTree, new: newTree}
	err := diff.Trees(ctx, syntax.NewView(oldTree), syntax.NewView(newTree), rec, diff.Options{})
	require.ErrorIs(t, err, progress.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTreesCustomComparator(t *testing.T) {
	t.Parallel()

	lang := mini.New()
	number := lang.Types().Number

	// Treat all numbers as equal.
	custom := func(oldTree *syntax.Tree, oldNode syntax.NodeID, newTree *syntax.Tree, newNode syntax.NodeID) diff.ThreeState {
		if oldTree.Type(oldNode) == number && newTree.Type(newNode) == number {
			return diff.Yes
		}
		return diff.Unsure
	}

	got := diffTexts(t, "{x = 1;}", "{x = 12;}", diff.Options{Custom: custom})
	assert.Empty(t, got)
}

func TestTreesLookaheadWindow(t *testing.T) {
	t.Parallel()

	// Three new statements in front of b exceed a window of two, so the
	// heads are paired instead of realigned.
	oldText := "{a;b;z;}"
	newText := "{a;c1;c2;c3;b;y;}"

	wide := diffTexts(t, oldText, newText, diff.Options{Lookahead: 4})
	assert.Equal(t, []string{
		`insert "c1;" into BLOCK at 2`,
		`insert "c2;" into BLOCK at 3`,
		`insert "c3;" into BLOCK at 4`,
		`replace IDENT "z" -> "y"`,
	}, wide)

	narrow := diffTexts(t, oldText, newText, diff.Options{Lookahead: 2})
	assert.Equal(t, []string{
		`replace IDENT "b" -> "c1"`,
		`replace IDENT "z" -> "c2"`,
		`insert "c3;" into BLOCK at 4`,
		`insert "b;" into BLOCK at 5`,
		`insert "y;" into BLOCK at 6`,
	}, narrow)
}
