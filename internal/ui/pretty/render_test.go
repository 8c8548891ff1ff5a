package pretty_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/internal/ui/pretty"
	"github.com/yaklabco/reparse/pkg/lang/mini"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

func TestFormatTree(t *testing.T) {
	t.Parallel()

	tree, err := mini.New().Parse(context.Background(), "x = 1;")
	require.NoError(t, err)

	got := pretty.NewStyles(false).FormatTree(tree, tree.Root(), pretty.TreeOptions{})
	want := `FILE [0,6)
  STATEMENT [0,6)
    IDENT [0,1) "x"
    WS [1,2) " "
    EQ [2,3) "="
    WS [3,4) " "
    NUMBER [4,5) "1"
    SEMI [5,6) ";"
`
	assert.Equal(t, want, got)
}

func TestFormatTreeOptions(t *testing.T) {
	t.Parallel()

	const text = "a = 1;\nb = [1, 2];"
	tree, err := mini.New().Parse(context.Background(), text)
	require.NoError(t, err)
	styles := pretty.NewStyles(false)

	shallow := styles.FormatTree(tree, tree.Root(), pretty.TreeOptions{MaxDepth: 1})
	assert.Equal(t, "FILE [0,18)\n  … 3 children\n", shallow)

	withLines := styles.FormatTree(tree, tree.Root(), pretty.TreeOptions{Lines: syntax.NewLineIndex(text)})
	assert.Contains(t, withLines, "IDENT [7,8) 2:1 \"b\"")
	assert.Contains(t, withLines, "LIST [11,17) 2:5 (collapsed) \"[1, 2]\"")
}

func TestFormatLogAndEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reparser := reparse.New(mini.New(), reparse.DefaultOptions())
	tree, err := reparser.Parse(ctx, "{x = 1;}")
	require.NoError(t, err)

	result, err := reparser.Reparse(ctx, tree, reparse.Edit{Start: 6, End: 6}, "{x = 12;}")
	require.NoError(t, err)

	styles := pretty.NewStyles(false)
	entries := styles.FormatLog(result.Log, 80)
	assert.True(t, strings.HasPrefix(entries, "replace "), entries)
	assert.Contains(t, entries, `NUMBER [5,6) "1" -> NUMBER "12"`)

	var events strings.Builder
	listener := treeevent.ListenerFuncs{
		Before: func(ev treeevent.Event) { events.WriteString(styles.FormatEvent(ev, false)) },
		After:  func(ev treeevent.Event) { events.WriteString(styles.FormatEvent(ev, true)) },
	}
	summary, err := reparser.Commit(ctx, result, listener)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(events.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "before replace"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "after  replace"), lines[1])
	assert.Contains(t, lines[1], "NUMBER @5 len 1->2")

	line := styles.FormatSummary(string(result.Mode), summary)
	assert.Contains(t, line, "1 replaced, 0 inserted, 0 deleted")
	assert.Contains(t, line, "(len 8 -> 9)")
}

func TestFormatEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reparser := reparse.New(mini.New(), reparse.DefaultOptions())
	tree, err := reparser.Parse(ctx, "x = 1;")
	require.NoError(t, err)

	result, err := reparser.Reparse(ctx, tree, reparse.Edit{Start: 0, End: 0}, "x = 1;")
	require.NoError(t, err)

	styles := pretty.NewStyles(false)
	assert.Equal(t, "No structural changes\n", styles.FormatLog(result.Log, 80))
	assert.Equal(t, "full reparse: no changes\n", styles.FormatSummary("full", nil))
}
