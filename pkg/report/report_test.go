package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/pkg/lang/mini"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/report"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    report.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: report.FormatText},
		{name: "text", input: "text", want: report.FormatText},
		{name: "json", input: "json", want: report.FormatJSON},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := report.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, report.Format("xml").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, format := range []report.Format{report.FormatText, report.FormatJSON, ""} {
		rep, err := report.New(report.Options{Writer: &buf, Format: format})
		require.NoError(t, err)
		assert.NotNil(t, rep)
	}

	_, err := report.New(report.Options{Writer: &buf, Format: "xml"})
	require.Error(t, err)
}

// run drives a reporter through an edit of "{x = 1;}" to "{x = 12;}".
func run(t *testing.T, rep report.Reporter) {
	t.Helper()

	ctx := context.Background()
	reparser := reparse.New(mini.New(), reparse.DefaultOptions())
	tree, err := reparser.Parse(ctx, "{x = 1;}")
	require.NoError(t, err)

	rep.Begin("doc.mini", mini.Name)
	result, err := reparser.Reparse(ctx, tree, reparse.Edit{Start: 6, End: 6}, "{x = 12;}")
	require.NoError(t, err)
	require.NoError(t, rep.Log(result.Log))

	summary, err := reparser.Commit(ctx, result, rep.Listener())
	require.NoError(t, err)
	require.NoError(t, rep.Result(result, summary))
	require.NoError(t, rep.Tree(tree, "{x = 12;}"))
	rep.Note("dry run")
	require.NoError(t, rep.Flush())
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := report.NewTextReporter(report.Options{Writer: &buf, Color: "never", Width: 80, ShowEvents: true})
	run(t, rep)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "doc.mini (mini)\n"), out)
	assert.Contains(t, out, `NUMBER [5,6) "1" -> NUMBER "12"`)
	assert.Contains(t, out, "before replace")
	assert.Contains(t, out, "after  replace")
	assert.Contains(t, out, "incremental reparse: 1 replaced, 0 inserted, 0 deleted")
	assert.Contains(t, out, `NUMBER [5,7) "12"`)
	assert.True(t, strings.HasSuffix(out, "dry run\n"), out)
}

func TestTextReporterWithoutEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := report.NewTextReporter(report.Options{Writer: &buf, Color: "never", Width: 80})
	assert.Nil(t, rep.Listener())
	run(t, rep)
	assert.NotContains(t, buf.String(), "before replace")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := report.NewJSONReporter(report.Options{Writer: &buf, ShowEvents: true})
	run(t, rep)

	var out report.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0.0", out.Version)
	assert.Equal(t, "doc.mini", out.Path)
	assert.Equal(t, mini.Name, out.Language)

	require.Len(t, out.Changes, 1)
	change := out.Changes[0]
	assert.Equal(t, "replace", change.Op)
	assert.Equal(t, "NUMBER", change.OldType)
	assert.Equal(t, 5, change.OldStart)
	assert.Equal(t, 6, change.OldEnd)
	assert.Equal(t, "12", change.NewText)

	require.Len(t, out.Events, 2)
	assert.Equal(t, "before", out.Events[0].Phase)
	assert.Equal(t, "after", out.Events[1].Phase)
	assert.Equal(t, "NUMBER", out.Events[1].Type)

	require.NotNil(t, out.Result)
	assert.Equal(t, "incremental", out.Result.Mode)
	assert.Equal(t, "found", out.Result.Status)
	assert.Equal(t, "BLOCK", out.Result.Anchor)
	assert.Equal(t, 1, out.Result.Summary.Replaced)

	require.Len(t, out.Trees, 1)
	root := out.Trees[0]
	assert.Equal(t, "FILE", root.Type)
	assert.Equal(t, 9, root.End)
	assert.Equal(t, []string{"dry run"}, out.Notes)
}

func TestJSONReporterCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := report.NewJSONReporter(report.Options{Writer: &buf, Compact: true})
	rep.Begin("x", "mini")
	require.NoError(t, rep.Flush())

	assert.Equal(t, "{\"version\":\"1.0.0\",\"path\":\"x\",\"language\":\"mini\"}\n", buf.String())
}
