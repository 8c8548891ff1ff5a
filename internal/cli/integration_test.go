package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/internal/cli"
	"github.com/yaklabco/reparse/pkg/analysis"
	"github.com/yaklabco/reparse/pkg/fsutil"
	"github.com/yaklabco/reparse/pkg/report"
)

// testEnv is a temp directory with a config file that pins every setting
// the commands read.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yml")
	writeFile(t, config, "log_level: error\noutput:\n  color: never\n")
	return &testEnv{dir: dir, config: config}
}

func (e *testEnv) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	writeFile(t, path, content)
	return path
}

// run executes the root command with the test config and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "abc123", Date: "today"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func (e *testEnv) runJSON(t *testing.T, args ...string) report.JSONOutput {
	t.Helper()

	out, err := e.run(t, append(args, "--format", "json")...)
	require.NoError(t, err)

	var output report.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output), out)
	return output
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// countCollapsed counts collapsed nodes in a JSON outline.
func countCollapsed(node *report.JSONNode) int {
	n := 0
	if node.Collapsed {
		n++
	}
	for _, child := range node.Children {
		n += countCollapsed(child)
	}
	return n
}

func TestIntegration_TreeText(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "doc.mini", "x = 1;")

	out, err := env.run(t, "tree", path)
	require.NoError(t, err)

	assert.Contains(t, out, "(mini)")
	assert.Contains(t, out, "FILE [0,6)")
	assert.Contains(t, out, `NUMBER [4,5) "1"`)
}

func TestIntegration_TreeJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "notes.md", "# Title\n\ntext\n")

	out := env.runJSON(t, "tree", path)

	assert.Equal(t, "markdown", out.Language)
	require.Len(t, out.Trees, 1)
	root := out.Trees[0]
	assert.Equal(t, "DOCUMENT", root.Type)
	assert.Equal(t, 14, root.End)
	require.NotEmpty(t, root.Children)
	assert.Equal(t, "HEADING", root.Children[0].Type)
}

func TestIntegration_TreeExpand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "list.mini", "a = [1, [2, 3]];\n")

	collapsed := env.runJSON(t, "tree", path)
	require.Len(t, collapsed.Trees, 1)
	assert.Positive(t, countCollapsed(collapsed.Trees[0]))

	expanded := env.runJSON(t, "tree", "--expand", path)
	require.Len(t, expanded.Trees, 1)
	assert.Zero(t, countCollapsed(expanded.Trees[0]))
}

func TestIntegration_TreeLanguageFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "settings.txt", "x = 1;")

	_, err := env.run(t, "tree", path)
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))

	out := env.runJSON(t, "tree", "--lang", "mini", path)
	assert.Equal(t, "mini", out.Language)

	_, err = env.run(t, "tree", "--lang", "cobol", path)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Diff(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	oldPath := env.file(t, "old.mini", "{x = 1;}")
	newPath := env.file(t, "new.mini", "{x = 12;}")

	out := env.runJSON(t, "diff", "--events", oldPath, newPath)

	require.Len(t, out.Changes, 1)
	assert.Equal(t, "replace", out.Changes[0].Op)
	assert.Equal(t, "12", out.Changes[0].NewText)
	assert.Len(t, out.Events, 2)

	require.NotNil(t, out.Result)
	assert.Equal(t, "incremental", out.Result.Mode)
	assert.Equal(t, 1, out.Result.Summary.Replaced)
}

func TestIntegration_DiffText(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	oldPath := env.file(t, "old.mini", "{x = 1;}")
	newPath := env.file(t, "new.mini", "{x = 12;}")

	out, err := env.run(t, "diff", "--tree", oldPath, newPath)
	require.NoError(t, err)

	assert.Contains(t, out, `NUMBER [5,6) "1" -> NUMBER "12"`)
	assert.Contains(t, out, "incremental reparse: 1 replaced, 0 inserted, 0 deleted")
	assert.Contains(t, out, `NUMBER [5,7) "12"`)
}

func TestIntegration_DiffExitCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	oldPath := env.file(t, "old.mini", "{x = 1;}")
	newPath := env.file(t, "new.mini", "{x = 2;}")
	samePath := env.file(t, "same.mini", "{x = 1;}")

	_, err := env.run(t, "diff", "--exit-code", oldPath, newPath)
	require.ErrorIs(t, err, cli.ErrChangesFound)
	assert.Equal(t, cli.ExitChanges, cli.ExitCodeFromError(err))

	_, err = env.run(t, "diff", "--exit-code", oldPath, samePath)
	require.NoError(t, err)

	_, err = env.run(t, "diff", "--exit-code", oldPath)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Edit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "doc.mini", "{x = 1;}")

	out := env.runJSON(t, "edit", "--start", "6", "--text", "2", "--tree", path)

	require.NotNil(t, out.Result)
	assert.Equal(t, "incremental", out.Result.Mode)
	require.Len(t, out.Trees, 1)
	assert.Equal(t, 9, out.Trees[0].End)

	// Without --write the file is untouched.
	assert.Equal(t, "{x = 1;}", readFile(t, path))
}

func TestIntegration_EditWrite(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "doc.mini", "{x = 1;}")

	out := env.runJSON(t, "edit", "--start", "5", "--end", "6", "--text", "42", "--write", "--backup", path)

	assert.Equal(t, "{x = 42;}", readFile(t, path))
	assert.Equal(t, "{x = 1;}", readFile(t, path+fsutil.BackupSuffix))
	require.Len(t, out.Notes, 1)
	assert.Contains(t, out.Notes[0], "wrote")
}

func TestIntegration_EditBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "doc.mini", "{a = 1;}\n{b = 2;}\n")
	edits := env.file(t, "edits.json", `[
  {"start": 14, "end": 15, "text": "20"},
  {"start": 5, "end": 6, "text": "10"}
]`)

	out := env.runJSON(t, "edit", "--edits", edits, "--write", path)

	assert.Equal(t, "{a = 10;}\n{b = 20;}\n", readFile(t, path))
	require.NotNil(t, out.Result)
	assert.Equal(t, 2, out.Result.Summary.Replaced)
}

func TestIntegration_EditErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "doc.mini", "{x = 1;}")
	overlapping := env.file(t, "overlap.json", `[{"start": 1, "end": 4}, {"start": 3, "end": 5}]`)
	malformed := env.file(t, "bad.json", `{"start": 1}`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no edit", []string{"edit", path}, cli.ExitInvalidUsage},
		{"out of range", []string{"edit", "--start", "100", path}, cli.ExitInvalidUsage},
		{"overlapping batch", []string{"edit", "--edits", overlapping, path}, cli.ExitInvalidUsage},
		{"malformed batch", []string{"edit", "--edits", malformed, path}, cli.ExitInvalidUsage},
		{"missing file", []string{"edit", "--start", "0", filepath.Join(env.dir, "nope.mini")}, cli.ExitIOError},
		{"unknown flag", []string{"edit", "--bogus", path}, cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCodeFromError(err), "error: %v", err)
		})
	}

	assert.Equal(t, "{x = 1;}", readFile(t, path))
}

func TestIntegration_Stats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	first := env.file(t, "a.mini", "x = 1;")
	second := env.file(t, "b.mini", "}")

	out, err := env.run(t, "stats", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "Element types")
	assert.Contains(t, out, "2 files, 10 nodes, 7 leaves, max depth 3, 7 bytes")
	assert.Contains(t, out, "1 errors")
}

func TestIntegration_StatsJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "list.mini", "a = [1, [2, 3]];")

	var collapsed, expanded analysis.Report
	out, err := env.run(t, "stats", "--format", "json", "--by-file=false", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &collapsed), out)

	out, err = env.run(t, "stats", "--format", "json", "--expand", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &expanded), out)

	assert.Equal(t, 1, collapsed.Totals.Collapsed)
	assert.Empty(t, collapsed.ByFile)
	assert.NotEmpty(t, collapsed.ByType)

	assert.Zero(t, expanded.Totals.Collapsed)
	assert.Greater(t, expanded.Totals.Nodes, collapsed.Totals.Nodes)
	require.Len(t, expanded.ByFile, 1)
	assert.Equal(t, "mini", expanded.ByFile[0].Language)
}

func TestIntegration_StatsErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	path := env.file(t, "a.mini", "x = 1;")

	_, err := env.run(t, "stats")
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = env.run(t, "stats", "--sort", "severity", path)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = env.run(t, "stats", path, filepath.Join(env.dir, "missing.mini"))
	assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromError(err))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	writeFile(t, env.config, "reparse:\n  lookahead: -1\n")
	path := env.file(t, "doc.mini", "x = 1;")

	_, err := env.run(t, "tree", path)
	require.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
}

func TestIntegration_ConfigExtensions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	writeFile(t, env.config, "log_level: error\nextensions:\n  .cfg: mini\n")
	path := env.file(t, "app.cfg", "x = 1;")

	out := env.runJSON(t, "tree", path)
	assert.Equal(t, "mini", out.Language)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	target := filepath.Join(env.dir, "generated.yml")

	_, err := env.run(t, "init", "--output", target)
	require.NoError(t, err)
	content := readFile(t, target)
	assert.Contains(t, content, "reparse:")
	assert.Contains(t, content, "flavor: commonmark")

	_, err = env.run(t, "init", "--output", target)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = env.run(t, "init", "--output", target, "--force")
	require.NoError(t, err)
	assert.Equal(t, content, readFile(t, target))

	_, err = env.run(t, "init", "--format", "toml", "--output", target)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	out, err := env.run(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "reparse")
	assert.Contains(t, out, "abc123")
}
