package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("x"),
		styles.TypeName.Render("x"),
		styles.Replace.Render("x"),
		styles.Insert.Render("x"),
		styles.Delete.Render("x"),
	} {
		assert.Equal(t, "x", rendered, "no-color styles must not add formatting")
	}
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)
	assert.Contains(t, styles.TypeName.Render("PARAGRAPH"), "PARAGRAPH")
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("auto", &buf))
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}

func TestTerminalWidth_NonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, pretty.DefaultWidth, pretty.TerminalWidth(&buf))
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "fits", text: "hello", limit: 20, want: `"hello"`},
		{name: "escapes newlines", text: "a\nb", limit: 20, want: `"a\nb"`},
		{name: "shortened", text: "abcdefghijklmnop", limit: 12, want: `"abcdefg…"`},
		{name: "tiny limit is raised", text: "abcdefghijklmnop", limit: 1, want: `"abc…"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := pretty.Excerpt(tt.text, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.limit, 8))
		})
	}
}
