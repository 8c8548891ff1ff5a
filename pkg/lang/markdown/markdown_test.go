package markdown_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/pkg/lang/markdown"
	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/syntax"
)

func childTypes(tree *syntax.Tree) []string {
	var names []string
	for child := tree.FirstChild(tree.Root()); child != syntax.NoNode; child = tree.NextSibling(child) {
		names = append(names, tree.TypeName(child))
	}
	return names
}

func TestParseBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flavor string
		input  string
		want   []string
	}{
		{
			name:   "mixed document",
			flavor: markdown.FlavorCommonMark,
			input:  "# Title\n\nSome text\nmore text\n\n- a\n- b\n\n```go\nx := 1\n```\n",
			want:   []string{"HEADING", "BLANK", "PARAGRAPH", "BLANK", "LIST", "BLANK", "FENCED_CODE"},
		},
		{
			name:   "setext heading keeps its underline",
			flavor: markdown.FlavorCommonMark,
			input:  "Title\n=====\n***\n",
			want:   []string{"HEADING", "THEMATIC_BREAK"},
		},
		{
			name:   "blockquote and indented code",
			flavor: markdown.FlavorCommonMark,
			input:  "> quote\n> more\n\n    code\n",
			want:   []string{"BLOCKQUOTE", "BLANK", "CODE_BLOCK"},
		},
		{
			name:   "html block",
			flavor: markdown.FlavorCommonMark,
			input:  "<div>\nhi\n</div>\n\npara\n",
			want:   []string{"HTML_BLOCK", "BLANK", "PARAGRAPH"},
		},
		{
			name:   "only link definitions",
			flavor: markdown.FlavorCommonMark,
			input:  "\n\n[ref]: /url\n",
			want:   []string{"BLANK", "BLOCK"},
		},
		{
			name:   "gfm table",
			flavor: markdown.FlavorGFM,
			input:  "| a | b |\n| - | - |\n| 1 | 2 |\n",
			want:   []string{"TABLE"},
		},
		{
			name:   "commonmark has no tables",
			flavor: markdown.FlavorCommonMark,
			input:  "| a | b |\n| - | - |\n| 1 | 2 |\n",
			want:   []string{"PARAGRAPH"},
		},
		{
			name:   "empty",
			flavor: markdown.FlavorCommonMark,
			input:  "",
			want:   nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lang := markdown.New(testCase.flavor)
			tree, err := lang.Parse(context.Background(), testCase.input)
			require.NoError(t, err)

			assert.Equal(t, "DOCUMENT", tree.TypeName(tree.Root()))
			assert.Equal(t, testCase.want, childTypes(tree))
			assert.True(t, syntax.Covers(tree, testCase.input))
			assert.NoError(t, syntax.Validate(tree))
		})
	}
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	lang := markdown.New(markdown.FlavorCommonMark)
	tree, err := lang.Parse(context.Background(), "# Hi\n\ntext\n")
	require.NoError(t, err)

	want := `DOCUMENT
  HEADING
    LINE "# Hi"
    NEWLINE "\n"
  BLANK "\n"
  PARAGRAPH
    LINE "text"
    NEWLINE "\n"
`
	assert.Equal(t, want, tree.Dump(tree.Root()))
}

func TestParseCoversInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain",
		"\n\n\n",
		"   \n# h\n   \n",
		"```\nunclosed\n\nstill code\n",
		"~~~~\n~~~\n~~~~\n",
		"#\n",
		"1. one\n2. two\n\n   continued\n",
		"> a\nlazy\n---\n",
		"[a]: /u\n\npara [a]\n",
		"<!--\ncomment\n-->\ntext\n",
		"a\r\nb\r\n",
	}

	for _, flavor := range []string{markdown.FlavorCommonMark, markdown.FlavorGFM} {
		lang := markdown.New(flavor)
		for _, input := range inputs {
			tree, err := lang.Parse(context.Background(), input)
			require.NoError(t, err, "input %q", input)
			assert.True(t, syntax.Covers(tree, input), "input %q", input)
			assert.NoError(t, syntax.Validate(tree), "input %q", input)
		}
	}
}

func TestParseSubstring(t *testing.T) {
	t.Parallel()

	lang := markdown.New(markdown.FlavorGFM)
	types := lang.Types()

	tests := []struct {
		name string
		typ  syntax.ElementType
		text string
		ok   bool
	}{
		{"paragraph", types.Paragraph, "Some text\n", true},
		{"two paragraphs", types.Paragraph, "one\n\ntwo\n", false},
		{"trailing blank line", types.Paragraph, "text\n\n", false},
		{"leading blank line", types.Paragraph, "\ntext", false},
		{"heading", types.Heading, "# Title\n", true},
		{"paragraph is not a heading", types.Heading, "Title\n", false},
		{"closed fence", types.FencedCode, "```\nx\n```\n", true},
		{"unclosed fence", types.FencedCode, "```\nx\n", false},
		{"blockquote", types.Blockquote, "> a\n> b", true},
		{"table", types.Table, "| a |\n| - |\n| 1 |\n", true},
		{"document accepts anything", types.Document, "\n\n# a\n\nb", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tree, err := lang.ParseSubstring(context.Background(), testCase.typ, testCase.text)
			if !testCase.ok {
				require.ErrorIs(t, err, syntax.ErrNotParsable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.typ, tree.Type(tree.Root()))
			assert.True(t, syntax.Covers(tree, testCase.text))
		})
	}
}

func TestRegistryFlags(t *testing.T) {
	t.Parallel()

	lang := markdown.New(markdown.FlavorCommonMark)
	reg := lang.Registry()
	types := lang.Types()

	assert.True(t, reg.Has(types.Paragraph, syntax.FlagReparseable))
	assert.True(t, reg.Has(types.FencedCode, syntax.FlagReparseable))
	assert.False(t, reg.Has(types.Document, syntax.FlagReparseable))
	assert.False(t, reg.Has(types.List, syntax.FlagReparseable))
	assert.True(t, reg.Has(types.HTMLBlock, syntax.FlagTemplateHost))
	assert.True(t, reg.Has(types.Blank, syntax.FlagWhitespace))
}

func TestFlavorDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, markdown.FlavorGFM, markdown.New(markdown.FlavorGFM).Flavor())
	assert.Equal(t, markdown.FlavorCommonMark, markdown.New("bogus").Flavor())
	assert.Equal(t, markdown.Name, markdown.New("").Name())
}

func TestParseCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := markdown.New(markdown.FlavorCommonMark).Parse(ctx, "# a\n")
	require.ErrorIs(t, err, progress.ErrCanceled)
}

func TestIncrementalReparse(t *testing.T) {
	t.Parallel()

	const doc = "# Title\n\nSome text here.\n\n- a\n- b\n"

	tests := []struct {
		name        string
		start, end  int
		replacement string
		wantMode    reparse.Mode
		wantAnchor  string
	}{
		{
			name:        "word in a paragraph",
			start:       14,
			end:         18,
			replacement: "words",
			wantMode:    reparse.ModeIncremental,
			wantAnchor:  "PARAGRAPH",
		},
		{
			name:        "heading text",
			start:       2,
			end:         7,
			replacement: "Heading",
			wantMode:    reparse.ModeIncremental,
			wantAnchor:  "HEADING",
		},
		{
			name:        "list item goes through the document",
			start:       28,
			end:         29,
			replacement: "c",
			wantMode:    reparse.ModeFull,
			wantAnchor:  "DOCUMENT",
		},
		{
			name:        "splitting a paragraph",
			start:       18,
			end:         19,
			replacement: "\n\n",
			wantMode:    reparse.ModeFull,
			wantAnchor:  "DOCUMENT",
		},
	}

	lang := markdown.New(markdown.FlavorCommonMark)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			reparser := reparse.New(lang, reparse.DefaultOptions())
			tree, err := reparser.Parse(ctx, doc)
			require.NoError(t, err)

			newText := doc[:testCase.start] + testCase.replacement + doc[testCase.end:]
			edit := reparse.Edit{Start: testCase.start, End: testCase.end}
			result, _, err := reparser.Apply(ctx, tree, edit, newText, nil)
			require.NoError(t, err)

			assert.Equal(t, testCase.wantMode, result.Mode)
			assert.Equal(t, testCase.wantAnchor, tree.TypeName(result.Anchor))
			assert.True(t, syntax.Covers(tree, newText))

			fresh, err := lang.Parse(ctx, newText)
			require.NoError(t, err)
			assert.Equal(t, fresh.Dump(fresh.Root()), tree.Dump(tree.Root()))
		})
	}
}
