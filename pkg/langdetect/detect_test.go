package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/reparse/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		content   string
		overrides map[string]string
		expected  string
	}{
		{
			name:     "md extension",
			path:     "docs/README.md",
			content:  "plain words",
			expected: langdetect.Markdown,
		},
		{
			name:     "markdown extension",
			path:     "notes.markdown",
			expected: langdetect.Markdown,
		},
		{
			name:     "upper case extension",
			path:     "NOTES.MD",
			expected: langdetect.Markdown,
		},
		{
			name:     "mini extension",
			path:     "config.mini",
			content:  "# looks like a heading\n",
			expected: langdetect.Mini,
		},
		{
			name:      "override wins",
			path:      "notes.txt",
			content:   "a = 1;\nb = 2;\n",
			overrides: map[string]string{".txt": langdetect.Markdown},
			expected:  langdetect.Markdown,
		},
		{
			name:      "unknown override is ignored",
			path:      "x.mini",
			overrides: map[string]string{".mini": "cobol"},
			expected:  langdetect.Mini,
		},
		{
			name:     "heading pattern",
			path:     "notes",
			content:  "\n# Title\n\nbody\n",
			expected: langdetect.Markdown,
		},
		{
			name:     "fence pattern",
			path:     "snippet",
			content:  "text\n```go\nx\n```\n",
			expected: langdetect.Markdown,
		},
		{
			name:     "mini statements",
			path:     "settings",
			content:  "a = 1;\n# comment\nb = [1, 2];\n",
			expected: langdetect.Mini,
		},
		{
			name:     "single statement is not enough",
			path:     "settings",
			content:  "a = 1;\n",
			expected: "",
		},
		{
			name:     "empty",
			path:     "empty",
			expected: "",
		},
		{
			name:     "binary content",
			path:     "blob",
			content:  "# x\x00\x00\x01",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := langdetect.Detect(tt.path, []byte(tt.content), tt.overrides)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, name := range langdetect.Supported() {
		assert.True(t, langdetect.IsSupported(name), name)
	}
	assert.False(t, langdetect.IsSupported("go"))
	assert.False(t, langdetect.IsSupported(""))
}
