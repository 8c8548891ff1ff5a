// Package langdetect picks the language plugin for a source file.
// It uses go-enry to recognise file names and contents, and falls back to
// cheap content patterns for the languages enry does not know about.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Plugin names returned by Detect.
const (
	Markdown = "markdown"
	Mini     = "mini"
)

// enryMarkdown is the linguist name of Markdown.
const enryMarkdown = "Markdown"

// builtinExtensions maps extensions enry has no entry for.
//
//nolint:gochecknoglobals // read-only lookup table
var builtinExtensions = map[string]string{
	".mini": Mini,
	".mn":   Mini,
}

// Supported returns the plugin names Detect can return.
func Supported() []string {
	return []string{Markdown, Mini}
}

// IsSupported reports whether name is a known plugin.
func IsSupported(name string) bool {
	switch name {
	case Markdown, Mini:
		return true
	default:
		return false
	}
}

// Detect returns the plugin for a file, or "" if none applies.
//
// The lookup order is: the overrides table keyed by lower-case extension
// (".txt" -> "markdown"), the built-in extension table, enry's file name and
// extension tables, then content patterns. Binary content never matches.
func Detect(path string, content []byte, overrides map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := overrides[ext]; ok && IsSupported(lang) {
		return lang
	}
	if lang, ok := builtinExtensions[ext]; ok {
		return lang
	}

	if len(content) > 0 && enry.IsBinary(content) {
		return ""
	}

	if lang, safe := enry.GetLanguageByFilename(path); safe && normalize(lang) != "" {
		return normalize(lang)
	}
	// ".md" is shared with GCC machine descriptions, so enry never calls
	// it safe. Any extension Markdown claims is good enough here.
	if slices.Contains(enry.GetLanguagesByExtension(path, content, nil), enryMarkdown) {
		return Markdown
	}

	return detectByPattern(content)
}

// detectByPattern checks for patterns that are highly indicative of a
// plugin language.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return ""
	}

	// Mini comments look like ATX headings, so statements are checked first.
	if lang := detectMini(trimmed); lang != "" {
		return lang
	}
	return detectMarkdown(trimmed)
}

// detectMarkdown looks for an ATX heading, a fence or a list marker at the
// start of a line.
func detectMarkdown(trimmed []byte) string {
	for line := range bytes.SplitSeq(trimmed, []byte("\n")) {
		line = bytes.TrimLeft(line, " ")
		switch {
		case bytes.HasPrefix(line, []byte("# ")),
			bytes.HasPrefix(line, []byte("## ")),
			bytes.HasPrefix(line, []byte("```")),
			bytes.HasPrefix(line, []byte("- ")),
			bytes.HasPrefix(line, []byte("> ")):
			return Markdown
		}
	}
	return ""
}

// detectMini counts "name = value;" statements. Two or more is enough.
func detectMini(trimmed []byte) string {
	statements := 0
	for line := range bytes.SplitSeq(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		eq := bytes.IndexByte(line, '=')
		if eq > 0 && bytes.HasSuffix(line, []byte(";")) && isIdent(bytes.TrimSpace(line[:eq])) {
			statements++
		}
	}
	if statements >= 2 {
		return Mini
	}
	return ""
}

func isIdent(word []byte) bool {
	if len(word) == 0 {
		return false
	}
	for i, c := range word {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// normalize converts a go-enry language name to a plugin name.
func normalize(lang string) string {
	if lang == enryMarkdown {
		return Markdown
	}
	return ""
}
