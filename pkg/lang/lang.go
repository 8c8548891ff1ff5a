// Package lang builds language plugins by name.
package lang

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/yaklabco/reparse/pkg/lang/markdown"
	"github.com/yaklabco/reparse/pkg/lang/mini"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// ErrUnknownLanguage is returned by New for names without a plugin.
var ErrUnknownLanguage = errors.New("unknown language")

// maxSuggestDistance is the largest edit distance Suggest still offers.
const maxSuggestDistance = 2

// Options configure plugin construction.
type Options struct {
	// MarkdownFlavor selects the goldmark flavor of the markdown plugin.
	MarkdownFlavor string
}

// Names returns the plugin names New accepts.
func Names() []string {
	return []string{markdown.Name, mini.Name}
}

// New creates the plugin registered under name.
//
//nolint:ireturn // plugins are used through the syntax.Language contract
func New(name string, opts Options) (syntax.Language, error) {
	switch name {
	case markdown.Name:
		return markdown.New(opts.MarkdownFlavor), nil
	case mini.Name:
		return mini.New(), nil
	}

	known := strings.Join(Names(), ", ")
	if suggestion := Suggest(name); suggestion != "" {
		return nil, fmt.Errorf("%w: %q; did you mean %q? (known: %s)", ErrUnknownLanguage, name, suggestion, known)
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownLanguage, name, known)
}

// Suggest returns the plugin name closest to name, or "" when nothing is
// close. Abbreviations ("md") match first, then near misspellings.
func Suggest(name string) string {
	if name == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, Names())
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxSuggestDistance+1
	for _, candidate := range Names() {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}
