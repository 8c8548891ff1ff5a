// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Tree outline
	TypeName   lipgloss.Style
	ErrorType  lipgloss.Style
	Range      lipgloss.Style
	LeafText   lipgloss.Style
	Whitespace lipgloss.Style
	Collapsed  lipgloss.Style

	// Edit operations
	Replace     lipgloss.Style
	Insert      lipgloss.Style
	Delete      lipgloss.Style
	RootReplace lipgloss.Style

	// Headers and summaries
	FilePath     lipgloss.Style
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style
	Warning      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		TypeName:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		ErrorType:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Range:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LeafText:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Whitespace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Collapsed:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		Replace:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Insert:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Delete:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		RootReplace: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),

		FilePath:     lipgloss.NewStyle().Bold(true).Underline(true),
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		TypeName:     plain,
		ErrorType:    plain,
		Range:        plain,
		LeafText:     plain,
		Whitespace:   plain,
		Collapsed:    plain,
		Replace:      plain,
		Insert:       plain,
		Delete:       plain,
		RootReplace:  plain,
		FilePath:     plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		Warning:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
