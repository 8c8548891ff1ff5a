package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/reparse/internal/ui/pretty"
)

// minSpaceGap is the run of spaces pflag puts between a flag and its
// description.
const minSpaceGap = 2

// HelpStyles contains the Lipgloss styles used for command help.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles derives help styles from the output palette so that help
// and reports share colors.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	palette := pretty.NewStyles(colorEnabled)
	return &HelpStyles{
		Command:    palette.TypeName,
		Heading:    palette.SummaryTitle,
		Subcommand: palette.Insert.UnsetBold(),
		Flag:       palette.Replace.UnsetBold(),
		Example:    palette.Dim,
		Dim:        palette.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":                 h.styles.Command.Render,
		"heading":                 h.styles.Heading.Render,
		"subcommand":              h.styles.Subcommand.Render,
		"example":                 h.styles.Example.Render,
		"dim":                     h.styles.Dim.Render,
		"flags":                   h.flagUsages,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// flagUsages styles pflag's usage lines: flag names in the flag color,
// value types dimmed.
func (h *HelpFormatter) flagUsages(flags *pflag.FlagSet) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	flagPart, description, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.Flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	return indent + strings.Join(tokens, " ") + "   " + description
}

// splitFlagLine splits "-f, --flag type   description" at the first gap of
// two or more spaces.
func splitFlagLine(line string) (flagPart, description string, ok bool) {
	spaceStart := -1
	for idx, char := range line {
		switch {
		case char == ' ' && spaceStart < 0:
			spaceStart = idx
		case char != ' ' && spaceStart >= 0:
			if idx-spaceStart >= minSpaceGap {
				return line[:spaceStart], line[idx:], true
			}
			spaceStart = -1
		}
	}
	return "", "", false
}

// ApplyToCommand installs the styled templates on cmd. Subcommands inherit
// them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
