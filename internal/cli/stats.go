package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/internal/ui/pretty"
	"github.com/yaklabco/reparse/pkg/analysis"
	"github.com/yaklabco/reparse/pkg/report"
)

type statsFlags struct {
	outputFlags

	sort    string
	reverse bool
	byFile  bool
	byType  bool
	expand  bool
}

func newStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Summarize the syntax trees of files",
		Long: `Parse files and print node counts, depth and size per file and per
element type.

Examples:
  reparse stats README.md docs/guide.md
  reparse stats --sort alpha --by-file=false *.md
  reparse stats --expand --format json config.mn`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, flags)
		},
	}

	addOutputFlags(cmd, &flags.outputFlags)
	cmd.Flags().StringVar(&flags.sort, "sort", string(analysis.SortByCount), "sort tables by: count, alpha or size")
	cmd.Flags().BoolVar(&flags.reverse, "reverse", false, "sort counts ascending")
	cmd.Flags().BoolVar(&flags.byFile, "by-file", true, "include the per-file table")
	cmd.Flags().BoolVar(&flags.byType, "by-type", true, "include the per-type table")
	cmd.Flags().BoolVar(&flags.expand, "expand", false, "parse collapsed nodes before counting")

	return cmd
}

func runStats(cmd *cobra.Command, paths []string, flags *statsFlags) error {
	sortBy := analysis.SortField(flags.sort)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: unknown sort %q; valid: count, alpha, size", ErrUsage, flags.sort)
	}

	sess, err := newSession(cmd, &flags.outputFlags)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(string(sess.cfg.Output.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	files := make([]analysis.File, 0, len(paths))
	for _, path := range paths {
		file, err := sess.parseFile(path)
		if err != nil {
			return err
		}
		if flags.expand {
			if _, err := expandAll(sess, file); err != nil {
				return err
			}
		}
		files = append(files, analysis.File{Path: path, Language: file.plugin.Name(), Tree: file.tree})
	}

	workDir, _ := os.Getwd()
	stats := analysis.Analyze(files, analysis.Options{
		IncludeByFile: flags.byFile,
		IncludeByType: flags.byType,
		SortBy:        sortBy,
		SortDesc:      !flags.reverse,
		WorkingDir:    workDir,
	})
	sess.logger.Debug("analyzed trees",
		logging.FieldFiles, stats.Totals.Files,
		logging.FieldNodes, stats.Totals.Nodes,
		logging.FieldFormat, format,
	)

	out := cmd.OutOrStdout()
	if format == report.FormatJSON {
		encoder := json.NewEncoder(out)
		if !flags.compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(stats); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(sess.colorMode(), out))
	_, err = fmt.Fprint(out, styles.FormatStats(stats))
	return err
}
