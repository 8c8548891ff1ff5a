package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/internal/configloader"
	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/config"
	"github.com/yaklabco/reparse/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new reparse configuration file",
		Long: `Create a new ` + configloader.ProjectConfigName + ` configuration file in the current
directory with the default engine, Markdown and output settings.

Examples:
  reparse init                      Create a commented ` + configloader.ProjectConfigName + `
  reparse init --full               Write every setting with its default
  reparse init --format json        Create .reparse.json instead
  reparse init --output custom.yml  Write to a custom file path`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.ProjectConfigName+" or .reparse.json)")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".reparse.json"
		} else {
			outputPath = configloader.ProjectConfigName
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if !written {
		logger.Info("configuration file is already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.format == "json" {
		logger.Info("JSON files are not discovered; pass them with --config")
	}
	return nil
}
