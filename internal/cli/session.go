package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/internal/configloader"
	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/config"
	"github.com/yaklabco/reparse/pkg/lang"
	"github.com/yaklabco/reparse/pkg/langdetect"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/report"
	"github.com/yaklabco/reparse/pkg/syntax"
	"github.com/yaklabco/reparse/pkg/treeevent"
)

// outputFlags are the flags shared by every command that prints a tree or
// a reparse.
type outputFlags struct {
	lang      string
	flavor    string
	format    string
	depth     int
	positions bool
	compact   bool
}

func addOutputFlags(cmd *cobra.Command, flags *outputFlags) {
	cmd.Flags().StringVarP(&flags.lang, "lang", "l", "",
		"language plugin: markdown or mini (default: detected from the file)")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "markdown flavor: commonmark or gfm")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: text or json")
	cmd.Flags().IntVar(&flags.depth, "depth", 0, "limit tree output to this depth (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.positions, "positions", false, "show line:column positions in trees")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
}

// cliConfig returns the configuration layer set by flags. Flags left at
// their zero value do not override lower layers.
func (f *outputFlags) cliConfig() *config.Config {
	return &config.Config{
		Language: f.lang,
		Markdown: config.MarkdownConfig{Flavor: config.Flavor(f.flavor)},
		Output:   config.OutputConfig{Format: config.OutputFormat(f.format)},
	}
}

// session carries what a command needs after configuration is resolved.
type session struct {
	ctx    context.Context
	cmd    *cobra.Command
	cfg    *config.Config
	logger *log.Logger
	flags  *outputFlags
}

// newSession loads configuration the way every command does: discovered
// files, REPARSE_* variables, then flags.
func newSession(cmd *cobra.Command, flags *outputFlags) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(logging.WithLogger(ctx, logger), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags.cliConfig(),
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	cfg := loadResult.Config

	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldWorkingDir, workDir,
		logging.FieldFlavor, cfg.Markdown.Flavor,
		logging.FieldLookahead, cfg.Reparse.Lookahead,
	)

	return &session{
		ctx:    logging.WithLogger(ctx, logger),
		cmd:    cmd,
		cfg:    cfg,
		logger: logger,
		flags:  flags,
	}, nil
}

// language picks the plugin for a file: --lang or the config, then the
// configured extension map and content detection.
//
//nolint:ireturn // plugins are used through the syntax.Language contract
func (s *session) language(path string, content []byte) (syntax.Language, error) {
	name := s.cfg.Language
	if name == "" {
		name = langdetect.Detect(path, content, s.cfg.Extensions)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: cannot detect the language of %s; use --lang", ErrUsage, path)
	}

	plugin, err := lang.New(name, lang.Options{MarkdownFlavor: string(s.cfg.Markdown.Flavor)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	s.logger.Debug("language selected", logging.FieldPath, path, logging.FieldLanguage, plugin.Name())
	return plugin, nil
}

// reparser builds the engine for plugin from the reparse config section.
func (s *session) reparser(plugin syntax.Language) *reparse.Reparser {
	return reparse.New(plugin, reparse.Options{
		DepthLimit:      s.cfg.Reparse.DepthLimit,
		Lookahead:       s.cfg.Reparse.Lookahead,
		CheckInterval:   s.cfg.Reparse.CheckInterval,
		FullReparseOnly: s.cfg.Reparse.FullReparseOnly,
	})
}

// reporter builds the output reporter.
//
//nolint:ireturn // the format picks the implementation
func (s *session) reporter(showEvents bool) (report.Reporter, error) {
	format, err := report.ParseFormat(string(s.cfg.Output.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return report.New(report.Options{
		Writer:        s.cmd.OutOrStdout(),
		Format:        format,
		Color:         s.colorMode(),
		MaxDepth:      s.flags.depth,
		ShowPositions: s.flags.positions,
		ShowEvents:    showEvents,
		Compact:       s.flags.compact,
	})
}

// colorMode resolves the color setting. An explicit --color wins over the
// configured mode.
func (s *session) colorMode() string {
	mode := string(s.cfg.Output.Color)
	if s.cmd.Flags().Changed("color") || mode == "" {
		mode, _ = s.cmd.Flags().GetString("color")
	}
	return mode
}

// parseFile reads and parses path with the plugin chosen for it.
func (s *session) parseFile(path string) (*parsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.parse(path, content)
}

// parsedFile is a parsed input with the engine that owns it.
type parsedFile struct {
	path     string
	text     string
	plugin   syntax.Language
	reparser *reparse.Reparser
	tree     *syntax.Tree
}

func (s *session) parse(path string, content []byte) (*parsedFile, error) {
	plugin, err := s.language(path, content)
	if err != nil {
		return nil, err
	}
	reparser := s.reparser(plugin)

	text := string(content)
	tree, err := reparser.Parse(s.ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &parsedFile{path: path, text: text, plugin: plugin, reparser: reparser, tree: tree}, nil
}

// reparseTo moves file's tree to newText through edit and reports every
// stage. The log is reported before the commit detaches the old nodes.
func (s *session) reparseTo(
	rep report.Reporter,
	file *parsedFile,
	edit reparse.Edit,
	newText string,
) (*treeevent.Summary, error) {
	ctx := logging.WithFields(s.ctx, logging.FieldPath, file.path)
	result, err := file.reparser.Reparse(ctx, file.tree, edit, newText)
	if err != nil {
		return nil, fmt.Errorf("reparse %s: %w", file.path, err)
	}
	if err := rep.Log(result.Log); err != nil {
		return nil, err
	}

	summary, err := file.reparser.Commit(ctx, result, rep.Listener())
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", file.path, err)
	}
	if !syntax.Covers(file.tree, newText) {
		return nil, fmt.Errorf("%w: tree of %s does not spell the new text", ErrInternal, file.path)
	}
	file.text = newText

	s.logger.Debug("reparse committed",
		logging.FieldPath, file.path,
		logging.FieldMode, result.Mode,
		logging.FieldStatus, result.Status,
		logging.FieldReplaced, summary.Replaced,
		logging.FieldInserted, summary.Inserted,
		logging.FieldDeleted, summary.Deleted,
	)

	if err := rep.Result(result, summary); err != nil {
		return nil, err
	}
	return summary, nil
}
