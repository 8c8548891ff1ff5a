package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/fsutil"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/textedit"
)

type editFlags struct {
	outputFlags

	start     int
	end       int
	text      string
	editsFile string
	events    bool
	showTree  bool
	write     bool
	backup    bool
}

func newEditCommand() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Apply an edit to a file and show how its tree is updated",
		Long: `Parse FILE, apply an edit to its text, and reparse incrementally.

A single edit replaces the byte range [--start, --end) with --text; an
omitted --end makes it an insertion. --edits reads a JSON list of edits
instead:

  [{"start": 5, "end": 6, "text": "12"}, {"start": 20, "end": 20, "text": "\n"}]

Edits use offsets of the original text and must not overlap. A batch is
reparsed as one change covering all of them.

Examples:
  reparse edit --start 5 --end 6 --text 12 config.mn
  reparse edit --edits fixes.json --events README.md
  reparse edit --start 0 --text "Intro. " --write --backup notes.md`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	addOutputFlags(cmd, &flags.outputFlags)
	cmd.Flags().IntVar(&flags.start, "start", -1, "start byte offset of the replaced range")
	cmd.Flags().IntVar(&flags.end, "end", -1, "end byte offset of the replaced range (default: --start)")
	cmd.Flags().StringVar(&flags.text, "text", "", "replacement text")
	cmd.Flags().StringVar(&flags.editsFile, "edits", "", "read a JSON list of edits from this file")
	cmd.Flags().BoolVar(&flags.events, "events", false, "list the change notifications fired during the commit")
	cmd.Flags().BoolVar(&flags.showTree, "tree", false, "print the updated tree")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the edited text back to FILE")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a "+fsutil.BackupSuffix+" copy of FILE when writing")
	cmd.MarkFlagsMutuallyExclusive("edits", "start")
	cmd.MarkFlagsMutuallyExclusive("edits", "text")

	return cmd
}

func runEdit(cmd *cobra.Command, path string, flags *editFlags) error {
	sess, err := newSession(cmd, &flags.outputFlags)
	if err != nil {
		return err
	}

	content, info, err := fsutil.ReadFile(sess.ctx, path)
	if err != nil {
		return err
	}

	edits, err := flags.edits()
	if err != nil {
		return err
	}
	prepared, err := textedit.Prepare(edits, len(content))
	if err != nil {
		return err
	}
	start, end, ok := textedit.Span(prepared)
	if !ok {
		return fmt.Errorf("%w: no edits given; use --start or --edits", ErrUsage)
	}

	file, err := sess.parse(path, content)
	if err != nil {
		return err
	}
	newText := textedit.Apply(file.text, prepared)

	sess.logger.Debug("applying edits",
		logging.FieldPath, path,
		logging.FieldOffset, start,
		logging.FieldEndOffset, end,
		logging.FieldEntries, len(prepared),
	)

	rep, err := sess.reporter(flags.events)
	if err != nil {
		return err
	}
	rep.Begin(path, file.plugin.Name())

	if _, err := sess.reparseTo(rep, file, reparse.Edit{Start: start, End: end}, newText); err != nil {
		return err
	}
	if flags.showTree {
		if err := rep.Tree(file.tree, file.text); err != nil {
			return err
		}
	}

	if flags.write {
		backup := fsutil.DefaultBackupConfig()
		backup.Enabled = flags.backup
		written, err := fsutil.SafeWrite(sess.ctx, info, []byte(newText), backup)
		if err != nil {
			return err
		}
		switch {
		case !written.Written:
			rep.Note("unchanged " + path)
		case written.BackupPath != "":
			rep.Note("wrote " + path + " (backup " + written.BackupPath + ")")
		default:
			rep.Note("wrote " + path)
		}
	}

	return rep.Flush()
}

// edits returns the edits named by the flags.
func (f *editFlags) edits() ([]textedit.Edit, error) {
	if f.editsFile != "" {
		data, err := os.ReadFile(f.editsFile)
		if err != nil {
			return nil, fmt.Errorf("read edits: %w", err)
		}
		var edits []textedit.Edit
		if err := json.Unmarshal(data, &edits); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", ErrUsage, f.editsFile, err)
		}
		return edits, nil
	}

	if f.start < 0 {
		return nil, nil
	}
	end := f.end
	if end < 0 {
		end = f.start
	}
	builder := textedit.NewBuilder()
	builder.Replace(f.start, end, f.text)
	return builder.Edits(), nil
}
