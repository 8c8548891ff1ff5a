package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/pkg/reparse"
)

type diffFlags struct {
	outputFlags

	events   bool
	showTree bool
	exitCode bool
}

func newDiffCommand() *cobra.Command {
	flags := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show the tree changes between two versions of a file",
		Long: `Parse OLD, treat NEW as an edit of it, and print how the tree absorbs
the edit: the reparse mode, each node change, and a summary.

The edit is the range between the common prefix and suffix of the two
texts. The language is chosen from OLD.

Examples:
  reparse diff before.md after.md
  reparse diff --events old.mn new.mn
  reparse diff --exit-code a.md b.md     Exit 1 when the trees differ`,
		Args: exactArgs(2), //nolint:mnd // OLD and NEW
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], flags)
		},
	}

	addOutputFlags(cmd, &flags.outputFlags)
	cmd.Flags().BoolVar(&flags.events, "events", false, "list the change notifications fired during the commit")
	cmd.Flags().BoolVar(&flags.showTree, "tree", false, "print the updated tree")
	cmd.Flags().BoolVar(&flags.exitCode, "exit-code", false, "exit with 1 if there were structural changes")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, flags *diffFlags) error {
	sess, err := newSession(cmd, &flags.outputFlags)
	if err != nil {
		return err
	}

	file, err := sess.parseFile(oldPath)
	if err != nil {
		return err
	}
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", newPath, err)
	}
	newText := string(newContent)

	rep, err := sess.reporter(flags.events)
	if err != nil {
		return err
	}
	rep.Begin(oldPath, file.plugin.Name())

	summary, err := sess.reparseTo(rep, file, reparse.EditBetween(file.text, newText), newText)
	if err != nil {
		return err
	}
	if flags.showTree {
		if err := rep.Tree(file.tree, file.text); err != nil {
			return err
		}
	}
	if err := rep.Flush(); err != nil {
		return err
	}

	if flags.exitCode && !summary.Empty() {
		return ErrChangesFound
	}
	return nil
}
