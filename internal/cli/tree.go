package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/reparse/internal/logging"
)

// maxExpandRounds bounds --expand; each round opens one more nesting level
// of collapsed nodes.
const maxExpandRounds = 64

type treeFlags struct {
	outputFlags

	expand bool
}

func newTreeCommand() *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the syntax tree of a file",
		Long: `Parse a file and print its syntax tree.

Collapsed nodes are shown with their text unless --expand parses them.

Examples:
  reparse tree README.md
  reparse tree --depth 2 --positions README.md
  reparse tree --lang mini --expand config.mn
  reparse tree --format json notes.md`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], flags)
		},
	}

	addOutputFlags(cmd, &flags.outputFlags)
	cmd.Flags().BoolVar(&flags.expand, "expand", false, "parse collapsed nodes before printing")

	return cmd
}

func runTree(cmd *cobra.Command, path string, flags *treeFlags) error {
	sess, err := newSession(cmd, &flags.outputFlags)
	if err != nil {
		return err
	}

	file, err := sess.parseFile(path)
	if err != nil {
		return err
	}

	if flags.expand {
		expanded, err := expandAll(sess, file)
		if err != nil {
			return err
		}
		sess.logger.Debug("expanded collapsed nodes", logging.FieldPath, path, logging.FieldExpanded, expanded)
	}

	rep, err := sess.reporter(false)
	if err != nil {
		return err
	}
	rep.Begin(path, file.plugin.Name())
	if err := rep.Tree(file.tree, file.text); err != nil {
		return err
	}
	return rep.Flush()
}

// expandAll expands collapsed nodes until none remain and returns how many
// were expanded.
func expandAll(sess *session, file *parsedFile) (int, error) {
	tree := file.tree
	expanded := 0
	for range maxExpandRounds {
		collapsed := tree.FindAll(tree.Root(), tree.IsCollapsed)
		if len(collapsed) == 0 {
			return expanded, nil
		}
		for _, id := range collapsed {
			if err := tree.Expand(sess.ctx, id, file.plugin); err != nil {
				return expanded, fmt.Errorf("%w: %s: %w", ErrInternal, file.path, err)
			}
			expanded++
		}
	}
	return expanded, nil
}
