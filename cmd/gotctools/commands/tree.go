package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
	"github.com/willibrandon/gotctools/project"
)

type treeOptions struct {
	workspaceOptions
	format string
}

// NewTreeCommand creates the tree command
func NewTreeCommand(console *output.Console) *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <SOLUTION>",
		Short: "Show the library dependency tree of a solution",
		Long: `Resolve the library references of every PLC project in a solution and print
the resulting dependency tree. References that no library solution or installed
library satisfies are marked as missing.

Examples:
  gotctools tree Machine.sln
  gotctools tree Machine.sln --libraries ../libs --no-repository
  gotctools tree Machine.sln --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), console, args[0], opts)
		},
	}

	addWorkspaceFlags(cmd, &opts.workspaceOptions)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")

	return cmd
}

func runTree(ctx context.Context, console *output.Console, solutionPath string, opts *treeOptions) error {
	start := time.Now()

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	ws, err := loadWorkspace(ctx, console, solutionPath, &opts.workspaceOptions)
	if err != nil {
		return err
	}

	tree, err := ws.resolve(ctx)
	if err != nil {
		return err
	}

	if format != output.FormatText {
		out := output.NewTreeOutput(ws.sessionID, treeNode(tree, tree.Root), start)
		out.Missing = missingNames(tree)
		return output.WriteStructured(console.Out(), format, out)
	}

	console.Print(dependency.RenderWith(tree.Root, func(n *dependency.Node) string {
		return nodeLabel(tree, n)
	}))
	printMissing(console, tree)
	return nil
}

// nodeLabel names a tree node for display. PLC projects show their file name
// and the library they publish, references show how they were satisfied.
func nodeLabel(tree *dependency.Tree, n *dependency.Node) string {
	switch origin := n.Origin().(type) {
	case dependency.BuildUnitOrigin:
		if ref, ok := origin.Unit.AsReference(); ok {
			return fmt.Sprintf("%s [%s]", origin.Unit.Name(), ref)
		}
		return origin.Unit.Name()
	case dependency.SubProjectOrigin:
		return origin.SubProject.Name()
	case dependency.ReferenceOrigin:
		switch {
		case tree.Missing.Contains(origin.Reference):
			return output.ColorError.Sprintf("%s (missing)", origin.Reference)
		case len(n.Children()) == 0:
			return fmt.Sprintf("%s (installed)", origin.Reference)
		}
		return origin.Reference.String()
	}
	return project.Stem(n.Origin().String())
}

func treeNode(tree *dependency.Tree, n *dependency.Node) *output.TreeNode {
	node := &output.TreeNode{
		Kind: n.Origin().Kind().String(),
		Name: n.Origin().String(),
	}
	if ref, ok := n.Origin().(dependency.ReferenceOrigin); ok && tree.Missing.Contains(ref.Reference) {
		node.Kind = "missing"
	}
	for _, child := range n.Children() {
		node.Children = append(node.Children, treeNode(tree, child))
	}
	return node
}

func missingNames(tree *dependency.Tree) []string {
	names := []string{}
	for _, ref := range tree.Missing.Sorted() {
		names = append(names, ref.String())
	}
	return names
}

func printMissing(console *output.Console, tree *dependency.Tree) {
	if tree.Missing.Len() == 0 {
		return
	}
	console.Println()
	console.Warning("%d missing libraries:", tree.Missing.Len())
	for _, ref := range tree.Missing.Sorted() {
		console.Info("  %s", ref)
	}
}
