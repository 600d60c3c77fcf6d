package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
)

type graphOptions struct {
	workspaceOptions
	topological bool
}

// NewGraphCommand creates the graph command
func NewGraphCommand(console *output.Console) *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph <SOLUTION>",
		Short: "Export the PLC project dependency graph",
		Long: `Resolve the dependency tree of a solution and write the graph of PLC
projects in Graphviz DOT format. An edge A -> B means A references the library
built from B. Missing libraries are not part of the graph.

Examples:
  gotctools graph Machine.sln --libraries ../libs | dot -Tsvg > deps.svg
  gotctools graph Machine.sln --topological`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), console, args[0], opts)
		},
	}

	addWorkspaceFlags(cmd, &opts.workspaceOptions)
	cmd.Flags().BoolVar(&opts.topological, "topological", false, "Print the PLC projects in topological order instead of DOT")

	return cmd
}

func runGraph(ctx context.Context, console *output.Console, solutionPath string, opts *graphOptions) error {
	ws, err := loadWorkspace(ctx, console, solutionPath, &opts.workspaceOptions)
	if err != nil {
		return err
	}

	tree, err := ws.resolve(ctx)
	if err != nil {
		return err
	}

	g, err := tree.Graph()
	if err != nil {
		return err
	}

	if opts.topological {
		paths, err := dependency.TopologicalUnits(g)
		if err != nil {
			return err
		}
		for _, p := range paths {
			console.Println(p)
		}
	} else if err := dependency.WriteDOT(console.Out(), g); err != nil {
		return err
	}

	if tree.Missing.Len() > 0 {
		console.Warning("%d missing libraries are not shown", tree.Missing.Len())
	}
	return nil
}
