package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
)

type orderOptions struct {
	workspaceOptions
	format string
}

// NewOrderCommand creates the order command
func NewOrderCommand(console *output.Console) *cobra.Command {
	opts := &orderOptions{}

	cmd := &cobra.Command{
		Use:   "order <SOLUTION>",
		Short: "Print the order in which libraries must be built",
		Long: `Resolve the dependency tree of a solution and print the PLC projects that
must be built and installed, libraries first, followed by the solution itself.

Fails when a referenced library cannot be found.

Examples:
  gotctools order Machine.sln --libraries ../libs
  gotctools order Machine.sln --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd.Context(), console, args[0], opts)
		},
	}

	addWorkspaceFlags(cmd, &opts.workspaceOptions)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")

	return cmd
}

func runOrder(ctx context.Context, console *output.Console, solutionPath string, opts *orderOptions) error {
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

	order, orderErr := tree.BuildOrder()
	if orderErr != nil && !errors.Is(orderErr, dependency.ErrMissingLibraries) {
		return orderErr
	}

	if format != output.FormatText {
		out := output.NewOrderOutput(ws.sessionID, ws.solution.Path(), start)
		out.Steps = buildSteps(order)
		out.Missing = missingNames(tree)
		if err := output.WriteStructured(console.Out(), format, out); err != nil {
			return err
		}
		return orderErr
	}

	if orderErr != nil {
		printMissing(console, tree)
		return orderErr
	}

	for _, step := range buildSteps(order) {
		if step.Library != "" {
			console.Printf("%3d. %s [%s]\n", step.Index, step.Path, step.Library)
		} else {
			console.Printf("%3d. %s\n", step.Index, step.Path)
		}
	}
	return nil
}

func buildSteps(order []dependency.Origin) []output.BuildStep {
	steps := make([]output.BuildStep, 0, len(order))
	for i, origin := range order {
		step := output.BuildStep{
			Index: i + 1,
			Kind:  origin.Kind().String(),
			Path:  origin.String(),
		}
		if unit, ok := origin.(dependency.BuildUnitOrigin); ok {
			if ref, ok := unit.Unit.AsReference(); ok {
				step.Library = ref.String()
			}
		}
		steps = append(steps, step)
	}
	return steps
}
