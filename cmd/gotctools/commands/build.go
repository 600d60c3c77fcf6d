package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
	"github.com/willibrandon/gotctools/observability"
	"github.com/willibrandon/gotctools/project"
	"github.com/willibrandon/gotctools/tcbuild"
)

// ErrBuildFailed is returned when a TcBuild step fails
var ErrBuildFailed = errors.New("build failed")

type buildOptions struct {
	workspaceOptions
	dryRun     bool
	install    bool
	libraryDir string
	tcbuild    string

	// runner replaces the TcBuild process in tests
	runner tcbuild.Runner
}

// NewBuildCommand creates the build command
func NewBuildCommand(console *output.Console) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <SOLUTION>",
		Short: "Build a solution and the libraries it depends on",
		Long: `Resolve the build order of a solution and run TcBuild for every step:
each library solution is built before the projects that reference it, and the
solution itself is built last. With --install every library PLC project is
installed into the library repository right after its solution was built.

Stops at the first failing step.

Examples:
  gotctools build Machine.sln --libraries ../libs --install
  gotctools build Machine.sln --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), console, args[0], opts)
		},
	}

	addWorkspaceFlags(cmd, &opts.workspaceOptions)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the TcBuild invocations without running them")
	cmd.Flags().BoolVar(&opts.install, "install", false, "Install library PLC projects after building them")
	cmd.Flags().StringVar(&opts.libraryDir, "library-dir", "", "Also save installed libraries as .library files in this directory")
	cmd.Flags().StringVar(&opts.tcbuild, "tcbuild", "", "TcBuild executable (default from config or tcbuild.exe on PATH)")

	return cmd
}

// buildAction is one TcBuild invocation of a build plan
type buildAction struct {
	solution    string
	xaeProject  string
	plcProject  string
	libraryFile string
	install     bool
}

func (a buildAction) String() string {
	if !a.install {
		return fmt.Sprintf("tcbuild build %s", a.solution)
	}
	s := fmt.Sprintf("tcbuild install %s --xaeproject %s --plcproject %s", a.solution, a.xaeProject, a.plcProject)
	if a.libraryFile != "" {
		s += " --libraryfile " + a.libraryFile
	}
	return s
}

func runBuild(ctx context.Context, console *output.Console, solutionPath string, opts *buildOptions) error {
	start := time.Now()

	ws, err := loadWorkspace(ctx, console, solutionPath, &opts.workspaceOptions)
	if err != nil {
		return err
	}

	tree, err := ws.resolve(ctx)
	if err != nil {
		return err
	}

	order, err := tree.BuildOrder()
	if err != nil {
		if errors.Is(err, dependency.ErrMissingLibraries) {
			printMissing(console, tree)
		}
		return err
	}

	plan, err := planBuild(order, opts)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, action := range plan {
			console.Println(action.String())
		}
		return nil
	}

	client := newTcBuildClient(ws.config, opts.tcbuild, opts.runner, ws.logger)
	if err := client.RequireAvailable(ctx); err != nil {
		return err
	}

	status := output.NewStatusLine(console.Out(), "Build")
	defer status.Stop()

	for i, action := range plan {
		label := "Build"
		if action.install {
			label = "Install"
		}
		name := project.Stem(action.solution)
		if action.install {
			name = action.plcProject
		}
		status.SetLabel(fmt.Sprintf("%s %s", label, name))
		console.Info("[%d/%d] %s %s", i+1, len(plan), label, name)
		console.Detail("  %s", action)

		var ok bool
		var details string
		if action.install {
			ok, details, err = client.Install(ctx, action.solution, action.xaeProject, action.plcProject, action.libraryFile)
		} else {
			ok, details, err = client.Build(ctx, action.solution)
		}
		if err != nil {
			return err
		}
		if !ok {
			status.Stop()
			console.Error("%s %s failed", label, name)
			console.Println(details)
			return fmt.Errorf("%w: %s", ErrBuildFailed, action)
		}
	}

	status.Stop()
	console.Success("Build succeeded: %d steps in %.1fs", len(plan), time.Since(start).Seconds())
	return nil
}

// planBuild turns a build order into TcBuild invocations. A solution is
// built again before each of its PLC projects unless the previous step
// already belonged to that solution, so every install sees the libraries
// installed before it.
func planBuild(order []dependency.Origin, opts *buildOptions) ([]buildAction, error) {
	var plan []buildAction
	last := ""

	buildSolution := func(path string) {
		key := filepath.Clean(path)
		if key == last {
			return
		}
		last = key
		plan = append(plan, buildAction{solution: path})
	}

	for _, origin := range order {
		switch o := origin.(type) {
		case dependency.BuildUnitOrigin:
			plc, ok := o.Unit.(*project.PlcProject)
			if !ok || plc.XaeProject() == nil || plc.XaeProject().Owner() == nil {
				return nil, fmt.Errorf("cannot determine the solution of PLC project %s", o.Unit.Path())
			}
			xae := plc.XaeProject()
			solutionPath := xae.Owner().Path()
			buildSolution(solutionPath)

			if opts.install {
				action := buildAction{
					solution:   solutionPath,
					xaeProject: xae.Name(),
					plcProject: plc.Name(),
					install:    true,
				}
				if opts.libraryDir != "" {
					action.libraryFile = filepath.Join(opts.libraryDir, plc.Name()+".library")
				}
				plan = append(plan, action)
			}
		default:
			buildSolution(origin.String())
		}
	}
	return plan, nil
}

// newTcBuildClient picks the TcBuild executable from the test runner, the
// --tcbuild flag, the tcbuildPath config key or PATH, in that order.
func newTcBuildClient(cfg *config.Config, executable string, runner tcbuild.Runner, logger observability.Logger) *tcbuild.Client {
	opts := []tcbuild.Option{tcbuild.WithLogger(logger)}
	switch {
	case runner != nil:
		opts = append(opts, tcbuild.WithRunner(runner))
	case executable != "":
		opts = append(opts, tcbuild.WithExecutable(executable))
	case cfg.GetConfigValue(config.KeyTcBuildPath) != "":
		opts = append(opts, tcbuild.WithExecutable(cfg.GetConfigValue(config.KeyTcBuildPath)))
	}
	return tcbuild.NewClient(opts...)
}
