package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/gotctools/cmd/gotctools/cli"
	"github.com/willibrandon/gotctools/cmd/gotctools/commands"
	"github.com/willibrandon/gotctools/cmd/gotctools/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

func main() {
	version.Version = buildVersion
	version.Commit = commit
	version.Date = date

	cli.SetupVersion()

	// Resolution and build commands
	cli.AddCommand(commands.NewTreeCommand(cli.Console))
	cli.AddCommand(commands.NewOrderCommand(cli.Console))
	cli.AddCommand(commands.NewBuildCommand(cli.Console))
	cli.AddCommand(commands.NewGraphCommand(cli.Console))
	cli.AddCommand(commands.NewLibrariesCommand(cli.Console))

	// Configuration and environment
	cli.AddCommand(commands.NewConfigCommand(cli.Console))
	cli.AddCommand(commands.NewSourceCommand(cli.Console))
	cli.AddCommand(commands.NewDoctorCommand(cli.Console))
	cli.AddCommand(commands.NewVersionCommand(cli.Console))

	// Cancel running TcBuild steps on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		// SilenceErrors is set on the root command
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
