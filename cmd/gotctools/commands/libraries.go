package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/repository"
)

type librariesOptions struct {
	configFile string
	repository string
	format     string
}

// NewLibrariesCommand creates the libraries command
func NewLibrariesCommand(console *output.Console) *cobra.Command {
	opts := &librariesOptions{}

	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "List the libraries installed in the library repository",
		Long: `Scan the TwinCAT library repository and list every installed library.

Examples:
  gotctools libraries
  gotctools libraries --repository "C:\TwinCAT\3.1\Components\Plc\Managed Libraries"
  gotctools libraries --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraries(cmd.Context(), console, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "configfile", "", "gotctools configuration file to use")
	cmd.Flags().StringVar(&opts.repository, "repository", "", "Library repository directory (default from config or the TwinCAT install)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")

	return cmd
}

func runLibraries(ctx context.Context, console *output.Console, opts *librariesOptions) error {
	start := time.Now()

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrEmpty(config.ResolveConfigPath(opts.configFile))
	if err != nil {
		return err
	}
	repo, _ := repositoryPath(opts.repository, cfg)

	libs, err := repository.Scan(ctx, repo)
	if err != nil {
		return err
	}

	if format != output.FormatText {
		out := output.NewLibraryListOutput(repo, start)
		for _, lib := range libs {
			ref := lib.Reference()
			out.Libraries = append(out.Libraries, output.LibraryEntry{
				Title:   ref.Title,
				Version: ref.VersionString(),
				Company: ref.Company,
				Path:    lib.Dir,
			})
		}
		return output.WriteStructured(console.Out(), format, out)
	}

	if len(libs) == 0 {
		console.Info("No libraries found in %s", repo)
		return nil
	}

	console.Header("Libraries in %s:", repo)
	for _, lib := range libs {
		console.Println("  " + lib.Reference().String())
		console.Detail("      %s", lib.Dir)
	}
	return nil
}
