package commands

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/observability"
	"github.com/willibrandon/gotctools/tcbuild"
)

// ErrUnhealthy is returned by doctor when a required check fails
var ErrUnhealthy = errors.New("environment is not ready")

type doctorOptions struct {
	configFile string
	repository string
	tcbuild    string
	format     string

	// runner replaces the TcBuild process in tests
	runner tcbuild.Runner
}

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(console *output.Console) *cobra.Command {
	opts := &doctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the build environment is usable",
		Long: `Check that TcBuild is installed and recent enough, and that the library
repository and every enabled library source directory exist.

Examples:
  gotctools doctor
  gotctools doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), console, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "configfile", "", "gotctools configuration file to use")
	cmd.Flags().StringVar(&opts.repository, "repository", "", "Library repository directory (default from config or the TwinCAT install)")
	cmd.Flags().StringVar(&opts.tcbuild, "tcbuild", "", "TcBuild executable (default from config or tcbuild.exe on PATH)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")

	return cmd
}

func runDoctor(ctx context.Context, console *output.Console, opts *doctorOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	configPath := config.ResolveConfigPath(opts.configFile)
	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return err
	}

	checker := observability.NewHealthChecker()

	client := newTcBuildClient(cfg, opts.tcbuild, opts.runner, newLogger(console))
	checker.Register(observability.ProbeHealthCheck("tcbuild", func(ctx context.Context) (string, error) {
		v, err := client.Version(ctx)
		if err != nil {
			return "", err
		}
		return "TcBuild " + v.String(), nil
	}))

	repo, explicit := repositoryPath(opts.repository, cfg)
	checker.Register(observability.DirectoryHealthCheck("repository", repo, !explicit))

	if cfg.LibrarySources != nil {
		baseDir := filepath.Dir(configPath)
		for _, src := range cfg.LibrarySources.Add {
			if !src.IsEnabled() {
				continue
			}
			path := config.ResolveValuePath(baseDir, src.Value)
			checker.Register(observability.DirectoryHealthCheck("source:"+src.Key, path, false))
		}
	}

	results := checker.Check(ctx)
	overall := observability.OverallStatus(results)

	if format != output.FormatText {
		out := &output.DoctorOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			Status:        overall,
			Checks:        []output.DoctorCheck{},
		}
		for _, name := range checker.Names() {
			r := results[name]
			out.Checks = append(out.Checks, output.DoctorCheck{
				Name:    name,
				Status:  r.Status,
				Message: r.Message,
				Details: r.Details,
			})
		}
		if err := output.WriteStructured(console.Out(), format, out); err != nil {
			return err
		}
	} else {
		for _, name := range checker.Names() {
			printCheck(console, name, results[name])
		}
	}

	if overall == observability.HealthStatusUnhealthy {
		return ErrUnhealthy
	}
	return nil
}

func printCheck(console *output.Console, name string, r observability.HealthCheckResult) {
	switch r.Status {
	case observability.HealthStatusHealthy:
		console.Success("✓ %s: %s", name, r.Message)
	case observability.HealthStatusDegraded:
		console.Warning("%s: %s", name, r.Message)
	default:
		console.Error("%s: %s", name, r.Message)
	}
	if path, ok := r.Details["path"]; ok {
		console.Detail("    %s", path)
	}
}
