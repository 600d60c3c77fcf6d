package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/project"
)

// sourceOptions holds common options for all source commands
type sourceOptions struct {
	configFile string
	name       string
	path       string
	format     string
}

// NewSourceCommand creates the source command for managing library source directories
func NewSourceCommand(console *output.Console) *cobra.Command {
	opts := &sourceOptions{}

	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage library source directories",
		Long: `Library sources are directories searched for the solutions of libraries.
Every PLC project found there that publishes a library can satisfy a reference
and is built before the projects that use it.

Examples:
  gotctools source add ../libs --name shared
  gotctools source list
  gotctools source disable shared
  gotctools source remove shared`,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "configfile", "", "gotctools configuration file to use")

	add := &cobra.Command{
		Use:   "add <SOURCE_DIRECTORY>",
		Short: "Add a library source directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]
			return runSourceAdd(console, opts)
		},
	}
	add.Flags().StringVarP(&opts.name, "name", "n", "", "Name of the source")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List library sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourceList(console, opts)
		},
	}
	list.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")

	cmd.AddCommand(add, list,
		&cobra.Command{
			Use:   "remove <NAME>",
			Short: "Remove a library source",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSourceRemove(console, args[0], opts)
			},
		},
		&cobra.Command{
			Use:   "enable <NAME>",
			Short: "Enable a library source",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSourceSetEnabled(console, args[0], true, opts)
			},
		},
		&cobra.Command{
			Use:   "disable <NAME>",
			Short: "Disable a library source",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSourceSetEnabled(console, args[0], false, opts)
			},
		},
	)

	return cmd
}

// statusString returns the status of a source for display
func statusString(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}

func loadSourceConfig(configFile string) (*config.Config, string, error) {
	configPath := config.ResolveConfigPath(configFile)
	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, configPath, nil
}

func runSourceAdd(console *output.Console, opts *sourceOptions) error {
	if _, err := project.ResolvePath(opts.path, project.Directory); err != nil {
		return err
	}

	cfg, configPath, err := loadSourceConfig(opts.configFile)
	if err != nil {
		return err
	}

	if cfg.GetLibrarySource(opts.name) != nil {
		return fmt.Errorf("library source with name '%s' already exists", opts.name)
	}

	cfg.AddLibrarySource(config.LibrarySource{
		Key:     opts.name,
		Value:   opts.path,
		Enabled: "true",
	})

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	console.Success("Library source with name '%s' added successfully.", opts.name)
	return nil
}

func runSourceRemove(console *output.Console, name string, opts *sourceOptions) error {
	cfg, configPath, err := loadSourceConfig(opts.configFile)
	if err != nil {
		return err
	}

	if !cfg.RemoveLibrarySource(name) {
		return fmt.Errorf("unable to find any library source(s) matching name: %s", name)
	}

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	console.Success("Library source with name '%s' removed successfully.", name)
	return nil
}

func runSourceSetEnabled(console *output.Console, name string, enabled bool, opts *sourceOptions) error {
	cfg, configPath, err := loadSourceConfig(opts.configFile)
	if err != nil {
		return err
	}

	src := cfg.GetLibrarySource(name)
	if src == nil {
		return fmt.Errorf("unable to find any library source(s) matching name: %s", name)
	}
	src.Enabled = fmt.Sprintf("%t", enabled)

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	console.Success("Library source '%s' was successfully %s.", name, strings.ToLower(statusString(enabled)))
	return nil
}

func runSourceList(console *output.Console, opts *sourceOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, configPath, err := loadSourceConfig(opts.configFile)
	if err != nil {
		return err
	}

	var sources []config.LibrarySource
	if cfg.LibrarySources != nil {
		sources = cfg.LibrarySources.Add
	}

	if format != output.FormatText {
		out := &output.SourceListOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			ConfigFile:    configPath,
			Sources:       []output.SourceEntry{},
		}
		for _, src := range sources {
			out.Sources = append(out.Sources, output.SourceEntry{
				Name:    src.Key,
				Path:    config.ResolveValuePath(filepath.Dir(configPath), src.Value),
				Enabled: src.IsEnabled(),
			})
		}
		return output.WriteStructured(console.Out(), format, out)
	}

	if len(sources) == 0 {
		console.Println("No library sources found.")
		return nil
	}

	console.Println("Registered Sources:")
	for i, src := range sources {
		console.Printf("  %d.  %s [%s]\n", i+1, src.Key, statusString(src.IsEnabled()))
		console.Printf("      %s\n", src.Value)
	}
	return nil
}
