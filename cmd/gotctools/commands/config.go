package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
)

// ErrKeyNotFound is returned by config get for an unset key
var ErrKeyNotFound = errors.New("key not found")

type configOptions struct {
	configFile string
}

// NewConfigCommand creates the config command with get/set/unset/paths subcommands
func NewConfigCommand(console *output.Console) *cobra.Command {
	opts := &configOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gotctools configuration",
		Long: `Gets, sets, unsets, or displays paths for gotctools configuration values.

Known keys:
  libraryRepository  Directory of installed libraries
  tcbuildPath        TcBuild executable
  trace              Trace exporter (none, stdout, otlp)
  otlpEndpoint       OTLP gRPC endpoint

Examples:
  gotctools config get libraryRepository
  gotctools config get all
  gotctools config set tcbuildPath "C:\Tools\TcBuild\tcbuild.exe"
  gotctools config unset tcbuildPath
  gotctools config paths`,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "configfile", "", "gotctools configuration file to use")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <all-or-config-key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(console, args[0], opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <config-key> <config-value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(console, args[0], args[1], opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unset <config-key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUnset(console, args[0], opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Display configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPaths(console)
		},
	})

	return cmd
}

func runConfigGet(console *output.Console, allOrConfigKey string, opts *configOptions) error {
	configPath := config.ResolveConfigPath(opts.configFile)
	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if strings.EqualFold(allOrConfigKey, "all") {
		listAllConfig(console, cfg)
		return nil
	}

	value := cfg.GetConfigValue(allOrConfigKey)
	if value == "" {
		return fmt.Errorf("%w: '%s'", ErrKeyNotFound, allOrConfigKey)
	}
	console.Println(value)
	return nil
}

func runConfigSet(console *output.Console, configKey, configValue string, opts *configOptions) error {
	if !config.IsKnownKey(configKey) {
		return fmt.Errorf("'%s' is not a valid config key. Valid keys: %s", configKey, strings.Join(config.KnownKeys, ", "))
	}

	configPath := config.ResolveConfigPath(opts.configFile)
	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.SetConfigValue(configKey, configValue)

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	console.Println(fmt.Sprintf("Successfully updated config file at '%s'.", configPath))
	return nil
}

func runConfigUnset(console *output.Console, configKey string, opts *configOptions) error {
	configPath := config.ResolveConfigPath(opts.configFile)
	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.DeleteConfigValue(configKey) {
		return fmt.Errorf("%w: '%s'", ErrKeyNotFound, configKey)
	}

	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	console.Println(fmt.Sprintf("Successfully updated config file at '%s'.", configPath))
	return nil
}

func runConfigPaths(console *output.Console) error {
	console.Println("gotctools configuration file paths:")
	for _, path := range config.DefaultConfigLocations() {
		exists := "✗"
		if _, err := os.Stat(path); err == nil {
			exists = "✓"
		}
		console.Printf("  %s %s\n", exists, path)
	}
	return nil
}

func listAllConfig(console *output.Console, cfg *config.Config) {
	console.Println("librarySources:")
	if cfg.LibrarySources != nil {
		for _, src := range cfg.LibrarySources.Add {
			console.Printf("\tkey=%q value=%q\n", src.Key, src.Value)
		}
	}
	console.Println()
	console.Println("config:")
	if cfg.Config != nil {
		for _, item := range cfg.Config.Add {
			console.Printf("\tkey=%q value=%q\n", item.Key, item.Value)
		}
	}
}
