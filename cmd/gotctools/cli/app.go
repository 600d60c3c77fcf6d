package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/cmd/gotctools/version"
	"github.com/willibrandon/gotctools/observability"
)

var rootCmd = &cobra.Command{
	Use:   "gotctools",
	Short: "TwinCAT library dependency and build tool",
	Long: `gotctools resolves library dependencies of TwinCAT solutions, computes a
build order and drives TcBuild to build and install libraries in that order.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

var (
	tracerProvider *sdktrace.TracerProvider
	metricsServer  *http.Server
)

func init() {
	Console = output.DefaultConsole()

	flags := rootCmd.PersistentFlags()
	flags.String("configfile", "", "gotctools configuration file to use")
	flags.String("verbosity", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")
	flags.String("trace", "", "Trace exporter (none, stdout, otlp)")
	flags.String("otlp-endpoint", "", "OTLP gRPC endpoint for --trace otlp")
}

// Execute runs the root command and shuts down tracing and metrics afterwards
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// SetupVersion configures version information
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	verbosityFlag, _ := flags.GetString("verbosity")
	verbosity, ok := output.ParseVerbosity(verbosityFlag)
	if !ok {
		return fmt.Errorf("invalid verbosity %q: must be quiet, normal, detailed or diagnostic", verbosityFlag)
	}
	Console.SetVerbosity(verbosity)

	configFile, _ := flags.GetString("configfile")
	cfg, err := config.LoadOrEmpty(config.ResolveConfigPath(configFile))
	if err != nil {
		return err
	}

	traceCfg := observability.DefaultTracerConfig()
	traceCfg.ServiceVersion = version.Version
	traceCfg.Output = Console.Err()
	traceCfg.ExporterType = firstNonEmpty(flagValue(cmd, "trace"), cfg.GetConfigValue(config.KeyTrace), observability.ExporterNone)
	traceCfg.OTLPEndpoint = firstNonEmpty(flagValue(cmd, "otlp-endpoint"), cfg.GetConfigValue(config.KeyOTLPEndpoint), observability.DefaultOTLPEndpoint)

	tp, err := observability.SetupTracing(cmd.Context(), traceCfg)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	tracerProvider = tp

	if addr, _ := flags.GetString("metrics-addr"); addr != "" {
		metricsServer = startMetrics(addr)
	}
	return nil
}

func startMetrics(addr string) *http.Server {
	srv := observability.NewMetricsServer(addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Console.Warning("metrics server on %s stopped: %v", addr, err)
		}
	}()
	Console.Detail("Serving metrics on %s/metrics", addr)
	return srv
}

func shutdown(ctx context.Context) error {
	var errs []error
	if metricsServer != nil {
		errs = append(errs, metricsServer.Shutdown(ctx))
		metricsServer = nil
	}
	if tracerProvider != nil {
		errs = append(errs, observability.ShutdownTracing(ctx, tracerProvider))
		tracerProvider = nil
	}
	return errors.Join(errs...)
}

func flagValue(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
