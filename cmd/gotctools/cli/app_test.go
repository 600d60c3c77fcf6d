package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/cmd/gotctools/version"
)

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != version.Version {
		t.Errorf("GetVersion() = %v, want %v", got, version.Version)
	}
}

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); !strings.HasPrefix(got, "gotctools version") {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

// testCommand declares the root persistent flags locally so setup can read them.
func testCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	for _, name := range []string{"configfile", "verbosity", "metrics-addr", "trace", "otlp-endpoint"} {
		cmd.Flags().String(name, "", "")
	}
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}
	cmd.SetContext(context.Background())
	return cmd
}

func TestSetup(t *testing.T) {
	missingConfig := filepath.Join(t.TempDir(), "gotctools.config")

	tests := []struct {
		name    string
		flags   map[string]string
		wantErr string
	}{
		{
			name:  "defaults",
			flags: map[string]string{"configfile": missingConfig},
		},
		{
			name:  "stdout tracing",
			flags: map[string]string{"configfile": missingConfig, "trace": "stdout", "verbosity": "quiet"},
		},
		{
			name:    "invalid verbosity",
			flags:   map[string]string{"configfile": missingConfig, "verbosity": "loud"},
			wantErr: "invalid verbosity",
		},
		{
			name:    "unknown exporter",
			flags:   map[string]string{"configfile": missingConfig, "trace": "zipkin"},
			wantErr: "failed to set up tracing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				_ = shutdown(context.Background())
				Console.SetVerbosity(output.VerbosityNormal)
			})

			err := setup(testCommand(t, tt.flags), nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("setup() error = %v", err)
				}
				if tracerProvider == nil {
					t.Error("setup() should install a tracer provider")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("setup() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetup_QuietVerbosity(t *testing.T) {
	t.Cleanup(func() {
		_ = shutdown(context.Background())
		Console.SetVerbosity(output.VerbosityNormal)
	})

	cmd := testCommand(t, map[string]string{
		"configfile": filepath.Join(t.TempDir(), "none.config"),
		"verbosity":  "q",
	})
	if err := setup(cmd, nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if Console.GetVerbosity() != output.VerbosityQuiet {
		t.Errorf("verbosity = %v, want quiet", Console.GetVerbosity())
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want %q", got, "b")
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
