package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/observability"
)

func TestDoctor_Healthy(t *testing.T) {
	dir := t.TempDir()
	console, out := newTestConsole(output.VerbosityNormal)

	opts := &doctorOptions{
		configFile: filepath.Join(dir, "gotctools.config"),
		repository: dir,
		format:     "text",
		runner:     &fakeRunner{version: "1.0.2.0"},
	}
	if err := runDoctor(context.Background(), console, opts); err != nil {
		t.Fatalf("runDoctor() error = %v\n%s", err, out.String())
	}

	got := out.String()
	if !strings.Contains(got, "✓ tcbuild: TcBuild 1.0.2.0") {
		t.Errorf("tcbuild check missing:\n%s", got)
	}
	if !strings.Contains(got, "✓ repository: directory exists") {
		t.Errorf("repository check missing:\n%s", got)
	}
}

func TestDoctor_Unhealthy(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gotctools.config")
	cfg := config.NewConfig()
	cfg.AddLibrarySource(config.LibrarySource{Key: "gone", Value: "missing"})
	if err := config.SaveConfig(configPath, cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	console, out := newTestConsole(output.VerbosityNormal)
	opts := &doctorOptions{
		configFile: configPath,
		repository: dir,
		format:     "yaml",
		runner:     &fakeRunner{version: "1.0.0.0"},
	}

	err := runDoctor(context.Background(), console, opts)
	if !errors.Is(err, ErrUnhealthy) {
		t.Fatalf("runDoctor() error = %v, want ErrUnhealthy", err)
	}

	var decoded output.DoctorOutput
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out.String())
	}
	if decoded.Status != observability.HealthStatusUnhealthy {
		t.Errorf("status = %s, want unhealthy", decoded.Status)
	}

	byName := map[string]output.DoctorCheck{}
	for _, c := range decoded.Checks {
		byName[c.Name] = c
	}
	if c := byName["tcbuild"]; c.Status != observability.HealthStatusUnhealthy ||
		c.Message != "TcBuild version is outdated (got: 1.0.0.0, expected: 1.0.1.0)" {
		t.Errorf("tcbuild check = %+v", c)
	}
	if c := byName["source:gone"]; c.Status != observability.HealthStatusUnhealthy {
		t.Errorf("source check = %+v", c)
	}
	if c := byName["repository"]; c.Status != observability.HealthStatusHealthy {
		t.Errorf("repository check = %+v", c)
	}
}

func TestDoctor_DefaultRepositoryIsOptional(t *testing.T) {
	dir := t.TempDir()
	console, _ := newTestConsole(output.VerbosityNormal)

	opts := &doctorOptions{
		configFile: filepath.Join(dir, "gotctools.config"),
		format:     "text",
		runner:     &fakeRunner{version: "1.0.1.0"},
	}
	// The TwinCAT default path does not exist here; that only degrades.
	if err := runDoctor(context.Background(), console, opts); err != nil {
		t.Errorf("runDoctor() error = %v", err)
	}
}
