package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
)

func TestOrder_Text(t *testing.T) {
	ws := newTestWorkspace(t)
	console, out := newTestConsole(output.VerbosityNormal)

	opts := &orderOptions{workspaceOptions: ws.options(), format: "text"}
	if err := runOrder(context.Background(), console, ws.app, opts); err != nil {
		t.Fatalf("runOrder() error = %v", err)
	}

	got := lines(out.String())
	if len(got) != 3 {
		t.Fatalf("order has %d steps, want 3:\n%s", len(got), out.String())
	}
	wantSuffix := []string{
		"LibB.plcproj [LibB, 1.2.0.0 (Industrial Brains B.V.)]",
		"LibA.plcproj [LibA, 1.0.0.0 (Industrial Brains B.V.)]",
		"App.sln",
	}
	for i, want := range wantSuffix {
		if !strings.HasSuffix(got[i], want) {
			t.Errorf("step %d = %q, want suffix %q", i+1, got[i], want)
		}
	}
	if !strings.HasPrefix(got[0], "  1. ") {
		t.Errorf("steps should be numbered, got %q", got[0])
	}
}

func TestOrder_MissingLibraries(t *testing.T) {
	ws := newTestWorkspace(t)
	console, out := newTestConsole(output.VerbosityNormal)

	opts := &orderOptions{workspaceOptions: ws.options(), format: "text"}
	opts.noRepository = true

	err := runOrder(context.Background(), console, ws.app, opts)
	if !errors.Is(err, dependency.ErrMissingLibraries) {
		t.Fatalf("runOrder() error = %v, want ErrMissingLibraries", err)
	}
	if !strings.Contains(out.String(), "Tc2_Standard, * (Beckhoff Automation GmbH)") {
		t.Errorf("missing library should be listed, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "App.sln") {
		t.Errorf("no partial order should be printed, got:\n%s", out.String())
	}
}

func TestOrder_YAML(t *testing.T) {
	ws := newTestWorkspace(t)
	console, out := newTestConsole(output.VerbosityNormal)

	opts := &orderOptions{workspaceOptions: ws.options(), format: "yaml"}
	if err := runOrder(context.Background(), console, ws.app, opts); err != nil {
		t.Fatalf("runOrder() error = %v", err)
	}

	var decoded output.OrderOutput
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out.String())
	}
	if len(decoded.Steps) != 3 {
		t.Fatalf("steps = %+v, want 3", decoded.Steps)
	}
	if decoded.Steps[0].Kind != "buildunit" || decoded.Steps[0].Library == "" {
		t.Errorf("first step = %+v, want a library PLC project", decoded.Steps[0])
	}
	last := decoded.Steps[2]
	if last.Kind != "solution" || filepath.Base(last.Path) != "App.sln" || last.Index != 3 {
		t.Errorf("last step = %+v, want the root solution", last)
	}
}

func TestOrder_JSONWithMissing(t *testing.T) {
	ws := newTestWorkspace(t)
	console, out := newTestConsole(output.VerbosityNormal)

	opts := &orderOptions{workspaceOptions: ws.options(), format: "json"}
	opts.libraries = nil

	err := runOrder(context.Background(), console, ws.app, opts)
	if !errors.Is(err, dependency.ErrMissingLibraries) {
		t.Fatalf("runOrder() error = %v, want ErrMissingLibraries", err)
	}
	if !strings.Contains(out.String(), `"LibA, * (Industrial Brains B.V.)"`) {
		t.Errorf("JSON should list the missing library, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `"steps": []`) {
		t.Errorf("JSON should have no steps, got:\n%s", out.String())
	}
}
