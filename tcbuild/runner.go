package tcbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultExecutable is looked up on PATH when no executable is configured.
const DefaultExecutable = "tcbuild.exe"

// ErrNotFound is returned by a Runner when the executable cannot be started.
var ErrNotFound = errors.New("TcBuild not installed or not available on PATH")

// Result holds the outcome of one tcbuild invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns the console output of the run. tcbuild reports problems on
// stderr, so stderr wins when it is not empty.
func (r *Result) Output() string {
	if r.Stderr != "" {
		return strings.TrimSpace(r.Stderr)
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner starts tcbuild with the given arguments. A non-zero exit code is
// reported in the Result, not as an error.
type Runner interface {
	Run(ctx context.Context, args ...string) (*Result, error)
}

// ExecRunner runs tcbuild as a child process.
type ExecRunner struct {
	// Executable is the tcbuild path or name. Empty means DefaultExecutable.
	Executable string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (*Result, error) {
	executable := r.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("tcbuild %s: %w", strings.Join(args, " "), ctxErr)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("tcbuild %s: %w", strings.Join(args, " "), err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
