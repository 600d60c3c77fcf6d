// Package tcbuild drives the TcBuild command line tool, which compiles
// TwinCAT solutions and installs PLC projects as libraries.
package tcbuild

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/willibrandon/gotctools/observability"
	"github.com/willibrandon/gotctools/version"
)

// MinimumVersion is the oldest supported TcBuild release.
var MinimumVersion = version.MustParse("1.0.1.0")

// ErrUnavailable matches every ToolUnavailableError.
var ErrUnavailable = errors.New("tcbuild unavailable")

// ToolUnavailableError is returned when TcBuild is missing, broken or too old.
type ToolUnavailableError struct {
	Reason string
}

func (e *ToolUnavailableError) Error() string {
	return e.Reason
}

// Is reports true for ErrUnavailable.
func (e *ToolUnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// Client invokes TcBuild.
type Client struct {
	runner Runner
	logger observability.Logger

	// verified is set once a version check succeeded.
	verified *version.Version
}

// Option configures a Client.
type Option func(*Client)

// WithRunner sets the runner used to start TcBuild.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// WithExecutable runs TcBuild from the given path.
func WithExecutable(path string) Option {
	return func(c *Client) {
		c.runner = &ExecRunner{Executable: path}
	}
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client running DefaultExecutable from PATH unless
// configured otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		runner: &ExecRunner{},
		logger: observability.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run runs TcBuild with args and returns its exit code and console output.
func (c *Client) Run(ctx context.Context, args ...string) (int, string, error) {
	res, err := c.runner.Run(ctx, args...)
	if err != nil {
		return 0, "", err
	}
	return res.ExitCode, res.Output(), nil
}

// Version returns the installed TcBuild version. Any reason TcBuild cannot
// be used is reported as a *ToolUnavailableError.
func (c *Client) Version(ctx context.Context) (*version.Version, error) {
	if c.verified != nil {
		return c.verified, nil
	}

	code, output, err := c.Run(ctx, "--version")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ToolUnavailableError{Reason: ErrNotFound.Error()}
		}
		return nil, err
	}
	if code != 0 {
		return nil, &ToolUnavailableError{
			Reason: fmt.Sprintf("TcBuild exited with returncode %d: \"%s\"", code, output),
		}
	}

	v, err := version.Parse(output)
	if err != nil {
		return nil, &ToolUnavailableError{
			Reason: fmt.Sprintf("TcBuild returned unexpected version string: \"%s\"", output),
		}
	}
	if v.LessThan(MinimumVersion) {
		return nil, &ToolUnavailableError{
			Reason: fmt.Sprintf("TcBuild version is outdated (got: %s, expected: %s)", v, MinimumVersion),
		}
	}

	c.verified = v
	return v, nil
}

// CheckAvailable reports whether TcBuild can be used and, if not, why.
func (c *Client) CheckAvailable(ctx context.Context) (bool, string) {
	if _, err := c.Version(ctx); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// RequireAvailable returns an error when TcBuild cannot be used.
func (c *Client) RequireAvailable(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}

// Build builds the solution at path. A failed build is reported as false
// with the TcBuild output, not as an error.
func (c *Client) Build(ctx context.Context, path string) (bool, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, "", err
	}
	return c.step(ctx, "build", abs, "build", abs)
}

// Install installs PLC project plcProject of XAE project xaeProject in the
// solution at path as a library. libraryFile is optional.
func (c *Client) Install(ctx context.Context, path, xaeProject, plcProject, libraryFile string) (bool, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, "", err
	}
	args := []string{"install", abs, "--xaeproject", xaeProject, "--plcproject", plcProject}
	if libraryFile != "" {
		args = append(args, "--libraryfile", libraryFile)
	}
	return c.step(ctx, "install", abs, args...)
}

func (c *Client) step(ctx context.Context, operation, path string, args ...string) (ok bool, details string, err error) {
	ctx, span := observability.StartTcBuildSpan(ctx, operation, path)
	start := time.Now()
	defer func() {
		status := "success"
		switch {
		case err != nil:
			status = "error"
		case !ok:
			status = "failure"
		}
		observability.BuildStepsTotal.WithLabelValues(operation, status).Inc()
		observability.BuildStepDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		if err == nil && !ok {
			observability.EndSpanWithError(span, errors.New(details))
		} else {
			observability.EndSpanWithError(span, err)
		}
	}()

	if err := c.RequireAvailable(ctx); err != nil {
		return false, "", err
	}

	c.logger.Info("Running tcbuild {Operation} on {Path}", operation, path)
	code, output, err := c.Run(ctx, args...)
	if err != nil {
		return false, "", err
	}
	if code != 0 {
		c.logger.Warn("tcbuild {Operation} on {Path} failed with exit code {ExitCode}", operation, path, code)
		return false, fmt.Sprintf("TcBuild exited with code %d. Details:\n%s", code, output), nil
	}
	return true, "", nil
}
