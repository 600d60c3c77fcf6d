package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/willibrandon/gotctools/cmd/gotctools/config"
	"github.com/willibrandon/gotctools/cmd/gotctools/output"
	"github.com/willibrandon/gotctools/dependency"
	"github.com/willibrandon/gotctools/observability"
	"github.com/willibrandon/gotctools/repository"
	"github.com/willibrandon/gotctools/solution"
)

// workspaceOptions holds the flags shared by commands that resolve a solution
type workspaceOptions struct {
	configFile   string
	libraries    []string
	repository   string
	noRepository bool
}

func addWorkspaceFlags(cmd *cobra.Command, opts *workspaceOptions) {
	cmd.Flags().StringVar(&opts.configFile, "configfile", "", "gotctools configuration file to use")
	cmd.Flags().StringArrayVarP(&opts.libraries, "libraries", "l", nil, "Directory searched for library solutions (repeatable)")
	cmd.Flags().StringVar(&opts.repository, "repository", "", "Library repository directory (default from config or the TwinCAT install)")
	cmd.Flags().BoolVar(&opts.noRepository, "no-repository", false, "Do not use pre-built libraries from the library repository")
}

// workspace is a root solution together with the candidate pool it is
// resolved against
type workspace struct {
	sessionID string
	solution  *solution.Solution
	pool      *dependency.Pool
	config    *config.Config
	logger    observability.Logger
}

func loadWorkspace(ctx context.Context, console *output.Console, solutionPath string, opts *workspaceOptions) (*workspace, error) {
	sessionID := uuid.New().String()
	logger := newLogger(console).ForContext("SessionId", sessionID)

	root, err := loadSolution(ctx, solutionPath, sessionID)
	if err != nil {
		return nil, err
	}

	cfgPath := config.ResolveConfigPath(opts.configFile)
	cfg, err := config.LoadOrEmpty(cfgPath)
	if err != nil {
		return nil, err
	}

	builder := dependency.NewPoolBuilder()

	dirs := append(append([]string(nil), opts.libraries...), cfg.EnabledLibraryDirs(filepath.Dir(cfgPath))...)
	for _, dir := range dirs {
		if err := addLibrarySolutions(ctx, builder, dir, console); err != nil {
			return nil, err
		}
	}

	if !opts.noRepository {
		repo, explicit := repositoryPath(opts.repository, cfg)
		libs, err := repository.Scan(ctx, repo)
		switch {
		case err == nil:
			for _, lib := range libs {
				builder.AddLibrary(lib)
			}
			console.Detail("Found %d libraries in %s", len(libs), repo)
		case !explicit && errors.Is(err, fs.ErrNotExist):
			console.Detail("Library repository %s not found, continuing without pre-built libraries", repo)
		default:
			return nil, err
		}
	}

	pool := builder.Build()
	logger.Info("Loaded {Solution} with {CandidateCount} candidate libraries", root.Path(), pool.Len())

	return &workspace{
		sessionID: sessionID,
		solution:  root,
		pool:      pool,
		config:    cfg,
		logger:    logger,
	}, nil
}

// resolve builds the dependency tree of the workspace's root solution
func (w *workspace) resolve(ctx context.Context) (*dependency.Tree, error) {
	resolver := dependency.NewResolver(dependency.WithLogger(w.logger))
	return resolver.Resolve(ctx, dependency.SolutionOrigin{Solution: w.solution}, w.pool)
}

func loadSolution(ctx context.Context, path, sessionID string) (sol *solution.Solution, err error) {
	_, span := observability.StartSolutionLoadSpan(ctx, path)
	span.SetAttributes(observability.AttrSessionID.String(sessionID))
	defer func() { observability.EndSpanWithError(span, err) }()

	return solution.Load(path)
}

func addLibrarySolutions(ctx context.Context, builder *dependency.PoolBuilder, dir string, console *output.Console) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sols, err := solution.LoadAll(dir)
	if err != nil {
		return fmt.Errorf("failed to load library solutions from %s: %w", dir, err)
	}
	for _, sol := range sols {
		if err := builder.AddSolution(sol); err != nil {
			return err
		}
	}
	console.Detail("Found %d library solutions in %s", len(sols), dir)
	return nil
}

// repositoryPath returns the library repository to scan and whether it was
// chosen explicitly rather than defaulted.
func repositoryPath(flag string, cfg *config.Config) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if v := cfg.GetConfigValue(config.KeyLibraryRepository); v != "" {
		return v, true
	}
	return repository.DefaultPath, false
}

func newLogger(console *output.Console) observability.Logger {
	level := observability.WarnLevel
	switch console.GetVerbosity() {
	case output.VerbosityQuiet:
		level = observability.ErrorLevel
	case output.VerbosityDetailed:
		level = observability.InfoLevel
	case output.VerbosityDiagnostic:
		level = observability.DebugLevel
	}
	return observability.NewLogger(console.Err(), level)
}
