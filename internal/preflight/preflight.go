package preflight

import (
	"context"

	"transcriber/internal/config"
	"transcriber/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Runner executes the Python probes.
type Runner interface {
	Run(ctx context.Context, argv ...string) (string, error)
}

// RunAll executes the directory checks and, when python is resolved, the
// Python module probes.
func RunAll(ctx context.Context, cfg *config.Config, runner Runner, python string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckWorkDirectory("Data directory", cfg.Paths.DataDir),
		CheckWorkDirectory("Output directory", cfg.Paths.OutputDir),
		CheckWorkDirectory("State directory", cfg.Paths.StateDir),
	}
	if runner == nil || python == "" {
		return results
	}
	for _, module := range pythonModules {
		results = append(results, CheckPythonModule(ctx, runner, python, module))
	}
	return results
}

// CheckSystemDeps evaluates the external tools a run would resolve. The
// doctor command and the run preflight share this list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, resolver *deps.Resolver) []deps.Status {
	overrides := deps.Overrides{
		FFmpeg: cfg.Tools.FFmpeg,
		YTDLP:  cfg.Tools.YTDLP,
		Python: cfg.Tools.Python,
	}
	return deps.CheckBinaries(ctx, resolver, deps.Requirements(overrides, cfg.Tools.LibraryMode))
}
