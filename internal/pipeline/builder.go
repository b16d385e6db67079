package pipeline

import (
	"context"
	"log/slog"

	"transcriber/internal/acquire"
	"transcriber/internal/backend"
	"transcriber/internal/command"
	"transcriber/internal/config"
	"transcriber/internal/deps"
	"transcriber/internal/whisper"
)

// BackendSelector picks the compute device.
type BackendSelector interface {
	Select(ctx context.Context) (backend.Device, error)
}

// Acquirer turns a URL into validated audio items.
type Acquirer interface {
	Acquire(ctx context.Context, url, dir string) ([]acquire.MediaItem, error)
}

// Engine loads a model and transcribes items with it.
type Engine interface {
	LoadModel(ctx context.Context, name string, device backend.Device) (*whisper.Model, error)
	Transcribe(ctx context.Context, model *whisper.Model, item acquire.MediaItem, language string) (whisper.Result, error)
}

// Toolchain is the set of per-run collaborators bound to resolved tools.
type Toolchain struct {
	Selector BackendSelector
	Acquirer Acquirer
	Engine   Engine
}

// Builder resolves tools and assembles the toolchain for a run. Both calls
// receive the run logger so component output reaches the event stream.
type Builder interface {
	ResolveTools(ctx context.Context, overrides deps.Overrides, logger *slog.Logger) (deps.ToolPaths, error)
	Toolchain(ctx context.Context, tools deps.ToolPaths, logger *slog.Logger) (Toolchain, error)
}

// SystemBuilder wires the real resolver, runner, selector, acquirer, and
// engine from the runtime configuration.
type SystemBuilder struct {
	LibraryMode  bool
	AutoInstall  bool
	CUDAIndexURL string
	CPUIndexURL  string
}

// NewSystemBuilder reads the builder settings from cfg.
func NewSystemBuilder(cfg *config.Config) *SystemBuilder {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &SystemBuilder{
		LibraryMode:  cfg.Tools.LibraryMode,
		AutoInstall:  cfg.Runtime.AutoInstall,
		CUDAIndexURL: cfg.Runtime.CUDAIndexURL,
		CPUIndexURL:  cfg.Runtime.CPUIndexURL,
	}
}

func (b *SystemBuilder) ResolveTools(ctx context.Context, overrides deps.Overrides, logger *slog.Logger) (deps.ToolPaths, error) {
	return deps.NewResolver(logger).ResolveTools(ctx, overrides, b.LibraryMode)
}

func (b *SystemBuilder) Toolchain(ctx context.Context, tools deps.ToolPaths, logger *slog.Logger) (Toolchain, error) {
	runner := command.NewRunner(logger, whisper.Env(nil, tools.FFmpeg))
	resolver := deps.NewResolver(logger)

	selector := backend.NewSelector(runner, backend.Options{
		Python:       tools.Python,
		AutoInstall:  b.AutoInstall,
		CUDAIndexURL: b.CUDAIndexURL,
		CPUIndexURL:  b.CPUIndexURL,
		HasNVIDIA:    func() bool { return resolver.OnPath("nvidia-smi") },
	}, logger)

	strategy, err := acquire.SelectStrategy(ctx, runner, acquire.SelectOptions{
		LibraryMode: b.LibraryMode,
		AutoInstall: b.AutoInstall,
		YTDLP:       tools.YTDLP,
		FFmpeg:      tools.FFmpeg,
	}, logger)
	if err != nil {
		return Toolchain{}, err
	}

	return Toolchain{
		Selector: selector,
		Acquirer: acquire.New(strategy, acquire.NewConverter(runner, tools.FFmpeg, logger), logger),
		Engine:   whisper.NewEngine(runner, tools.Python, logger),
	}, nil
}
