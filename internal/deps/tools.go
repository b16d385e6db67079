package deps

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"transcriber/internal/services"
)

// Overrides carries user-supplied tool locations. Empty fields mean discover.
type Overrides struct {
	FFmpeg string
	YTDLP  string
	Python string
}

// ToolPaths holds the executables a run uses. YTDLP may be empty when the
// downloader can provision its own binary.
type ToolPaths struct {
	FFmpeg string
	YTDLP  string
	Python string
}

// ResolveTools locates every tool for a run. FFmpeg and Python are required.
// yt-dlp is required unless ytdlpOptional is set.
func (r *Resolver) ResolveTools(ctx context.Context, overrides Overrides, ytdlpOptional bool) (ToolPaths, error) {
	var paths ToolPaths
	var err error

	if paths.FFmpeg, err = r.resolveRequired(ctx, "ffmpeg", overrides.FFmpeg); err != nil {
		return ToolPaths{}, err
	}

	paths.YTDLP, err = r.Resolve(ctx, "yt-dlp", overrides.YTDLP)
	if err != nil {
		if strings.TrimSpace(overrides.YTDLP) != "" || !ytdlpOptional {
			return ToolPaths{}, missingTool("yt-dlp", overrides.YTDLP, err)
		}
		r.logger.Info("yt-dlp not found on PATH; the downloader will provision its own build")
		paths.YTDLP = ""
	}

	if paths.Python, err = r.resolvePython(ctx, overrides.Python); err != nil {
		return ToolPaths{}, err
	}

	r.logger.Info("Environment check passed.")
	return paths, nil
}

func (r *Resolver) resolveRequired(ctx context.Context, name, override string) (string, error) {
	path, err := r.Resolve(ctx, name, override)
	if err != nil {
		return "", missingTool(name, override, err)
	}
	return path, nil
}

func (r *Resolver) resolvePython(ctx context.Context, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return r.resolveRequired(ctx, "python", override)
	}
	var lastErr error
	for _, candidate := range pythonCandidatesFor(r.goos) {
		path, err := r.Resolve(ctx, candidate, "")
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", missingTool("python", "", lastErr)
}

func missingTool(name, override string, err error) error {
	if strings.TrimSpace(override) != "" {
		return services.Wrap(services.ErrConfiguration, "resolving_environment", name, err.Error(), nil)
	}
	return services.Wrap(services.ErrConfiguration, "resolving_environment", name,
		fmt.Sprintf("missing required tool in PATH: %s", name), err)
}

func pythonCandidates() []string {
	return pythonCandidatesFor(runtime.GOOS)
}

func pythonCandidatesFor(goos string) []string {
	if goos == "windows" {
		return []string{"python", "py", "python3"}
	}
	return []string{"python3", "python"}
}
