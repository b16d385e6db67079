package deps

import (
	"context"
	"fmt"
	"strings"
)

// Requirement defines an external dependency the transcriber relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands are located with the same rules as Resolve so the doctor report
// matches what a run would use.
func CheckBinaries(ctx context.Context, resolver *Resolver, requirements []Requirement) []Status {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := resolver.find(ctx, cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Requirements lists the tools a run needs given the configured overrides.
func Requirements(overrides Overrides, libraryMode bool) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: orDefault(overrides.FFmpeg, "ffmpeg"), Description: "Audio extraction and WAV conversion"},
		{Name: "yt-dlp", Command: orDefault(overrides.YTDLP, "yt-dlp"), Description: "Media download", Optional: libraryMode},
		{Name: "Python", Command: orDefault(overrides.Python, pythonCandidates()[0]), Description: "Whisper runtime"},
		{Name: "nvidia-smi", Command: "nvidia-smi", Description: "CUDA detection", Optional: true},
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
