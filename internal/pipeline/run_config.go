package pipeline

import (
	"fmt"
	"strings"

	"transcriber/internal/config"
	"transcriber/internal/language"
	"transcriber/internal/services"
	"transcriber/internal/whisper"
)

const defaultOutputDir = "transcripts"

// RunConfig describes one run. The pipeline never mutates it.
type RunConfig struct {
	URL string
	// Language is a selector; "auto" lets the engine detect it.
	Language   string
	Model      string
	FFmpegPath string
	YTDLPPath  string
	// OutputDir receives the documents. Empty means ./transcripts.
	OutputDir string
}

// RunConfigFromConfig seeds a run with the defaults from the config file.
func RunConfigFromConfig(cfg *config.Config, url string) RunConfig {
	rc := RunConfig{URL: url}
	if cfg == nil {
		return rc
	}
	rc.Language = cfg.Transcription.Language
	rc.Model = cfg.Transcription.Model
	rc.FFmpegPath = cfg.Tools.FFmpeg
	rc.YTDLPPath = cfg.Tools.YTDLP
	rc.OutputDir = cfg.Paths.OutputDir
	return rc
}

// Validate reports configuration errors a run cannot recover from.
func (c RunConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return services.Wrap(services.ErrConfiguration, "validating", "url", "a URL is required", nil)
	}
	model := strings.TrimSpace(c.Model)
	if model != "" && !whisper.ValidModel(model) {
		return services.Wrap(services.ErrConfiguration, "validating", "model",
			fmt.Sprintf("unknown model %q (choose one of %s)", model, strings.Join(whisper.Models, ", ")), nil)
	}
	if err := language.Validate(c.Language); err != nil {
		return services.Wrap(services.ErrConfiguration, "validating", "language", err.Error(), nil)
	}
	return nil
}

// normalized returns a copy with defaults applied and the language selector
// trimmed and lowercased.
func (c RunConfig) normalized() RunConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Language = language.Normalize(c.Language)
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		c.Model = whisper.DefaultModel
	}
	c.FFmpegPath = strings.TrimSpace(c.FFmpegPath)
	c.YTDLPPath = strings.TrimSpace(c.YTDLPPath)
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = defaultOutputDir
	}
	return c
}
