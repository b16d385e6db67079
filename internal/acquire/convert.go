package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"transcriber/internal/logging"
)

// Converter rewrites audio files into mono 16 kHz PCM WAV with ffmpeg.
type Converter struct {
	runner Runner
	ffmpeg string
	logger *slog.Logger
}

// NewConverter binds a converter to an ffmpeg executable.
func NewConverter(runner Runner, ffmpeg string, logger *slog.Logger) *Converter {
	return &Converter{runner: runner, ffmpeg: ffmpeg, logger: logging.NewComponentLogger(logger, "acquire")}
}

// ToWAV converts input to output. It does nothing when output already exists.
func (c *Converter) ToWAV(ctx context.Context, input, output string) error {
	if _, err := os.Stat(output); err == nil {
		return nil
	}
	c.logger.Info(fmt.Sprintf("Converting to WAV: %s", filepath.Base(input)))
	_, err := c.runner.Run(ctx, c.ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		output,
	)
	if err != nil {
		_ = os.Remove(output)
		return err
	}
	return nil
}
