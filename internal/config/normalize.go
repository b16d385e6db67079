package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeRuntime()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeTools expands tool overrides. Existence is checked by the tool
// resolver so a bad override fails the run, not the config load.
func (c *Config) normalizeTools() error {
	var err error
	if c.Tools.FFmpeg, err = expandOptional(c.Tools.FFmpeg); err != nil {
		return fmt.Errorf("tools.ffmpeg: %w", err)
	}
	if c.Tools.YTDLP, err = expandOptional(c.Tools.YTDLP); err != nil {
		return fmt.Errorf("tools.yt_dlp: %w", err)
	}
	if c.Tools.Python, err = expandOptional(c.Tools.Python); err != nil {
		return fmt.Errorf("tools.python: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	if value, ok := os.LookupEnv("TRANSCRIBER_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.Transcription.Model = value
	}
	c.Transcription.Model = strings.ToLower(strings.TrimSpace(c.Transcription.Model))
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}
}

func (c *Config) normalizeRuntime() {
	c.Runtime.CUDAIndexURL = strings.TrimSpace(c.Runtime.CUDAIndexURL)
	c.Runtime.CPUIndexURL = strings.TrimSpace(c.Runtime.CPUIndexURL)
	if c.Runtime.CPUIndexURL == "" {
		c.Runtime.CPUIndexURL = defaultCPUIndexURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// expandOptional expands bare names untouched so "ffmpeg" keeps meaning a PATH
// lookup while "~/bin/ffmpeg" becomes absolute.
func expandOptional(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !strings.ContainsAny(value, `/\`) && !strings.HasPrefix(value, "~") {
		return value, nil
	}
	return expandPath(value)
}
