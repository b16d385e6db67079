package config

import (
	"fmt"
	"net/url"

	"transcriber/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateRuntime(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == c.Paths.OutputDir {
		return fmt.Errorf("paths.data_dir and paths.output_dir must differ (%s); the data directory is emptied after every run", c.Paths.DataDir)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if err := language.Validate(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	return nil
}

func (c *Config) validateRuntime() error {
	for key, value := range map[string]string{
		"runtime.cuda_index_url": c.Runtime.CUDAIndexURL,
		"runtime.cpu_index_url":  c.Runtime.CPUIndexURL,
	} {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
