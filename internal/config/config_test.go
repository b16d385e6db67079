package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"transcriber/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TRANSCRIBER_MODEL", "")
	t.Setenv(config.EnvConfigPath, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "transcriber")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) || filepath.Base(cfg.Paths.DataDir) != "data" {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if filepath.Base(cfg.Paths.OutputDir) != "transcripts" {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Transcription.Model != "base" {
		t.Fatalf("expected base model by default, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Language != "auto" {
		t.Fatalf("expected auto language by default, got %q", cfg.Transcription.Language)
	}
	if !cfg.Tools.LibraryMode {
		t.Fatal("expected library mode enabled by default")
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "transcriber.toml")
	t.Setenv("TRANSCRIBER_MODEL", "")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Tools struct {
			FFmpeg      string `toml:"ffmpeg"`
			YTDLP       string `toml:"yt_dlp"`
			LibraryMode bool   `toml:"library_mode"`
		} `toml:"tools"`
		Transcription struct {
			Model    string `toml:"model"`
			Language string `toml:"language"`
		} `toml:"transcription"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Tools.FFmpeg = filepath.Join(tempDir, "bin", "ffmpeg")
	custom.Tools.YTDLP = "yt-dlp"
	custom.Tools.LibraryMode = false
	custom.Transcription.Model = " Small "
	custom.Transcription.Language = "ES"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "out") {
		t.Fatalf("expected output dir from file, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Tools.FFmpeg != filepath.Join(tempDir, "bin", "ffmpeg") {
		t.Fatalf("expected ffmpeg override, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.YTDLP != "yt-dlp" {
		t.Fatalf("expected bare tool name to be kept, got %q", cfg.Tools.YTDLP)
	}
	if cfg.Tools.LibraryMode {
		t.Fatal("expected library mode disabled by file")
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected normalized model, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Language != "es" {
		t.Fatalf("expected lowercased language, got %q", cfg.Transcription.Language)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "transcriber.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvVarOverridesModel(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "transcriber.toml")
	if err := os.WriteFile(configPath, []byte("[transcription]\nmodel = \"tiny\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TRANSCRIBER_MODEL", "medium.en")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.Model != "medium.en" {
		t.Fatalf("expected model from env, got %q", cfg.Transcription.Model)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[transcription]") {
		t.Fatalf("sample config missing transcription section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Transcription.Model != "base" {
		t.Fatalf("expected sample model base, got %q", cfg.Transcription.Model)
	}
	if !strings.Contains(cfg.Paths.StateDir, "transcriber") {
		t.Fatalf("expected state dir to contain transcriber, got %q", cfg.Paths.StateDir)
	}
}

func TestEncodeRoundTripsSections(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for _, section := range []string{"[paths]", "[tools]", "[transcription]", "[runtime]", "[logging]"} {
		if !strings.Contains(out, section) {
			t.Fatalf("encoded config missing %s:\n%s", section, out)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Language = "not a language"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid language")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log level")
	}

	cfg = config.Default()
	cfg.Paths.OutputDir = cfg.Paths.DataDir
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when data and output directories match")
	}

	cfg = config.Default()
	cfg.Runtime.CUDAIndexURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative index URL")
	}

	cfg = config.Default()
	cfg.Transcription.Language = "pt-br"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected regional tag to validate, got %v", err)
	}
}

func TestLoadUsesConfigPathFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "alt.toml")
	if err := os.WriteFile(path, []byte("[transcription]\nmodel = \"small\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)
	t.Setenv("TRANSCRIBER_MODEL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path || !exists {
		t.Fatalf("expected %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("expected model from env config, got %q", cfg.Transcription.Model)
	}
}
