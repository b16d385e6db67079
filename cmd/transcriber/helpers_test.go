package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transcriber/internal/acquire"
	"transcriber/internal/backend"
	"transcriber/internal/deps"
	"transcriber/internal/pipeline"
	"transcriber/internal/whisper"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TRANSCRIBER_MODEL", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(homeDir, ".config", "transcriber", "config.toml"),
		outputDir:  filepath.Join(base, "transcripts"),
		stateDir:   filepath.Join(base, "state"),
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\noutput_dir = %q\nstate_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "data"),
		env.outputDir,
		env.stateDir,
		filepath.Join(base, "logs"),
	)
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string, opts ...pipeline.Option) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(opts)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type stubSelector struct{}

func (stubSelector) Select(context.Context) (backend.Device, error) { return backend.CUDA, nil }

type stubAcquirer struct{ items []acquire.MediaItem }

func (s stubAcquirer) Acquire(context.Context, string, string) ([]acquire.MediaItem, error) {
	return s.items, nil
}

type stubEngine struct{ failures map[string]error }

func (stubEngine) LoadModel(_ context.Context, name string, device backend.Device) (*whisper.Model, error) {
	return &whisper.Model{Name: name, Device: device}, nil
}

func (s stubEngine) Transcribe(_ context.Context, _ *whisper.Model, item acquire.MediaItem, _ string) (whisper.Result, error) {
	if err := s.failures[item.ID]; err != nil {
		return whisper.Result{}, err
	}
	return whisper.Result{Text: "spoken words of " + item.ID, Language: "en", Item: item}, nil
}

type stubBuilder struct{ chain pipeline.Toolchain }

func (stubBuilder) ResolveTools(context.Context, deps.Overrides, *slog.Logger) (deps.ToolPaths, error) {
	return deps.ToolPaths{FFmpeg: "/usr/bin/ffmpeg", Python: "/usr/bin/python3"}, nil
}

func (s stubBuilder) Toolchain(context.Context, deps.ToolPaths, *slog.Logger) (pipeline.Toolchain, error) {
	return s.chain, nil
}

func stubPipeline(failures map[string]error, ids ...string) pipeline.Option {
	items := make([]acquire.MediaItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, acquire.MediaItem{ID: id, Title: "Episode " + id, URL: "https://example.com/watch?v=" + id})
	}
	return pipeline.WithBuilder(stubBuilder{chain: pipeline.Toolchain{
		Selector: stubSelector{},
		Acquirer: stubAcquirer{items: items},
		Engine:   stubEngine{failures: failures},
	}})
}
