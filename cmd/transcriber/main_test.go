package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transcriber/internal/pipeline"
)

func TestRunCommandTranscribesPlaylist(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "https://example.com/playlist?list=abc"}, env.configPath, stubPipeline(nil, "a1", "b2"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Backend: CUDA")
	requireContains(t, out, "[2/2]")
	requireContains(t, out, "Completed")

	for _, name := range []string{"Episode a1.md", "Episode b2.md"} {
		if _, err := os.Stat(filepath.Join(env.outputDir, name)); err != nil {
			t.Fatalf("expected transcript %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "https://example.com/playlist?list=abc")
}

func TestRunCommandReportsItemFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	failures := map[string]error{"b2": errors.New("decoder crashed")}
	out, _, err := runCLI(t, []string{"run", "--no-history", "https://example.com/playlist"}, env.configPath, stubPipeline(failures, "a1", "b2"))
	if !errors.Is(err, errRunIncomplete) {
		t.Fatalf("expected errRunIncomplete, got %v", err)
	}
	requireContains(t, out, "1 succeeded, 1 failed")
	if _, err := os.Stat(filepath.Join(env.stateDir, "history.db")); err == nil {
		t.Fatal("expected --no-history to skip the history database")
	}
}

func TestRunCommandRejectsUnknownModel(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--no-history", "--model", "gigantic", "https://example.com/v"}, env.configPath, stubPipeline(nil, "a1"))
	if err == nil || !strings.Contains(err.Error(), "unknown model") {
		t.Fatalf("expected unknown model error, got %v", err)
	}
}

func TestRunCommandRequiresURL(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	out, _, err = runCLI(t, []string{"history", "show", "missing"}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "No items recorded for run missing")
}

func TestModelsMarksDefault(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"models"}, env.configPath)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	requireContains(t, out, "large-v3")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " base ") && !strings.Contains(line, "*") {
			t.Fatalf("expected default marker on base row, got %q", line)
		}
	}
}

func TestRenderEventsCancelled(t *testing.T) {
	events := make(chan pipeline.Event, 1)
	events <- pipeline.Event{Kind: pipeline.EventFinished, Message: "Cancelled"}
	close(events)

	var out strings.Builder
	err := renderEvents(&out, events, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	requireContains(t, out.String(), "Cancelled")
}
