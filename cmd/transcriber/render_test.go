package main

import (
	"log/slog"
	"strings"
	"testing"

	"transcriber/internal/deps"
	"transcriber/internal/pipeline"
	"transcriber/internal/preflight"
)

func TestRenderEventPlain(t *testing.T) {
	tests := []struct {
		event pipeline.Event
		want  string
	}{
		{pipeline.Event{Kind: pipeline.EventLog, Level: slog.LevelInfo, Message: "Transcribing a1 (1/2)..."}, "Transcribing a1 (1/2)..."},
		{pipeline.Event{Kind: pipeline.EventBackend, Backend: "DirectML"}, "Backend: DirectML"},
		{pipeline.Event{Kind: pipeline.EventProgress, Current: 1, Total: 4}, "[1/4]"},
		{pipeline.Event{Kind: pipeline.EventFinished, Success: true, Message: "Completed"}, "Completed"},
	}
	for _, tt := range tests {
		if got := renderEvent(tt.event, false); got != tt.want {
			t.Fatalf("renderEvent(%v) = %q, want %q", tt.event.Kind, got, tt.want)
		}
	}
}

func TestRenderEventColorsWarnings(t *testing.T) {
	got := renderEvent(pipeline.Event{Kind: pipeline.EventLog, Level: slog.LevelWarn, Message: "Failed a1"}, true)
	if !strings.HasPrefix(got, ansiYellow) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected yellow warning, got %q", got)
	}
	got = renderEvent(pipeline.Event{Kind: pipeline.EventFinished, Message: "boom"}, true)
	if !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("expected red failure, got %q", got)
	}
}

func TestDoctorReportCountsRequiredFailures(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Command: "/usr/bin/ffmpeg", Available: true, Description: "Audio extraction"},
		{Name: "yt-dlp", Command: "yt-dlp", Optional: true, Detail: `binary "yt-dlp" not found`},
		{Name: "Python", Command: "python3", Detail: `binary "python3" not found`},
	}
	results := []preflight.Result{
		{Name: "Data directory", Passed: true, Detail: "/tmp/data (read/write ok)"},
		{Name: "Output directory", Detail: "/out (error: is not a directory)"},
	}

	report, problems := doctorReport(statuses, results, false)
	if problems != 2 {
		t.Fatalf("expected 2 problems, got %d", problems)
	}
	for _, want := range []string{"Tools", "Environment", "/usr/bin/ffmpeg", "WARN", "ERROR", "is not a directory"} {
		requireContains(t, report, want)
	}
}
