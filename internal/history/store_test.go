package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if err := store.BeginRun(ctx, Run{ID: "run-1", URL: "https://example.com/p", Model: "base", Language: "auto", StartedAt: started}); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.SetBackend(ctx, "run-1", "CUDA"); err != nil {
		t.Fatalf("SetBackend failed: %v", err)
	}
	if err := store.RecordItem(ctx, Item{RunID: "run-1", ItemID: "a", Title: "A", OutputPath: "/out/A.md"}); err != nil {
		t.Fatalf("RecordItem failed: %v", err)
	}
	if err := store.RecordItem(ctx, Item{RunID: "run-1", ItemID: "b", Error: "boom", ErrorKind: "external_tool"}); err != nil {
		t.Fatalf("RecordItem failed: %v", err)
	}
	if err := store.FinishRun(ctx, Run{ID: "run-1", Status: StatusPartial, Message: "1 succeeded, 1 failed: b: boom", Succeeded: 1, Failed: 1}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.Backend != "CUDA" || run.Status != StatusPartial || run.Succeeded != 1 || run.Failed != 1 {
		t.Fatalf("unexpected run %+v", run)
	}
	if !run.StartedAt.Equal(started) || run.FinishedAt.IsZero() {
		t.Fatalf("unexpected timestamps %v / %v", run.StartedAt, run.FinishedAt)
	}

	items, err := store.Items(ctx, "run-1")
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 2 || items[0].ItemID != "a" || items[1].ErrorKind != "external_tool" {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].OutputPath != "/out/A.md" || items[0].Error != "" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		run := Run{ID: id, URL: "u", Model: "tiny", Language: "auto", StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.BeginRun(ctx, run); err != nil {
			t.Fatalf("BeginRun %s failed: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected order %+v", runs)
	}
	if runs[0].Status != StatusRunning || !runs[0].FinishedAt.IsZero() {
		t.Fatalf("expected unfinished run, got %+v", runs[0])
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.BeginRun(context.Background(), Run{ID: "r", URL: "u", Model: "base", Language: "en"}); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	_ = store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v (err %v)", runs, err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatalf("bump user_version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
