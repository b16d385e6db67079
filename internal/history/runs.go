package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Run is one pipeline invocation.
type Run struct {
	ID         string
	URL        string
	Model      string
	Language   string
	Backend    string
	Status     Status
	Message    string
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Item is the recorded outcome of one media item.
type Item struct {
	RunID      string
	ItemID     string
	Title      string
	OutputPath string
	Error      string
	ErrorKind  string
	RecordedAt time.Time
}

// BeginRun inserts a run in the running state.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, url, model, language, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.URL, run.Model, run.Language, StatusRunning, formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// SetBackend records the device the run selected.
func (s *Store) SetBackend(ctx context.Context, runID, backend string) error {
	if err := s.exec(ctx, `UPDATE runs SET backend = ? WHERE id = ?`, backend, runID); err != nil {
		return fmt.Errorf("update run backend: %w", err)
	}
	return nil
}

// RecordItem appends an item outcome to a run.
func (s *Store) RecordItem(ctx context.Context, item Item) error {
	if item.RecordedAt.IsZero() {
		item.RecordedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO run_items (run_id, item_id, title, output_path, error, error_kind, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.RunID,
		item.ItemID,
		nullableString(item.Title),
		nullableString(item.OutputPath),
		nullableString(item.Error),
		nullableString(item.ErrorKind),
		formatTime(item.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run item: %w", err)
	}
	return nil
}

// FinishRun stores the terminal status and counts of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	err := s.exec(ctx,
		`UPDATE runs SET status = ?, message = ?, succeeded = ?, failed = ?, finished_at = ? WHERE id = ?`,
		run.Status, nullableString(run.Message), run.Succeeded, run.Failed, formatTime(run.FinishedAt), run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, model, language, backend, status, message, succeeded, failed, started_at, finished_at
         FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			backend, message  sql.NullString
			started, finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.URL, &run.Model, &run.Language, &backend, &run.Status,
			&message, &run.Succeeded, &run.Failed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Backend = backend.String
		run.Message = message.String
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Items returns the recorded outcomes of a run in insertion order.
func (s *Store) Items(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, title, output_path, error, error_kind, recorded_at
         FROM run_items WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item                                 Item
			title, path, errText, kind, recorded sql.NullString
		)
		if err := rows.Scan(&item.ItemID, &title, &path, &errText, &kind, &recorded); err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		item.RunID = runID
		item.Title = title.String
		item.OutputPath = path.String
		item.Error = errText.String
		item.ErrorKind = kind.String
		item.RecordedAt = parseTime(recorded)
		items = append(items, item)
	}
	return items, rows.Err()
}
