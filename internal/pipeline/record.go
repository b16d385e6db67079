package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"transcriber/internal/history"
	"transcriber/internal/logging"
	"transcriber/internal/services"
)

// History writes use a context detached from cancellation so aborted runs
// are still recorded.

func (p *Pipeline) recordBegin(ctx context.Context, rc RunConfig, runID string, logger *slog.Logger) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.BeginRun(context.WithoutCancel(ctx), history.Run{
		ID:       runID,
		URL:      rc.URL,
		Model:    rc.Model,
		Language: rc.Language,
	})
	p.recordFailed(logger, err)
}

func (p *Pipeline) recordBackend(ctx context.Context, runID, backend string, logger *slog.Logger) {
	if p.recorder == nil {
		return
	}
	p.recordFailed(logger, p.recorder.SetBackend(context.WithoutCancel(ctx), runID, backend))
}

func (p *Pipeline) recordItem(ctx context.Context, runID string, outcome ItemOutcome, logger *slog.Logger) {
	if p.recorder == nil {
		return
	}
	item := history.Item{
		RunID:      runID,
		ItemID:     outcome.ItemID,
		Title:      outcome.Title,
		OutputPath: outcome.Path,
	}
	if outcome.Err != nil {
		item.Error = outcome.Err.Error()
		item.ErrorKind = services.Kind(outcome.Err)
	}
	p.recordFailed(logger, p.recorder.RecordItem(context.WithoutCancel(ctx), item))
}

func (p *Pipeline) recordFinish(ctx context.Context, summary *Summary, message string, logger *slog.Logger) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.FinishRun(context.WithoutCancel(ctx), history.Run{
		ID:        summary.RunID,
		Status:    runStatus(summary),
		Message:   message,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	})
	p.recordFailed(logger, err)
}

func (p *Pipeline) recordFailed(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	logger.Debug("history write failed", logging.Error(err))
}

func runStatus(summary *Summary) history.Status {
	switch {
	case summary.Cancelled:
		return history.StatusCancelled
	case summary.Err == nil:
		return history.StatusCompleted
	case errors.Is(summary.Err, services.ErrItemProcessing) && summary.Succeeded > 0:
		return history.StatusPartial
	default:
		return history.StatusFailed
	}
}
