package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"transcriber/internal/services"
)

const (
	messageCompleted = "Completed"
	messageCancelled = "Cancelled"
)

// ItemOutcome records what happened to one item.
type ItemOutcome struct {
	ItemID string
	Title  string
	Path   string
	Err    error
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Backend   string
	Succeeded int
	Failed    int
	Cancelled bool
	Outcomes  []ItemOutcome
	// Err is the terminal error, nil when every item succeeded.
	Err error
}

// itemFailures aggregates isolated item failures into one terminal error.
type itemFailures struct {
	succeeded int
	failed    []ItemOutcome
}

func (e *itemFailures) Error() string {
	parts := make([]string, 0, len(e.failed))
	for _, outcome := range e.failed {
		parts = append(parts, fmt.Sprintf("%s: %v", outcome.ItemID, outcome.Err))
	}
	return fmt.Sprintf("%d succeeded, %d failed: %s", e.succeeded, len(e.failed), strings.Join(parts, "; "))
}

func (e *itemFailures) Unwrap() error { return services.ErrItemProcessing }

func (s *Summary) failureError() error {
	if s.Failed == 0 {
		return nil
	}
	failures := &itemFailures{succeeded: s.Succeeded}
	for _, outcome := range s.Outcomes {
		if outcome.Err != nil {
			failures.failed = append(failures.failed, outcome)
		}
	}
	return failures
}

// finishMessage maps the terminal error of a run to the Finished event.
func finishMessage(err error) (bool, string) {
	switch {
	case err == nil:
		return true, messageCompleted
	case isCancellation(err):
		return false, messageCancelled
	default:
		return false, err.Error()
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, services.ErrCancelled) || errors.Is(err, context.Canceled)
}
