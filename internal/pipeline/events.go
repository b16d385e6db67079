package pipeline

import (
	"log/slog"
	"sync/atomic"
)

// EventKind identifies what an Event carries.
type EventKind int

const (
	// EventLog is a human-readable log line.
	EventLog EventKind = iota
	// EventBackend names the selected compute device. Sent at most once.
	EventBackend
	// EventProgress reports Current of Total items finished.
	EventProgress
	// EventFinished is always the last event of a run.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventLog:
		return "log"
	case EventBackend:
		return "backend"
	case EventProgress:
		return "progress"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is a notification from a running pipeline to its observer.
type Event struct {
	Kind EventKind

	// EventLog
	Level   slog.Level
	Message string

	// EventBackend
	Backend string

	// EventProgress
	Current int
	Total   int

	// EventFinished; Message holds the outcome text.
	Success bool
}

// CancelToken requests a cooperative stop. The pipeline checks it after
// acquisition and before each item; work already started finishes.
type CancelToken struct {
	cancelled atomic.Bool
}

// Cancel requests cancellation. Safe to call from any goroutine, repeatedly.
func (t *CancelToken) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

// Cancelled reports whether Cancel was called. A nil token never cancels.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
