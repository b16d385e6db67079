// Package logging assembles structured slog loggers and formatting helpers used
// across the transcriber.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code tags log lines with run IDs,
// item IDs, and stage names. Tee and NewSinkHandler let the pipeline mirror its
// log stream onto the observer event channel without a second logging call.
package logging
