package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"transcriber/internal/pipeline"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func paint(value, color string, colorize bool) string {
	if !colorize || color == "" {
		return value
	}
	return color + value + ansiReset
}

func renderStatus(kind statusKind, colorize bool) string {
	return paint(statusKindLabel(kind), statusKindColor(kind), colorize)
}

func levelKind(level slog.Level) statusKind {
	switch {
	case level >= slog.LevelError:
		return statusError
	case level >= slog.LevelWarn:
		return statusWarn
	default:
		return statusInfo
	}
}

// renderEvent formats one pipeline event for the terminal. Progress events
// render as a counter; finished events carry the run verdict.
func renderEvent(ev pipeline.Event, colorize bool) string {
	switch ev.Kind {
	case pipeline.EventBackend:
		return paint(fmt.Sprintf("Backend: %s", ev.Backend), ansiBlue, colorize)
	case pipeline.EventProgress:
		return paint(fmt.Sprintf("[%d/%d]", ev.Current, ev.Total), ansiDim, colorize)
	case pipeline.EventFinished:
		if ev.Success {
			return paint(ev.Message, ansiGreen, colorize)
		}
		return paint(ev.Message, ansiRed, colorize)
	default:
		kind := levelKind(ev.Level)
		if kind == statusInfo {
			return ev.Message
		}
		return paint(ev.Message, statusKindColor(kind), colorize)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
