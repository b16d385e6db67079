package logging

import (
	"context"
	"log/slog"
)

// LineFunc receives the level and message of every record at or above the
// sink's minimum level. Attributes are dropped.
type LineFunc func(level slog.Level, msg string)

type sinkHandler struct {
	min slog.Level
	fn  LineFunc
}

// NewSinkHandler forwards plain log lines to fn. The pipeline uses it to
// mirror its own log output onto the observer event channel.
func NewSinkHandler(min slog.Level, fn LineFunc) slog.Handler {
	if fn == nil {
		return NoopHandler{}
	}
	return sinkHandler{min: min, fn: fn}
}

func (h sinkHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.min }

func (h sinkHandler) Handle(_ context.Context, record slog.Record) error {
	h.fn(record.Level, record.Message)
	return nil
}

func (h sinkHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h sinkHandler) WithGroup(string) slog.Handler { return h }

type teeHandler struct {
	handlers []slog.Handler
}

// Tee duplicates output from base into the provided handlers. Nil handlers are
// ignored.
func Tee(base *slog.Logger, handlers ...slog.Handler) *slog.Logger {
	all := make([]slog.Handler, 0, len(handlers)+1)
	if base != nil {
		all = append(all, base.Handler())
	}
	for _, h := range handlers {
		if h != nil {
			all = append(all, h)
		}
	}
	switch len(all) {
	case 0:
		return NewNop()
	case 1:
		return slog.New(all[0])
	}
	return slog.New(&teeHandler{handlers: all})
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
