package logging

import (
	"context"
	"io"
	"log/slog"
)

// contextHandler adds the pairs attached with ContextWith to each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if args := contextArgs(ctx); len(args) > 0 {
		r = r.Clone()
		r.Add(args...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. Pairs attached with ContextWith are picked up
// regardless of the handler behind l.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	h := l.Handler()
	if _, ok := h.(contextHandler); !ok {
		h = contextHandler{h}
	}
	return &SlogLogger{l: slog.New(h)}
}

// NewJSONLogger returns a SlogLogger writing JSON records at or above level to w.
func NewJSONLogger(w io.Writer, level slog.Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewNopLogger returns a logger that drops every record.
func NewNopLogger() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})))
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
