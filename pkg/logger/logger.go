package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type CtxKey string

const CtxKeyTraceID CtxKey = "trace_id"

// WithTraceID returns a copy of ctx carrying id. Every log record written with
// that context gets a trace_id attribute.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyTraceID, id)
}

func TraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyTraceID).(string)
	return id, ok && id != ""
}

func InitGlobalSlog(service string, level slog.Level) {
	InitGlobalSlogTo(os.Stdout, service, level)
}

// InitGlobalSlogTo is InitGlobalSlog writing to w. CLIs log to stderr so that
// stdout only carries results.
func InitGlobalSlogTo(w io.Writer, service string, level slog.Level) {
	handler := NewContextJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	logger = logger.With("service", service)
	slog.SetDefault(logger)
}

// ParseLevel maps LOG_LEVEL style strings to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ContextJSONHandler struct {
	jsonHandler slog.Handler
}

func NewContextJSONHandler(w io.Writer, opts *slog.HandlerOptions) *ContextJSONHandler {
	return &ContextJSONHandler{slog.NewJSONHandler(w, opts)}
}

func (h *ContextJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.jsonHandler.Enabled(ctx, level)
}

func (h *ContextJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithAttrs(attrs)}
}

func (h *ContextJSONHandler) WithGroup(name string) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithGroup(name)}
}

func (h *ContextJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := TraceID(ctx); ok {
		r.AddAttrs(slog.String(string(CtxKeyTraceID), id))
	}

	return h.jsonHandler.Handle(ctx, r)
}
