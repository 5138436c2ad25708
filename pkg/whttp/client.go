package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/manzanit0/photon/pkg/logger"
)

const (
	HeaderTraceID  = "X-Trace-Id"
	DefaultTimeout = 10 * time.Second
)

// LoggingRoundTripper logs every outbound request and forwards the trace id
// found in the request context. With Debug set it also logs response bodies.
type LoggingRoundTripper struct {
	Proxied http.RoundTripper
	Debug   bool
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if id, ok := logger.TraceID(ctx); ok && req.Header.Get(HeaderTraceID) == "" {
		req = req.Clone(ctx)
		req.Header.Set(HeaderTraceID, id)
	}

	t0 := time.Now()
	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(ctx, "outbound request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", time.Since(t0).Milliseconds(),
			"error", err.Error())
		return res, err
	}

	fields := []any{
		"method", req.Method,
		"url", req.URL.String(),
		"status", res.StatusCode,
		"duration_ms", time.Since(t0).Milliseconds(),
	}

	if lrt.Debug {
		body, err := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if err != nil {
			fields = append(fields, "error", err.Error())
			slog.ErrorContext(ctx, "outbound response body read failed", fields...)
			return nil, err
		}
		res.Body = io.NopCloser(bytes.NewReader(body))

		fields = append(fields, "body", string(body))
	}

	slog.InfoContext(ctx, "outbound request", fields...)

	return res, nil
}

func NewLoggingClient() *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   DefaultTimeout,
	}
}

// NewClient is NewLoggingClient with a custom timeout and body logging.
func NewClient(timeout time.Duration, debug bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport, Debug: debug},
		Timeout:   timeout,
	}
}
