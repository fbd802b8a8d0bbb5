package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// tracedTransport stamps the user agent and W3C trace context on each
// outgoing request and logs the exchange with the URL credentials removed.
type tracedTransport struct {
	next      http.RoundTripper
	userAgent string
	logger    *slog.Logger
}

func newTracedTransport(next http.RoundTripper, userAgent string, logger *slog.Logger) *tracedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &tracedTransport{next: next, userAgent: userAgent, logger: logger}
}

// RoundTrip implements http.RoundTripper. The caller's request is cloned
// before headers are added.
func (t *tracedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)
	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(out.Header))

	start := time.Now()
	resp, err := t.next.RoundTrip(out)

	attrs := []any{
		slog.String("method", out.Method),
		slog.String("url", sanitizeURL(out.URL)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if err != nil {
		t.logger.WarnContext(ctx, "http request failed", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	t.logger.Log(ctx, level, "http request", append(attrs, slog.Int("status", resp.StatusCode))...)
	return resp, nil
}
