// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"log/slog"
	"net/http"
	"time"
)

// HTTPRequest describes an incoming HTTP request for logging purposes.
type HTTPRequest struct {
	// Method is the HTTP method (e.g., "POST").
	Method string

	// Path is the request path without the query string.
	Path string

	// RequestID is the unique ID for this specific request.
	RequestID string

	// RemoteAddr is the remote address of the client.
	RemoteAddr string
}

// HTTPResponse describes a completed HTTP response for logging purposes.
type HTTPResponse struct {
	// Status is the HTTP status code written to the client.
	Status int

	// Bytes is the number of body bytes written.
	Bytes int

	// DurationMs is the duration of the request in milliseconds.
	DurationMs int64
}

// LogHTTPRequest logs an incoming HTTP request at debug level.
func LogHTTPRequest(logger *slog.Logger, req *HTTPRequest) {
	attrs := []any{
		EventKey, "http_request",
		"method", req.Method,
		"path", req.Path,
		"remote", req.RemoteAddr,
	}
	if req.RequestID != "" {
		attrs = append(attrs, "request_id", req.RequestID)
	}
	logger.Debug("http request received", attrs...)
}

// LogHTTPResponse logs a completed HTTP request. Server errors are logged
// at error level, client errors at warn.
func LogHTTPResponse(logger *slog.Logger, req *HTTPRequest, resp *HTTPResponse) {
	attrs := []any{
		EventKey, "http_response",
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status,
		"bytes", resp.Bytes,
		DurationKey, resp.DurationMs,
	}
	if req.RequestID != "" {
		attrs = append(attrs, "request_id", req.RequestID)
	}

	switch {
	case resp.Status >= 500:
		logger.Error("http request failed", attrs...)
	case resp.Status >= 400:
		logger.Warn("http request rejected", attrs...)
	default:
		logger.Info("http request completed", attrs...)
	}
}

// HTTPMiddleware wraps an http.Handler with request/response logging.
type HTTPMiddleware struct {
	logger *slog.Logger
}

// NewHTTPMiddleware creates a new HTTP logging middleware.
func NewHTTPMiddleware(logger *slog.Logger) *HTTPMiddleware {
	return &HTTPMiddleware{
		logger: logger,
	}
}

// Wrap returns next wrapped with logging. The X-Request-ID header, when
// present, is carried into both log entries.
func (m *HTTPMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		req := &HTTPRequest{
			Method:     r.Method,
			Path:       r.URL.Path,
			RequestID:  r.Header.Get("X-Request-ID"),
			RemoteAddr: r.RemoteAddr,
		}
		LogHTTPRequest(m.logger, req)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		LogHTTPResponse(m.logger, req, &HTTPResponse{
			Status:     rec.status,
			Bytes:      rec.bytes,
			DurationMs: time.Since(start).Milliseconds(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
