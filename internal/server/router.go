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

// Package server provides the mcpscout HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/session"
	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/internal/tracing"
)

// Dependencies are the services the API exposes.
type Dependencies struct {
	// Gateway serves /api/execute and /api/create.
	Gateway taskloop.Gateway

	// Searcher serves /api/search.
	Searcher search.Searcher

	// Chatter serves /api/chat. The route is not registered when nil.
	Chatter session.Chatter

	// MetricsHandler serves /metrics. The route is not registered when nil.
	MetricsHandler http.Handler

	// Version is reported by GET /.
	Version string

	Logger *slog.Logger
}

// Router wraps an http.ServeMux with logging and tracing middleware.
type Router struct {
	mux     *http.ServeMux
	deps    Dependencies
	logger  *slog.Logger
	handler http.Handler
}

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(deps Dependencies) *Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		deps:   deps,
		logger: log.WithComponent(logger, "server"),
	}

	r.mux.HandleFunc("POST /api/execute", r.handleExecute)
	r.mux.HandleFunc("POST /api/create", r.handleCreate)
	r.mux.HandleFunc("POST /api/search", r.handleSearch)
	r.mux.HandleFunc("GET /api/commands", r.handleCommands)
	if deps.Chatter != nil {
		r.mux.HandleFunc("POST /api/chat", r.handleChat)
	}
	if deps.MetricsHandler != nil {
		r.mux.Handle("GET /metrics", deps.MetricsHandler)
	}
	r.mux.HandleFunc("GET /healthz", r.handleHealth)
	r.mux.HandleFunc("GET /{$}", r.handleRoot)

	// Build middleware chain from innermost to outermost:
	// tracing spans, then request logging.
	var handler http.Handler = r.mux
	handler = traceMiddleware(handler)
	handler = log.NewHTTPMiddleware(r.logger).Wrap(handler)
	r.handler = handler

	return r
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// traceMiddleware continues any incoming W3C trace context and wraps the
// request in a server span.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
		ctx, span := tracing.Tracer().Start(ctx, req.Method+" "+req.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
			),
		)
		defer span.End()

		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
