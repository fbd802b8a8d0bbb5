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

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/metrics"
	"github.com/tombee/mcpscout/internal/tracing"
	"github.com/tombee/mcpscout/pkg/httpclient"
)

// Searcher runs one candidate search.
type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the service root; requests go to {BaseURL}/search.
	BaseURL string

	// Timeout bounds a single round trip. Zero leaves it to the context.
	Timeout time.Duration

	// Logger receives request logs (default: slog.Default()).
	Logger *slog.Logger
}

// Client talks to the external candidate search service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ Searcher = (*Client)(nil)

// NewClient creates a search client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("search: base URL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.Timeout
	hc.UserAgent = "mcpscout-search/1.0"
	hc.Logger = logger
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{
		endpoint:   base + "/search",
		httpClient: client,
		logger:     log.WithComponent(logger, "search"),
		now:        time.Now,
	}, nil
}

// Search sends query upstream and adapts the reply. Any failure is an
// *UpstreamError.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	ctx, span := tracing.Tracer().Start(ctx, "search.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("search.query_length", len(query))),
	)
	defer span.End()

	start := time.Now()
	result, err := c.search(ctx, query)
	metrics.ObserveSearch(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("search failed", log.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.candidates", len(result.Candidates)))
	c.logger.Debug("search completed",
		slog.Int("candidates", len(result.Candidates)),
		slog.Int64(log.DurationKey, time.Since(start).Milliseconds()))
	return result, nil
}

func (c *Client) search(ctx context.Context, query string) (*Result, error) {
	status, body, err := httpclient.PostJSON(ctx, c.httpClient, c.endpoint, Request{Message: query}, nil)
	if err != nil {
		return nil, &UpstreamError{StatusCode: status, Message: defaultUpstreamMessage, Cause: err}
	}

	if !httpclient.IsSuccess(status) {
		return nil, &UpstreamError{StatusCode: status, Message: upstreamMessage(body)}
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamError{StatusCode: status, Message: defaultUpstreamMessage, Cause: fmt.Errorf("decode response: %w", err)}
	}

	candidates := resp.Candidates
	if candidates == nil {
		candidates = []Candidate{}
	}

	return &Result{
		Message: Message{
			Role:      "agent",
			Content:   resp.LLMAnswer,
			Timestamp: c.now(),
		},
		Candidates: candidates,
	}, nil
}

// upstreamMessage extracts {"message": "..."} from an error body.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return defaultUpstreamMessage
}
