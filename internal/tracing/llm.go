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

package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/mcpscout/pkg/llm"
)

const instrumentationName = "github.com/tombee/mcpscout"

// Tracer returns the named tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// TracedProvider wraps an LLM provider to add a span and token counters
// to every completion.
type TracedProvider struct {
	provider llm.Provider
	tracer   trace.Tracer
	requests metric.Int64Counter
	tokens   metric.Int64Counter
}

// WrapProvider wraps an LLM provider with tracing instrumentation. The
// global tracer and meter providers are resolved at wrap time.
func WrapProvider(provider llm.Provider) llm.Provider {
	meter := otel.Meter(instrumentationName)
	// Instrument creation only fails on invalid names; the no-op fallback
	// returned alongside the error is still usable.
	requests, _ := meter.Int64Counter("mcpscout_llm_requests_total",
		metric.WithDescription("Total number of LLM requests"),
		metric.WithUnit("{request}"))
	tokens, _ := meter.Int64Counter("mcpscout_llm_tokens_total",
		metric.WithDescription("Total number of tokens processed"),
		metric.WithUnit("{token}"))

	return &TracedProvider{
		provider: provider,
		tracer:   Tracer(),
		requests: requests,
		tokens:   tokens,
	}
}

// Name returns the underlying provider's name.
func (t *TracedProvider) Name() string {
	return t.provider.Name()
}

// Capabilities returns the underlying provider's capabilities.
func (t *TracedProvider) Capabilities() llm.Capabilities {
	return t.provider.Capabilities()
}

// Complete creates a span for the completion request and records token usage.
func (t *TracedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", t.provider.Name()),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.messages", len(req.Messages)),
	}
	if req.Temperature != nil {
		attrs = append(attrs, attribute.Float64("llm.temperature", *req.Temperature))
	}

	ctx, span := t.tracer.Start(ctx, "llm.complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	resp, err := t.provider.Complete(ctx, req)

	provider := attribute.String("provider", t.provider.Name())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.requests.Add(ctx, 1, metric.WithAttributes(provider, attribute.String("status", "error")))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("llm.response_model", resp.Model),
		attribute.String("llm.finish_reason", string(resp.FinishReason)),
		attribute.Int("llm.tokens.input", resp.Usage.InputTokens),
		attribute.Int("llm.tokens.output", resp.Usage.OutputTokens),
	)
	span.SetStatus(codes.Ok, "")

	t.requests.Add(ctx, 1, metric.WithAttributes(provider, attribute.String("status", "ok")))
	t.tokens.Add(ctx, int64(resp.Usage.InputTokens), metric.WithAttributes(provider, attribute.String("type", "input")))
	t.tokens.Add(ctx, int64(resp.Usage.OutputTokens), metric.WithAttributes(provider, attribute.String("type", "output")))

	return resp, nil
}
