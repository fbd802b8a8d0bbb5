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

package taskloop

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/mcpscout/internal/metrics"
	"github.com/tombee/mcpscout/internal/tracing"
)

// LoopErrorMessage is the transcript text recorded when a run fails.
const LoopErrorMessage = "エラーが発生しました。もう一度お試しください。"

// Gateway performs the two model round trips the loop depends on.
type Gateway interface {
	// Execute performs task in service of objective and returns the result text.
	Execute(ctx context.Context, objective, task string) (string, error)

	// Create returns a numbered task list continuing after last.
	Create(ctx context.Context, objective string, pending []Task, last Task, lastResult string) (string, error)
}

// Controller creates loop runs over a Gateway.
type Controller struct {
	gateway Gateway
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController returns a Controller that drives runs through gw.
func NewController(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway: gw,
		logger:  slog.Default(),
		tracer:  tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRun returns an idle run for objective. maxIterations bounds the number
// of create steps; 0 means unbounded. Entries are appended to transcript,
// or to a fresh one when transcript is nil.
func (c *Controller) NewRun(objective string, maxIterations int, transcript *Transcript) *LoopRun {
	if transcript == nil {
		transcript = NewTranscript()
	}
	if maxIterations < 0 {
		maxIterations = 0
	}
	return newLoopRun(c, objective, maxIterations, transcript)
}

// call wraps one gateway round trip with a span and latency metric.
func (c *Controller) call(ctx context.Context, run *LoopRun, op string, task Task, fn func(context.Context) (string, error)) (string, error) {
	ctx, span := c.tracer.Start(ctx, "gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("run.id", run.id),
			attribute.String("task.id", task.ID),
			attribute.Int("run.iteration", run.iterations),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	metrics.ObserveGatewayCall(op, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}
