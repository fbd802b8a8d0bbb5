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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/metrics"
)

// ErrAlreadyStarted is returned when Start is called twice on a run.
var ErrAlreadyStarted = errors.New("taskloop: run already started")

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Result summarizes a finished run.
type Result struct {
	RunID      string
	Outcome    Outcome
	State      State
	Iterations int
	// Remaining is the task queue as it stood when the run stopped.
	Remaining []Task
	Duration  time.Duration
}

// LoopRun is a single execution of the loop for one objective.
type LoopRun struct {
	controller    *Controller
	id            string
	objective     string
	maxIterations int
	transcript    *Transcript
	logger        *slog.Logger

	mu         sync.Mutex
	state      State
	queue      []Task
	iterations int
	started    bool
	cancelled  bool
	cancel     context.CancelFunc
	cancelOnce sync.Once
}

func newLoopRun(c *Controller, objective string, maxIterations int, transcript *Transcript) *LoopRun {
	id := uuid.NewString()
	return &LoopRun{
		controller:    c,
		id:            id,
		objective:     objective,
		maxIterations: maxIterations,
		transcript:    transcript,
		logger:        log.WithRunContext(log.WithComponent(c.logger, "taskloop"), id, objective),
		state:         StateIdle,
	}
}

// ID returns the run identifier.
func (r *LoopRun) ID() string { return r.id }

// Transcript returns the transcript the run appends to.
func (r *LoopRun) Transcript() *Transcript { return r.transcript }

// State returns the current state.
func (r *LoopRun) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Queue returns a copy of the pending tasks.
func (r *LoopRun) Queue() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Task(nil), r.queue...)
}

// Iterations returns the number of completed create steps.
func (r *LoopRun) Iterations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.iterations
}

// Cancel stops the run. The in-flight gateway call, if any, sees its
// context cancelled and its result is discarded. Calling Cancel more than
// once, or before Start, is allowed.
func (r *LoopRun) Cancel() {
	r.cancelOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.cancelled = true
		if r.cancel != nil {
			r.cancel()
		}
	})
}

// Dispose cancels the run and releases its resources.
func (r *LoopRun) Dispose() {
	r.Cancel()
}

// Start drives the run to a terminal state. It returns an error only when
// the run fails; a cancelled or skipped run returns a nil error.
func (r *LoopRun) Start(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	r.started = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	if r.cancelled {
		cancel()
	}
	r.mu.Unlock()
	defer cancel()

	start := time.Now()
	ctx, span := r.controller.tracer.Start(ctx, "taskloop.run")
	span.SetAttributes(
		attribute.String("run.id", r.id),
		attribute.Int("run.max_iterations", r.maxIterations),
	)
	defer span.End()

	outcome, err := r.loop(ctx)

	result := r.result(outcome, time.Since(start))
	span.SetAttributes(
		attribute.String("run.outcome", string(outcome)),
		attribute.Int("run.iterations", result.Iterations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordRun(string(outcome), result.Iterations)

	r.logger.Info("run finished",
		slog.String("outcome", string(outcome)),
		slog.Int("iterations", result.Iterations),
		slog.Int64(log.DurationKey, result.Duration.Milliseconds()))

	return result, err
}

func (r *LoopRun) result(outcome Outcome, d time.Duration) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Result{
		RunID:      r.id,
		Outcome:    outcome,
		State:      r.state,
		Iterations: r.iterations,
		Remaining:  append([]Task(nil), r.queue...),
		Duration:   d,
	}
}

func (r *LoopRun) loop(ctx context.Context) (Outcome, error) {
	if strings.TrimSpace(r.objective) == "" {
		return OutcomeSkipped, nil
	}

	if err := r.seed(); err != nil {
		return OutcomeFailed, err
	}
	r.logger.Debug("run seeded")
	if ctx.Err() != nil {
		return r.stopCancelled()
	}

	gw := r.controller.gateway
	for {
		task, pending, ok, err := r.next()
		if err != nil {
			return OutcomeFailed, err
		}
		if !ok {
			return OutcomeDone, nil
		}

		if ctx.Err() != nil {
			return r.stopCancelled()
		}
		r.logger.Debug("executing task", slog.String(log.TaskIDKey, task.ID))
		output, err := r.controller.call(ctx, r, "execute", task, func(ctx context.Context) (string, error) {
			return gw.Execute(ctx, r.objective, task.Name)
		})
		if ctx.Err() != nil {
			return r.stopCancelled()
		}
		if err != nil {
			return r.fail(err)
		}
		r.transcript.Append(KindTaskResult, output)

		if err := r.move(StateAwaitingCreate); err != nil {
			return OutcomeFailed, err
		}

		if ctx.Err() != nil {
			return r.stopCancelled()
		}
		raw, err := r.controller.call(ctx, r, "create", task, func(ctx context.Context) (string, error) {
			return gw.Create(ctx, r.objective, pending, task, output)
		})
		if ctx.Err() != nil {
			return r.stopCancelled()
		}
		if err != nil {
			return r.fail(err)
		}

		tasks := Parse(raw)
		r.mu.Lock()
		r.queue = tasks
		r.iterations++
		r.mu.Unlock()
		r.logger.Debug("task list replaced", slog.Int("tasks", len(tasks)))
	}
}

func (r *LoopRun) seed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := transition(&r.state, StateSeeded); err != nil {
		return err
	}
	r.queue = []Task{BootstrapTask}
	return nil
}

// next applies the guard. When the run continues it records the task-list
// snapshot, pops the front task, records next-task and returns the popped
// task with the tasks still pending behind it.
func (r *LoopRun) next() (Task, []Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 || (r.maxIterations > 0 && r.iterations >= r.maxIterations) {
		return Task{}, nil, false, transition(&r.state, StateDone)
	}
	if err := transition(&r.state, StateAwaitingExecute); err != nil {
		return Task{}, nil, false, err
	}

	r.transcript.Append(KindTaskList, Render(r.queue))
	task := r.queue[0]
	r.queue = r.queue[1:]
	r.transcript.Append(KindNextTask, Render([]Task{task}))

	return task, append([]Task(nil), r.queue...), true, nil
}

func (r *LoopRun) move(to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return transition(&r.state, to)
}

func (r *LoopRun) stopCancelled() (Outcome, error) {
	if err := r.move(StateCancelled); err != nil {
		return OutcomeFailed, err
	}
	r.logger.Info("run cancelled")
	return OutcomeCancelled, nil
}

func (r *LoopRun) fail(cause error) (Outcome, error) {
	if err := r.move(StateFailed); err != nil {
		return OutcomeFailed, err
	}
	r.transcript.Append(KindError, LoopErrorMessage)
	r.logger.Error("run failed", log.Error(cause))
	return OutcomeFailed, fmt.Errorf("run %s: %w", r.id, cause)
}
