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

// Package run implements the run command, which drives one loop run in the
// terminal.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/cli/format"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/taskloop"
)

// pollInterval is how often new transcript entries are printed while a run
// is in flight.
const pollInterval = 200 * time.Millisecond

// ErrObjectiveRequired is returned when no objective is given and none can
// be prompted for.
var ErrObjectiveRequired = errors.New("an objective is required")

// Result is the JSON output of the run command.
type Result struct {
	shared.JSONResponse
	RunID      string           `json:"run_id"`
	Outcome    taskloop.Outcome `json:"outcome"`
	Iterations int              `json:"iterations"`
	Remaining  []taskloop.Task  `json:"remaining"`
	Transcript []taskloop.Entry `json:"transcript"`
}

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var (
		maxIterations int
		mockSearch    bool
	)

	cmd := &cobra.Command{
		Use:   "run [objective]",
		Short: "Break an objective into tasks and work through them",
		Long: `Run the task loop for an objective.

The model first develops a task list, then executes the next task and
revises the remaining list from the result, until no tasks remain or the
iteration limit is reached. Press Ctrl-C to stop a run; the result of an
in-flight call is discarded.

When no objective is given and the terminal is interactive you are
prompted for one.`,
		Example: `  mcpscout run "Find an MCP server that can read PDFs"
  mcpscout run --max-iterations 0 "Plan a documentation search pipeline"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			objective := strings.TrimSpace(strings.Join(args, " "))
			if objective == "" {
				var err error
				objective, err = promptObjective()
				if err != nil {
					return shared.NewInvalidInputError("no objective", err)
				}
			}

			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-iterations") {
				maxIterations = cfg.Loop.MaxIterations
			}
			if maxIterations < 0 {
				return shared.NewInvalidInputError("--max-iterations must not be negative", nil)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if mockSearch {
				url, err := shared.StartMockSearch(ctx, shared.NewLogger(cfg, os.Stderr))
				if err != nil {
					return err
				}
				cfg.Search.BaseURL = url
			}

			svc, err := shared.NewServices(ctx, cfg, shared.ServiceOptions{})
			if err != nil {
				return err
			}
			defer svc.Close(context.Background())

			return execute(ctx, cmd.OutOrStdout(), svc.Controller, objective, maxIterations)
		},
	}

	cmd.Flags().IntVarP(&maxIterations, "max-iterations", "n", 5, "Maximum create steps (0 for unbounded)")
	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")

	return cmd
}

// execute runs one objective, printing entries as they are appended.
func execute(ctx context.Context, w io.Writer, controller *taskloop.Controller, objective string, maxIterations int) error {
	transcript := taskloop.NewTranscript()
	transcript.Append(taskloop.KindObjective, objective)
	run := controller.NewRun(objective, maxIterations, transcript)
	defer run.Dispose()

	jsonOut := shared.GetJSON()
	printer := format.NewPrinter(w, format.Styled(w))
	printed := 0
	flush := func() {
		if jsonOut {
			return
		}
		entries := transcript.Since(printed)
		printer.Print(entries)
		printed += len(entries)
	}

	type outcome struct {
		result *taskloop.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := run.Start(ctx)
		done <- outcome{res, err}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var out outcome
wait:
	for {
		select {
		case <-ticker.C:
			flush()
		case out = <-done:
			break wait
		}
	}
	flush()

	if out.result == nil {
		return shared.NewRunError("run failed", out.err)
	}

	if jsonOut {
		remaining := out.result.Remaining
		if remaining == nil {
			remaining = []taskloop.Task{}
		}
		if err := shared.EmitJSON(Result{
			JSONResponse: shared.NewJSONResponse("run", out.err == nil && out.result.Outcome == taskloop.OutcomeDone),
			RunID:        out.result.RunID,
			Outcome:      out.result.Outcome,
			Iterations:   out.result.Iterations,
			Remaining:    remaining,
			Transcript:   transcript.Snapshot(),
		}); err != nil {
			return err
		}
	} else if !shared.GetQuiet() {
		fmt.Fprintf(w, "%s %s\n", shared.RenderOutcome(out.result.Outcome), shared.Muted.Render(fmt.Sprintf("after %d iteration(s) in %s",
			out.result.Iterations, out.result.Duration.Round(time.Millisecond))))
	}

	switch out.result.Outcome {
	case taskloop.OutcomeFailed:
		return shared.NewRunError("run failed", out.err)
	case taskloop.OutcomeCancelled:
		return shared.NewCancelledError("run cancelled")
	}
	return nil
}

// promptObjective asks for an objective when the terminal is interactive.
func promptObjective() (string, error) {
	if shared.IsNonInteractive() {
		return "", ErrObjectiveRequired
	}

	var objective string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Objective").
				Description("What should the loop work towards?").
				Value(&objective).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return ErrObjectiveRequired
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(objective), nil
}
