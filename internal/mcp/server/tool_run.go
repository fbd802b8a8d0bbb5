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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/mcpscout/internal/taskloop"
)

const (
	toolRun    = "run_objective"
	runTimeout = 10 * time.Minute
)

// RunResult is the JSON payload returned by run_objective.
type RunResult struct {
	RunID      string           `json:"run_id"`
	Outcome    string           `json:"outcome"`
	Iterations int              `json:"iterations"`
	Remaining  []taskloop.Task  `json:"remaining"`
	Transcript []taskloop.Entry `json:"transcript"`
	Error      string           `json:"error,omitempty"`
}

// handleRun implements the run_objective tool
func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return mcp.NewToolResultError("Rate limit exceeded. Please try again later."), nil
	}

	objective, err := request.RequireString("objective")
	if err != nil || strings.TrimSpace(objective) == "" {
		return mcp.NewToolResultError("Missing or invalid 'objective' argument"), nil
	}
	maxIter := request.GetInt("max_iterations", s.maxIter)
	if maxIter < 0 {
		return mcp.NewToolResultError("max_iterations must not be negative"), nil
	}

	if !s.rateLimiter.AllowRun() {
		return mcp.NewToolResultError("Rate limit exceeded for loop runs. Please try again later."), nil
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	transcript := taskloop.NewTranscript()
	transcript.Append(taskloop.KindObjective, objective)
	run := s.controller.NewRun(objective, maxIter, transcript)
	defer run.Dispose()

	result, runErr := run.Start(runCtx)
	if result == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Run failed: %v", runErr)), nil
	}
	s.logger.Info("run_objective finished",
		slog.String("run_id", result.RunID),
		slog.String("outcome", string(result.Outcome)))

	payload := RunResult{
		RunID:      result.RunID,
		Outcome:    string(result.Outcome),
		Iterations: result.Iterations,
		Remaining:  result.Remaining,
		Transcript: transcript.Snapshot(),
	}
	if payload.Remaining == nil {
		payload.Remaining = []taskloop.Task{}
	}
	if runErr != nil {
		payload.Error = runErr.Error()
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode run result: %v", err)), nil
	}
	if runErr != nil {
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}, IsError: true}, nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
