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

package mcp

import (
	"context"
	"errors"
	"strings"
)

// Stage names the probe step that failed.
type Stage string

const (
	StageConfig     Stage = "config"
	StageConnect    Stage = "connect"
	StageInitialize Stage = "initialize"
	StageListTools  Stage = "list_tools"
	StageTimeout    Stage = "timeout"
)

var stageInfo = map[Stage]struct {
	message string
	hints   []string
}{
	StageConfig:     {message: "invalid probe configuration"},
	StageConnect:    {message: "failed to connect", hints: []string{"Check the endpoint URL", "Try --transport sse for older servers"}},
	StageInitialize: {message: "initialize handshake failed", hints: []string{"The endpoint may not be an MCP server, or may need --transport sse"}},
	StageListTools:  {message: "failed to list tools"},
	StageTimeout:    {message: "server did not respond in time", hints: []string{"Increase --timeout or check that the endpoint is reachable"}},
}

// ProbeError reports which stage of a probe failed. Detail is the endpoint,
// or the offending setting for StageConfig. It satisfies
// pkg/errors.UserVisibleError.
type ProbeError struct {
	Stage  Stage
	Detail string
	Hints  []string
	Cause  error
}

func (e *ProbeError) Error() string {
	msg := e.UserMessage()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProbeError) Unwrap() error      { return e.Cause }
func (e *ProbeError) IsUserVisible() bool { return true }

func (e *ProbeError) UserMessage() string {
	parts := []string{stageInfo[e.Stage].message}
	if parts[0] == "" {
		parts[0] = "probe failed"
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, ": ")
}

// Suggestion returns the first hint; the rest stay on Hints.
func (e *ProbeError) Suggestion() string {
	if len(e.Hints) == 0 {
		return ""
	}
	return e.Hints[0]
}

func configError(detail string) *ProbeError {
	return &ProbeError{Stage: StageConfig, Detail: detail}
}

// stageError wraps err for stage. A deadline error is reported as
// StageTimeout whichever stage hit it.
func stageError(stage Stage, endpoint string, err error) *ProbeError {
	if errors.Is(err, context.DeadlineExceeded) {
		stage = StageTimeout
	}
	return &ProbeError{Stage: stage, Detail: endpoint, Hints: stageInfo[stage].hints, Cause: err}
}
