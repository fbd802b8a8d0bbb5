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

// Package gateway implements the two language-model round trips the task
// loop depends on: executing one task and creating the next task list.
//
// Three variants share the taskloop.Gateway interface. CompletionGateway
// prompts an llm.Provider directly, AgentGateway lets the model call tools
// while executing, and RemoteGateway forwards both calls to another
// mcpscout HTTP API.
package gateway

import (
	"fmt"

	"github.com/tombee/mcpscout/internal/taskloop"
)

// Operation names used in errors, spans and metrics.
const (
	OpExecute = "execute"
	OpCreate  = "create"
)

// GatewayError reports a failed gateway call. There is no retry; the loop
// treats every GatewayError as terminal.
type GatewayError struct {
	// Op is OpExecute or OpCreate.
	Op string

	// Cause is the underlying transport, provider or payload error.
	Cause error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *GatewayError) Unwrap() error { return e.Cause }

// ErrorType implements errors.ErrorClassifier.
func (e *GatewayError) ErrorType() string { return "gateway" }

// IsRetryable implements errors.ErrorClassifier.
func (e *GatewayError) IsRetryable() bool { return false }

var (
	_ taskloop.Gateway = (*CompletionGateway)(nil)
	_ taskloop.Gateway = (*AgentGateway)(nil)
	_ taskloop.Gateway = (*RemoteGateway)(nil)
)
