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

// Package search dispatches free-text queries to the external MCP candidate
// recommendation service and adapts its replies for the transcript and the
// HTTP API.
package search

import (
	"fmt"
	"time"

	"github.com/tombee/mcpscout/internal/taskloop"
)

// ErrorMessage is the transcript text recorded when a search fails.
const ErrorMessage = "検索中にエラーが発生しました。"

// defaultUpstreamMessage is used when the upstream error body carries no message.
const defaultUpstreamMessage = "External API error"

// Candidate is an MCP tool/server recommendation.
type Candidate = taskloop.Candidate

// Message is the agent reply shown above the candidate cards.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is one adapted search reply.
type Result struct {
	Message    Message     `json:"message"`
	Candidates []Candidate `json:"mcpCandidates"`
}

// Request is the body the upstream service expects.
type Request struct {
	Message string `json:"message"`
}

// Response is the upstream service reply.
type Response struct {
	QueryEcho  string      `json:"queryEcho"`
	Candidates []Candidate `json:"candidates"`
	LLMAnswer  string      `json:"llmAnswer"`
}

// UpstreamError reports a failed round trip to the search service.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("search upstream [HTTP %d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("search upstream: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// ErrorType implements errors.ErrorClassifier.
func (e *UpstreamError) ErrorType() string { return "upstream" }

// IsRetryable implements errors.ErrorClassifier.
func (e *UpstreamError) IsRetryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

// HTTPStatus is the status to report to API clients: the upstream status
// when it was an error status, 500 otherwise. A 2xx reply that could not be
// decoded is still an error and never reported as success.
func (e *UpstreamError) HTTPStatus() int {
	if e.StatusCode >= 400 {
		return e.StatusCode
	}
	return 500
}
