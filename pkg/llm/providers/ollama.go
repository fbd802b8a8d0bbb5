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

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tombee/mcpscout/pkg/errors"
	"github.com/tombee/mcpscout/pkg/httpclient"
	"github.com/tombee/mcpscout/pkg/llm"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// OllamaProvider talks to an Ollama server through POST /api/chat with
// streaming disabled. Tool definitions are forwarded in Ollama's function
// format; models without tool support simply never return tool calls.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a provider for cfg. BaseURL and Model default
// to a local server running llama3.2.
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	p := &OllamaProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	if p.baseURL == "" {
		p.baseURL = defaultOllamaURL
	}
	if p.model == "" {
		p.model = defaultOllamaModel
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.Timeout
	hc.UserAgent = "mcpscout-ollama/1.0"
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	p.httpClient = client
	return p, nil
}

func newOllamaFactory(cfg llm.ProviderConfig) (llm.Provider, error) {
	return NewOllamaProvider(cfg)
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Capabilities() llm.Capabilities {
	return llm.Capabilities{Tools: true, DefaultModel: p.model}
}

// Complete implements llm.Provider.
func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	requestID := uuid.New().String()
	fail := func(status int, msg, hint string, cause error) error {
		return &errors.ProviderError{
			Provider:   "ollama",
			StatusCode: status,
			Message:    msg,
			Hint:       hint,
			RequestID:  requestID,
			Cause:      cause,
		}
	}

	chatReq, err := p.buildRequest(req)
	if err != nil {
		return nil, fail(0, err.Error(), "", err)
	}

	status, body, err := httpclient.PostJSON(ctx, p.httpClient, p.baseURL+"/api/chat", chatReq, nil)
	if err != nil {
		return nil, fail(0, fmt.Sprintf("request failed: %v", err), "Check that Ollama is running (ollama serve)", err)
	}
	if !httpclient.IsSuccess(status) {
		msg := strings.TrimSpace(string(body))
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		hint := ""
		if status == http.StatusNotFound {
			hint = fmt.Sprintf("Pull the model first: ollama pull %s", chatReq.Model)
		}
		return nil, fail(status, msg, hint, nil)
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fail(0, fmt.Sprintf("failed to parse response: %v", err), "", err)
	}
	return chatResp.toCompletion(requestID), nil
}

func (p *OllamaProvider) buildRequest(req llm.CompletionRequest) (*ollamaChatRequest, error) {
	out := &ollamaChatRequest{
		Model:    req.Model,
		Messages: make([]ollamaChatMessage, 0, len(req.Messages)),
	}
	if out.Model == "" {
		out.Model = p.model
	}
	if req.Temperature != nil || req.MaxTokens != nil {
		out.Options = &ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}

	for _, msg := range req.Messages {
		m := ollamaChatMessage{Role: string(msg.Role), Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			args := json.RawMessage(tc.Arguments)
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			if !json.Valid(args) {
				return nil, fmt.Errorf("tool call %s has invalid JSON arguments", tc.Name)
			}
			m.ToolCalls = append(m.ToolCalls, ollamaToolCall{Function: ollamaFunctionCall{Name: tc.Name, Arguments: args}})
		}
		out.Messages = append(out.Messages, m)
	}

	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, ollamaTool{
			Type: "function",
			Function: ollamaFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}
	return out, nil
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Tools    []ollamaTool        `json:"tools,omitempty"`
	Stream   bool                `json:"stream"`
	Options  *ollamaOptions      `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type ollamaChatMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaTool struct {
	Type     string         `json:"type"`
	Function ollamaFunction `json:"function"`
}

type ollamaFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Ollama sends tool arguments as a JSON object rather than a string.
type ollamaToolCall struct {
	Function ollamaFunctionCall `json:"function"`
}

type ollamaFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type ollamaChatResponse struct {
	Model           string            `json:"model"`
	CreatedAt       time.Time         `json:"created_at"`
	Message         ollamaChatMessage `json:"message"`
	Done            bool              `json:"done"`
	DoneReason      string            `json:"done_reason"`
	PromptEvalCount int               `json:"prompt_eval_count"`
	EvalCount       int               `json:"eval_count"`
}

func (r *ollamaChatResponse) toCompletion(requestID string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		Content:      r.Message.Content,
		FinishReason: llm.FinishReasonStop,
		Model:        r.Model,
		RequestID:    requestID,
		Created:      r.CreatedAt,
		Usage: llm.TokenUsage{
			InputTokens:  r.PromptEvalCount,
			OutputTokens: r.EvalCount,
			TotalTokens:  r.PromptEvalCount + r.EvalCount,
		},
	}
	if r.DoneReason == "length" {
		out.FinishReason = llm.FinishReasonLength
	}

	// Ollama does not assign call IDs; synthesize stable ones so tool
	// results can be matched to their call.
	for i, tc := range r.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        fmt.Sprintf("call_%d", i+1),
			Name:      tc.Function.Name,
			Arguments: string(tc.Function.Arguments),
		})
	}
	if len(out.ToolCalls) > 0 {
		out.FinishReason = llm.FinishReasonToolCalls
	}
	return out
}
