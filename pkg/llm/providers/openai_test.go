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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/mcpscout/pkg/errors"
	"github.com/tombee/mcpscout/pkg/llm"
)

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(llm.ProviderConfig{})
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "llm.api_key", cfgErr.Key)
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "gpt-3.5-turbo-0125",
			"created": 1700000000,
			"choices": [{"message": {"role": "assistant", "content": "こんにちは"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(llm.ProviderConfig{APIKey: "sk-test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.MessageRoleSystem, Content: "sys"},
			{Role: llm.MessageRoleUser, Content: "hi"},
		},
		Temperature: llm.Float64(0.7),
	})
	require.NoError(t, err)

	assert.Equal(t, "こんにちは", resp.Content)
	assert.Equal(t, llm.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.RequestID)

	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.7, *got.Temperature)
	assert.Nil(t, got.MaxTokens)
}

func TestOpenAIProvider_ToolCalls(t *testing.T) {
	var got openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {"role": "assistant", "content": "", "tool_calls": [
					{"id": "call_1", "type": "function", "function": {"name": "web_search", "arguments": "{\"query\":\"mcp\"}"}}
				]},
				"finish_reason": "tool_calls"
			}]
		}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(llm.ProviderConfig{APIKey: "k", BaseURL: server.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.MessageRoleUser, Content: "find"}},
		Tools: []llm.Tool{{
			Name:        "web_search",
			Description: "Search the web",
			InputSchema: map[string]interface{}{"type": "object"},
		}},
	})
	require.NoError(t, err)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "web_search", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"mcp"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, llm.FinishReasonToolCalls, resp.FinishReason)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "web_search", got.Tools[0].Function.Name)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "api error envelope",
			status:     http.StatusUnauthorized,
			body:       `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect API key provided",
		},
		{
			name:       "opaque error",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "API request failed with status 502",
		},
		{
			name:       "malformed success",
			status:     http.StatusOK,
			body:       `not json`,
			wantStatus: http.StatusOK,
			wantMsg:    "failed to parse response",
		},
		{
			name:       "no choices",
			status:     http.StatusOK,
			body:       `{"choices": []}`,
			wantStatus: 0,
			wantMsg:    "response contained no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := NewOpenAIProvider(llm.ProviderConfig{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), llm.CompletionRequest{
				Messages: []llm.Message{{Role: llm.MessageRoleUser, Content: "x"}},
			})
			require.Error(t, err)

			var provErr *errors.ProviderError
			require.True(t, errors.As(err, &provErr))
			assert.Equal(t, "openai", provErr.Provider)
			assert.Equal(t, tt.wantStatus, provErr.StatusCode)
			assert.Contains(t, provErr.Message, tt.wantMsg)
		})
	}
}

func TestOpenAIProvider_EmptyMessages(t *testing.T) {
	p, err := NewOpenAIProvider(llm.ProviderConfig{APIKey: "k"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.CompletionRequest{})
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestRegisteredFactories(t *testing.T) {
	assert.Contains(t, llm.Factories(), "openai")
	assert.Contains(t, llm.Factories(), "ollama")
}
