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

func TestOllamaProvider_Defaults(t *testing.T) {
	p, err := NewOllamaProvider(llm.ProviderConfig{})
	require.NoError(t, err)

	assert.Equal(t, "ollama", p.Name())
	assert.Equal(t, defaultOllamaURL, p.baseURL)
	assert.True(t, p.Capabilities().Tools)
	assert.Equal(t, defaultOllamaModel, p.Capabilities().DefaultModel)
}

func TestOllamaProvider_Complete(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"1. Research"},"done":true,"prompt_eval_count":20,"eval_count":4}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(llm.ProviderConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.MessageRoleUser, Content: "plan"}},
		Temperature: llm.Float64(0.3),
	})
	require.NoError(t, err)

	assert.Equal(t, "1. Research", resp.Content)
	assert.Equal(t, 24, resp.Usage.TotalTokens)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 0.3, *got.Options.Temperature)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"nope\" not found"}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(llm.ProviderConfig{BaseURL: server.URL, Model: "nope"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.MessageRoleUser, Content: "x"}},
	})

	var provErr *errors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusNotFound, provErr.StatusCode)
	assert.Equal(t, `model "nope" not found`, provErr.Message)
	assert.Equal(t, "Pull the model first: ollama pull nope", provErr.Hint)
}

func TestOllamaProvider_ToolCalls(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"model":"llama3.2",
			"message":{"role":"assistant","content":"","tool_calls":[
				{"function":{"name":"search_mcp_servers","arguments":{"query":"image"}}}
			]},
			"done":true,"done_reason":"stop"
		}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(llm.ProviderConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.MessageRoleUser, Content: "find an image server"},
			{Role: llm.MessageRoleAssistant, ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "web_search", Arguments: `{"query":"mcp"}`}}},
			{Role: llm.MessageRoleTool, ToolCallID: "call_1", Content: "[]"},
		},
		Tools: []llm.Tool{{
			Name:        "search_mcp_servers",
			Description: "Search the MCP server catalog",
			InputSchema: map[string]interface{}{"type": "object"},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, llm.FinishReasonToolCalls, resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search_mcp_servers", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"image"}`, resp.ToolCalls[0].Arguments)

	tools := got["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "search_mcp_servers", fn["name"])

	history := got["messages"].([]any)
	call := history[1].(map[string]any)["tool_calls"].([]any)[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, map[string]any{"query": "mcp"}, call["arguments"], "arguments are sent as an object")
}

func TestOllamaProvider_TruncatedAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"1. Res"},"done":true,"done_reason":"length"}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(llm.ProviderConfig{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Messages:  []llm.Message{{Role: llm.MessageRoleUser, Content: "plan"}},
		MaxTokens: llm.Int(3),
	})
	require.NoError(t, err)
	assert.Equal(t, llm.FinishReasonLength, resp.FinishReason)
}

func TestOllamaProvider_InvalidToolArguments(t *testing.T) {
	p, err := NewOllamaProvider(llm.ProviderConfig{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.MessageRoleAssistant, ToolCalls: []llm.ToolCall{{Name: "web_search", Arguments: "{not json"}}}},
	})
	var provErr *errors.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Contains(t, provErr.Message, "invalid JSON arguments")
}
