// Package llm is the provider-neutral chat completion surface. The task
// gateways, the tool-using agent and the chat endpoint depend only on
// Provider; concrete backends live in pkg/llm/providers.
package llm

import (
	"context"
	"time"
)

// Provider is a chat completion backend.
type Provider interface {
	// Name is the registry key, e.g. "openai" or "ollama".
	Name() string

	Capabilities() Capabilities

	// Complete blocks until the model answers or ctx is done.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Capabilities describes a configured backend.
type Capabilities struct {
	Tools        bool   // supports function calling
	DefaultModel string // used when CompletionRequest.Model is empty
}

// CompletionRequest is one round trip. Nil pointer fields defer to the
// provider's own defaults.
type CompletionRequest struct {
	Messages    []Message
	Model       string
	Temperature *float64
	MaxTokens   *int
	Tools       []Tool
}

// MessageRole identifies the author of a Message.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
)

// Valid reports whether r is one of the four known roles.
func (r MessageRole) Valid() bool {
	switch r {
	case MessageRoleSystem, MessageRoleUser, MessageRoleAssistant, MessageRoleTool:
		return true
	}
	return false
}

// Message is one conversation turn. ToolCalls is set on assistant turns
// that invoke tools; ToolCallID links a tool turn back to its call.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model. Arguments is
// the raw JSON object the model produced.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Tool advertises a callable function. InputSchema is a JSON Schema object.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// FinishReason says why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonLength    FinishReason = "length"
	FinishReasonToolCalls FinishReason = "tool_calls"
)

// CompletionResponse is the model's answer to a CompletionRequest.
type CompletionResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Usage        TokenUsage

	// Model is the model that actually served the request.
	Model string

	// RequestID is the provider's request identifier, when it sends one.
	RequestID string

	Created time.Time
}

// TokenUsage counts prompt and completion tokens.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Float64 returns &v.
func Float64(v float64) *float64 { return &v }

// Int returns &v.
func Int(v int) *int { return &v }
