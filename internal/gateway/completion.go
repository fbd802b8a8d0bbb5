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

package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/pkg/llm"
)

// ErrEmptyCompletion is the cause when an execute or chat answer has no
// text. An empty create answer is not an error: it parses to no tasks and
// ends the loop.
var ErrEmptyCompletion = errors.New("empty completion")

// Options tunes the prompt-based gateway variants.
type Options struct {
	// Model overrides the provider default model.
	Model string

	// Language is the answer language for execute (default: Japanese).
	Language string

	// ExecuteTemperature defaults to 0.7.
	ExecuteTemperature *float64

	// CreateTemperature defaults to 0.3.
	CreateTemperature *float64

	// MaxTokens caps each completion when positive.
	MaxTokens int

	// Logger receives call logs (default: slog.Default()).
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.ExecuteTemperature == nil {
		o.ExecuteTemperature = llm.Float64(0.7)
	}
	if o.CreateTemperature == nil {
		o.CreateTemperature = llm.Float64(0.3)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// CompletionGateway prompts an llm.Provider directly.
type CompletionGateway struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

// NewCompletionGateway creates a gateway over provider.
func NewCompletionGateway(provider llm.Provider, opts Options) *CompletionGateway {
	opts = opts.withDefaults()
	return &CompletionGateway{
		provider: provider,
		opts:     opts,
		logger:   log.WithProvider(log.WithComponent(opts.Logger, "gateway"), provider.Name()),
	}
}

// Execute implements taskloop.Gateway.
func (g *CompletionGateway) Execute(ctx context.Context, objective, task string) (string, error) {
	out, err := g.complete(ctx, OpExecute, g.opts.ExecuteTemperature,
		llm.Message{Role: llm.MessageRoleSystem, Content: ExecuteSystemPrompt(objective, g.opts.Language)},
		llm.Message{Role: llm.MessageRoleUser, Content: ExecuteUserPrompt(task)},
	)
	if err == nil && out == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		return "", &GatewayError{Op: OpExecute, Cause: err}
	}
	return out, nil
}

// Create implements taskloop.Gateway.
func (g *CompletionGateway) Create(ctx context.Context, objective string, pending []taskloop.Task, last taskloop.Task, lastResult string) (string, error) {
	out, err := g.complete(ctx, OpCreate, g.opts.CreateTemperature,
		llm.Message{Role: llm.MessageRoleUser, Content: CreatePrompt(objective, pending, last, lastResult)},
	)
	if err != nil {
		return "", &GatewayError{Op: OpCreate, Cause: err}
	}
	return out, nil
}

// Chat continues a multi-turn conversation held by the caller.
func (g *CompletionGateway) Chat(ctx context.Context, history []llm.Message) (string, error) {
	if len(history) == 0 {
		return "", errors.New("chat history is empty")
	}
	out, err := g.complete(ctx, "chat", g.opts.ExecuteTemperature, history...)
	if err == nil && out == "" {
		err = ErrEmptyCompletion
	}
	return out, err
}

func (g *CompletionGateway) complete(ctx context.Context, op string, temperature *float64, messages ...llm.Message) (string, error) {
	log.Trace(g.logger, "completion request",
		slog.String("op", op),
		slog.String("prompt", messages[len(messages)-1].Content))

	req := llm.CompletionRequest{
		Messages:    messages,
		Model:       g.opts.Model,
		Temperature: temperature,
	}
	if g.opts.MaxTokens > 0 {
		req.MaxTokens = llm.Int(g.opts.MaxTokens)
	}

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.FinishReason == llm.FinishReasonLength {
		g.logger.Warn("completion truncated at token limit",
			slog.String("op", op),
			slog.Int("max_tokens", g.opts.MaxTokens))
	}

	content := strings.TrimSpace(resp.Content)

	g.logger.Debug("completion finished",
		slog.String("op", op),
		slog.Int("tokens", resp.Usage.TotalTokens))
	return content, nil
}
