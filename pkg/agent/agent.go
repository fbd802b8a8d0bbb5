// Package agent runs a tool-using completion loop: the model is offered the
// registry's tools, any calls it makes are executed and fed back as tool
// messages, and the loop ends when the model answers in plain text.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tombee/mcpscout/pkg/llm"
	"github.com/tombee/mcpscout/pkg/tools"
)

// Agent represents an LLM-powered agent that can use tools.
type Agent struct {
	provider       llm.Provider
	registry       *tools.Registry
	config         Config
	contextManager *ContextManager
	logger         *slog.Logger
}

// Result is what Run returns, including on failure.
type Result struct {
	FinalResponse  string
	ToolExecutions []ToolExecution
	Iterations     int // completion round trips
	TokensUsed     llm.TokenUsage
	Duration       time.Duration
}

// ToolExecution records a single tool execution.
type ToolExecution struct {
	ToolName string
	Inputs   map[string]interface{}
	Outputs  map[string]interface{}
	Success  bool
	Error    string
	Duration time.Duration
}

// NewAgent creates a new agent. A nil registry behaves like an empty one.
func NewAgent(provider llm.Provider, registry *tools.Registry, cfg Config) *Agent {
	if registry == nil {
		registry = tools.NewRegistry()
	}
	cfg = cfg.WithDefaults()

	return &Agent{
		provider:       provider,
		registry:       registry,
		config:         cfg,
		contextManager: NewContextManager(cfg.ContextTokens),
		logger:         slog.Default(),
	}
}

// WithLogger sets the logger used for tool execution records.
func (a *Agent) WithLogger(logger *slog.Logger) *Agent {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Run executes the agent loop. An error is returned when the provider
// fails, ctx is cancelled, or the iteration budget runs out; the partial
// Result is returned alongside it.
func (a *Agent) Run(ctx context.Context, systemPrompt string, userPrompt string) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	messages := []llm.Message{
		{Role: llm.MessageRoleSystem, Content: systemPrompt},
		{Role: llm.MessageRoleUser, Content: userPrompt},
	}

	var defs []llm.Tool
	if a.provider.Capabilities().Tools {
		defs = a.registry.Definitions()
	}

	for iteration := 1; iteration <= a.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(startTime)
			return result, err
		}
		result.Iterations = iteration

		response, err := a.provider.Complete(ctx, llm.CompletionRequest{
			Messages:    messages,
			Model:       a.config.Model,
			Temperature: a.config.Temperature,
			Tools:       defs,
		})
		if err != nil {
			result.Duration = time.Since(startTime)
			return result, fmt.Errorf("LLM call failed: %w", err)
		}

		result.TokensUsed.InputTokens += response.Usage.InputTokens
		result.TokensUsed.OutputTokens += response.Usage.OutputTokens
		result.TokensUsed.TotalTokens += response.Usage.TotalTokens

		if len(response.ToolCalls) == 0 {
			result.FinalResponse = response.Content
			result.Duration = time.Since(startTime)
			return result, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.MessageRoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		executions := a.executeTools(ctx, response.ToolCalls)
		for i, execution := range executions {
			result.ToolExecutions = append(result.ToolExecutions, execution)
			messages = append(messages, llm.Message{
				Role:       llm.MessageRoleTool,
				Content:    formatToolResult(execution),
				ToolCallID: response.ToolCalls[i].ID,
			})
		}

		if a.contextManager.ShouldPrune(messages) {
			messages = a.contextManager.Prune(messages)
		}
	}

	result.Duration = time.Since(startTime)
	return result, fmt.Errorf("max iterations (%d) reached without a final answer", a.config.MaxIterations)
}

// executeTools runs the calls of one model turn concurrently, bounded by
// ToolConcurrency. Results keep the order of calls.
func (a *Agent) executeTools(ctx context.Context, calls []llm.ToolCall) []ToolExecution {
	out := make([]ToolExecution, len(calls))
	var g errgroup.Group
	g.SetLimit(a.config.ToolConcurrency)
	for i, call := range calls {
		g.Go(func() error {
			out[i] = a.executeTool(ctx, call)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// executeTool executes a single tool call. Tool failures are reported back
// to the model rather than aborting the run.
func (a *Agent) executeTool(ctx context.Context, toolCall llm.ToolCall) ToolExecution {
	startTime := time.Now()
	execution := ToolExecution{
		ToolName: toolCall.Name,
	}

	inputs := map[string]interface{}{}
	if toolCall.Arguments != "" {
		if err := json.Unmarshal([]byte(toolCall.Arguments), &inputs); err != nil {
			execution.Error = fmt.Sprintf("invalid tool arguments: %v", err)
			execution.Duration = time.Since(startTime)
			return execution
		}
	}
	execution.Inputs = inputs

	outputs, err := a.registry.Execute(ctx, toolCall.Name, inputs)
	execution.Duration = time.Since(startTime)

	if err != nil {
		execution.Error = err.Error()
		a.logger.Warn("tool execution failed",
			slog.String("tool", toolCall.Name),
			slog.String("error", err.Error()))
		return execution
	}

	a.logger.Debug("tool executed",
		slog.String("tool", toolCall.Name),
		slog.Int64("duration_ms", execution.Duration.Milliseconds()))

	execution.Success = true
	execution.Outputs = outputs
	return execution
}

// formatToolResult renders a tool execution as the content of a tool message.
func formatToolResult(execution ToolExecution) string {
	if !execution.Success {
		return fmt.Sprintf("Error executing %s: %s", execution.ToolName, execution.Error)
	}

	data, err := json.Marshal(execution.Outputs)
	if err != nil {
		return fmt.Sprintf("Tool %s completed successfully: %v", execution.ToolName, execution.Outputs)
	}
	return string(data)
}
