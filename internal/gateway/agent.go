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
	"log/slog"
	"strings"

	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/pkg/agent"
	"github.com/tombee/mcpscout/pkg/llm"
	"github.com/tombee/mcpscout/pkg/tools"
)

// AgentGateway executes tasks with a tool-using agent. Task creation is a
// plain completion.
type AgentGateway struct {
	*CompletionGateway
	agent *agent.Agent
}

// NewAgentGateway creates a gateway whose Execute may call the tools in
// registry. maxSteps bounds the tool loop of one execute call.
func NewAgentGateway(provider llm.Provider, registry *tools.Registry, maxSteps int, opts Options) *AgentGateway {
	opts = opts.withDefaults()
	a := agent.NewAgent(provider, registry, agent.Config{
		MaxIterations: maxSteps,
		Model:         opts.Model,
		Temperature:   opts.ExecuteTemperature,
	}).WithLogger(opts.Logger)

	return &AgentGateway{
		CompletionGateway: NewCompletionGateway(provider, opts),
		agent:             a,
	}
}

// Execute implements taskloop.Gateway.
func (g *AgentGateway) Execute(ctx context.Context, objective, task string) (string, error) {
	system := ExecuteSystemPrompt(objective, g.opts.Language) +
		" Use the available tools when they help you find MCP servers or facts."

	result, err := g.agent.Run(ctx, system, ExecuteUserPrompt(task))
	if err != nil {
		return "", &GatewayError{Op: OpExecute, Cause: err}
	}

	content := strings.TrimSpace(result.FinalResponse)
	if content == "" {
		return "", &GatewayError{Op: OpExecute, Cause: ErrEmptyCompletion}
	}

	g.logger.Debug("agent execute finished",
		slog.Int("iterations", result.Iterations),
		slog.Int("tool_calls", len(result.ToolExecutions)))
	return content, nil
}

// Create implements taskloop.Gateway.
func (g *AgentGateway) Create(ctx context.Context, objective string, pending []taskloop.Task, last taskloop.Task, lastResult string) (string, error) {
	return g.CompletionGateway.Create(ctx, objective, pending, last, lastResult)
}
