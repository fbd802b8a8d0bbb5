// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/tombee/mcpscout/pkg/llm"
)

// ErrScriptExhausted is returned once every scripted response is consumed.
var ErrScriptExhausted = errors.New("llmtest: no more scripted responses")

// Step is one scripted reply: either a response or an error.
type Step struct {
	Response *llm.CompletionResponse
	Err      error
}

// Provider replays scripted steps in order and records every request.
type Provider struct {
	mu       sync.Mutex
	steps    []Step
	requests []llm.CompletionRequest
	tools    bool
}

// New returns a Provider that replies with steps in order.
func New(steps ...Step) *Provider {
	return &Provider{steps: steps}
}

// Text is shorthand for a step that returns content with a stop reason.
func Text(content string) Step {
	return Step{Response: &llm.CompletionResponse{Content: content, FinishReason: llm.FinishReasonStop}}
}

// Fail is shorthand for a step that returns err.
func Fail(err error) Step {
	return Step{Err: err}
}

// WithTools marks the provider as tool-capable.
func (p *Provider) WithTools() *Provider {
	p.tools = true
	return p
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "scripted" }

// Capabilities implements llm.Provider.
func (p *Provider) Capabilities() llm.Capabilities {
	return llm.Capabilities{Tools: p.tools, DefaultModel: "scripted-model"}
}

// Complete implements llm.Provider. It honours ctx cancellation before
// consuming a step.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if len(p.steps) == 0 {
		return nil, ErrScriptExhausted
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return step.Response, step.Err
}

// Requests returns a copy of the requests received so far.
func (p *Provider) Requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.requests...)
}
