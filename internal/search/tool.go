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

package search

import (
	"context"
	"fmt"

	"github.com/tombee/mcpscout/pkg/tools"
)

// ToolName is the name the agent uses for candidate search.
const ToolName = "search_candidates"

// Tool exposes a Searcher to the agent tool registry.
type Tool struct {
	searcher Searcher
}

var _ tools.Tool = (*Tool)(nil)

// NewTool wraps searcher as an agent tool.
func NewTool(searcher Searcher) *Tool {
	return &Tool{searcher: searcher}
}

// Name implements tools.Tool.
func (t *Tool) Name() string { return ToolName }

// Description implements tools.Tool.
func (t *Tool) Description() string {
	return "Search a catalogue of MCP tools and servers. Returns candidate names, endpoints and descriptions matching a natural-language need."
}

// Schema implements tools.Tool.
func (t *Tool) Schema() *tools.Schema {
	return &tools.Schema{
		Inputs: &tools.ParameterSchema{
			Type: "object",
			Properties: map[string]*tools.Property{
				"query": {Type: "string", Description: "What the MCP server should do"},
			},
			Required: []string{"query"},
		},
		Outputs: &tools.ParameterSchema{
			Type: "object",
			Properties: map[string]*tools.Property{
				"answer":     {Type: "string"},
				"candidates": {Type: "array"},
			},
		},
	}
}

// Execute implements tools.Tool.
func (t *Tool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	query, _ := inputs["query"].(string)
	result, err := t.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("candidate search: %w", err)
	}

	candidates := make([]map[string]interface{}, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		candidates = append(candidates, map[string]interface{}{
			"title":       c.Title,
			"endpoint":    c.Endpoint,
			"description": c.MetaDescription,
		})
	}
	return map[string]interface{}{
		"answer":     result.Message.Content,
		"candidates": candidates,
	}, nil
}
