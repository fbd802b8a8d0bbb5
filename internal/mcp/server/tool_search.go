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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
)

const toolSearch = "search_candidates"

// handleSearch implements the search_candidates tool
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return mcp.NewToolResultError("Rate limit exceeded. Please try again later."), nil
	}

	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("Query is required"), nil
	}

	result, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", log.Error(err))
		var upErr *search.UpstreamError
		if errors.As(err, &upErr) {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s", search.ErrorMessage, upErr.Message)), nil
		}
		return mcp.NewToolResultError(search.ErrorMessage), nil
	}
	s.logger.Debug("search answered", slog.Int("candidates", len(result.Candidates)))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode search result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
