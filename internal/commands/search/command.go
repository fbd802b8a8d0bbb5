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

// Package search implements the search command.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/cli/format"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/jq"
	searchpkg "github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/taskloop"
)

// Result is the JSON output of the search command.
type Result struct {
	shared.JSONResponse
	*searchpkg.Result
}

// NewCommand creates the search command
func NewCommand() *cobra.Command {
	var (
		mockSearch bool
		filterExpr string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for MCP candidates",
		Long: `Send a natural-language request to the candidate search service and
print the agent answer together with the matching MCP servers.`,
		Example: `  mcpscout search "translate documents into Japanese"
  mcpscout search --json "query a postgres database"
  mcpscout search --filter '.mcpCandidates[].endpoint' "weather forecasts"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return shared.NewInvalidInputError("Query is required", nil)
			}
			filter, err := jq.Compile(filterExpr)
			if err != nil {
				return shared.NewInvalidInputError("invalid --filter", err)
			}

			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if mockSearch {
				url, err := shared.StartMockSearch(ctx, shared.NewLogger(cfg, os.Stderr))
				if err != nil {
					return err
				}
				cfg.Search.BaseURL = url
			}

			client, err := searchpkg.NewClient(searchpkg.Config{
				BaseURL: cfg.Search.BaseURL,
				Timeout: cfg.Search.Timeout,
				Logger:  shared.NewLogger(cfg, os.Stderr),
			})
			if err != nil {
				return shared.NewConfigError("failed to create search client", err)
			}

			return execute(ctx, cmd.OutOrStdout(), client, query, filter)
		},
	}

	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "jq expression applied to the search result JSON")

	return cmd
}

func execute(ctx context.Context, w io.Writer, searcher searchpkg.Searcher, query string, filter *jq.Filter) error {
	result, err := searcher.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return shared.NewCancelledError("search cancelled")
		}
		return shared.NewRunError(searchpkg.ErrorMessage, err)
	}

	if filter != nil && filter.String() != "" {
		return printFiltered(ctx, w, filter, result)
	}

	if shared.GetJSON() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Result{
			JSONResponse: shared.NewJSONResponse("search", true),
			Result:       result,
		})
	}

	format.NewPrinter(w, format.Styled(w)).PrintEntry(taskloop.Entry{
		Kind:       taskloop.KindSearchResult,
		Content:    result.Message.Content,
		Candidates: result.Candidates,
		Timestamp:  result.Message.Timestamp,
	})
	return nil
}

// printFiltered prints string results raw, one per line, and anything else
// as indented JSON.
func printFiltered(ctx context.Context, w io.Writer, filter *jq.Filter, result *searchpkg.Result) error {
	out, err := filter.Apply(ctx, result)
	if err != nil {
		return shared.NewInvalidInputError("filter failed", err)
	}

	values, ok := out.([]any)
	if !ok {
		values = []any{out}
	}
	for _, v := range values {
		if str, isStr := v.(string); isStr {
			fmt.Fprintln(w, str)
			continue
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		text, err := format.FormatJSON(string(data), format.Styled(w))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
	}
	return nil
}
