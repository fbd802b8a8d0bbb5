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


// Package inspect implements the inspect command, which probes candidate
// MCP servers and lists their tools.
package inspect

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tombee/mcpscout/internal/commands/completion"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/mcp"
	searchpkg "github.com/tombee/mcpscout/internal/search"
)

// maxParallel bounds concurrent probes.
const maxParallel = 4

// Report is the outcome of probing one endpoint.
type Report struct {
	Title    string           `json:"title,omitempty"`
	Endpoint string           `json:"endpoint"`
	OK       bool             `json:"ok"`
	Result   *mcp.ProbeResult `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	err      error
}

// Result is the JSON output of the inspect command.
type Result struct {
	shared.JSONResponse
	Reports []Report `json:"reports"`
}

type target struct {
	title    string
	endpoint string
}

// NewCommand creates the inspect command
func NewCommand() *cobra.Command {
	var (
		transport  string
		timeout    time.Duration
		headers    map[string]string
		fromSearch string
		mockSearch bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [endpoint...]",
		Short: "Probe MCP servers and list their tools",
		Long: `Connect to one or more MCP server endpoints, perform the initialize
handshake and list the tools each server exposes.

With --from-search the endpoints come from the candidates returned by the
search service for the given query.`,
		Example: `  mcpscout inspect https://example.com/mcp
  mcpscout inspect --transport sse https://example.com/sse
  mcpscout inspect --from-search "translate documents"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fromSearch == "" {
				return shared.NewInvalidInputError("an endpoint or --from-search is required", nil)
			}

			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			logger := shared.NewLogger(cfg, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			targets := make([]target, 0, len(args))
			for _, a := range args {
				targets = append(targets, target{endpoint: a})
			}

			if fromSearch != "" {
				if mockSearch {
					url, err := shared.StartMockSearch(ctx, logger)
					if err != nil {
						return err
					}
					cfg.Search.BaseURL = url
				}
				client, err := searchpkg.NewClient(searchpkg.Config{
					BaseURL: cfg.Search.BaseURL,
					Timeout: cfg.Search.Timeout,
					Logger:  logger,
				})
				if err != nil {
					return shared.NewConfigError("failed to create search client", err)
				}
				found, err := candidateTargets(ctx, client, fromSearch)
				if err != nil {
					return err
				}
				targets = append(targets, found...)
			}

			v, _, _ := shared.GetVersion()
			base := mcp.ClientConfig{
				Transport:     mcp.Transport(transport),
				Timeout:       timeout,
				Headers:       headers,
				ClientVersion: v,
				Logger:        logger,
			}
			return execute(ctx, cmd.OutOrStdout(), base, targets)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "Transport to use (http, sse)")
	cmd.Flags().DurationVar(&timeout, "timeout", mcp.DefaultTimeout, "Timeout per probe stage")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "Extra request header as key=value (repeatable)")
	cmd.Flags().StringVar(&fromSearch, "from-search", "", "Probe the candidates returned for this search query")
	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")
	_ = cmd.RegisterFlagCompletionFunc("transport", completion.CompleteTransports)

	return cmd
}

func candidateTargets(ctx context.Context, searcher searchpkg.Searcher, query string) ([]target, error) {
	result, err := searcher.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, shared.NewCancelledError("search cancelled")
		}
		return nil, shared.NewRunError(searchpkg.ErrorMessage, err)
	}

	targets := make([]target, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		if c.Endpoint == "" {
			continue
		}
		targets = append(targets, target{title: c.Title, endpoint: c.Endpoint})
	}
	if len(targets) == 0 {
		return nil, shared.NewRunError("no candidates with an endpoint", nil)
	}
	return targets, nil
}

// probeAll probes targets with bounded parallelism. Reports keep the
// order of targets.
func probeAll(ctx context.Context, base mcp.ClientConfig, targets []target) []Report {
	reports := make([]Report, len(targets))
	var g errgroup.Group
	g.SetLimit(maxParallel)

	for i, t := range targets {
		g.Go(func() error {
			cfg := base
			cfg.Endpoint = t.endpoint
			res, err := mcp.Probe(ctx, cfg)

			r := Report{Title: t.title, Endpoint: t.endpoint, OK: err == nil, Result: res, err: err}
			if err != nil {
				r.Error = err.Error()
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func execute(ctx context.Context, w io.Writer, base mcp.ClientConfig, targets []target) error {
	reports := probeAll(ctx, base, targets)
	if ctx.Err() != nil {
		return shared.NewCancelledError("inspect cancelled")
	}

	failed := 0
	for _, r := range reports {
		if !r.OK {
			failed++
		}
	}

	if shared.GetJSON() {
		if err := shared.EmitJSONTo(w, Result{
			JSONResponse: shared.NewJSONResponse("inspect", failed == 0),
			Reports:      reports,
		}); err != nil {
			return err
		}
	} else {
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printReport(w, r)
		}
	}

	if failed == 0 {
		return nil
	}
	if len(reports) == 1 {
		// A single failure carries the probe error and its suggestion.
		return shared.NewRunError("probe failed", reports[0].err)
	}
	return shared.NewRunError(fmt.Sprintf("%d of %d probes failed", failed, len(reports)), nil)
}

func printReport(w io.Writer, r Report) {
	name := r.Endpoint
	if r.Title != "" {
		name = fmt.Sprintf("%s (%s)", r.Title, r.Endpoint)
	}

	if !r.OK {
		fmt.Fprintln(w, shared.RenderError(name))
		fmt.Fprintf(w, "  %s\n", r.Error)
		return
	}

	res := r.Result
	fmt.Fprintln(w, shared.RenderOK(name))
	server := res.ServerName
	if res.ServerVersion != "" {
		server += " " + res.ServerVersion
	}
	fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel("Server:"), server)
	fmt.Fprintf(w, "  %s %s via %s in %s\n", shared.RenderLabel("Protocol:"), res.ProtocolVersion, res.Transport, res.Latency.Round(time.Millisecond))
	if res.Instructions != "" {
		fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel("Instructions:"), res.Instructions)
	}

	if len(res.Tools) == 0 {
		fmt.Fprintf(w, "  %s\n", shared.Muted.Render("No tools"))
		return
	}
	fmt.Fprintf(w, "  %s\n", shared.Header.Render(fmt.Sprintf("Tools (%d)", len(res.Tools))))
	for _, tool := range res.Tools {
		fmt.Fprintf(w, "    %s(%s)\n", shared.Bold.Render(tool.Name), params(tool))
		if tool.Description != "" {
			fmt.Fprintf(w, "      %s\n", tool.Description)
		}
	}
}

// params renders input names with required ones marked by a trailing "*".
func params(tool mcp.ToolDefinition) string {
	required := make(map[string]bool, len(tool.Required))
	for _, r := range tool.Required {
		required[r] = true
	}
	parts := make([]string, len(tool.Params))
	for i, p := range tool.Params {
		if required[p] {
			p += "*"
		}
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}
