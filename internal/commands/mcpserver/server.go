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

// Package mcpserver implements the mcp-server command.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/completion"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/mcp/server"
	httpserver "github.com/tombee/mcpscout/internal/server"
)

// NewCommand creates the mcp-server command
func NewCommand() *cobra.Command {
	var (
		logLevel   string
		listen     string
		mockSearch bool
	)

	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Start the mcpscout MCP server",
		Long: `Start the mcpscout MCP (Model Context Protocol) server on stdio, or over
streamable HTTP when --listen is given.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "mcpscout": {
        "command": "mcpscout",
        "args": ["mcp-server"]
      }
    }
  }

The server exposes these tools:
  - search_candidates: find MCP servers for a natural-language request
  - run_objective: run the task loop and return its transcript`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServer(cmd, logLevel, listen, mockSearch)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging verbosity (trace, debug, info, warn, error)")
	_ = cmd.RegisterFlagCompletionFunc("log-level", completion.CompleteLogLevels)
	cmd.Flags().StringVar(&listen, "listen", "", "Serve streamable HTTP on this address instead of stdio")
	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")

	return cmd
}

func runMCPServer(cmd *cobra.Command, logLevel, listen string, mockSearch bool) error {
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

	svc, err := shared.NewServices(ctx, cfg, shared.ServiceOptions{})
	if err != nil {
		return err
	}
	defer svc.Close(context.Background())

	versionStr, _, _ := shared.GetVersion()
	srv, err := server.NewServer(server.ServerConfig{
		Name:          "mcpscout",
		Version:       versionStr,
		LogLevel:      logLevel,
		Searcher:      svc.Searcher,
		Controller:    svc.Controller,
		MaxIterations: cfg.Loop.MaxIterations,
		RatePerSecond: cfg.MCP.RateLimit,
		Burst:         cfg.MCP.Burst,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if listen != "" {
		return httpserver.New(listen, srv.Handler(), cfg.Server.ShutdownTimeout, svc.Logger).Run(ctx)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
