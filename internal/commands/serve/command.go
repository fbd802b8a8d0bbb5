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

// Package serve implements the serve command, which runs the HTTP API.
package serve

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/metrics"
	"github.com/tombee/mcpscout/internal/server"
)

// NewCommand creates the serve command
func NewCommand() *cobra.Command {
	var (
		listen     string
		mockSearch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the execute, create, search and chat endpoints over HTTP.

Endpoints:
  POST /api/execute   {objective, task}                 -> {response}
  POST /api/create    {objective, taskList, task, result} -> {response: [task]}
  POST /api/search    {query}                           -> {message, mcpCandidates}
  POST /api/chat      {messages: [{role, content}]}     -> {response}
  GET  /api/commands  slash command suggestions
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
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

			version, _, _ := shared.GetVersion()
			router := server.NewRouter(server.Dependencies{
				Gateway:        svc.Gateway,
				Searcher:       svc.Searcher,
				Chatter:        svc.Chatter,
				MetricsHandler: metrics.Handler(),
				Version:        version,
				Logger:         svc.Logger,
			})

			srv := server.New(cfg.Server.Listen, router, cfg.Server.ShutdownTimeout, svc.Logger)
			svc.Logger.Info("starting mcpscout API",
				slog.String("listen", cfg.Server.Listen),
				slog.String("gateway", cfg.Loop.Gateway))
			if err := srv.Run(ctx); err != nil {
				return shared.NewRunError("server failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")

	return cmd
}
