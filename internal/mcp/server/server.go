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

// Package server exposes candidate search and the task loop as MCP tools,
// over stdio or streamable HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/taskloop"
)

const instructions = `Use search_candidates to find MCP servers that can do what the user
describes. Use run_objective to plan and work through a broader goal; it
returns the transcript of every executed task.`

// Server serves the mcpscout tools.
type Server struct {
	mcpServer   *server.MCPServer
	name        string
	version     string
	searcher    search.Searcher
	controller  *taskloop.Controller
	maxIter     int
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// ServerConfig configures NewServer. Only Searcher is required.
type ServerConfig struct {
	Name    string // default "mcpscout"
	Version string // default "dev"

	// LogLevel is trace, debug, info, warn or error. Logs go to LogOutput
	// (default stderr) so they never mix with the stdio protocol stream.
	LogLevel  string
	LogOutput io.Writer

	Searcher search.Searcher

	// Controller backs run_objective. The tool is not offered when nil.
	Controller *taskloop.Controller

	// MaxIterations applies when run_objective is called without a limit.
	MaxIterations int

	// RatePerSecond and Burst bound tool calls.
	RatePerSecond float64
	Burst         int
}

var logLevels = map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	if !logLevels[level] {
		return nil, fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", level)
	}
	if w == nil {
		w = os.Stderr
	}
	logger := log.New(&log.Config{Level: level, Format: log.FormatText, Output: w})
	return log.WithComponent(logger, "mcp-server"), nil
}

// NewServer builds the MCP server and registers its tools.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.Name == "" {
		cfg.Name = "mcpscout"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	s := &Server{
		mcpServer: server.NewMCPServer(cfg.Name, cfg.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
		name:        cfg.Name,
		version:     cfg.Version,
		searcher:    cfg.Searcher,
		controller:  cfg.Controller,
		maxIter:     cfg.MaxIterations,
		rateLimiter: NewRateLimiter(cfg.RatePerSecond, cfg.Burst),
		logger:      logger,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(toolSearch,
		mcp.WithDescription("Search the MCP candidate catalog with a natural-language request. Returns the agent answer and matching MCP servers."),
		mcp.WithString("query", mcp.Required(), mcp.Description("What the MCP server should be able to do")),
	), s.handleSearch)

	if s.controller == nil {
		return
	}
	s.mcpServer.AddTool(mcp.NewTool(toolRun,
		mcp.WithDescription("Break an objective into tasks and work through them with the language model. Returns the full transcript."),
		mcp.WithString("objective", mcp.Required(), mcp.Description("The goal to pursue")),
		mcp.WithNumber("max_iterations", mcp.Min(0), mcp.Description("Maximum execute/create rounds (0 means unbounded)")),
	), s.handleRun)
}

// Run serves over stdio until ctx is cancelled or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks the stdio transport over in and out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("mcp server starting", slog.String("transport", "stdio"), slog.String("version", s.version))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	s.logger.Info("mcp server stopped")
	return nil
}

// Handler returns the streamable HTTP transport for mounting on an
// http.Server.
func (s *Server) Handler() http.Handler {
	s.logger.Info("mcp server starting", slog.String("transport", "http"), slog.String("version", s.version))
	return server.NewStreamableHTTPServer(s.mcpServer)
}
