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

package shared

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tombee/mcpscout/internal/config"
	"github.com/tombee/mcpscout/internal/gateway"
	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/session"
	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/internal/tracing"
	"github.com/tombee/mcpscout/pkg/llm"
	_ "github.com/tombee/mcpscout/pkg/llm/providers"
	"github.com/tombee/mcpscout/pkg/tools"
	"github.com/tombee/mcpscout/pkg/tools/websearch"
)

// Services holds everything a command needs to talk to the model and the
// search service.
type Services struct {
	Config     *config.Config
	Logger     *slog.Logger
	Gateway    taskloop.Gateway
	Controller *taskloop.Controller
	Searcher   search.Searcher

	// Chatter is nil when the gateway is remote.
	Chatter session.Chatter

	tracing *tracing.Provider
}

// LoadConfig loads configuration from the --config path or the default
// location.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// NewLogger builds the command logger. --verbose lowers the level to debug
// and --quiet raises it to error.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	lc := log.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Format = log.Format(cfg.Log.Format)
	lc.AddSource = cfg.Log.AddSource
	lc.Output = w
	if GetVerbose() {
		lc.Level = "debug"
	}
	if GetQuiet() {
		lc.Level = "error"
	}
	return log.New(lc)
}

// ServiceOptions adjusts how services are built.
type ServiceOptions struct {
	// Searcher replaces the HTTP search client.
	Searcher search.Searcher

	// LogOutput receives logs (default: os.Stderr).
	LogOutput io.Writer
}

// NewServices wires the gateway selected by cfg.Loop.Gateway together with
// the search client, tracing and the loop controller.
func NewServices(ctx context.Context, cfg *config.Config, opts ServiceOptions) (*Services, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	logger := NewLogger(cfg, opts.LogOutput)
	slog.SetDefault(logger)

	v, _, _ := GetVersion()
	tp, err := tracing.Setup(ctx, tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: v,
		Exporter: tracing.ExporterConfig{
			Type:     cfg.Tracing.Exporter,
			Endpoint: cfg.Tracing.Endpoint,
			Insecure: cfg.Tracing.Insecure,
			Headers:  cfg.Tracing.Headers,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	s := &Services{Config: cfg, Logger: logger, tracing: tp}

	s.Searcher = opts.Searcher
	if s.Searcher == nil {
		client, err := search.NewClient(search.Config{
			BaseURL: cfg.Search.BaseURL,
			Timeout: cfg.Search.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, NewConfigError("failed to create search client", err)
		}
		s.Searcher = client
	}

	if err := s.buildGateway(); err != nil {
		return nil, err
	}
	s.Controller = taskloop.NewController(s.Gateway, taskloop.WithLogger(logger))
	return s, nil
}

func (s *Services) buildGateway() error {
	cfg := s.Config
	if cfg.Loop.Gateway == config.GatewayRemote {
		gw, err := gateway.NewRemoteGateway(cfg.Loop.RemoteURL, cfg.LLM.RequestTimeout)
		if err != nil {
			return NewConfigError("failed to create remote gateway", err)
		}
		s.Gateway = gw
		s.Logger.Info("using remote gateway", slog.String("url", cfg.Loop.RemoteURL))
		return nil
	}

	provider, err := llm.New(cfg.LLM.Provider, llm.ProviderConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.RequestTimeout,
	})
	if err != nil {
		return NewProviderError("failed to create provider", err)
	}
	provider = tracing.WrapProvider(provider)
	log.WithProvider(s.Logger, provider.Name()).Debug("provider ready",
		slog.String("api_key", log.SanitizeAPIKey(cfg.LLM.APIKey)))

	opts := gateway.Options{
		Model:              cfg.LLM.Model,
		Language:           cfg.Loop.Language,
		ExecuteTemperature: llm.Float64(cfg.LLM.ExecuteTemperature),
		CreateTemperature:  llm.Float64(cfg.LLM.CreateTemperature),
		MaxTokens:          cfg.LLM.MaxTokens,
		Logger:             s.Logger,
	}

	if cfg.Loop.Gateway != config.GatewayAgent {
		gw := gateway.NewCompletionGateway(provider, opts)
		s.Gateway, s.Chatter = gw, gw
		return nil
	}

	registry, err := s.toolRegistry()
	if err != nil {
		return err
	}
	gw := gateway.NewAgentGateway(provider, registry, cfg.Tools.AgentMaxIterations, opts)
	s.Gateway, s.Chatter = gw, gw
	return nil
}

// toolRegistry registers candidate search and, when a Serper key is
// configured, web search.
func (s *Services) toolRegistry() (*tools.Registry, error) {
	registry := tools.NewRegistry()
	if err := registry.Register(search.NewTool(s.Searcher)); err != nil {
		return nil, err
	}

	if key := s.Config.Tools.SerperAPIKey; key != "" {
		ws, err := websearch.New(websearch.Config{APIKey: key})
		if err != nil {
			return nil, NewConfigError("failed to create web search tool", err)
		}
		if err := registry.Register(ws); err != nil {
			return nil, err
		}
	}
	s.Logger.Debug("agent tools registered", slog.Any("tools", registry.List()))
	return registry, nil
}

// Close flushes telemetry.
func (s *Services) Close(ctx context.Context) error {
	if s.tracing == nil {
		return nil
	}
	return s.tracing.Shutdown(ctx)
}
