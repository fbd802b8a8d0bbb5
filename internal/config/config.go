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

// Package config loads mcpscout configuration from a YAML file, the
// environment and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// DefaultSearchURL is the external candidate search service.
const DefaultSearchURL = "https://sample-server-production-74fc.up.railway.app"

// Gateway variants accepted by loop.gateway.
const (
	GatewayCompletion = "completion"
	GatewayAgent      = "agent"
	GatewayRemote     = "remote"
)

// Config represents the complete mcpscout configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	LLM     LLMConfig     `yaml:"llm"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Loop    LoopConfig    `yaml:"loop"`
	Tools   ToolsConfig   `yaml:"tools"`
	MCP     MCPConfig     `yaml:"mcp"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Environment: LOG_LEVEL
	// Default: info
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	// Environment: LOG_FORMAT
	// Default: text
	Format string `yaml:"format"`

	// AddSource adds source file and line information to logs.
	AddSource bool `yaml:"add_source"`
}

// LLMConfig configures the language-model provider behind the gateway.
type LLMConfig struct {
	// Provider names a registered provider factory (openai, ollama).
	// Environment: MCPSCOUT_PROVIDER
	// Default: openai
	Provider string `yaml:"provider"`

	// Model overrides the provider default model.
	// Environment: MCPSCOUT_MODEL
	Model string `yaml:"model,omitempty"`

	// BaseURL overrides the provider API endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey authenticates against the provider. When empty it is looked
	// up in the OS keyring.
	// Environment: OPENAI_API_KEY
	APIKey string `yaml:"api_key,omitempty"`

	// RequestTimeout bounds a single completion round trip.
	// Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ExecuteTemperature is used for task execution.
	// Default: 0.7
	ExecuteTemperature float64 `yaml:"execute_temperature"`

	// CreateTemperature is used for task creation.
	// Default: 0.3
	CreateTemperature float64 `yaml:"create_temperature"`

	// MaxTokens caps each completion. Zero leaves the provider default.
	MaxTokens int `yaml:"max_tokens,omitempty"`
}

// SearchConfig configures the external candidate search service.
type SearchConfig struct {
	// BaseURL is the service root; requests go to {BaseURL}/search.
	// Environment: MCPSCOUT_SEARCH_URL
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a search round trip.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Listen is the address the API binds to.
	// Environment: MCPSCOUT_LISTEN
	// Default: 127.0.0.1:8080
	Listen string `yaml:"listen"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoopConfig configures the task loop.
type LoopConfig struct {
	// MaxIterations bounds create steps per run; 0 means unbounded.
	// Default: 5
	MaxIterations int `yaml:"max_iterations"`

	// Language is the answer language requested by the execute prompt.
	// Environment: MCPSCOUT_LANGUAGE
	// Default: Japanese
	Language string `yaml:"language"`

	// Gateway selects the gateway variant (completion, agent, remote).
	// Default: completion
	Gateway string `yaml:"gateway"`

	// RemoteURL is the base URL of a remote execute/create API, required
	// when Gateway is "remote".
	RemoteURL string `yaml:"remote_url,omitempty"`
}

// ToolsConfig configures tools available to the agent gateway.
type ToolsConfig struct {
	// SerperAPIKey enables the web_search tool.
	// Environment: SERPER_API_KEY
	SerperAPIKey string `yaml:"serper_api_key,omitempty"`

	// AgentMaxIterations bounds the tool loop of a single execute call.
	// Default: 8
	AgentMaxIterations int `yaml:"agent_max_iterations"`
}

// MCPConfig configures the MCP stdio server.
type MCPConfig struct {
	// RateLimit is the sustained number of tool calls per second.
	// Default: 2
	RateLimit float64 `yaml:"rate_limit"`

	// Burst is the number of tool calls allowed above the sustained rate.
	// Default: 5
	Burst int `yaml:"burst"`
}

// Span exporter kinds.
const (
	ExporterConsole  = "console"
	ExporterOTLP     = "otlp"
	ExporterOTLPHTTP = "otlp-http"
)

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns span export on.
	// Environment: MCPSCOUT_TRACE
	Enabled bool `yaml:"enabled"`

	// ServiceName is the resource service.name.
	// Default: mcpscout
	ServiceName string `yaml:"service_name"`

	// Exporter selects where spans go (console, otlp, otlp-http).
	// Default: console
	Exporter string `yaml:"exporter"`

	// Endpoint is the collector address for the OTLP exporters, for
	// example localhost:4317 (gRPC) or localhost:4318 (HTTP).
	// Environment: OTEL_EXPORTER_OTLP_ENDPOINT
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure,omitempty"`

	// Headers are sent with every export request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		LLM: LLMConfig{
			Provider:           "openai",
			RequestTimeout:     60 * time.Second,
			ExecuteTemperature: 0.7,
			CreateTemperature:  0.3,
		},
		Search: SearchConfig{
			BaseURL: DefaultSearchURL,
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Loop: LoopConfig{
			MaxIterations: 5,
			Language:      "Japanese",
			Gateway:       GatewayCompletion,
		},
		Tools: ToolsConfig{
			AgentMaxIterations: 8,
		},
		MCP: MCPConfig{
			RateLimit: 2,
			Burst:     5,
		},
		Tracing: TracingConfig{
			ServiceName: "mcpscout",
			Exporter:    ExporterConsole,
		},
	}
}

// Load loads configuration from an optional YAML file, then applies
// environment overrides and the keyring fallback for the provider API key.
// Environment variables take precedence over file-based configuration.
// If configPath is empty, the default config path is used when it exists.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		if p, err := ConfigPath(); err == nil {
			configPath = p
		}
	}

	if configPath != "" {
		err := cfg.loadFromFile(configPath)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, &pkgerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = LookupAPIKey(cfg.LLM.Provider)
	}
	if cfg.Tools.SerperAPIKey == "" {
		cfg.Tools.SerperAPIKey = LookupAPIKey("serper")
	}

	if err := cfg.Validate(); err != nil {
		return nil, &pkgerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// applyDefaults fills in zero values left by a partial YAML file.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaults.LLM.Provider
	}
	if c.LLM.RequestTimeout == 0 {
		c.LLM.RequestTimeout = defaults.LLM.RequestTimeout
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = defaults.Search.BaseURL
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = defaults.Search.Timeout
	}
	if c.Server.Listen == "" {
		c.Server.Listen = defaults.Server.Listen
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.Loop.Language == "" {
		c.Loop.Language = defaults.Loop.Language
	}
	if c.Loop.Gateway == "" {
		c.Loop.Gateway = defaults.Loop.Gateway
	}
	if c.Tools.AgentMaxIterations == 0 {
		c.Tools.AgentMaxIterations = defaults.Tools.AgentMaxIterations
	}
	if c.MCP.RateLimit == 0 {
		c.MCP.RateLimit = defaults.MCP.RateLimit
	}
	if c.MCP.Burst == 0 {
		c.MCP.Burst = defaults.MCP.Burst
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaults.Tracing.ServiceName
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = defaults.Tracing.Exporter
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	path, err := expandHome(path)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to get home directory")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}

	if val := os.Getenv("MCPSCOUT_PROVIDER"); val != "" {
		c.LLM.Provider = strings.ToLower(val)
	}
	if val := os.Getenv("MCPSCOUT_MODEL"); val != "" {
		c.LLM.Model = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" && c.LLM.Provider == "openai" {
		c.LLM.APIKey = val
	}

	if val := os.Getenv("MCPSCOUT_SEARCH_URL"); val != "" {
		c.Search.BaseURL = val
	}
	if val := os.Getenv("MCPSCOUT_LISTEN"); val != "" {
		c.Server.Listen = val
	}
	if val := os.Getenv("MCPSCOUT_LANGUAGE"); val != "" {
		c.Loop.Language = val
	}
	if val := os.Getenv("MCPSCOUT_MAX_ITERATIONS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Loop.MaxIterations = n
		}
	}
	if val := os.Getenv("SERPER_API_KEY"); val != "" {
		c.Tools.SerperAPIKey = val
	}
	if val := os.Getenv("MCPSCOUT_TRACE"); val != "" {
		c.Tracing.Enabled = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		c.Tracing.Endpoint = val
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	if c.LLM.RequestTimeout < 0 {
		errs = append(errs, fmt.Sprintf("llm.request_timeout must not be negative, got %v", c.LLM.RequestTimeout))
	}
	for name, temp := range map[string]float64{
		"llm.execute_temperature": c.LLM.ExecuteTemperature,
		"llm.create_temperature":  c.LLM.CreateTemperature,
	} {
		if temp < 0 || temp > 2 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 2, got %v", name, temp))
		}
	}

	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Sprintf("llm.max_tokens must be >= 0, got %d", c.LLM.MaxTokens))
	}

	if !strings.HasPrefix(c.Search.BaseURL, "http://") && !strings.HasPrefix(c.Search.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("search.base_url must be an http(s) URL, got %q", c.Search.BaseURL))
	}

	if c.Loop.MaxIterations < 0 {
		errs = append(errs, fmt.Sprintf("loop.max_iterations must be >= 0, got %d", c.Loop.MaxIterations))
	}
	switch c.Loop.Gateway {
	case GatewayCompletion, GatewayAgent:
	case GatewayRemote:
		if c.Loop.RemoteURL == "" {
			errs = append(errs, "loop.remote_url is required when loop.gateway is \"remote\"")
		}
	default:
		errs = append(errs, fmt.Sprintf("loop.gateway must be one of [completion, agent, remote], got %q", c.Loop.Gateway))
	}

	if c.MCP.RateLimit < 0 || c.MCP.Burst < 0 {
		errs = append(errs, "mcp.rate_limit and mcp.burst must not be negative")
	}

	switch c.Tracing.Exporter {
	case ExporterConsole:
	case ExporterOTLP, ExporterOTLPHTTP:
		if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("tracing.endpoint is required for the %s exporter", c.Tracing.Exporter))
		}
	default:
		errs = append(errs, fmt.Sprintf("tracing.exporter must be one of [console, otlp, otlp-http], got %q", c.Tracing.Exporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}
