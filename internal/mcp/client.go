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


package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/mcpscout/pkg/httpclient"
)

// DefaultTimeout bounds a whole probe when ClientConfig.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// ClientConfig configures a connection to a remote MCP server.
type ClientConfig struct {
	// Endpoint is the server URL.
	Endpoint string

	// Transport selects streamable HTTP or SSE (default: http).
	Transport Transport

	// Timeout bounds connect, initialize and each request (default: 15s).
	Timeout time.Duration

	// Headers are sent with every request.
	Headers map[string]string

	// ClientVersion is reported in the initialize request.
	ClientVersion string

	// Logger receives debug output (default: slog.Default()).
	Logger *slog.Logger
}

// Client wraps a connection to one remote MCP server.
type Client struct {
	config ClientConfig
	client *client.Client
	init   *mcp.InitializeResult
	logger *slog.Logger
}

func (c *ClientConfig) validate() error {
	if c.Endpoint == "" {
		return configError("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return configError(fmt.Sprintf("endpoint must be an http(s) URL, got %q", c.Endpoint))
	}
	switch c.Transport {
	case "":
		c.Transport = TransportHTTP
	case TransportHTTP, TransportSSE:
	default:
		return configError(fmt.Sprintf("transport must be http or sse, got %q", c.Transport))
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ClientVersion == "" {
		c.ClientVersion = "dev"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// NewClient connects to the server and performs the initialize handshake.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger.With(slog.String("endpoint", cfg.Endpoint), slog.String("transport", string(cfg.Transport)))

	mcpClient, err := newTransportClient(cfg)
	if err != nil {
		return nil, stageError(StageConnect, cfg.Endpoint, err)
	}

	// The SSE stream started here outlives the handshake, so Start gets the
	// caller's context rather than the timeout one.
	if err := mcpClient.Start(ctx); err != nil {
		_ = mcpClient.Close()
		return nil, stageError(StageConnect, cfg.Endpoint, err)
	}

	initCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	c := &Client{config: cfg, client: mcpClient, logger: logger}
	if err := c.initialize(initCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	logger.Debug("connected to MCP server",
		slog.String("server", c.init.ServerInfo.Name),
		slog.String("protocol", c.init.ProtocolVersion))
	return c, nil
}

func newTransportClient(cfg ClientConfig) (*client.Client, error) {
	// Streamable HTTP requests are short, so the client timeout applies.
	// The SSE stream stays open for the life of the connection and is
	// bounded by the context instead.
	httpTimeout := cfg.Timeout
	if cfg.Transport == TransportSSE {
		httpTimeout = 0
	}
	httpClient, err := httpclient.New(httpclient.Config{
		Timeout:   httpTimeout,
		UserAgent: "mcpscout/" + cfg.ClientVersion,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Transport == TransportSSE {
		opts := []transport.ClientOption{transport.WithHTTPClient(httpClient)}
		if len(cfg.Headers) > 0 {
			opts = append(opts, transport.WithHeaders(cfg.Headers))
		}
		return client.NewSSEMCPClient(cfg.Endpoint, opts...)
	}

	opts := []transport.StreamableHTTPCOption{transport.WithHTTPBasicClient(httpClient)}
	if len(cfg.Headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(cfg.Headers))
	}
	return client.NewStreamableHttpClient(cfg.Endpoint, opts...)
}

// initialize sends the initialize request to the MCP server.
func (c *Client) initialize(ctx context.Context) error {
	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "mcpscout",
				Version: c.config.ClientVersion,
			},
		},
	}

	res, err := c.client.Initialize(ctx, initReq)
	if err != nil {
		return stageError(StageInitialize, c.config.Endpoint, err)
	}
	c.init = res
	return nil
}

// Capabilities reports what the server announced during initialize.
func (c *Client) Capabilities() ServerCapabilities {
	caps := c.init.Capabilities
	return ServerCapabilities{
		Tools:     caps.Tools != nil,
		Resources: caps.Resources != nil,
		Prompts:   caps.Prompts != nil,
		Logging:   caps.Logging != nil,
	}
}

// ListTools retrieves the list of available tools from the MCP server.
func (c *Client) ListTools(ctx context.Context) ([]ToolDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, stageError(StageListTools, c.config.Endpoint, err)
	}

	tools := make([]ToolDefinition, len(result.Tools))
	for i, tool := range result.Tools {
		tools[i] = toolDefinition(tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools, nil
}

func toolDefinition(tool mcp.Tool) ToolDefinition {
	def := ToolDefinition{
		Name:        tool.Name,
		Description: tool.Description,
		Required:    tool.InputSchema.Required,
	}

	if len(tool.RawInputSchema) > 0 {
		def.InputSchema = tool.RawInputSchema
		var schema struct {
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		if json.Unmarshal(tool.RawInputSchema, &schema) == nil {
			for name := range schema.Properties {
				def.Params = append(def.Params, name)
			}
			def.Required = schema.Required
		}
	} else {
		for name := range tool.InputSchema.Properties {
			def.Params = append(def.Params, name)
		}
		if data, err := json.Marshal(tool.InputSchema); err == nil {
			def.InputSchema = data
		}
	}
	sort.Strings(def.Params)
	return def
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.client.Close()
}

// Probe connects to the endpoint, lists its tools and disconnects.
func Probe(ctx context.Context, cfg ClientConfig) (*ProbeResult, error) {
	start := time.Now()

	c, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	res := &ProbeResult{
		Endpoint:        c.config.Endpoint,
		Transport:       c.config.Transport,
		ServerName:      c.init.ServerInfo.Name,
		ServerVersion:   c.init.ServerInfo.Version,
		ProtocolVersion: c.init.ProtocolVersion,
		Instructions:    c.init.Instructions,
		Capabilities:    c.Capabilities(),
		Tools:           []ToolDefinition{},
	}

	if res.Capabilities.Tools {
		tools, err := c.ListTools(ctx)
		if err != nil {
			return nil, err
		}
		res.Tools = tools
	}

	res.Latency = time.Since(start)
	c.logger.Debug("probe complete", slog.Int("tools", len(res.Tools)), slog.Duration("latency", res.Latency))
	return res, nil
}
