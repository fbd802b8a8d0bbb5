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
	"encoding/json"
	"time"
)

// Transport selects how the client reaches a remote server.
type Transport string

const (
	// TransportHTTP is the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportSSE is the legacy server-sent events transport.
	TransportSSE Transport = "sse"
)

// ToolDefinition represents a tool exposed by an MCP server.
type ToolDefinition struct {
	// Name is the unique identifier for this tool
	Name string `json:"name"`

	// Description explains what the tool does
	Description string `json:"description"`

	// Params lists the input property names in sorted order.
	Params []string `json:"params,omitempty"`

	// Required lists the required input properties.
	Required []string `json:"required,omitempty"`

	// InputSchema is the raw JSON Schema for the input.
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ServerCapabilities describes what features an MCP server supports.
type ServerCapabilities struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
	Prompts   bool `json:"prompts"`
	Logging   bool `json:"logging"`
}

// ProbeResult is what a probe learned about a server.
type ProbeResult struct {
	Endpoint        string             `json:"endpoint"`
	Transport       Transport          `json:"transport"`
	ServerName      string             `json:"serverName"`
	ServerVersion   string             `json:"serverVersion,omitempty"`
	ProtocolVersion string             `json:"protocolVersion"`
	Instructions    string             `json:"instructions,omitempty"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	Tools           []ToolDefinition   `json:"tools"`
	Latency         time.Duration      `json:"latency"`
}
