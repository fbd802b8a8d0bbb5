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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidateServer() *server.MCPServer {
	s := server.NewMCPServer("translator", "1.2.0",
		server.WithToolCapabilities(false),
		server.WithInstructions("Translate documents."),
	)
	s.AddTool(mcp.NewTool("translate",
		mcp.WithDescription("Translate text"),
		mcp.WithString("text", mcp.Required()),
		mcp.WithString("target", mcp.Required()),
		mcp.WithString("source"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	s.AddTool(mcp.NewTool("detect_language",
		mcp.WithDescription("Detect the language of text"),
		mcp.WithString("text", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ja"), nil
	})
	return s
}

func TestProbe_StreamableHTTP(t *testing.T) {
	srv := httptest.NewServer(server.NewStreamableHTTPServer(newCandidateServer()))
	t.Cleanup(srv.Close)

	res, err := Probe(context.Background(), ClientConfig{Endpoint: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, res.Transport)
	assert.Equal(t, "translator", res.ServerName)
	assert.Equal(t, "1.2.0", res.ServerVersion)
	assert.Equal(t, "Translate documents.", res.Instructions)
	assert.NotEmpty(t, res.ProtocolVersion)
	assert.True(t, res.Capabilities.Tools)

	require.Len(t, res.Tools, 2)
	assert.Equal(t, "detect_language", res.Tools[0].Name)
	assert.Equal(t, "translate", res.Tools[1].Name)
	assert.Equal(t, []string{"source", "target", "text"}, res.Tools[1].Params)
	assert.ElementsMatch(t, []string{"text", "target"}, res.Tools[1].Required)
	assert.NotEmpty(t, res.Tools[1].InputSchema)
}

func TestProbe_SSE(t *testing.T) {
	srv := server.NewTestServer(newCandidateServer())
	t.Cleanup(srv.Close)

	res, err := Probe(context.Background(), ClientConfig{
		Endpoint:  srv.URL + "/sse",
		Transport: TransportSSE,
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, res.Transport)
	assert.Equal(t, "translator", res.ServerName)
	assert.Len(t, res.Tools, 2)
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
		want string
	}{
		{"missing endpoint", ClientConfig{}, "endpoint is required"},
		{"not http", ClientConfig{Endpoint: "ftp://example.com"}, "http(s) URL"},
		{"no host", ClientConfig{Endpoint: "http://"}, "http(s) URL"},
		{"bad transport", ClientConfig{Endpoint: "http://example.com", Transport: "ws"}, "transport must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.cfg)
			require.Error(t, err)

			var mcpErr *ProbeError
			require.True(t, errors.As(err, &mcpErr))
			assert.Equal(t, StageConfig, mcpErr.Stage)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProbe_NotAnMCPServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := Probe(context.Background(), ClientConfig{Endpoint: srv.URL, Timeout: 2 * time.Second})
	require.Error(t, err)

	var mcpErr *ProbeError
	require.True(t, errors.As(err, &mcpErr))
	assert.Contains(t, []Stage{StageConnect, StageInitialize}, mcpErr.Stage)
	assert.True(t, mcpErr.IsUserVisible())
	assert.NotEmpty(t, mcpErr.Suggestion())
	assert.Contains(t, mcpErr.UserMessage(), srv.URL)
}

func TestStageError_Timeout(t *testing.T) {
	err := stageError(StageInitialize, "http://slow.example", context.DeadlineExceeded)
	assert.Equal(t, StageTimeout, err.Stage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Suggestion(), "--timeout")
}
