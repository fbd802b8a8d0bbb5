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


package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpscout/internal/commands/shared"
	mcpprobe "github.com/tombee/mcpscout/internal/mcp"
	searchpkg "github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/taskloop"
)

func newMCPEndpoint(t *testing.T) string {
	t.Helper()
	s := server.NewMCPServer("weather", "0.3.0", server.WithToolCapabilities(false))
	s.AddTool(mcp.NewTool("forecast",
		mcp.WithDescription("Daily forecast for a city"),
		mcp.WithString("city", mcp.Required()),
		mcp.WithNumber("days"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("sunny"), nil
	})

	srv := httptest.NewServer(server.NewStreamableHTTPServer(s))
	t.Cleanup(srv.Close)
	return srv.URL
}

func baseConfig() mcpprobe.ClientConfig {
	return mcpprobe.ClientConfig{Timeout: 5 * time.Second}
}

func TestExecute_Plain(t *testing.T) {
	shared.ResetFlagsForTest()
	t.Setenv("NO_COLOR", "1")
	endpoint := newMCPEndpoint(t)

	var buf bytes.Buffer
	require.NoError(t, execute(context.Background(), &buf, baseConfig(), []target{{title: "Weather", endpoint: endpoint}}))

	out := buf.String()
	assert.Contains(t, out, "Weather ("+endpoint+")")
	assert.Contains(t, out, "weather 0.3.0")
	assert.Contains(t, out, "Tools (1)")
	assert.Contains(t, out, "forecast(city*, days)")
	assert.Contains(t, out, "Daily forecast for a city")
}

func TestExecute_JSONWithFailure(t *testing.T) {
	shared.ResetFlagsForTest()
	defer shared.ResetFlagsForTest()
	_, _, jsonFlag, _ := shared.RegisterFlagPointers()
	*jsonFlag = true

	good := newMCPEndpoint(t)
	bad := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(bad.Close)

	var buf bytes.Buffer
	err := execute(context.Background(), &buf, baseConfig(), []target{{endpoint: good}, {endpoint: bad.URL}})
	require.Error(t, err)
	assert.Equal(t, shared.ExitRunFailed, shared.ExitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 probes failed")

	var out Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.False(t, out.Success)
	require.Len(t, out.Reports, 2)
	assert.True(t, out.Reports[0].OK)
	assert.Equal(t, "weather", out.Reports[0].Result.ServerName)
	assert.False(t, out.Reports[1].OK)
	assert.NotEmpty(t, out.Reports[1].Error)
}

func TestExecute_SingleFailureKeepsCause(t *testing.T) {
	shared.ResetFlagsForTest()

	var buf bytes.Buffer
	err := execute(context.Background(), &buf, baseConfig(), []target{{endpoint: "ftp://nope"}})
	require.Error(t, err)

	var probeErr *mcpprobe.ProbeError
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, mcpprobe.StageConfig, probeErr.Stage)
}

type stubSearcher struct {
	result *searchpkg.Result
	err    error
}

func (s stubSearcher) Search(ctx context.Context, query string) (*searchpkg.Result, error) {
	return s.result, s.err
}

func TestCandidateTargets(t *testing.T) {
	searcher := stubSearcher{result: &searchpkg.Result{Candidates: []taskloop.Candidate{
		{Title: "Weather", Endpoint: "https://weather.example/mcp"},
		{Title: "No endpoint"},
	}}}

	targets, err := candidateTargets(context.Background(), searcher, "weather")
	require.NoError(t, err)
	assert.Equal(t, []target{{title: "Weather", endpoint: "https://weather.example/mcp"}}, targets)

	_, err = candidateTargets(context.Background(), stubSearcher{result: &searchpkg.Result{}}, "nothing")
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	tool := mcpprobe.ToolDefinition{Params: []string{"a", "b", "c"}, Required: []string{"b"}}
	assert.Equal(t, "a, b*, c", params(tool))
	assert.Equal(t, "", params(mcpprobe.ToolDefinition{}))
}
