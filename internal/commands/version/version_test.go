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

package version

import (
	"bytes"
	"encoding/json"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpscout/internal/commands/shared"
	_ "github.com/tombee/mcpscout/pkg/llm/providers"
)

func TestVersionOutput(t *testing.T) {
	shared.ResetFlagsForTest()
	shared.SetVersion("1.0.0", "test123", "2025-12-22")
	defer shared.SetVersion("dev", "unknown", "unknown")

	cmd := NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "mcpscout version 1.0.0")
	assert.Contains(t, buf.String(), "ollama, openai")
	assert.Contains(t, buf.String(), "mcp protocol")
}

func TestVersionJSONOutput(t *testing.T) {
	shared.ResetFlagsForTest()
	defer shared.ResetFlagsForTest()
	shared.SetVersion("1.0.0", "test123", "2025-12-22")
	defer shared.SetVersion("dev", "unknown", "unknown")

	rootCmd := &cobra.Command{Use: "test"}
	_, _, jsonPtr, _ := shared.RegisterFlagPointers()
	rootCmd.PersistentFlags().BoolVar(jsonPtr, "json", false, "JSON output")
	cmd := NewVersionCommand()
	rootCmd.AddCommand(cmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	cmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version", "--json"})
	require.NoError(t, rootCmd.Execute())

	var info VersionInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "test123", info.Commit)
	assert.Equal(t, "2025-12-22", info.BuildDate)
	assert.Equal(t, []string{"ollama", "openai"}, info.Providers)
	assert.NotEmpty(t, info.MCPProtocol)
}

func TestCollect_BuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/tombee/mcpscout", Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
	read := func() (*debug.BuildInfo, bool) { return bi, true }

	tests := []struct {
		name                string
		version, commit     string
		wantVer, wantCommit string
	}{
		{"dev build uses module info", "dev", "unknown", "0.4.1", "abc123"},
		{"stamped values win", "1.2.0", "fff000", "1.2.0", "fff000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared.SetVersion(tt.version, tt.commit, "unknown")
			defer shared.SetVersion("dev", "unknown", "unknown")

			info := collect(read)
			assert.Equal(t, tt.wantVer, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildDate)
		})
	}
}

func TestCollect_NoBuildInfo(t *testing.T) {
	shared.SetVersion("dev", "unknown", "unknown")
	info := collect(func() (*debug.BuildInfo, bool) { return nil, false })
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.Commit)
}
