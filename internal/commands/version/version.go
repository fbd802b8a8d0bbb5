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
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/pkg/llm"
)

// VersionInfo is printed by `mcpscout version` and its --json form.
type VersionInfo struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	BuildDate   string   `json:"build_date"`
	GoVersion   string   `json:"go_version"`
	MCPProtocol string   `json:"mcp_protocol"`
	Providers   []string `json:"providers"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the build, the MCP protocol revision used by "inspect" and the compiled-in LLM providers.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := collect(debug.ReadBuildInfo)
			if shared.GetJSON() {
				return shared.EmitJSONTo(cmd.OutOrStdout(), info)
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

// collect merges the linker-stamped values with the module build info so
// that `go install` builds still report a version and revision.
func collect(readBuildInfo func() (*debug.BuildInfo, bool)) VersionInfo {
	v, c, d := shared.GetVersion()
	info := VersionInfo{
		Version:     v,
		Commit:      c,
		BuildDate:   d,
		GoVersion:   runtime.Version(),
		MCPProtocol: mcp.LATEST_PROTOCOL_VERSION,
		Providers:   llm.Factories(),
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.BuildDate == "unknown":
			info.BuildDate = s.Value
		}
	}
	return info
}

func printInfo(w io.Writer, info VersionInfo) {
	fmt.Fprintf(w, "mcpscout version %s\n", info.Version)
	rows := [][2]string{
		{"commit", info.Commit},
		{"build date", info.BuildDate},
		{"go", info.GoVersion},
		{"mcp protocol", info.MCPProtocol},
		{"providers", strings.Join(info.Providers, ", ")},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", shared.RenderLabel(fmt.Sprintf("%-13s", r[0]+":")), r[1])
	}
}
