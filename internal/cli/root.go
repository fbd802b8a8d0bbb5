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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/shared"
)

// Build identifies the binary. main fills it from ldflags.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand returns the mcpscout root command with the global flags,
// the JSON-capable help command and the given subcommands attached.
func NewRootCommand(build Build, subcommands ...*cobra.Command) *cobra.Command {
	shared.SetVersion(build.Version, build.Commit, build.Date)

	cmd := &cobra.Command{
		Use:   "mcpscout",
		Short: "mcpscout - find MCP servers for an objective",
		Long: `mcpscout breaks an objective into tasks with a language model, works
through them one at a time, and searches a catalog of MCP servers for
the capabilities the work needs.

Run 'mcpscout run "<objective>"' to start the task loop.
Run 'mcpscout search "<request>"' to query the candidate catalog.
Run 'mcpscout serve' to expose the same operations over HTTP.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true, // exit codes come from Execute
	}
	cmd.SetVersionTemplate("mcpscout {{.Version}}\n")

	verbose, quiet, json, config := shared.RegisterFlagPointers()
	flags := cmd.PersistentFlags()
	flags.BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	flags.BoolVar(json, "json", false, "Output in JSON format")
	flags.StringVar(config, "config", "", "Path to config file (default: ~/.config/mcpscout/config.yaml)")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(subcommands...)
	cmd.SetHelpCommand(NewHelpCommand(cmd))
	return cmd
}

// Execute runs root and exits non-zero with a mapped exit code on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		shared.HandleExitError(err)
	}
}
