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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/session"
)

const docsBaseURL = "https://github.com/tombee/mcpscout#readme"

// CommandMetadata describes one command for machine-readable help.
type CommandMetadata struct {
	Name        string            `json:"name"`
	Short       string            `json:"short"`
	Long        string            `json:"long,omitempty"`
	Usage       string            `json:"usage"`
	Examples    string            `json:"examples,omitempty"`
	Aliases     []string          `json:"aliases,omitempty"`
	Flags       []FlagMetadata    `json:"flags,omitempty"`
	Subcommands []CommandMetadata `json:"subcommands,omitempty"`
}

// FlagMetadata describes one flag.
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
	Required  bool   `json:"required"`
}

// HelpResponse is the JSON output of `help --json`.
type HelpResponse struct {
	shared.JSONResponse
	Commands      []CommandMetadata `json:"commands,omitempty"`
	Command       *CommandMetadata  `json:"command,omitempty"`
	GlobalFlags   []FlagMetadata    `json:"global_flags,omitempty"`
	SlashCommands []session.Command `json:"slash_commands"`
	DocsURL       string            `json:"docs_url"`
}

// NewHelpCommand creates the help command. With --json (or the global
// --json) it describes the command tree for agents and scripts.
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Show help for mcpscout or one of its commands.

Use --json for a machine-readable description of the command tree,
including the slash commands understood by the chat REPL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := rootCmd
			if len(args) > 0 {
				found, _, err := rootCmd.Find(args)
				if err != nil || found == rootCmd {
					return shared.NewInvalidInputError(fmt.Sprintf("command %q not found", args[0]), err)
				}
				target = found
			}

			if !shared.GetJSON() && !jsonOutput {
				return target.Help()
			}

			resp := HelpResponse{
				JSONResponse:  shared.NewJSONResponse("help", true),
				GlobalFlags:   flagsOf(rootCmd.PersistentFlags()),
				SlashCommands: session.Commands,
				DocsURL:       docsBaseURL,
			}
			if target == rootCmd {
				resp.Commands = visibleChildren(rootCmd)
			} else {
				meta := describe(target)
				resp.JSONResponse = shared.NewJSONResponse("help "+target.Name(), true)
				resp.Command = &meta
			}
			return shared.EmitJSONTo(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func visibleChildren(cmd *cobra.Command) []CommandMetadata {
	var out []CommandMetadata
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" {
			continue
		}
		out = append(out, describe(c))
	}
	return out
}

// describe builds metadata for cmd and, recursively, its subcommands.
func describe(cmd *cobra.Command) CommandMetadata {
	return CommandMetadata{
		Name:        cmd.Name(),
		Short:       cmd.Short,
		Long:        cmd.Long,
		Usage:       cmd.UseLine(),
		Examples:    cmd.Example,
		Aliases:     cmd.Aliases,
		Flags:       flagsOf(cmd.LocalNonPersistentFlags()),
		Subcommands: visibleChildren(cmd),
	}
}

func flagsOf(fs *pflag.FlagSet) []FlagMetadata {
	var flags []FlagMetadata
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
		flags = append(flags, FlagMetadata{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Usage:     f.Usage,
			Default:   f.DefValue,
			Required:  required,
		})
	})
	return flags
}
