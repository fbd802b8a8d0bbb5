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

// Package secrets implements the secrets command, which manages API keys in
// the OS keyring.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/completion"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/config"
	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/pkg/llm"
)

// NewCommand creates the secrets command for API key management.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage API keys in the system keychain",
		Long: `Manage API keys stored in the system keychain.

Keys are looked up when the matching setting is empty in the config file
and the environment:
  <provider>  API key for an LLM provider (openai, ollama)
  serper      API key for the agent web search tool

Examples:
  mcpscout secrets set openai
  echo "sk-..." | mcpscout secrets set openai
  mcpscout secrets get openai
  mcpscout secrets delete serper`,
	}

	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "set <name>",
		Short:             "Store an API key",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteSecretNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateName(args[0]); err != nil {
				return shared.NewInvalidInputError("invalid key name", err)
			}
			value, err := readSecretValue(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return shared.NewInvalidInputError("failed to read key", err)
			}
			if value == "" {
				return shared.NewInvalidInputError("key cannot be empty", nil)
			}
			if err := config.StoreAPIKey(args[0], value); err != nil {
				return err
			}
			if !shared.GetQuiet() {
				cmd.Println(shared.RenderOK(fmt.Sprintf("Stored key for %s", args[0])))
			}
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	var unmask bool

	cmd := &cobra.Command{
		Use:               "get <name>",
		Short:             "Show a stored API key (masked)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteSecretNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateName(args[0]); err != nil {
				return shared.NewInvalidInputError("invalid key name", err)
			}
			value := config.LookupAPIKey(args[0])
			if value == "" {
				return shared.NewInvalidInputError(fmt.Sprintf("no key stored for %s", args[0]), nil)
			}
			if !unmask {
				value = log.SanitizeAPIKey(value)
			}
			cmd.Println(value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&unmask, "unmask", false, "Show full value (not masked)")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             "Remove a stored API key",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.CompleteSecretNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateName(args[0]); err != nil {
				return shared.NewInvalidInputError("invalid key name", err)
			}
			if err := config.DeleteAPIKey(args[0]); err != nil {
				return err
			}
			if !shared.GetQuiet() {
				cmd.Println(shared.RenderOK(fmt.Sprintf("Deleted key for %s", args[0])))
			}
			return nil
		},
	}
}

// validateName accepts registered provider names and the web search key.
func validateName(name string) error {
	valid := append(llm.Factories(), completion.SerperKeyName)
	if !slices.Contains(valid, name) {
		return fmt.Errorf("unknown key %q (want one of %s)", name, strings.Join(valid, ", "))
	}
	return nil
}

// readSecretValue reads a piped value from in, or prompts with hidden input
// when in is a terminal.
func readSecretValue(in io.Reader, prompt io.Writer) (string, error) {
	if shared.CanPrompt(in) {
		fmt.Fprint(prompt, "Enter key (hidden): ")
		value, err := shared.ReadHidden(in)
		fmt.Fprintln(prompt)
		return value, err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("no key on stdin")
	}
	return strings.TrimSpace(string(data)), nil
}
