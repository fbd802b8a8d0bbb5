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

package completion

import (
	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/pkg/llm"
)

// SerperKeyName is the keyring entry for the web search tool.
const SerperKeyName = "serper"

// CompleteSecretNames completes the key names accepted by `secrets`.
// The provider selected in the config is listed first.
func CompleteSecretNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		active := ""
		if cfg, err := LoadConfigForCompletion(); err == nil && cfg != nil {
			active = cfg.LLM.Provider
		}

		names := make([]string, 0, len(llm.Factories())+1)
		if active != "" {
			names = append(names, active+"\tConfigured provider")
		}
		for _, name := range llm.Factories() {
			if name == active {
				continue
			}
			names = append(names, name+"\tLLM provider")
		}
		names = append(names, SerperKeyName+"\tWeb search tool")
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteChatModes completes --mode values for `chat`.
func CompleteChatModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		return []string{
			"chat\tConversational replies",
			"loop\tRun each input as an objective",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteLogLevels completes --log-level values.
func CompleteLogLevels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteTransports completes --transport values for `inspect`.
func CompleteTransports(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		return []string{
			"http\tStreamable HTTP",
			"sse\tServer-sent events",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}
