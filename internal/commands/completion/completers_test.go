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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tombee/mcpscout/internal/commands/shared"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

func names(completions []string) []string {
	out := make([]string, len(completions))
	for i, c := range completions {
		out[i], _, _ = strings.Cut(c, "\t")
	}
	return out
}

func TestCompleteSecretNames(t *testing.T) {
	t.Cleanup(shared.ResetFlagsForTest)
	t.Setenv("MCPSCOUT_PROVIDER", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: ollama\n"), 0o600))
	shared.SetConfigPathForTest(path)

	completions, directive := CompleteSecretNames(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, []string{"ollama", "openai", "serper"}, names(completions))
	assert.Equal(t, "ollama\tConfigured provider", completions[0])

	completions, _ = CompleteSecretNames(nil, []string{"openai"}, "")
	assert.Empty(t, completions)
}

func TestStaticCompleters(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)
		want []string
	}{
		{"chat modes", CompleteChatModes, []string{"chat", "loop"}},
		{"log levels", CompleteLogLevels, []string{"debug", "info", "warn", "error"}},
		{"transports", CompleteTransports, []string{"http", "sse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completions, directive := tt.fn(nil, nil, "")
			assert.Equal(t, tt.want, names(completions))
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell  string
		marker string
	}{
		{"bash", "bash completion V2 for mcpscout"},
		{"zsh", "#compdef mcpscout"},
		{"fish", "fish completion for mcpscout"},
		{"powershell", "powershell completion for mcpscout"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			root := &cobra.Command{Use: "mcpscout"}
			root.AddCommand(NewCommand())

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", tt.shell})
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), tt.marker)
		})
	}
}

func TestCompletionCommand_RejectsUnknownShell(t *testing.T) {
	root := &cobra.Command{Use: "mcpscout"}
	root.AddCommand(NewCommand())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, root.Execute())
}

func TestShells(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, Shells())
}
