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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpscout/internal/commands/shared"
)

func TestCheckFilePermissions(t *testing.T) {
	tests := []struct {
		name     string
		mode     os.FileMode
		expected bool
	}{
		{"owner read-write", 0o600, true},
		{"owner read-only", 0o400, true},
		{"group readable", 0o640, false},
		{"world readable", 0o644, false},
		{"owner executable", 0o700, false},
		{"world executable", 0o755, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			testFile := filepath.Join(tmpDir, "test.yaml")

			require.NoError(t, os.WriteFile(testFile, []byte("test: value\n"), tt.mode))
			require.NoError(t, os.Chmod(testFile, tt.mode))

			assert.Equal(t, tt.expected, CheckFilePermissions(testFile), "mode %o", tt.mode)
		})
	}
}

func TestCheckFilePermissions_NonexistentFile(t *testing.T) {
	assert.True(t, CheckFilePermissions("/nonexistent/path/to/file.yaml"))
}

func TestSafeCompletionWrapper(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]string, cobra.ShellCompDirective)
		want []string
	}{
		{
			name: "success",
			fn: func() ([]string, cobra.ShellCompDirective) {
				return []string{"result1", "result2"}, cobra.ShellCompDirectiveNoFileComp
			},
			want: []string{"result1", "result2"},
		},
		{
			name: "panic",
			fn: func() ([]string, cobra.ShellCompDirective) {
				panic("test panic")
			},
			want: []string{},
		},
		{
			name: "nil results",
			fn: func() ([]string, cobra.ShellCompDirective) {
				return nil, cobra.ShellCompDirectiveDefault
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, directive := SafeCompletionWrapper(tt.fn)
			assert.Equal(t, tt.want, results)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestLoadConfigForCompletion(t *testing.T) {
	t.Cleanup(shared.ResetFlagsForTest)

	t.Run("permissive file is skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: ollama\n"), 0o644))
		require.NoError(t, os.Chmod(path, 0o644))
		shared.SetConfigPathForTest(path)

		cfg, err := LoadConfigForCompletion()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("private file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: ollama\n"), 0o600))
		shared.SetConfigPathForTest(path)

		cfg, err := LoadConfigForCompletion()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "ollama", cfg.LLM.Provider)
	})
}
