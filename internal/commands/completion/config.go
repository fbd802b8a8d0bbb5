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

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/config"
)

// CheckFilePermissions reports whether path is private to its owner
// (no permission bits beyond 0600). A missing file counts as private.
func CheckFilePermissions(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Mode().Perm()&^0o600 == 0
}

// LoadConfigForCompletion reads the configuration that completions draw
// on. A world- or group-readable file yields (nil, nil) so completions
// never surface values from a file the user has not locked down.
func LoadConfigForCompletion() (*config.Config, error) {
	path := shared.GetConfigPath()
	checked := path
	if checked == "" {
		var err error
		if checked, err = config.ConfigPath(); err != nil {
			return nil, err
		}
	}
	if !CheckFilePermissions(checked) {
		return nil, nil
	}
	return config.Load(path)
}

// SafeCompletionWrapper runs fn and converts a panic or a nil result into
// an empty completion list.
func SafeCompletionWrapper(fn func() ([]string, cobra.ShellCompDirective)) (results []string, directive cobra.ShellCompDirective) {
	defer func() {
		if recover() != nil {
			results, directive = []string{}, cobra.ShellCompDirectiveNoFileComp
		}
	}()

	results, directive = fn()
	if results == nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return results, directive
}
