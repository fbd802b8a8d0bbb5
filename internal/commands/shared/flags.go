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

package shared

// globals holds the persistent root flags. The root command binds its
// flag set to these fields through RegisterFlagPointers.
var globals struct {
	verbose    bool
	quiet      bool
	json       bool
	configPath string
}

// build is stamped by main from linker flags.
var build = struct {
	version, commit, date string
}{"dev", "unknown", "unknown"}

// RegisterFlagPointers exposes the global flag storage in the order
// verbose, quiet, json, config.
func RegisterFlagPointers() (*bool, *bool, *bool, *string) {
	return &globals.verbose, &globals.quiet, &globals.json, &globals.configPath
}

// SetVersion records the build metadata reported by `mcpscout version`.
func SetVersion(version, commit, date string) {
	build.version, build.commit, build.date = version, commit, date
}

// GetVersion returns version, commit and build date.
func GetVersion() (string, string, string) {
	return build.version, build.commit, build.date
}

func GetVerbose() bool { return globals.verbose }

func GetQuiet() bool { return globals.quiet }

// GetJSON reports whether --json was passed.
func GetJSON() bool { return globals.json }

// GetConfigPath returns the --config value, empty when unset.
func GetConfigPath() string { return globals.configPath }

func SetConfigPathForTest(path string) { globals.configPath = path }

// ResetFlagsForTest zeroes every global flag.
func ResetFlagsForTest() {
	globals.verbose, globals.quiet, globals.json, globals.configPath = false, false, false, ""
}
