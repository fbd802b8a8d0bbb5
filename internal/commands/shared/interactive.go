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

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ciVars are set to "true" or "1" by common CI systems.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "BUILDKITE"}

// IsNonInteractive reports whether prompting is off for this process:
// MCPSCOUT_NON_INTERACTIVE is set, a CI system is detected, or stdin is
// not a terminal.
func IsNonInteractive() bool {
	return !CanPrompt(os.Stdin)
}

// CanPrompt reports whether in is a terminal the user can answer prompts
// on. Readers that are not files (pipes in tests, strings.Reader) never
// can.
func CanPrompt(in io.Reader) bool {
	if truthy(os.Getenv("MCPSCOUT_NON_INTERACTIVE")) || isCIEnvironment() {
		return false
	}
	_, ok := terminalFd(in)
	return ok
}

// terminalFd returns the descriptor of in when it is a terminal.
func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// ReadHidden reads one line from the terminal in without echo. It fails
// when in is not a terminal.
func ReadHidden(in io.Reader) (string, error) {
	fd, ok := terminalFd(in)
	if !ok {
		return "", os.ErrInvalid
	}
	b, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func isCIEnvironment() bool {
	for _, v := range ciVars {
		if truthy(os.Getenv(v)) {
			return true
		}
	}
	// Jenkins sets a path rather than a boolean.
	return os.Getenv("JENKINS_HOME") != ""
}

func truthy(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes"
}
