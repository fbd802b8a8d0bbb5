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

package session

import "strings"

// Command describes a slash command offered while typing.
type Command struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
}

// SearchPrefix routes input to candidate search.
const SearchPrefix = "/search "

// Commands lists every slash command.
var Commands = []Command{
	{
		Command:     "/search",
		Description: "Search for MCP candidates",
		Usage:       SearchPrefix,
	},
}

// Suggest returns the commands whose name starts with input, ignoring case.
// Input that does not start with "/" suggests nothing.
func Suggest(input string) []Command {
	if !strings.HasPrefix(input, "/") {
		return nil
	}
	prefix := strings.ToLower(input)
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(strings.ToLower(c.Command), prefix) {
			out = append(out, c)
		}
	}
	return out
}
