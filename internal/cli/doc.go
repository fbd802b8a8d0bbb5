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

/*
Package cli assembles the mcpscout command tree.

Commands live in the internal/commands subpackages; main hands them to
NewRootCommand:

	cli.Execute(cli.NewRootCommand(cli.Build{Version: version},
		run.NewCommand(),
		search.NewCommand(),
	))

The help command replaces cobra's default and supports --json, which emits
command, flag and chat slash-command metadata for tooling.
*/
package cli
