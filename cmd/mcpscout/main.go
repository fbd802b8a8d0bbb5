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

package main

import (
	"github.com/tombee/mcpscout/internal/cli"
	"github.com/tombee/mcpscout/internal/commands/chat"
	"github.com/tombee/mcpscout/internal/commands/completion"
	"github.com/tombee/mcpscout/internal/commands/inspect"
	"github.com/tombee/mcpscout/internal/commands/mcpserver"
	"github.com/tombee/mcpscout/internal/commands/run"
	"github.com/tombee/mcpscout/internal/commands/search"
	"github.com/tombee/mcpscout/internal/commands/secrets"
	"github.com/tombee/mcpscout/internal/commands/serve"
	versioncmd "github.com/tombee/mcpscout/internal/commands/version"
)

// Set with -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Execute(cli.NewRootCommand(cli.Build{Version: version, Commit: commit, Date: buildDate},
		run.NewCommand(),
		search.NewCommand(),
		chat.NewCommand(),
		inspect.NewCommand(),
		serve.NewCommand(),
		mcpserver.NewCommand(),
		secrets.NewCommand(),
		completion.NewCommand(),
		versioncmd.NewVersionCommand(),
	))
}
