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

// Package chat implements the interactive chat command.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tombee/mcpscout/internal/cli/format"
	"github.com/tombee/mcpscout/internal/commands/completion"
	"github.com/tombee/mcpscout/internal/commands/shared"
	"github.com/tombee/mcpscout/internal/session"
)

const (
	exitCommand = "/exit"
	helpCommand = "/help"
	prompt      = "> "
)

// NewCommand creates the chat command
func NewCommand() *cobra.Command {
	var (
		mode       string
		mockSearch bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive session that keeps one transcript across turns.

Input starting with "/search " is sent to the candidate search service.
Anything else either continues the conversation (--mode chat) or is run
as an objective through the task loop (--mode loop). Type /help for the
slash commands and /exit to quit. Ctrl-C stops the current request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := session.Mode(mode)
			if m != session.ModeChat && m != session.ModeLoop {
				return shared.NewInvalidInputError(fmt.Sprintf("unknown mode %q (want chat or loop)", mode), nil)
			}

			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}

			ctx, stop := context.WithCancel(cmd.Context())
			defer stop()

			if mockSearch {
				url, err := shared.StartMockSearch(ctx, shared.NewLogger(cfg, os.Stderr))
				if err != nil {
					return err
				}
				cfg.Search.BaseURL = url
			}

			svc, err := shared.NewServices(ctx, cfg, shared.ServiceOptions{})
			if err != nil {
				return err
			}
			defer svc.Close(context.Background())

			sess := session.New(session.Config{
				Controller:    svc.Controller,
				Searcher:      svc.Searcher,
				Chatter:       svc.Chatter,
				Mode:          m,
				MaxIterations: cfg.Loop.MaxIterations,
				Logger:        svc.Logger,
			})
			return repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), sess, format.Styled(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(session.ModeChat), "How plain input is handled (chat, loop)")
	_ = cmd.RegisterFlagCompletionFunc("mode", completion.CompleteChatModes)
	cmd.Flags().BoolVar(&mockSearch, "mock-search", false, "Serve the built-in candidate fixtures instead of the search service")

	return cmd
}

// repl reads lines from in until EOF or /exit. Each submission gets its own
// interrupt-aware context so Ctrl-C stops the request, not the session.
func repl(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, styled bool) error {
	printer := format.NewPrinter(out, styled)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == exitCommand:
			return nil
		case line == helpCommand:
			printHelp(out)
			continue
		case strings.HasPrefix(line, "/") && !strings.HasPrefix(line, session.SearchPrefix):
			printSuggestions(out, line)
			continue
		}

		turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		reply, err := sess.Submit(turnCtx, line)
		stop()

		if reply != nil {
			// The objective is echoed by the terminal already.
			entries := reply.Entries
			if len(entries) > 0 {
				entries = entries[1:]
			}
			printer.Print(entries)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, shared.RenderError(err.Error()))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, shared.Header.Render("Commands"))
	for _, c := range session.Commands {
		fmt.Fprintf(out, "  %-10s %s\n", c.Command, c.Description)
	}
	fmt.Fprintf(out, "  %-10s %s\n", helpCommand, "Show this help")
	fmt.Fprintf(out, "  %-10s %s\n", exitCommand, "Leave the session")
}

func printSuggestions(out io.Writer, input string) {
	matches := session.Suggest(strings.Fields(input)[0])
	if len(matches) == 0 {
		fmt.Fprintln(out, shared.RenderWarn(fmt.Sprintf("unknown command %q, type %s for help", input, helpCommand)))
		return
	}
	for _, c := range matches {
		fmt.Fprintf(out, "  %s  %s\n", shared.Bold.Render(c.Usage), shared.RenderLabel(c.Description))
	}
}
