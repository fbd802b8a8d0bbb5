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

package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/session"
	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/pkg/llm"
)

type echoChatter struct {
	turns int
}

func (c *echoChatter) Chat(ctx context.Context, history []llm.Message) (string, error) {
	c.turns++
	return "echo: " + history[len(history)-1].Content, nil
}

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, query string) (*search.Result, error) {
	if query == "fail" {
		return nil, errors.New("down")
	}
	return &search.Result{
		Message:    search.Message{Role: "agent", Content: "found " + query},
		Candidates: []search.Candidate{{ID: "kb", Title: "Knowledge Base"}},
	}, nil
}

type noopGateway struct{}

func (noopGateway) Execute(ctx context.Context, objective, task string) (string, error) {
	return "ok", nil
}

func (noopGateway) Create(ctx context.Context, objective string, pending []taskloop.Task, last taskloop.Task, lastResult string) (string, error) {
	return "", nil
}

func newSession(chatter session.Chatter, mode session.Mode) *session.Session {
	return session.New(session.Config{
		Controller:    taskloop.NewController(noopGateway{}),
		Searcher:      stubSearcher{},
		Chatter:       chatter,
		Mode:          mode,
		MaxIterations: 3,
	})
}

func TestREPL_ChatAndSearch(t *testing.T) {
	chatter := &echoChatter{}
	in := strings.NewReader("hello\n/search docs\n/search fail\n/exit\nignored\n")
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), in, &out, newSession(chatter, session.ModeChat), false))

	text := out.String()
	assert.Contains(t, text, "[Result] echo: hello")
	assert.Contains(t, text, "[Search] found docs")
	assert.Contains(t, text, "Knowledge Base")
	assert.Contains(t, text, "[Error] "+search.ErrorMessage)
	assert.Equal(t, 1, chatter.turns)
	assert.NotContains(t, text, "ignored")
}

func TestREPL_LoopMode(t *testing.T) {
	in := strings.NewReader("build a bot\n")
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), in, &out, newSession(nil, session.ModeLoop), false))

	text := out.String()
	assert.Contains(t, text, "[Next task] 1. Develop a task list")
	assert.Contains(t, text, "[Result] ok")
}

func TestREPL_SlashCommands(t *testing.T) {
	in := strings.NewReader("/help\n/se\n/nope\n")
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), in, &out, newSession(nil, session.ModeLoop), false))

	text := out.String()
	assert.Contains(t, text, "/search")
	assert.Contains(t, text, "Search for MCP candidates")
	assert.Contains(t, text, `unknown command "/nope"`)
}
