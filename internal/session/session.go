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

// Package session routes user input to candidate search, the task loop or
// chat, and records everything in one transcript.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/taskloop"
	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
	"github.com/tombee/mcpscout/pkg/llm"
)

// ErrBusy is returned when Submit is called while another submission is
// still in flight.
var ErrBusy = errors.New("session: a request is already running")

// Mode selects how non-command input is handled.
type Mode string

const (
	// ModeLoop runs the task loop with the input as objective.
	ModeLoop Mode = "loop"
	// ModeChat continues a multi-turn conversation.
	ModeChat Mode = "chat"
)

// Route records where a submission went.
type Route string

const (
	RouteNone   Route = "none"
	RouteSearch Route = "search"
	RouteLoop   Route = "loop"
	RouteChat   Route = "chat"
)

// Chatter continues a conversation from its full history.
type Chatter interface {
	Chat(ctx context.Context, history []llm.Message) (string, error)
}

// Config wires a Session.
type Config struct {
	Controller    *taskloop.Controller
	Searcher      search.Searcher
	Chatter       Chatter
	Mode          Mode
	MaxIterations int
	Logger        *slog.Logger
}

// Reply describes the outcome of one submission.
type Reply struct {
	Route  Route
	Search *search.Result
	Run    *taskloop.Result
	Answer string
	// Entries holds the transcript entries appended by this submission.
	Entries []taskloop.Entry
}

// Session owns a transcript across searches, runs and chat turns.
type Session struct {
	cfg        Config
	transcript *taskloop.Transcript
	logger     *slog.Logger

	mu      sync.Mutex
	busy    bool
	cancel  context.CancelFunc
	history []llm.Message
}

// New creates a session.
func New(cfg Config) *Session {
	if cfg.Mode == "" || cfg.Chatter == nil {
		cfg.Mode = ModeLoop
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:        cfg,
		transcript: taskloop.NewTranscript(),
		logger:     log.WithComponent(logger, "session"),
	}
}

// Transcript returns the session transcript.
func (s *Session) Transcript() *taskloop.Transcript { return s.transcript }

// History returns a copy of the chat history.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Cancel stops the in-flight submission, if any. Cancelled work records
// nothing further in the transcript.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Submit handles one line of user input. Blank input is ignored. Input
// starting with "/search " is a candidate search; anything else runs the
// loop or a chat turn depending on the mode. Failures are recorded in the
// transcript with a localized message and also returned.
func (s *Session) Submit(ctx context.Context, input string) (*Reply, error) {
	if strings.TrimSpace(input) == "" {
		return &Reply{Route: RouteNone}, nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.busy = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	start := s.transcript.Len()
	s.transcript.Append(taskloop.KindObjective, input)

	var (
		reply *Reply
		err   error
	)
	switch {
	case strings.HasPrefix(input, SearchPrefix):
		reply, err = s.search(ctx, strings.TrimSpace(input[len(SearchPrefix):]))
	case s.cfg.Mode == ModeChat:
		reply, err = s.chat(ctx, input)
	default:
		reply, err = s.run(ctx, input)
	}
	reply.Entries = s.transcript.Since(start)
	return reply, err
}

func (s *Session) search(ctx context.Context, query string) (*Reply, error) {
	reply := &Reply{Route: RouteSearch}
	if query == "" {
		s.transcript.Append(taskloop.KindError, search.ErrorMessage)
		return reply, &pkgerrors.ValidationError{Field: "query", Message: "Query is required"}
	}

	result, err := s.cfg.Searcher.Search(ctx, query)
	if ctx.Err() != nil {
		return reply, nil
	}
	if err != nil {
		s.transcript.Append(taskloop.KindError, search.ErrorMessage)
		return reply, err
	}

	s.transcript.AppendSearchResult(result.Message.Content, result.Candidates)
	reply.Search = result
	return reply, nil
}

func (s *Session) run(ctx context.Context, objective string) (*Reply, error) {
	run := s.cfg.Controller.NewRun(objective, s.cfg.MaxIterations, s.transcript)
	defer run.Dispose()

	result, err := run.Start(ctx)
	return &Reply{Route: RouteLoop, Run: result}, err
}

func (s *Session) chat(ctx context.Context, input string) (*Reply, error) {
	reply := &Reply{Route: RouteChat}

	s.mu.Lock()
	s.history = append(s.history, llm.Message{Role: llm.MessageRoleUser, Content: input})
	history := append([]llm.Message(nil), s.history...)
	s.mu.Unlock()

	answer, err := s.cfg.Chatter.Chat(ctx, history)
	if ctx.Err() != nil {
		return reply, nil
	}
	if err != nil {
		s.transcript.Append(taskloop.KindError, taskloop.LoopErrorMessage)
		s.logger.Warn("chat failed", log.Error(err))
		return reply, err
	}

	s.mu.Lock()
	s.history = append(s.history, llm.Message{Role: llm.MessageRoleAssistant, Content: answer})
	s.mu.Unlock()

	s.transcript.Append(taskloop.KindTaskResult, answer)
	reply.Answer = answer
	return reply, nil
}
