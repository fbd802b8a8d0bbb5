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

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tombee/mcpscout/internal/gateway"
	"github.com/tombee/mcpscout/internal/log"
	"github.com/tombee/mcpscout/internal/search"
	"github.com/tombee/mcpscout/internal/session"
	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/pkg/llm"
)

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// ChatMessage is one turn of client-held chat history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
}

func (r *Router) handleExecute(w http.ResponseWriter, req *http.Request) {
	var body gateway.ExecuteRequest
	if err := decodeJSON(w, req, &body); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Objective) == "" || strings.TrimSpace(body.Task) == "" {
		WriteError(w, http.StatusBadRequest, "Objective and task are required")
		return
	}

	out, err := r.deps.Gateway.Execute(req.Context(), body.Objective, body.Task)
	if err != nil {
		r.logger.Error("execute failed", log.Error(err))
		WriteError(w, http.StatusInternalServerError, "Failed to execute task")
		return
	}
	WriteJSON(w, http.StatusOK, gateway.ExecuteResponse{Response: out})
}

func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body gateway.CreateRequest
	if err := decodeJSON(w, req, &body); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Objective) == "" {
		WriteError(w, http.StatusBadRequest, "Objective is required")
		return
	}

	raw, err := r.deps.Gateway.Create(req.Context(), body.Objective, body.TaskList, body.Task, body.Result)
	if err != nil {
		r.logger.Error("create failed", log.Error(err))
		WriteError(w, http.StatusInternalServerError, "Failed to create tasks")
		return
	}
	WriteJSON(w, http.StatusOK, gateway.CreateResponse{Response: taskloop.Parse(raw)})
}

func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) {
	var body SearchRequest
	if err := decodeJSON(w, req, &body); err != nil || strings.TrimSpace(body.Query) == "" {
		WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result, err := r.deps.Searcher.Search(req.Context(), body.Query)
	if err != nil {
		var upErr *search.UpstreamError
		if errors.As(err, &upErr) {
			WriteError(w, upErr.HTTPStatus(), upErr.Message)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) {
	var body ChatRequest
	if err := decodeJSON(w, req, &body); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body.Messages) == 0 {
		WriteError(w, http.StatusBadRequest, "Messages are required")
		return
	}

	history := make([]llm.Message, 0, len(body.Messages))
	for _, m := range body.Messages {
		role := llm.MessageRole(m.Role)
		if role != llm.MessageRoleUser && role != llm.MessageRoleAssistant {
			WriteError(w, http.StatusBadRequest, "Message role must be user or assistant")
			return
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}

	answer, err := r.deps.Chatter.Chat(req.Context(), history)
	if err != nil {
		r.logger.Error("chat failed", log.Error(err))
		WriteError(w, http.StatusInternalServerError, "Failed to get chat response")
		return
	}
	WriteJSON(w, http.StatusOK, ChatResponse{Response: answer})
}

func (r *Router) handleCommands(w http.ResponseWriter, req *http.Request) {
	prefix := req.URL.Query().Get("prefix")
	commands := session.Commands
	if prefix != "" {
		commands = session.Suggest(prefix)
	}
	if commands == nil {
		commands = []session.Command{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"commands": commands})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"name":    "mcpscout",
		"version": r.deps.Version,
	})
}
