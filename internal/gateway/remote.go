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

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tombee/mcpscout/internal/taskloop"
	"github.com/tombee/mcpscout/pkg/httpclient"
)

// RemoteGateway forwards execute and create to another mcpscout API.
type RemoteGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteGateway creates a gateway that calls {baseURL}/api/execute and
// {baseURL}/api/create.
func NewRemoteGateway(baseURL string, timeout time.Duration) (*RemoteGateway, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote gateway: base URL is required")
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = timeout
	hc.UserAgent = "mcpscout-remote-gateway/1.0"
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &RemoteGateway{baseURL: baseURL, httpClient: client}, nil
}

// Execute implements taskloop.Gateway.
func (g *RemoteGateway) Execute(ctx context.Context, objective, task string) (string, error) {
	var resp ExecuteResponse
	if err := g.post(ctx, "/api/execute", ExecuteRequest{Objective: objective, Task: task}, &resp); err != nil {
		return "", &GatewayError{Op: OpExecute, Cause: err}
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", &GatewayError{Op: OpExecute, Cause: ErrEmptyCompletion}
	}
	return resp.Response, nil
}

// Create implements taskloop.Gateway. The returned tasks are rendered back
// into numbered-list text for the loop's parser.
func (g *RemoteGateway) Create(ctx context.Context, objective string, pending []taskloop.Task, last taskloop.Task, lastResult string) (string, error) {
	if pending == nil {
		pending = []taskloop.Task{}
	}
	req := CreateRequest{Objective: objective, TaskList: pending, Task: last, Result: lastResult}

	var resp CreateResponse
	if err := g.post(ctx, "/api/create", req, &resp); err != nil {
		return "", &GatewayError{Op: OpCreate, Cause: err}
	}
	return taskloop.Render(resp.Response), nil
}

func (g *RemoteGateway) post(ctx context.Context, path string, body, out any) error {
	status, data, err := httpclient.PostJSON(ctx, g.httpClient, g.baseURL+path, body, nil)
	if err != nil {
		return err
	}
	if !httpclient.IsSuccess(status) {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return fmt.Errorf("HTTP %d: %s", status, envelope.Error)
		}
		return fmt.Errorf("HTTP %d", status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
