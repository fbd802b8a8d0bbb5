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

import "github.com/tombee/mcpscout/internal/taskloop"

// ExecuteRequest is the body of POST /api/execute.
type ExecuteRequest struct {
	Objective string `json:"objective"`
	Task      string `json:"task"`
}

// ExecuteResponse is the reply of POST /api/execute.
type ExecuteResponse struct {
	Response string `json:"response"`
}

// CreateRequest is the body of POST /api/create.
type CreateRequest struct {
	Objective string          `json:"objective"`
	TaskList  []taskloop.Task `json:"taskList"`
	Task      taskloop.Task   `json:"task"`
	Result    string          `json:"result"`
}

// CreateResponse is the reply of POST /api/create.
type CreateResponse struct {
	Response []taskloop.Task `json:"response"`
}
