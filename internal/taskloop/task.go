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

// Package taskloop implements the objective-driven task loop: seed a task
// queue, execute the front task through a Gateway, ask the Gateway for a
// fresh task list, and repeat until the queue drains, the iteration bound
// is hit, the run is cancelled or a call fails.
package taskloop

// Task is one unit of work proposed by the model. IDs come from the model
// and are neither unique nor monotonic.
type Task struct {
	ID   string `json:"taskID"`
	Name string `json:"taskName"`
}

// BootstrapTask seeds every run.
var BootstrapTask = Task{ID: "1", Name: "Develop a task list"}

// Candidate is one MCP tool/server recommendation returned by search. It is
// passed through unmodified.
type Candidate struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	IconURL         string `json:"iconUrl"`
	Endpoint        string `json:"endpoint"`
	MetaDescription string `json:"metaDescription"`
	FullDescription string `json:"fullDescription"`
}
