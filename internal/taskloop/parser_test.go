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

package taskloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Task
	}{
		{
			name: "empty input",
			raw:  "",
			want: []Task{},
		},
		{
			name: "numbered list",
			raw:  "2. Research MCP servers\n3. Compare pricing",
			want: []Task{{ID: "2", Name: "Research MCP servers"}, {ID: "3", Name: "Compare pricing"}},
		},
		{
			name: "blank lines and prose are dropped",
			raw:  "Here are your tasks:\n\n  4. Draft summary  \nThanks!",
			want: []Task{{ID: "4", Name: "Draft summary"}},
		},
		{
			name: "second delimiter stays in the name",
			raw:  "5. Read docs. Then write notes",
			want: []Task{{ID: "5", Name: "Read docs. Then write notes"}},
		},
		{
			name: "windows line endings",
			raw:  "1. a\r\n2. b\r\n",
			want: []Task{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}},
		},
		{
			name: "non numeric ids are kept",
			raw:  "#. First task",
			want: []Task{{ID: "#", Name: "First task"}},
		},
		{
			name: "missing space after period",
			raw:  "1.No space",
			want: []Task{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	tasks := []Task{
		{ID: "1", Name: "Develop a task list"},
		{ID: "2", Name: "Find MCP servers for search"},
		{ID: "10", Name: "Summarize. Then stop"},
	}

	rendered := Render(tasks)
	assert.Equal(t, "1. Develop a task list\n2. Find MCP servers for search\n10. Summarize. Then stop", rendered)
	assert.Equal(t, tasks, Parse(rendered))
	assert.Equal(t, "", Render(nil))
}

func TestRender_NormalizesTasks(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  []Task
	}{
		{
			name:  "blank name dropped",
			tasks: []Task{{ID: "2", Name: "Keep"}, {ID: "3", Name: "  "}, {ID: "4", Name: ""}},
			want:  []Task{{ID: "2", Name: "Keep"}},
		},
		{
			name:  "multi-line name joined",
			tasks: []Task{{ID: "2", Name: "Compare\nthe  servers"}},
			want:  []Task{{ID: "2", Name: "Compare the servers"}},
		},
		{
			name:  "delimiter in id",
			tasks: []Task{{ID: "2. a", Name: "Go"}},
			want:  []Task{{ID: "2.a", Name: "Go"}},
		},
		{
			name:  "only blank tasks",
			tasks: []Task{{ID: "1", Name: ""}},
			want:  []Task{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(Render(tt.tasks)))
		})
	}
}
