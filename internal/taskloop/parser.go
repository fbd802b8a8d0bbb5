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
	"strings"
)

const itemDelimiter = ". "

// Parse extracts tasks from a numbered-list completion such as
// "2. Research servers\n3. Compare them". Each line is trimmed and cut at
// its first ". "; lines without the delimiter are dropped. Text after a
// second delimiter stays part of the name. Order is preserved.
func Parse(raw string) []Task {
	tasks := []Task{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		id, name, ok := strings.Cut(line, itemDelimiter)
		if !ok {
			continue
		}
		tasks = append(tasks, Task{
			ID:   strings.TrimSpace(id),
			Name: strings.TrimSpace(name),
		})
	}
	return tasks
}

// Render formats tasks as a numbered list that Parse reads back. Line
// breaks and runs of whitespace inside a task collapse to single spaces,
// and a ". " inside an ID loses its space. A task with a blank name has no
// line Parse would accept, so it is left out.
func Render(tasks []Task) string {
	var b strings.Builder
	for _, t := range tasks {
		name := strings.Join(strings.Fields(t.Name), " ")
		if name == "" {
			continue
		}
		id := strings.ReplaceAll(strings.Join(strings.Fields(t.ID), " "), itemDelimiter, ".")
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(id)
		b.WriteString(itemDelimiter)
		b.WriteString(name)
	}
	return b.String()
}
