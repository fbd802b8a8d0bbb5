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

package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tombee/mcpscout/internal/taskloop"
)

var (
	objectiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	taskListStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	nextTaskStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	candidateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1).
			Width(wrapWidth - 4)
)

// labels are the headings shown before each entry kind.
var labels = map[taskloop.EntryKind]string{
	taskloop.KindObjective:    "Objective",
	taskloop.KindTaskList:     "Task list",
	taskloop.KindNextTask:     "Next task",
	taskloop.KindTaskResult:   "Result",
	taskloop.KindSearchResult: "Search",
	taskloop.KindError:        "Error",
}

// Printer writes transcript entries to a terminal or a plain stream.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter creates a Printer. Styling is applied only when styled is set.
func NewPrinter(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, styled: styled}
}

// Print writes entries in order.
func (p *Printer) Print(entries []taskloop.Entry) {
	for _, e := range entries {
		p.PrintEntry(e)
	}
}

// PrintEntry writes a single entry.
func (p *Printer) PrintEntry(e taskloop.Entry) {
	label := labels[e.Kind]
	if label == "" {
		label = string(e.Kind)
	}

	body := sanitizeANSI(e.Content)
	switch e.Kind {
	case taskloop.KindObjective:
		body = p.style(objectiveStyle, body)
	case taskloop.KindTaskList:
		body = p.style(taskListStyle, body)
	case taskloop.KindNextTask:
		body = p.style(nextTaskStyle, body)
	case taskloop.KindError:
		body = p.style(errorStyle, body)
	case taskloop.KindTaskResult, taskloop.KindSearchResult:
		if rendered, err := FormatMarkdown(e.Content, p.styled); err == nil {
			body = rendered
		}
	}

	fmt.Fprintf(p.w, "%s %s\n", p.style(labelStyle, "["+label+"]"), body)
	for _, c := range e.Candidates {
		fmt.Fprintln(p.w, p.candidate(c))
	}
}

func (p *Printer) candidate(c taskloop.Candidate) string {
	lines := []string{p.style(labelStyle, c.Title)}
	if c.MetaDescription != "" {
		lines = append(lines, c.MetaDescription)
	}
	if c.Endpoint != "" {
		lines = append(lines, "endpoint: "+c.Endpoint)
	}
	text := strings.Join(lines, "\n")
	if !p.styled {
		return "  - " + strings.ReplaceAll(text, "\n", "\n    ")
	}
	return candidateStyle.Render(text)
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}
