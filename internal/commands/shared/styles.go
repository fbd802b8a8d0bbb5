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


package shared

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tombee/mcpscout/internal/taskloop"
)

// Palette (ANSI 256).
const (
	colorGreen  = lipgloss.Color("42")
	colorOrange = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorBlue   = lipgloss.Color("39")
	colorGray   = lipgloss.Color("245")
)

var (
	statusOK    = lipgloss.NewStyle().Foreground(colorGreen)
	statusWarn  = lipgloss.NewStyle().Foreground(colorOrange)
	statusError = lipgloss.NewStyle().Foreground(colorRed)

	// Muted styles secondary text such as summaries and descriptions.
	Muted = lipgloss.NewStyle().Foreground(colorGray)

	// Bold styles names: tools, commands.
	Bold = lipgloss.NewStyle().Bold(true)

	// Header styles section headers.
	Header = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
)

// RenderOK prefixes msg with a green check mark.
func RenderOK(msg string) string {
	return statusOK.Render("✓") + " " + msg
}

// RenderWarn prefixes msg with an orange warning sign.
func RenderWarn(msg string) string {
	return statusWarn.Render("⚠") + " " + msg
}

// RenderError prefixes msg with a red cross.
func RenderError(msg string) string {
	return statusError.Render("✗") + " " + msg
}

// RenderLabel renders a dim label.
func RenderLabel(label string) string {
	return Muted.Render(label)
}

// RenderOutcome colors a run outcome: done green, skipped orange, failed
// red, cancelled gray.
func RenderOutcome(o taskloop.Outcome) string {
	switch o {
	case taskloop.OutcomeDone:
		return statusOK.Render(string(o))
	case taskloop.OutcomeSkipped:
		return statusWarn.Render(string(o))
	case taskloop.OutcomeFailed:
		return statusError.Render(string(o))
	default:
		return Muted.Render(string(o))
	}
}
