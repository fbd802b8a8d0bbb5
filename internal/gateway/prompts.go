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
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/tombee/mcpscout/internal/taskloop"
)

// DefaultLanguage is the answer language requested by the execute prompt.
const DefaultLanguage = "Japanese"

const createTemplate = "You are an AI task creation agent. You have the following objective `%s`. " +
	"You have the following incomplete tasks `%s` and have just executed the following task `%s` " +
	"and received the following result `%s`. Based on this, create a new task to be completed by " +
	"your AI system such that your goal is more closely reached or completely reached. " +
	"Return the result as a numbered list, like: #. First task #. Second task. " +
	"Start the task list with number %s."

// LanguageName resolves a BCP 47 tag such as "ja" or "pt-BR" to its English
// display name. Anything that is not a known tag is returned unchanged, so
// plain names like "Japanese" pass through.
func LanguageName(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return lang
}

// ExecuteSystemPrompt returns the system message for executing one task.
func ExecuteSystemPrompt(objective, lang string) string {
	return fmt.Sprintf("You are an AI who performs one task based on the following objective: %s. Please answer in %s.", objective, LanguageName(lang))
}

// ExecuteUserPrompt returns the user message for executing one task.
func ExecuteUserPrompt(task string) string {
	return fmt.Sprintf("Your task: %s. Response:", task)
}

// CreatePrompt returns the single prompt for creating the next task list.
func CreatePrompt(objective string, pending []taskloop.Task, last taskloop.Task, lastResult string) string {
	names := make([]string, len(pending))
	for i, t := range pending {
		names[i] = t.Name
	}
	return fmt.Sprintf(createTemplate, objective, strings.Join(names, ", "), last.Name, lastResult, NextTaskID(last.ID))
}

// NextTaskID returns the number after id. Model-assigned IDs are not always
// numeric; a non-numeric id restarts numbering at 1.
func NextTaskID(id string) string {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return "1"
	}
	return strconv.Itoa(n + 1)
}
