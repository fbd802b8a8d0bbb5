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

package errors

// UserVisibleError is implemented by errors that carry text meant for the
// person at the terminal. The CLI prints Suggestion under the error line and
// the JSON envelope reports it in the "suggestion" field.
type UserVisibleError interface {
	error
	IsUserVisible() bool
	UserMessage() string
	Suggestion() string // empty when there is nothing to suggest
}

// ErrorClassifier is implemented by errors that metrics and callers branch
// on. ErrorType is a short category such as "validation", "provider",
// "gateway" or "upstream".
type ErrorClassifier interface {
	error
	ErrorType() string
	IsRetryable() bool
}
