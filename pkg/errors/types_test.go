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

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *pkgerrors.ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &pkgerrors.ValidationError{Field: "objective", Message: "is required"},
			wantMsg: "validation failed on objective: is required",
		},
		{
			name:    "without field",
			err:     &pkgerrors.ValidationError{Message: "invalid body"},
			wantMsg: "validation failed: invalid body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	err := &pkgerrors.NotFoundError{Resource: "tool", ID: "web_search"}
	if got := err.Error(); got != "tool not found: web_search" {
		t.Errorf("NotFoundError.Error() = %q", got)
	}
}

func TestProviderError(t *testing.T) {
	tests := []struct {
		name      string
		err       *pkgerrors.ProviderError
		wantMsg   string
		retryable bool
	}{
		{
			name:      "status and request id",
			err:       &pkgerrors.ProviderError{Provider: "openai", StatusCode: 401, Message: "bad key", RequestID: "req-1"},
			wantMsg:   "provider openai error [HTTP 401]: bad key (request-id: req-1)",
			retryable: false,
		},
		{
			name:      "rate limited",
			err:       &pkgerrors.ProviderError{Provider: "openai", StatusCode: 429, Message: "slow down"},
			wantMsg:   "provider openai error [HTTP 429]: slow down",
			retryable: true,
		},
		{
			name:      "network failure",
			err:       &pkgerrors.ProviderError{Provider: "search", Message: "request failed"},
			wantMsg:   "provider search error: request failed",
			retryable: false,
		},
		{
			name:      "server error",
			err:       &pkgerrors.ProviderError{Provider: "ollama", StatusCode: 503, Message: "loading"},
			wantMsg:   "provider ollama error [HTTP 503]: loading",
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &pkgerrors.ProviderError{Provider: "openai", Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("ProviderError should unwrap to its cause")
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &pkgerrors.ConfigError{Key: "llm.api_key", Reason: "missing", Cause: cause}

	if got := err.Error(); got != "config error at llm.api_key: missing" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("ConfigError should unwrap to its cause")
	}

	var visible pkgerrors.UserVisibleError = err
	if !visible.IsUserVisible() {
		t.Error("ConfigError should be user visible")
	}
	if visible.Suggestion() == "" {
		t.Error("ConfigError with a key should carry a suggestion")
	}

	if (&pkgerrors.ConfigError{Reason: "bad"}).Suggestion() != "" {
		t.Error("ConfigError without a key should have no suggestion")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &pkgerrors.ValidationError{Message: "x"}, "validation"},
		{"wrapped provider", fmt.Errorf("calling: %w", &pkgerrors.ProviderError{Provider: "p"}), "provider"},
		{"not found", &pkgerrors.NotFoundError{Resource: "tool", ID: "x"}, "not_found"},
		{"plain", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pkgerrors.Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHintsSurfaceAsSuggestions(t *testing.T) {
	withHint := &pkgerrors.ProviderError{Provider: "ollama", Message: "request failed", Hint: "Check that Ollama is running (ollama serve)"}
	if got := pkgerrors.SuggestionFor(withHint); got != withHint.Hint {
		t.Errorf("SuggestionFor(provider) = %q", got)
	}
	if pkgerrors.SuggestionFor(&pkgerrors.ProviderError{Provider: "openai"}) != "" {
		t.Error("a provider error without a hint should not be user visible")
	}

	invalid := &pkgerrors.ValidationError{Field: "inputs", Message: "missing query", Hint: "Pass a query"}
	if got := pkgerrors.SuggestionFor(invalid); got != "Pass a query" {
		t.Errorf("SuggestionFor(validation) = %q", got)
	}
}
