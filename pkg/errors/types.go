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

import (
	"fmt"
	"strings"
)

// ValidationError reports bad input: a missing request field, an unknown
// tool argument or a malformed flag.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) ErrorType() string   { return "validation" }
func (e *ValidationError) IsRetryable() bool   { return false }
func (e *ValidationError) IsUserVisible() bool { return true }
func (e *ValidationError) UserMessage() string { return e.Error() }
func (e *ValidationError) Suggestion() string  { return e.Hint }

// NotFoundError reports a missing named resource such as a tool or secret.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) ErrorType() string { return "not_found" }
func (e *NotFoundError) IsRetryable() bool { return false }

// ProviderError is a failure reported by an upstream HTTP service: an LLM
// provider or a web search backend.
type ProviderError struct {
	Provider   string // "openai", "ollama", "serper"
	StatusCode int    // zero when no response was received
	Message    string
	Hint       string
	RequestID  string
	Cause      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider %s error", e.Provider)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " [HTTP %d]", e.StatusCode)
	}
	b.WriteString(": " + e.Message)
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request-id: %s)", e.RequestID)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error     { return e.Cause }
func (e *ProviderError) ErrorType() string { return "provider" }

// IsRetryable treats rate limiting and server errors as transient. Nothing
// in mcpscout retries automatically; metrics and callers read the flag.
func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

func (e *ProviderError) IsUserVisible() bool { return e.Hint != "" }
func (e *ProviderError) UserMessage() string { return e.Error() }
func (e *ProviderError) Suggestion() string  { return e.Hint }

// ConfigError reports an unusable configuration value or file. Key is the
// dotted config key, e.g. "llm.api_key".
type ConfigError struct {
	Key    string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "config error: " + e.Reason
	}
	return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error       { return e.Cause }
func (e *ConfigError) IsUserVisible() bool { return true }
func (e *ConfigError) UserMessage() string { return e.Error() }

func (e *ConfigError) Suggestion() string {
	if e.Key == "" {
		return ""
	}
	return fmt.Sprintf("Set %s in config.yaml or via its environment variable", e.Key)
}
