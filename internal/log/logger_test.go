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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  string
		wantFormat Format
		wantSource bool
	}{
		{
			name:       "defaults",
			wantLevel:  "info",
			wantFormat: FormatJSON,
		},
		{
			name:       "LOG_LEVEL",
			env:        map[string]string{"LOG_LEVEL": "WARN"},
			wantLevel:  "warn",
			wantFormat: FormatJSON,
		},
		{
			name:       "MCPSCOUT_LOG_LEVEL beats LOG_LEVEL",
			env:        map[string]string{"LOG_LEVEL": "warn", "MCPSCOUT_LOG_LEVEL": "error"},
			wantLevel:  "error",
			wantFormat: FormatJSON,
		},
		{
			name:       "MCPSCOUT_DEBUG beats everything",
			env:        map[string]string{"MCPSCOUT_LOG_LEVEL": "error", "MCPSCOUT_DEBUG": "1"},
			wantLevel:  "debug",
			wantFormat: FormatJSON,
			wantSource: true,
		},
		{
			name:       "text format with source",
			env:        map[string]string{"LOG_FORMAT": "TEXT", "LOG_SOURCE": "1"},
			wantLevel:  "info",
			wantFormat: FormatText,
			wantSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE", "MCPSCOUT_LOG_LEVEL", "MCPSCOUT_DEBUG"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := FromEnv()
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantSource, cfg.AddSource)
		})
	}
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	logger.Info("hello", "key", "value")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])

	buf.Reset()
	logger = New(&Config{Level: "info", Format: FormatText, Output: &buf})
	logger.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer

	Trace(New(&Config{Level: "debug", Output: &buf}), "hidden")
	assert.Empty(t, buf.String())

	Trace(New(&Config{Level: "trace", Output: &buf}), "prompt", slog.String("task", "1"))
	entry := decodeLine(t, &buf)
	assert.Equal(t, "prompt", entry["msg"])
	assert.Equal(t, "1", entry["task"])
	assert.Equal(t, "TRACE", entry["level"])
}

func TestNew_MasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Output: &buf})
	logger.Info("configured",
		slog.String("api_key", "sk-live-1234abcd"),
		slog.String("Authorization", "Bearer xyz9876"),
		slog.String("model", "gpt-4o-mini"),
		slog.Int("token", 42),
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "...abcd", entry["api_key"])
	assert.Equal(t, "...9876", entry["Authorization"])
	assert.Equal(t, "gpt-4o-mini", entry["model"])
	assert.EqualValues(t, 42, entry["token"])
}

func TestWithRunContext(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunContext(New(&Config{Output: &buf}), "run-1", strings.Repeat("o", 100))
	logger.Info("started")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "run-1", entry[RunIDKey])
	objective := entry[ObjectiveKey].(string)
	assert.True(t, strings.HasSuffix(objective, "..."))
	assert.Len(t, objective, 83)
}

func TestWithComponentAndProvider(t *testing.T) {
	var buf bytes.Buffer
	logger := WithProvider(WithComponent(New(&Config{Output: &buf}), "gateway"), "openai")
	logger.Warn("slow", Error(errors.New("timeout")))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "gateway", entry["component"])
	assert.Equal(t, "openai", entry[ProviderKey])
	assert.Equal(t, "timeout", entry["error"])
}

func TestSanitizeAPIKey(t *testing.T) {
	assert.Equal(t, "[REDACTED]", SanitizeAPIKey("abc"))
	assert.Equal(t, "[REDACTED]", SanitizeAPIKey(""))
	assert.Equal(t, "...cdef", SanitizeAPIKey("sk-1234abcdef"))
}
