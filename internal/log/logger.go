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
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// LevelTrace sits below Debug. Prompts and raw model output log here.
const LevelTrace = slog.Level(-8)

// Attribute keys shared across packages.
const (
	RunIDKey     = "run_id"
	TaskIDKey    = "task_id"
	ObjectiveKey = "objective"
	ProviderKey  = "provider"
	DurationKey  = "duration_ms"
	EventKey     = "event"
)

// sensitiveKeys name attributes whose string values are masked with
// SanitizeAPIKey before they reach the handler.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"token":         true,
	"secret":        true,
	"x-api-key":     true,
}

// Config holds the logging configuration. The zero value logs JSON at
// info level to stderr.
type Config struct {
	Level     string // trace, debug, info, warn or error
	Format    Format
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: FormatJSON, Output: os.Stderr}
}

// FromEnv builds a Config from the environment:
//
//	MCPSCOUT_DEBUG      1 or true: debug level with source locations
//	MCPSCOUT_LOG_LEVEL  level, ignored when MCPSCOUT_DEBUG is set
//	LOG_LEVEL           fallback for MCPSCOUT_LOG_LEVEL
//	LOG_FORMAT          json or text
//	LOG_SOURCE          1 adds source locations
func FromEnv() *Config {
	cfg := DefaultConfig()

	switch os.Getenv("MCPSCOUT_DEBUG") {
	case "1", "true":
		cfg.Level, cfg.AddSource = "debug", true
	case "":
		for _, key := range []string{"MCPSCOUT_LOG_LEVEL", "LOG_LEVEL"} {
			if v := os.Getenv(key); v != "" {
				cfg.Level = strings.ToLower(v)
				break
			}
		}
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = Format(strings.ToLower(v))
	}
	cfg.AddSource = cfg.AddSource || os.Getenv("LOG_SOURCE") == "1"
	return cfg
}

// New creates a new structured logger from the given configuration.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   cfg.AddSource,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}

// replaceAttr names the trace level and masks credentials.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
			return slog.String(slog.LevelKey, "TRACE")
		}
		return a
	}
	if sensitiveKeys[strings.ToLower(a.Key)] && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, SanitizeAPIKey(a.Value.String()))
	}
	return a
}

var levels = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel maps a level name to its slog.Level. Unknown names log at info.
func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// WithComponent tags every record with the emitting subsystem.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// Error is the attribute used for failures.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// WithRunContext returns a new logger carrying the run ID and objective.
// Long objectives are cut to keep log lines readable.
func WithRunContext(logger *slog.Logger, runID, objective string) *slog.Logger {
	const maxObjective = 80
	if len([]rune(objective)) > maxObjective {
		objective = string([]rune(objective)[:maxObjective]) + "..."
	}
	return logger.With(
		slog.String(RunIDKey, runID),
		slog.String(ObjectiveKey, objective),
	)
}

func WithProvider(logger *slog.Logger, provider string) *slog.Logger {
	return logger.With(slog.String(ProviderKey, provider))
}

// SanitizeAPIKey keeps the last four characters of key, or returns
// "[REDACTED]" when key is too short to show any of it.
func SanitizeAPIKey(key string) string {
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return "..." + key[len(key)-4:]
}

// Trace logs at LevelTrace. Prompts and raw model output go here.
func Trace(logger *slog.Logger, msg string, attrs ...slog.Attr) {
	ctx := context.Background()
	if logger.Enabled(ctx, LevelTrace) {
		logger.LogAttrs(ctx, LevelTrace, msg, attrs...)
	}
}
