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

// Package tracing configures OpenTelemetry for mcpscout.
//
// Setup installs a global tracer provider, optionally exporting spans to a
// writer through the stdout exporter, and a meter provider whose readings are
// served by the Prometheus registry alongside the native instruments in
// internal/metrics. TracedProvider wraps an llm.Provider so that every
// completion produces a client span and token counters.
package tracing
