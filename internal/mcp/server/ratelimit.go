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

package server

import (
	"golang.org/x/time/rate"
)

const (
	defaultRatePerSecond = 2
	defaultBurst         = 5
)

// RateLimiter bounds MCP tool calls. Loop runs draw from a separate, slower
// bucket because each one fans out into many model calls.
type RateLimiter struct {
	calls *rate.Limiter
	runs  *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing perSecond calls with the
// given burst. Non-positive values fall back to defaults.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	runBurst := burst / 2
	if runBurst < 1 {
		runBurst = 1
	}
	return &RateLimiter{
		calls: rate.NewLimiter(rate.Limit(perSecond), burst),
		runs:  rate.NewLimiter(rate.Limit(perSecond/10), runBurst),
	}
}

// AllowCall checks if any tool call is allowed
func (rl *RateLimiter) AllowCall() bool {
	return rl.calls.Allow()
}

// AllowRun checks if a run_objective call is allowed
func (rl *RateLimiter) AllowRun() bool {
	return rl.runs.Allow()
}
