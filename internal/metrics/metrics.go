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

// Package metrics exposes Prometheus instruments for loop runs, gateway
// calls and candidate searches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgerrors "github.com/tombee/mcpscout/pkg/errors"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcpscout",
			Subsystem: "loop",
			Name:      "runs_total",
			Help:      "Total number of loop runs by outcome",
		},
		[]string{"outcome"},
	)

	runIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mcpscout",
			Subsystem: "loop",
			Name:      "iterations",
			Help:      "Completed create steps per run",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	gatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mcpscout",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Gateway call latency by operation and status",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"op", "status"},
	)

	searchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcpscout",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Candidate search round trips by status",
		},
		[]string{"status"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mcpscout",
			Name:      "errors_total",
			Help:      "Failed gateway and search calls by component and error type",
		},
		[]string{"component", "type", "retryable"},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mcpscout",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Candidate search latency",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// RecordRun records a finished loop run.
// outcome is one of: done, cancelled, failed, skipped
func RecordRun(outcome string, iterations int) {
	runsTotal.WithLabelValues(outcome).Inc()
	runIterations.Observe(float64(iterations))
}

// ObserveGatewayCall records the latency of one gateway round trip.
func ObserveGatewayCall(op string, d time.Duration, err error) {
	gatewayCallDuration.WithLabelValues(op, status(err)).Observe(d.Seconds())
	recordError("gateway", err)
}

// ObserveSearch records one candidate search round trip.
func ObserveSearch(d time.Duration, err error) {
	searchRequests.WithLabelValues(status(err)).Inc()
	searchDuration.Observe(d.Seconds())
	recordError("search", err)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func recordError(component string, err error) {
	if err == nil {
		return
	}
	retryable := "false"
	if pkgerrors.Retryable(err) {
		retryable = "true"
	}
	errorsTotal.WithLabelValues(component, pkgerrors.Classify(err), retryable).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
