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

// Package metrics exposes the Prometheus instrumentation surface
// antkeeper carries regardless of which spec.md Non-goal excludes
// "observability" as a feature: runs, coalesced bursts, and timer
// activity. Grounded on the teacher's internal/controller/filewatcher
// metrics.go (promauto counters/gauges keyed by a small label set).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts completed runs by workflow name and outcome
	// (completed, workflow_failed, fault).
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antkeeper_runs_total",
			Help: "Total workflow runs by workflow name and outcome",
		},
		[]string{"workflow", "status"},
	)

	// CoalescePending tracks the current number of pending (undispatched)
	// chat messages being debounced.
	CoalescePending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antkeeper_coalesce_pending",
			Help: "Number of chat messages currently pending dispatch",
		},
	)

	// CoalesceDispatchesTotal counts timer-expiry dispatches.
	CoalesceDispatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "antkeeper_coalesce_dispatches_total",
			Help: "Total workflow dispatches triggered by coalescer timer expiry",
		},
	)

	// CoalesceTimerResetsTotal counts cooldown timer resets caused by
	// edits and thread replies extending a pending message's window.
	CoalesceTimerResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "antkeeper_coalesce_timer_resets_total",
			Help: "Total cooldown timer resets from edits and thread replies",
		},
	)

	// CoalesceCancellationsTotal counts pending messages removed by a
	// delete event before their timer fired.
	CoalesceCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "antkeeper_coalesce_cancellations_total",
			Help: "Total pending messages cancelled by a delete event",
		},
	)
)
