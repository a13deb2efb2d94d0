/*
 * Copyright 2026 The Tactix Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tactix-team/tactix/internal/version"
)

const (
	namespace  = "tactix"
	eventLabel = "event"
	storeLabel = "store"
)

// Metrics manages the metric information that Tactix is trying to measure.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	connectionsTotal     prometheus.Gauge
	eventsHandledTotal   *prometheus.CounterVec
	eventsDroppedTotal   *prometheus.CounterVec
	replaysStartedTotal  prometheus.Counter
	recordingsSavedTotal prometheus.Counter
	storeErrorsTotal     *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		connectionsTotal: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "The current number of WebSocket connections.",
		}),
		eventsHandledTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "events_handled_total",
			Help:      "Total number of inbound events handled, by event name.",
		}, []string{eventLabel}),
		eventsDroppedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "events_dropped_total",
			Help:      "Total number of inbound events dropped as malformed or stale.",
		}, []string{eventLabel}),
		replaysStartedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replay",
			Name:      "started_total",
			Help:      "Total number of replays started.",
		}),
		recordingsSavedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recording",
			Name:      "saved_total",
			Help:      "Total number of recordings saved.",
		}),
		storeErrorsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of persistence operations that failed.",
		}, []string{storeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetConnections sets the current number of connections.
func (m *Metrics) SetConnections(n int) {
	m.connectionsTotal.Set(float64(n))
}

// AddEventHandled increments the handled counter of the given event.
func (m *Metrics) AddEventHandled(event string) {
	m.eventsHandledTotal.With(prometheus.Labels{eventLabel: event}).Inc()
}

// AddEventDropped increments the dropped counter of the given event.
func (m *Metrics) AddEventDropped(event string) {
	m.eventsDroppedTotal.With(prometheus.Labels{eventLabel: event}).Inc()
}

// AddReplayStarted increments the replays-started counter.
func (m *Metrics) AddReplayStarted() {
	m.replaysStartedTotal.Inc()
}

// AddRecordingSaved increments the recordings-saved counter.
func (m *Metrics) AddRecordingSaved() {
	m.recordingsSavedTotal.Inc()
}

// AddStoreError increments the persistence error counter of the given store.
func (m *Metrics) AddStoreError(store string) {
	m.storeErrorsTotal.With(prometheus.Labels{storeLabel: store}).Inc()
}
