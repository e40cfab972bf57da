// Copyright 2026 Blink Labs Software
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

package router

import (
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type routerMetrics struct {
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	upgrades     prometheus.Counter
	active       *prometheus.GaugeVec
}

func newRouterMetrics(promRegistry prometheus.Registerer) *routerMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &routerMetrics{
		calls: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_router_calls_total",
				Help: "calls forwarded by the router by operation and result",
			},
			[]string{"operation", "result"},
		),
		callDuration: promautoFactory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "condo_router_call_duration_seconds",
				Help:    "latency of forwarded calls",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 100us to ~1.6s
			},
			[]string{"operation"},
		),
		upgrades: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "condo_router_implementation_changes_total",
			Help: "number of times the implementation pointer changed",
		}),
		active: promautoFactory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "condo_router_implementation_info",
				Help: "active implementation (value is always 1)",
			},
			[]string{"address", "name", "version"},
		),
	}
}

func (m *routerMetrics) observeCall(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, governance.KindName(err)).Inc()
	if elapsed > 0 {
		m.callDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

func (m *routerMetrics) setActive(deployment Deployment) {
	if m == nil {
		return
	}
	m.active.Reset()
	m.active.WithLabelValues(
		deployment.Address.String(),
		deployment.Name,
		deployment.Version,
	).Set(1)
}

func (m *routerMetrics) observeUpgrade(deployment Deployment) {
	if m == nil {
		return
	}
	m.upgrades.Inc()
	m.setActive(deployment)
}
