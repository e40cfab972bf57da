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

package ledger

import (
	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type engineMetrics struct {
	calls           *prometheus.CounterVec
	votes           *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	quotaPayments   prometheus.Counter
	quotaPaid       prometheus.Counter
	transfers       prometheus.Counter
	transferredBase prometheus.Counter
}

// newEngineMetrics labels every series with the engine name and version so
// that several deployed engines can share a registry
func newEngineMetrics(
	promRegistry prometheus.Registerer,
	name string,
	version string,
) *engineMetrics {
	promautoFactory := promauto.With(
		prometheus.WrapRegistererWith(
			prometheus.Labels{"engine": name, "version": version},
			promRegistry,
		),
	)
	return &engineMetrics{
		calls: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_engine_calls_total",
				Help: "mutating governance calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		votes: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_votes_total",
				Help: "votes cast by option",
			},
			[]string{"option"},
		),
		resolutions: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "condo_topics_resolved_total",
				Help: "closed topics by category and outcome",
			},
			[]string{"category", "status"},
		),
		quotaPayments: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "condo_quota_payments_total",
			Help: "quota payments recorded",
		}),
		quotaPaid: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "condo_quota_paid_base_units_total",
			Help: "value received through quota payments in base units",
		}),
		transfers: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "condo_treasury_transfers_total",
			Help: "treasury transfers completed",
		}),
		transferredBase: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "condo_treasury_transferred_base_units_total",
			Help: "value released from the treasury in base units",
		}),
	}
}

func (m *engineMetrics) observeCall(op governance.Operation, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(string(op), governance.KindName(err)).Inc()
}

// observeEvents updates counters from the events of a committed call
func (m *engineMetrics) observeEvents(events []event.Event) {
	if m == nil {
		return
	}
	for _, evt := range events {
		switch data := evt.Data.(type) {
		case event.VoteCastEvent:
			m.votes.WithLabelValues(data.Option.String()).Inc()
		case event.VotingClosedEvent:
			m.resolutions.WithLabelValues(data.Category.String(), data.Status.String()).Inc()
		case event.QuotaPaidEvent:
			m.quotaPayments.Inc()
			m.quotaPaid.Add(data.Payment.Amount.Float64())
		case event.FundsTransferredEvent:
			m.transfers.Inc()
			m.transferredBase.Add(data.Receipt.Amount.Float64())
		}
	}
}
