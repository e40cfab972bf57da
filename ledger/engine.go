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

// Package ledger implements the governance engine. An Engine holds no
// state of its own: every call runs inside one store transaction and the
// events it produces are published only after that transaction commits.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultName    = "condominium"
	DefaultVersion = "1.0.0"

	// QuotaPeriod is how long a quota payment covers a residence
	QuotaPeriod = 30 * 24 * time.Hour
)

type EngineConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	// Payout releases approved funds. Defaults to crediting the recipient
	// account in the store.
	Payout governance.Payout
	// Clock defaults to time.Now
	Clock   func() time.Time
	Name    string
	Version string
	Layout  governance.Layout
	Quorum  governance.QuorumPolicy
}

type Engine struct {
	config  EngineConfig
	store   governance.Store
	metrics *engineMetrics
}

var _ governance.Engine = (*Engine)(nil)

func NewEngine(store governance.Store, cfg EngineConfig) (*Engine, error) {
	if store == nil {
		return nil, errors.New("ledger: store is required")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	cfg.Logger = cfg.Logger.With(
		"component", "ledger",
		"engine", cfg.Name,
		"version", cfg.Version,
	)
	if cfg.Layout == (governance.Layout{}) {
		cfg.Layout = governance.DefaultLayout()
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if cfg.Quorum == (governance.QuorumPolicy{}) {
		cfg.Quorum = governance.DefaultQuorumPolicy()
	}
	if err := cfg.Quorum.Validate(); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if cfg.Payout == nil {
		cfg.Payout = CreditPayout{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	e := &Engine{
		config: cfg,
		store:  store,
	}
	if cfg.PromRegistry != nil {
		e.metrics = newEngineMetrics(cfg.PromRegistry, cfg.Name, cfg.Version)
	}
	return e, nil
}

func (e *Engine) Name() string {
	return e.config.Name
}

func (e *Engine) Version() string {
	return e.config.Version
}

func (e *Engine) Layout() governance.Layout {
	return e.config.Layout
}

func (e *Engine) Quorum() governance.QuorumPolicy {
	return e.config.Quorum
}

// call is the state of one mutating operation
type call struct {
	governance.StoreTxn
	caller   governance.Address
	role     governance.Role
	resident *governance.Resident
	now      time.Time
	events   []event.Event
}

func (c *call) authorize(op governance.Operation) error {
	return governance.Authorize(c.role, op)
}

func (c *call) emit(eventType event.EventType, data any) {
	evt := event.NewEvent(eventType, data)
	evt.Timestamp = c.now
	c.events = append(c.events, evt)
}

// resolveRole derives the caller's role flags from the stored manager and
// resident records
func resolveRole(
	txn governance.StoreTxn,
	caller governance.Address,
) (governance.Role, *governance.Resident, error) {
	role := governance.RoleNone
	if caller.IsZero() {
		return role, nil, nil
	}
	manager, err := txn.Manager()
	if err != nil {
		return role, nil, err
	}
	if caller == manager {
		role |= governance.RoleManager
	}
	resident, err := txn.Resident(caller)
	if err != nil {
		return role, nil, err
	}
	if resident != nil {
		role |= governance.RoleResident
		if resident.IsCounselor {
			role |= governance.RoleCounselor
		}
	}
	return role, resident, nil
}

// run executes fn in a single read-write transaction and publishes the
// collected events once it commits
func (e *Engine) run(
	ctx context.Context,
	op governance.Operation,
	caller governance.Address,
	fn func(*call) error,
) error {
	var events []event.Event
	err := e.store.Update(ctx, func(txn governance.StoreTxn) error {
		role, resident, err := resolveRole(txn, caller)
		if err != nil {
			return err
		}
		c := &call{
			StoreTxn: txn,
			caller:   caller,
			role:     role,
			resident: resident,
			now:      e.config.Clock(),
		}
		if err := fn(c); err != nil {
			return err
		}
		events = c.events
		return nil
	})
	e.metrics.observeCall(op, err)
	if err != nil {
		e.config.Logger.Debug(
			"operation failed",
			"operation", string(op),
			"caller", caller.String(),
			"error", err,
		)
		return err
	}
	e.config.Logger.Info(
		"operation committed",
		"operation", string(op),
		"caller", caller.String(),
	)
	e.metrics.observeEvents(events)
	e.publish(events)
	return nil
}

func (e *Engine) view(ctx context.Context, fn func(governance.StoreTxn) error) error {
	return e.store.View(ctx, fn)
}

func (e *Engine) publish(events []event.Event) {
	if e.config.EventBus == nil {
		return
	}
	for _, evt := range events {
		e.config.EventBus.Publish(evt.Type, evt)
	}
}
