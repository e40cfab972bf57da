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

// Package router provides the stable front door to the governance engine.
// The router owns only the implementation pointer: every governance call is
// forwarded to the active engine with the original caller, and all state
// lives in the store the engines share.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/condo/router"

// PointerStore persists the implementation pointer
type PointerStore interface {
	LoadImplementation(ctx context.Context) (governance.Address, bool, error)
	// StoreImplementation writes the pointer and, when manager is non-zero,
	// the new manager in one transaction
	StoreImplementation(ctx context.Context, impl governance.Address, manager governance.Address) error
}

type RouterConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Registry     *Registry
	Store        PointerStore
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
	// Deployer holds authority until the router is initialized. Afterwards
	// authority belongs to the manager recorded by the active engine.
	Deployer governance.Address
}

type Router struct {
	config  RouterConfig
	current *Deployment
	metrics *routerMetrics
	tracer  trace.Tracer
	// Forwarded calls hold the read lock, so the pointer only moves
	// between calls
	mu sync.RWMutex
}

var _ governance.Engine = (*Router)(nil)

// New creates a router and restores a previously stored pointer
func New(ctx context.Context, cfg RouterConfig) (*Router, error) {
	if cfg.Registry == nil {
		return nil, errors.New("router: registry is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("router: pointer store is required")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "router")
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	r := &Router{
		config: cfg,
		tracer: cfg.TracerProvider.Tracer(tracerName),
	}
	if cfg.PromRegistry != nil {
		r.metrics = newRouterMetrics(cfg.PromRegistry)
	}
	impl, found, err := cfg.Store.LoadImplementation(ctx)
	if err != nil {
		return nil, fmt.Errorf("router: load implementation: %w", err)
	}
	if found {
		deployment, ok := cfg.Registry.Lookup(impl)
		if !ok {
			return nil, fmt.Errorf(
				"router: stored implementation %s: %w",
				impl,
				governance.ErrImplementationNotFound,
			)
		}
		r.current = &deployment
		r.metrics.setActive(deployment)
		cfg.Logger.Info(
			"restored implementation",
			"address", impl.String(),
			"name", deployment.Name,
			"version", deployment.Version,
		)
	} else if cfg.Deployer.IsZero() {
		return nil, fmt.Errorf("router: deployer %w", governance.ErrZeroAddress)
	}
	return r, nil
}

// Initialized reports whether an implementation has been set
func (r *Router) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current != nil
}

// ImplementationAddress returns the address calls are forwarded to
func (r *Router) ImplementationAddress(context.Context) (governance.Address, error) {
	deployment, err := r.Implementation()
	if err != nil {
		return governance.ZeroAddress, err
	}
	return deployment.Address, nil
}

// Implementation returns the active deployment
func (r *Router) Implementation() (Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Deployment{}, governance.ErrNotInitialized
	}
	return *r.current, nil
}

// Init sets the first implementation. It can only be called once.
func (r *Router) Init(ctx context.Context, caller governance.Address, impl governance.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.authorize(ctx, caller); err != nil {
		return err
	}
	if r.current != nil {
		return governance.ErrAlreadyInitialized
	}
	return r.swap(ctx, caller, impl, governance.ZeroAddress)
}

// Upgrade points the router at another deployed implementation
func (r *Router) Upgrade(ctx context.Context, caller governance.Address, impl governance.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return governance.ErrNotInitialized
	}
	if err := r.authorize(ctx, caller); err != nil {
		return err
	}
	return r.swap(ctx, caller, impl, governance.ZeroAddress)
}

// UpgradeWithManager swaps the implementation and hands authority to a new
// manager atomically
func (r *Router) UpgradeWithManager(
	ctx context.Context,
	caller governance.Address,
	impl governance.Address,
	manager governance.Address,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return governance.ErrNotInitialized
	}
	if err := r.authorize(ctx, caller); err != nil {
		return err
	}
	if manager.IsZero() {
		return governance.ErrZeroAddress
	}
	return r.swap(ctx, caller, impl, manager)
}

// authorize checks that caller holds upgrade authority. Must be called with
// the write lock held.
func (r *Router) authorize(ctx context.Context, caller governance.Address) error {
	authority := r.config.Deployer
	if r.current != nil {
		var err error
		authority, err = r.current.Engine.Manager(ctx)
		if err != nil {
			return err
		}
	}
	role := governance.RoleNone
	if !caller.IsZero() && caller == authority {
		role = governance.RoleManager
	}
	return governance.Authorize(role, governance.OpUpgrade)
}

// swap persists and activates a new pointer. Must be called with the write
// lock held.
func (r *Router) swap(
	ctx context.Context,
	caller governance.Address,
	impl governance.Address,
	manager governance.Address,
) error {
	if impl.IsZero() {
		return governance.ErrZeroAddress
	}
	deployment, ok := r.config.Registry.Lookup(impl)
	if !ok {
		return fmt.Errorf("%w: %s", governance.ErrImplementationNotFound, impl)
	}
	var previous governance.Address
	var previousManager governance.Address
	if r.current != nil {
		previous = r.current.Address
		if !manager.IsZero() {
			var err error
			previousManager, err = r.current.Engine.Manager(ctx)
			if err != nil {
				return err
			}
		}
	}
	if err := r.config.Store.StoreImplementation(ctx, impl, manager); err != nil {
		return fmt.Errorf("router: store implementation: %w", err)
	}
	r.current = &deployment
	r.metrics.observeUpgrade(deployment)
	r.config.Logger.Info(
		"implementation changed",
		"caller", caller.String(),
		"previous", previous.String(),
		"address", impl.String(),
		"name", deployment.Name,
		"version", deployment.Version,
	)
	if r.config.EventBus != nil {
		r.config.EventBus.Publish(
			event.RouterUpgradedEventType,
			event.NewEvent(
				event.RouterUpgradedEventType,
				event.RouterUpgradedEvent{
					Caller:         caller,
					Previous:       previous,
					Implementation: impl,
					Name:           deployment.Name,
					Version:        deployment.Version,
				},
			),
		)
		if !manager.IsZero() {
			r.config.EventBus.Publish(
				event.ManagerChangedEventType,
				event.NewEvent(
					event.ManagerChangedEventType,
					event.ManagerChangedEvent{
						Previous: previousManager,
						Manager:  manager,
					},
				),
			)
		}
	}
	return nil
}

// forward runs fn against the active engine inside a span
func forward[T any](
	r *Router,
	ctx context.Context,
	op string,
	fn func(context.Context, governance.Engine) (T, error),
) (T, error) {
	var zero T
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		r.metrics.observeCall(op, governance.ErrNotInitialized, 0)
		return zero, governance.ErrNotInitialized
	}
	ctx, span := r.tracer.Start(
		ctx,
		"router."+op,
		trace.WithAttributes(
			attribute.String("condo.operation", op),
			attribute.String("condo.implementation", r.current.Address.String()),
			attribute.String("condo.engine.version", r.current.Version),
		),
	)
	defer span.End()
	start := time.Now()
	ret, err := fn(ctx, r.current.Engine)
	r.metrics.observeCall(op, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, governance.KindName(err))
		return zero, err
	}
	return ret, nil
}

func forwardCall(
	r *Router,
	ctx context.Context,
	op string,
	fn func(context.Context, governance.Engine) error,
) error {
	_, err := forward(r, ctx, op, func(ctx context.Context, engine governance.Engine) (struct{}, error) {
		return struct{}{}, fn(ctx, engine)
	})
	return err
}
