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

// Package condo wires the governance ledger into a runnable service: the
// stable store, the deployed engine versions, the upgradeable router and
// the optional API and event forwarding.
package condo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/condo/api"
	"github.com/blinklabs-io/condo/database"
	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/blinklabs-io/condo/notify"
	"github.com/blinklabs-io/condo/router"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
)

type Condo struct {
	eventBus       *event.EventBus
	db             *database.Database
	registry       *router.Registry
	router         *router.Router
	notifier       *notify.Notifier
	natsConn       *nats.Conn
	api            *api.Api
	tracerProvider trace.TracerProvider
	shutdownFuncs  []func(context.Context) error
	config         Config
	done           chan struct{}
	shutdownOnce   sync.Once
	openMutex      sync.Mutex
	opened         bool
}

func New(cfg Config) (*Condo, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.logger == nil {
		cfg.logger = NewConfig().logger
	}
	return &Condo{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
		done:     make(chan struct{}),
	}, nil
}

// Open loads the store and brings up the router without serving anything.
// It is called by Run and may be used directly for one-shot operations.
func (c *Condo) Open(ctx context.Context) error {
	c.openMutex.Lock()
	defer c.openMutex.Unlock()
	if c.opened {
		return nil
	}
	// Configure tracing
	if c.config.tracing {
		if err := c.setupTracing(ctx); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:        c.config.dataDir,
		BlobPlugin:     c.config.blobPlugin,
		MetadataPlugin: c.config.metadataPlugin,
		MetadataDsn:    c.config.metadataDsn,
		Logger:         c.config.logger,
		PromRegistry:   c.config.promRegistry,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db
	if err := ledger.Bootstrap(ctx, c.db, c.config.genesis); err != nil {
		return fmt.Errorf("failed to bootstrap store: %w", err)
	}
	// Deploy engines
	c.registry = router.NewRegistry()
	for _, deployment := range c.config.engines {
		quorum := deployment.Quorum
		if quorum == (governance.QuorumPolicy{}) {
			quorum = c.config.quorum
		}
		engine, err := ledger.NewEngine(c.db, ledger.EngineConfig{
			Logger:       c.config.logger,
			EventBus:     c.eventBus,
			PromRegistry: c.config.promRegistry,
			Clock:        c.config.clock,
			Version:      deployment.Version,
			Layout:       c.config.layout,
			Quorum:       quorum,
		})
		if err != nil {
			return fmt.Errorf("failed to create engine %s: %w", deployment.Version, err)
		}
		addr, err := c.registry.Deploy(engine.Name(), engine.Version(), engine)
		if err != nil {
			return fmt.Errorf("failed to deploy engine %s: %w", deployment.Version, err)
		}
		c.config.logger.Debug(
			"deployed engine",
			"component", "condo",
			"version", engine.Version(),
			"address", addr.String(),
		)
	}
	// The stored manager holds deploy authority until the router is initialized
	var deployer governance.Address
	err = c.db.View(ctx, func(txn governance.StoreTxn) error {
		var err error
		deployer, err = txn.Manager()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read manager: %w", err)
	}
	c.router, err = router.New(ctx, router.RouterConfig{
		Logger:         c.config.logger,
		EventBus:       c.eventBus,
		PromRegistry:   c.config.promRegistry,
		Registry:       c.registry,
		Store:          c.db,
		TracerProvider: c.tracerProvider,
		Deployer:       deployer,
	})
	if err != nil {
		return fmt.Errorf("failed to load router: %w", err)
	}
	// Forward committed events to NATS
	if c.config.natsUrl != "" {
		conn, err := notify.Connect(c.config.natsUrl, "condo", c.config.logger)
		if err != nil {
			return err
		}
		c.natsConn = conn
		c.notifier, err = notify.New(notify.NotifierConfig{
			Logger:        c.config.logger,
			EventBus:      c.eventBus,
			PromRegistry:  c.config.promRegistry,
			Publisher:     conn,
			SubjectPrefix: c.config.natsSubjectPrefix,
		})
		if err != nil {
			return err
		}
		if err := c.notifier.Start(); err != nil {
			return err
		}
	}
	c.opened = true
	return nil
}

// Run opens the service, starts the API listener and blocks until Stop
// is called
func (c *Condo) Run(ctx context.Context) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	if c.config.apiListenAddress != "" {
		c.api = api.New(
			api.ApiConfig{
				ListenAddress: c.config.apiListenAddress,
			},
			c.router,
			c.config.logger,
		)
		if err := c.api.Start(ctx); err != nil {
			return err
		}
	}
	// Wait for shutdown signal
	<-c.done
	return nil
}

// Router returns the router every governance call goes through. It is nil
// until Open succeeds.
func (c *Condo) Router() *router.Router {
	return c.router
}

// Registry returns the deployed engine versions
func (c *Condo) Registry() *router.Registry {
	return c.registry
}

func (c *Condo) EventBus() *event.EventBus {
	return c.eventBus
}

func (c *Condo) Stop() error {
	var err error
	c.shutdownOnce.Do(func() {
		err = c.shutdown()
	})
	return err
}

func (c *Condo) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if c.config.shutdownTimeout > 0 {
		shutdownTimeout = c.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	c.config.logger.Debug("starting graceful shutdown", "component", "condo")

	// Stop accepting new work
	if c.api != nil {
		if stopErr := c.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Stop forwarding events
	if c.notifier != nil {
		c.notifier.Stop()
	}
	if c.natsConn != nil {
		if drainErr := c.natsConn.Drain(); drainErr != nil {
			err = errors.Join(err, fmt.Errorf("nats drain: %w", drainErr))
		}
	}

	if c.eventBus != nil {
		c.eventBus.Stop()
	}

	// Close database
	if c.db != nil {
		if closeErr := c.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Call registered shutdown functions
	for _, fn := range c.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	c.shutdownFuncs = nil

	c.config.logger.Debug("graceful shutdown complete", "component", "condo")
	close(c.done)
	return err
}
