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

// Package api serves a read-only JSON view of the governance ledger
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/router"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const DefaultListenAddress = ":8080"

// Reader is the query surface of the router the API serves from
type Reader interface {
	Implementation() (router.Deployment, error)
	Manager(ctx context.Context) (governance.Address, error)
	MonthlyQuota(ctx context.Context) (governance.Amount, error)
	TreasuryBalance(ctx context.Context) (governance.Amount, error)
	GetTopics(ctx context.Context) ([]governance.Topic, error)
	GetTopic(ctx context.Context, title string) (*governance.Topic, error)
	GetVotes(ctx context.Context, title string) (governance.Tally, error)
	ResidenceExists(ctx context.Context, residence governance.ResidenceID) (bool, error)
	ResidentsOf(ctx context.Context, residence governance.ResidenceID) ([]governance.Resident, error)
	NextPayment(ctx context.Context, residence governance.ResidenceID) (time.Time, error)
	GetResident(ctx context.Context, addr governance.Address) (*governance.Resident, error)
}

type ApiConfig struct {
	ListenAddress string
	// MaxRequestsPerIP bounds concurrent requests per client. Zero uses
	// DefaultMaxRequestsPerIP.
	MaxRequestsPerIP int
}

// Api is the HTTP server for ledger queries
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	reader     Reader
	limiter    *ipLimiter
	httpServer *http.Server
	mu         sync.Mutex
}

func New(
	cfg ApiConfig,
	reader Reader,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	return &Api{
		config:  cfg,
		logger:  logger,
		reader:  reader,
		limiter: newIPLimiter(cfg.MaxRequestsPerIP),
	}
}

// Handler returns the request router. HTTP/2 is accepted without TLS.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/v0/manager", a.handleManager)
	mux.HandleFunc("GET /api/v0/quota", a.handleQuota)
	mux.HandleFunc("GET /api/v0/treasury", a.handleTreasury)
	mux.HandleFunc("GET /api/v0/implementation", a.handleImplementation)
	mux.HandleFunc("GET /api/v0/topics", a.handleTopics)
	mux.HandleFunc("GET /api/v0/topics/{title}", a.handleTopic)
	mux.HandleFunc("GET /api/v0/topics/{title}/votes", a.handleTopicVotes)
	mux.HandleFunc("GET /api/v0/residences/{id}", a.handleResidence)
	mux.HandleFunc("GET /api/v0/residents/{address}", a.handleResident)
	return h2c.NewHandler(a.limiter.middleware(mux), &http2.Server{})
}

// Start binds the listener and serves in the background until ctx is
// cancelled or Stop is called
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	a.logger.Info(
		"API listener started",
		"address", ln.Addr().String(),
	)

	go func() {
		<-ctx.Done()
		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()
		//nolint:contextcheck
		if err := a.Stop(shutdownCtx); err != nil {
			a.logger.Error(
				"failed to shutdown API server on context cancellation",
				"error", err,
			)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. It is safe to call more
// than once.
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	a.logger.Debug("shutting down API server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}
	return nil
}
