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

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/condo"
	"github.com/blinklabs-io/condo/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options translates the loaded configuration into service options. The
// API, NATS forwarding, metrics and tracing are left for Run to add.
func Options(cfg *config.Config, logger *slog.Logger) ([]condo.ConfigOptionFunc, error) {
	genesis, err := cfg.Genesis()
	if err != nil {
		return nil, err
	}
	engines := make([]condo.EngineDeployment, 0, len(cfg.Engines))
	for _, engine := range cfg.Engines {
		engines = append(engines, condo.EngineDeployment{
			Version: engine.Version,
			Quorum:  cfg.EngineQuorum(engine),
		})
	}
	return []condo.ConfigOptionFunc{
		condo.WithLogger(logger),
		condo.WithDatabasePath(cfg.DatabasePath),
		condo.WithMetadataPlugin(cfg.MetadataPlugin),
		condo.WithMetadataDsn(cfg.MetadataDsn),
		condo.WithGenesis(genesis),
		condo.WithLayout(cfg.Layout),
		condo.WithQuorum(cfg.Quorum),
		condo.WithEngines(engines...),
		condo.WithShutdownTimeout(cfg.ShutdownTimeoutDuration()),
	}, nil
}

// Open loads the service for a single command. The caller must Stop it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*condo.Condo, error) {
	opts, err := Options(cfg, logger)
	if err != nil {
		return nil, err
	}
	c, err := condo.New(condo.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	if err := c.Open(ctx); err != nil {
		return nil, errors.Join(err, c.Stop())
	}
	return c, nil
}

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	opts, err := Options(cfg, logger)
	if err != nil {
		return err
	}
	opts = append(
		opts,
		// Enable metrics with default prometheus registry
		condo.WithPrometheusRegistry(prometheus.DefaultRegisterer),
		condo.WithApiListenAddress(cfg.ApiListenAddress()),
		condo.WithNatsUrl(cfg.NatsUrl),
		condo.WithNatsSubjectPrefix(cfg.NatsSubjectPrefix),
		condo.WithTracing(cfg.Tracing),
		condo.WithTracingStdout(cfg.TracingStdout),
	)
	c, err := condo.New(condo.NewConfig(opts...))
	if err != nil {
		return err
	}
	shutdownTimeout := cfg.ShutdownTimeoutDuration()
	// Metrics listener
	var metricsServer *http.Server
	if metricsAddr := cfg.MetricsListenAddress(); metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		logger.Info(
			"serving prometheus metrics on "+metricsAddr,
			"component", "node",
		)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				logger.Error(
					fmt.Sprintf("metrics listener failed: %s", err),
					"component", "node",
				)
			}
		}()
	}
	shutdownMetrics := func() {
		if metricsServer == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Run service in goroutine
	errChan := make(chan error, 1)
	go func() {
		//nolint:contextcheck
		errChan <- c.Run(signalCtx)
	}()

	// Wait for signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		shutdownMetrics()
		if err := c.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil
	case err := <-errChan:
		shutdownMetrics()
		if stopErr := c.Stop(); stopErr != nil {
			logger.Error(
				"shutdown errors occurred during error cleanup",
				"error",
				stopErr,
			)
		}
		if err != nil {
			logger.Error("service error", "error", err)
			return err
		}
		logger.Info("service stopped")
		return nil
	}
}
