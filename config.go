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

package condo

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

// EngineDeployment is a governance engine version deployed into the
// registry at startup. A zero quorum uses the configured default.
type EngineDeployment struct {
	Version string
	Quorum  governance.QuorumPolicy
}

type Config struct {
	promRegistry      prometheus.Registerer
	logger            *slog.Logger
	clock             func() time.Time
	dataDir           string
	blobPlugin        string
	metadataPlugin    string
	metadataDsn       string
	apiListenAddress  string
	natsUrl           string
	natsSubjectPrefix string
	engines           []EngineDeployment
	genesis           governance.Genesis
	layout            governance.Layout
	quorum            governance.QuorumPolicy
	tracing           bool
	tracingStdout     bool
	shutdownTimeout   time.Duration
}

func (c *Config) validate() error {
	if c.layout != (governance.Layout{}) {
		if err := c.layout.Validate(); err != nil {
			return err
		}
	}
	if c.quorum != (governance.QuorumPolicy{}) {
		if err := c.quorum.Validate(); err != nil {
			return err
		}
	}
	if len(c.engines) == 0 {
		return errors.New("no engines configured")
	}
	seen := make(map[string]bool)
	for _, engine := range c.engines {
		if engine.Version == "" {
			return errors.New("engine version cannot be empty")
		}
		if seen[engine.Version] {
			return fmt.Errorf("duplicate engine version %q", engine.Version)
		}
		seen[engine.Version] = true
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the condo config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new condo config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		engines: []EngineDeployment{
			{Version: ledger.DefaultVersion},
		},
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata storage plugin to use
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithMetadataDsn specifies the connection string for an external metadata store
func WithMetadataDsn(dsn string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataDsn = dsn
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}

// WithGenesis specifies the manager and monthly quota written to an empty store
func WithGenesis(genesis governance.Genesis) ConfigOptionFunc {
	return func(c *Config) {
		c.genesis = genesis
	}
}

// WithLayout specifies the residence layout. The default is 2 blocks of 5 floors with 5 units each
func WithLayout(layout governance.Layout) ConfigOptionFunc {
	return func(c *Config) {
		c.layout = layout
	}
}

// WithQuorum specifies the default quorum policy for deployed engines
func WithQuorum(quorum governance.QuorumPolicy) ConfigOptionFunc {
	return func(c *Config) {
		c.quorum = quorum
	}
}

// WithEngines specifies the engine versions deployed at startup, replacing the default single engine
func WithEngines(engines ...EngineDeployment) ConfigOptionFunc {
	return func(c *Config) {
		c.engines = engines
	}
}

// WithApiListenAddress specifies the listen address for the read-only HTTP API. An empty address disables it
func WithApiListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithNatsUrl specifies the NATS server that committed events are forwarded to. An empty URL disables forwarding
func WithNatsUrl(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.natsUrl = url
	}
}

// WithNatsSubjectPrefix specifies the subject prefix for forwarded events
func WithNatsSubjectPrefix(prefix string) ConfigOptionFunc {
	return func(c *Config) {
		c.natsSubjectPrefix = prefix
	}
}

// WithClock overrides the time source used by the engines
func WithClock(clock func() time.Time) ConfigOptionFunc {
	return func(c *Config) {
		c.clock = clock
	}
}
