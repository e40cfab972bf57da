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

package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "condo.config"

const (
	DefaultShutdownTimeout   = "30s"
	DefaultEngineVersion     = "1.0.0"
	DefaultNatsSubjectPrefix = "condo.events"
	DefaultMetadataPlugin    = "sqlite"
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// EngineDeployment is a governance engine version deployed at startup.
// A zero quorum uses the top-level quorum.
type EngineDeployment struct {
	Version string                  `yaml:"version"`
	Quorum  governance.QuorumPolicy `yaml:"quorum,omitempty"`
}

type Config struct {
	DatabasePath      string `yaml:"databasePath"      split_words:"true"`
	MetadataPlugin    string `yaml:"metadataPlugin"    split_words:"true"`
	MetadataDsn       string `yaml:"metadataDsn"       split_words:"true"`
	BindAddr          string `yaml:"bindAddr"          split_words:"true"`
	ApiPort           uint   `yaml:"apiPort"           split_words:"true"`
	MetricsPort       uint   `yaml:"metricsPort"       split_words:"true"`
	ShutdownTimeout   string `yaml:"shutdownTimeout"   split_words:"true"`
	NatsUrl           string `yaml:"natsUrl"           split_words:"true"`
	NatsSubjectPrefix string `yaml:"natsSubjectPrefix" split_words:"true"`
	// Manager is the genesis manager address, used only on an empty store
	Manager string `yaml:"manager"`
	// MonthlyQuota is the genesis quota in native units, such as "0.01"
	MonthlyQuota  string                  `yaml:"monthlyQuota"  split_words:"true"`
	Layout        governance.Layout       `yaml:"layout"`
	Quorum        governance.QuorumPolicy `yaml:"quorum"`
	Engines       []EngineDeployment      `yaml:"engines"       ignored:"true"`
	Tracing       bool                    `yaml:"tracing"`
	TracingStdout bool                    `yaml:"tracingStdout" split_words:"true"`
}

func defaultConfig() *Config {
	return &Config{
		DatabasePath:      ".condo",
		MetadataPlugin:    DefaultMetadataPlugin,
		BindAddr:          "0.0.0.0",
		ApiPort:           8080,
		MetricsPort:       12799,
		ShutdownTimeout:   DefaultShutdownTimeout,
		NatsSubjectPrefix: DefaultNatsSubjectPrefix,
		MonthlyQuota:      governance.DefaultMonthlyQuota.String(),
		Layout:            governance.DefaultLayout(),
		Quorum:            governance.DefaultQuorumPolicy(),
		Engines: []EngineDeployment{
			{Version: DefaultEngineVersion},
		},
	}
}

var globalConfig = defaultConfig()

func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		// Check for config file in this path: ~/.condo/condo.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".condo", "condo.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/condo/condo.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/condo/condo.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	if err := envconfig.Process("condo", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := globalConfig.Validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}

// Validate checks the values that would otherwise only fail at startup
func (c *Config) Validate() error {
	var errs []error
	if c.Manager != "" {
		if _, err := governance.ParseAddress(c.Manager); err != nil {
			errs = append(errs, fmt.Errorf("manager: %w", err))
		}
	}
	if _, err := governance.ParseAmount(c.MonthlyQuota); err != nil {
		errs = append(errs, fmt.Errorf("monthlyQuota: %w", err))
	}
	if err := c.Layout.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}
	if err := c.Quorum.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("quorum: %w", err))
	}
	if len(c.Engines) == 0 {
		errs = append(errs, errors.New("engines: at least one engine must be deployed"))
	}
	seen := make(map[string]bool)
	for _, engine := range c.Engines {
		if engine.Version == "" {
			errs = append(errs, errors.New("engines: version cannot be empty"))
			continue
		}
		if seen[engine.Version] {
			errs = append(errs, fmt.Errorf("engines: duplicate version %q", engine.Version))
		}
		seen[engine.Version] = true
		if engine.Quorum != (governance.QuorumPolicy{}) {
			if err := engine.Quorum.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("engines %s quorum: %w", engine.Version, err))
			}
		}
	}
	switch c.MetadataPlugin {
	case "", "sqlite":
	case "postgres":
		if c.MetadataDsn == "" {
			errs = append(errs, errors.New("metadataDsn: required by the postgres metadata plugin"))
		}
	default:
		errs = append(errs, fmt.Errorf("metadataPlugin: unknown plugin %q", c.MetadataPlugin))
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("shutdownTimeout: %w", err))
	}
	return errors.Join(errs...)
}

// Genesis returns the initial manager and quota for an empty store
func (c *Config) Genesis() (governance.Genesis, error) {
	var ret governance.Genesis
	if c.Manager != "" {
		manager, err := governance.ParseAddress(c.Manager)
		if err != nil {
			return ret, fmt.Errorf("manager: %w", err)
		}
		ret.Manager = manager
	}
	quota, err := governance.ParseAmount(c.MonthlyQuota)
	if err != nil {
		return ret, fmt.Errorf("monthlyQuota: %w", err)
	}
	ret.MonthlyQuota = quota
	return ret, nil
}

// EngineQuorum returns the quorum a deployed engine runs with
func (c *Config) EngineQuorum(engine EngineDeployment) governance.QuorumPolicy {
	if engine.Quorum == (governance.QuorumPolicy{}) {
		return c.Quorum
	}
	return engine.Quorum
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

func (c *Config) ApiListenAddress() string {
	if c.ApiPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.BindAddr, strconv.FormatUint(uint64(c.ApiPort), 10))
}

func (c *Config) MetricsListenAddress() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.BindAddr, strconv.FormatUint(uint64(c.MetricsPort), 10))
}
