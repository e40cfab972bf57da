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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobalConfig() {
	globalConfig = defaultConfig()
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test-condo.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))
	return tmpFile
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Same(t, cfg, GetConfig())

	genesis, err := cfg.Genesis()
	require.NoError(t, err)
	assert.True(t, genesis.Manager.IsZero())
	assert.Equal(t, governance.DefaultMonthlyQuota, genesis.MonthlyQuota)
	assert.Equal(t, "0.0.0.0:8080", cfg.ApiListenAddress())
	assert.Equal(t, "0.0.0.0:12799", cfg.MetricsListenAddress())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	tmpFile := writeConfigFile(t, `
databasePath: "/var/lib/condo"
metadataPlugin: "postgres"
metadataDsn: "host=db user=condo dbname=condo"
bindAddr: "127.0.0.1"
apiPort: 9000
metricsPort: 0
shutdownTimeout: "5s"
natsUrl: "nats://127.0.0.1:4222"
natsSubjectPrefix: "tower.events"
manager: "0x00000000000000000000000000000000000000ff"
monthlyQuota: "0.02"
layout:
  blocks: 3
  floors: 4
  unitsPerFloor: 2
quorum:
  decision: 1000
  spent: 2000
  changeQuota: 4000
  changeManager: 3000
engines:
  - version: "1.0.0"
  - version: "2.0.0"
    quorum:
      decision: 5000
      spent: 5000
      changeQuota: 5000
      changeManager: 5000
tracing: true
tracingStdout: true
`)
	var manager governance.Address
	manager[governance.AddressLength-1] = 0xff
	expected := &Config{
		DatabasePath:      "/var/lib/condo",
		MetadataPlugin:    "postgres",
		MetadataDsn:       "host=db user=condo dbname=condo",
		BindAddr:          "127.0.0.1",
		ApiPort:           9000,
		MetricsPort:       0,
		ShutdownTimeout:   "5s",
		NatsUrl:           "nats://127.0.0.1:4222",
		NatsSubjectPrefix: "tower.events",
		Manager:           manager.String(),
		MonthlyQuota:      "0.02",
		Layout: governance.Layout{
			Blocks:        3,
			Floors:        4,
			UnitsPerFloor: 2,
		},
		Quorum: governance.DefaultQuorumPolicy(),
		Engines: []EngineDeployment{
			{Version: "1.0.0"},
			{
				Version: "2.0.0",
				Quorum: governance.QuorumPolicy{
					Decision:      5000,
					Spent:         5000,
					ChangeQuota:   5000,
					ChangeManager: 5000,
				},
			},
		},
		Tracing:       true,
		TracingStdout: true,
	}

	actual, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	genesis, err := actual.Genesis()
	require.NoError(t, err)
	assert.Equal(t, manager, genesis.Manager)
	assert.Equal(t, governance.NewAmount(20_000_000_000_000_000), genesis.MonthlyQuota)
	assert.Equal(t, governance.DefaultQuorumPolicy(), actual.EngineQuorum(actual.Engines[0]))
	assert.Equal(t, uint32(5000), actual.EngineQuorum(actual.Engines[1]).Decision)
	assert.Equal(t, "127.0.0.1:9000", actual.ApiListenAddress())
	assert.Empty(t, actual.MetricsListenAddress())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	resetGlobalConfig()
	tmpFile := writeConfigFile(t, `
apiPort: 9000
databasePath: "/from/file"
`)
	t.Setenv("CONDO_DATABASE_PATH", "/from/env")
	t.Setenv("CONDO_NATS_URL", "nats://nats:4222")
	t.Setenv("CONDO_LAYOUT_BLOCKS", "1")

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DatabasePath)
	assert.Equal(t, "nats://nats:4222", cfg.NatsUrl)
	assert.Equal(t, uint(9000), cfg.ApiPort)
	assert.Equal(t, uint16(1), cfg.Layout.Blocks)
	assert.Equal(t, uint16(governance.DefaultFloors), cfg.Layout.Floors)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		expect  string
	}{
		{name: "bad manager", content: `manager: "0x12"`, expect: "manager"},
		{name: "bad quota", content: `monthlyQuota: "-1"`, expect: "monthlyQuota"},
		{name: "bad layout", content: "layout:\n  blocks: 10\n  floors: 1\n  unitsPerFloor: 1", expect: "layout"},
		{name: "bad quorum", content: "quorum:\n  decision: 20000\n  spent: 1\n  changeQuota: 1\n  changeManager: 1", expect: "quorum"},
		{name: "no engines", content: "engines: []", expect: "at least one engine"},
		{name: "duplicate engine", content: "engines:\n  - version: a\n  - version: a", expect: "duplicate version"},
		{name: "empty engine version", content: "engines:\n  - version: \"\"", expect: "version cannot be empty"},
		{name: "unknown metadata plugin", content: `metadataPlugin: "mysql"`, expect: "unknown plugin"},
		{name: "postgres without dsn", content: `metadataPlugin: "postgres"`, expect: "metadataDsn"},
		{name: "bad timeout", content: `shutdownTimeout: "soon"`, expect: "shutdownTimeout"},
		{name: "malformed yaml", content: "layout: [", expect: "error parsing config file"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resetGlobalConfig()
			_, err := LoadConfig(writeConfigFile(t, test.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.expect)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	resetGlobalConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := defaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
