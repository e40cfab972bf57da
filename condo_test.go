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
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/blinklabs-io/condo/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(b byte) governance.Address {
	var ret governance.Address
	ret[governance.AddressLength-1] = b
	return ret
}

func openTestCondo(t *testing.T, opts ...ConfigOptionFunc) *Condo {
	t.Helper()
	c, err := New(NewConfig(opts...))
	require.NoError(t, err)
	require.NoError(t, c.Open(context.Background()))
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOptionFunc
	}{
		{name: "no engines", opts: []ConfigOptionFunc{WithEngines()}},
		{name: "empty version", opts: []ConfigOptionFunc{WithEngines(EngineDeployment{})}},
		{
			name: "duplicate version",
			opts: []ConfigOptionFunc{
				WithEngines(EngineDeployment{Version: "1"}, EngineDeployment{Version: "1"}),
			},
		},
		{name: "bad layout", opts: []ConfigOptionFunc{WithLayout(governance.Layout{Blocks: 10, Floors: 1, UnitsPerFloor: 1})}},
		{name: "bad quorum", opts: []ConfigOptionFunc{WithQuorum(governance.QuorumPolicy{Decision: 1})}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(NewConfig(test.opts...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestOpenRequiresGenesisManager(t *testing.T) {
	c, err := New(NewConfig())
	require.NoError(t, err)
	err = c.Open(context.Background())
	require.ErrorIs(t, err, governance.ErrZeroAddress)
	require.NoError(t, c.Stop())
}

func TestOpenDeploysEngines(t *testing.T) {
	manager := testAddress(0xff)
	c := openTestCondo(
		t,
		WithGenesis(governance.Genesis{Manager: manager}),
		WithPrometheusRegistry(prometheus.NewRegistry()),
		WithEngines(
			EngineDeployment{Version: "1.0.0"},
			EngineDeployment{
				Version: "2.0.0",
				Quorum: governance.QuorumPolicy{
					Decision:      5000,
					Spent:         5000,
					ChangeQuota:   5000,
					ChangeManager: 5000,
				},
			},
		),
	)
	defer c.Stop() //nolint:errcheck

	deployments := c.Registry().Deployments()
	require.Len(t, deployments, 2)
	assert.Equal(t, "1.0.0", deployments[0].Version)
	assert.Equal(t, router.DeploymentAddress(ledger.DefaultName, "2.0.0"), deployments[1].Address)
	v2, ok := deployments[1].Engine.(*ledger.Engine)
	require.True(t, ok)
	assert.Equal(t, uint32(5000), v2.Quorum().Decision)

	// Open is idempotent
	require.NoError(t, c.Open(context.Background()))

	ctx := context.Background()
	r := c.Router()
	assert.False(t, r.Initialized())
	require.NoError(t, r.Init(ctx, manager, deployments[0].Address))

	_, events := c.EventBus().Subscribe(event.ResidentAddedEventType)
	require.NoError(t, r.AddResident(ctx, manager, testAddress(1), 1101))
	select {
	case evt := <-events:
		data, ok := evt.Data.(event.ResidentEvent)
		require.True(t, ok)
		assert.Equal(t, testAddress(1), data.Resident)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for resident added event")
	}

	quota, err := r.MonthlyQuota(ctx)
	require.NoError(t, err)
	assert.Equal(t, governance.DefaultMonthlyQuota, quota)
}

func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	manager := testAddress(0xff)

	first := openTestCondo(
		t,
		WithDatabasePath(dataDir),
		WithGenesis(governance.Genesis{Manager: manager}),
	)
	impl := router.DeploymentAddress(ledger.DefaultName, ledger.DefaultVersion)
	require.NoError(t, first.Router().Init(ctx, manager, impl))
	require.NoError(t, first.Router().AddResident(ctx, manager, testAddress(1), 2505))
	require.NoError(t, first.Stop())
	// Stop is idempotent
	require.NoError(t, first.Stop())

	// No genesis manager is needed once the store holds one
	second := openTestCondo(t, WithDatabasePath(dataDir))
	defer second.Stop() //nolint:errcheck
	r := second.Router()
	require.True(t, r.Initialized())
	addr, err := r.ImplementationAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, impl, addr)
	resident, err := r.GetResident(ctx, testAddress(1))
	require.NoError(t, err)
	assert.Equal(t, governance.ResidenceID(2505), resident.Residence)
	got, err := r.Manager(ctx)
	require.NoError(t, err)
	assert.Equal(t, manager, got)
}

func TestRunReturnsAfterStop(t *testing.T) {
	c := openTestCondo(
		t,
		WithGenesis(governance.Genesis{Manager: testAddress(0xff)}),
		WithShutdownTimeout(5*time.Second),
	)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Run(context.Background())
	}()
	require.NoError(t, c.Stop())
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.Equal(t, []EngineDeployment{{Version: ledger.DefaultVersion}}, cfg.engines)
	assert.Empty(t, cfg.dataDir)
	assert.False(t, cfg.tracing)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg = NewConfig(
		WithDatabasePath("/tmp/condo"),
		WithApiListenAddress(":8080"),
		WithNatsUrl("nats://localhost:4222"),
		WithNatsSubjectPrefix("tower"),
		WithTracing(true),
		WithTracingStdout(true),
		WithClock(func() time.Time { return now }),
	)
	assert.Equal(t, "/tmp/condo", cfg.dataDir)
	assert.Equal(t, ":8080", cfg.apiListenAddress)
	assert.Equal(t, "nats://localhost:4222", cfg.natsUrl)
	assert.Equal(t, "tower", cfg.natsSubjectPrefix)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, now, cfg.clock())
}
