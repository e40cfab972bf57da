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

package ledger_test

import (
	"testing"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResidenceExists(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	for _, id := range []governance.ResidenceID{1101, 2102, 2505} {
		ok, err := env.engine.ResidenceExists(env.ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, "residence %d", id)
	}
	for _, id := range []governance.ResidenceID{0, 1100, 1106, 1601, 3101, 9999} {
		ok, err := env.engine.ResidenceExists(env.ctx, id)
		require.NoError(t, err)
		assert.False(t, ok, "residence %d", id)
	}
}

func TestAddResident(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 2102))
	ok, err := env.engine.IsResident(env.ctx, resident)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := env.engine.GetResident(env.ctx, resident)
	require.NoError(t, err)
	assert.Equal(t, governance.ResidenceID(2102), got.Residence)
	assert.False(t, got.IsCounselor)
}

func TestAddResidentErrors(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 2102))
	testDefs := []struct {
		name      string
		caller    governance.Address
		resident  governance.Address
		residence governance.ResidenceID
		wantErr   error
	}{
		{"plain resident", resident, residentAddress(2), 2103, governance.ErrNotManagerOrCounselor},
		{"outsider", testAddress(0x99, 1), residentAddress(2), 2103, governance.ErrNotManagerOrCounselor},
		{"residence does not exist", env.manager, residentAddress(2), 9999, governance.ErrResidenceNotFound},
		{"zero address", env.manager, governance.ZeroAddress, 2103, governance.ErrZeroAddress},
		{"already bound", env.manager, resident, 1101, governance.ErrAlreadyResident},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := env.engine.AddResident(
				env.ctx,
				testDef.caller,
				testDef.resident,
				testDef.residence,
			)
			require.ErrorIs(t, err, testDef.wantErr)
		})
	}
	assert.ErrorIs(
		t,
		env.engine.AddResident(env.ctx, env.manager, residentAddress(2), 9999),
		governance.ErrNotFound,
	)
}

func TestCounselorCanAddResident(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	counselor := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, counselor, 1101))
	require.NoError(t, env.engine.SetCounselor(env.ctx, env.manager, counselor, true))
	ok, err := env.engine.IsCounselor(env.ctx, counselor)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, env.engine.AddResident(env.ctx, counselor, residentAddress(2), 1102))
	ok, err = env.engine.IsResident(env.ctx, residentAddress(2))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemoveResident(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 1101))
	require.ErrorIs(
		t,
		env.engine.RemoveResident(env.ctx, resident, resident),
		governance.ErrNotManager,
	)
	require.NoError(t, env.engine.RemoveResident(env.ctx, env.manager, resident))
	ok, err := env.engine.IsResident(env.ctx, resident)
	require.NoError(t, err)
	assert.False(t, ok)
	require.ErrorIs(
		t,
		env.engine.RemoveResident(env.ctx, env.manager, resident),
		governance.ErrResidentNotFound,
	)
	_, err = env.engine.GetResident(env.ctx, resident)
	require.ErrorIs(t, err, governance.ErrNotFound)
}

func TestCounselorMustBeClearedBeforeRemoval(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 1101))
	require.NoError(t, env.engine.SetCounselor(env.ctx, env.manager, resident, true))
	err := env.engine.RemoveResident(env.ctx, env.manager, resident)
	require.ErrorIs(t, err, governance.ErrCounselorRemoval)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	// Still bound and still a counselor
	got, err := env.engine.GetResident(env.ctx, resident)
	require.NoError(t, err)
	assert.True(t, got.IsCounselor)

	require.NoError(t, env.engine.SetCounselor(env.ctx, env.manager, resident, false))
	require.NoError(t, env.engine.RemoveResident(env.ctx, env.manager, resident))
}

func TestSetCounselorErrors(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 1101))
	require.ErrorIs(
		t,
		env.engine.SetCounselor(env.ctx, resident, resident, true),
		governance.ErrNotManager,
	)
	require.ErrorIs(
		t,
		env.engine.SetCounselor(env.ctx, env.manager, residentAddress(2), true),
		governance.ErrResidentNotFound,
	)
	ok, err := env.engine.IsCounselor(env.ctx, residentAddress(2))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResidentsOf(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, residentAddress(1), 1101))
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, residentAddress(2), 1101))
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, residentAddress(3), 1102))
	residents, err := env.engine.ResidentsOf(env.ctx, 1101)
	require.NoError(t, err)
	assert.Len(t, residents, 2)
	_, err = env.engine.ResidentsOf(env.ctx, 9999)
	require.ErrorIs(t, err, governance.ErrResidenceNotFound)
}
