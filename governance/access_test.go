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

package governance_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/condo/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	resident := governance.RoleResident
	counselor := governance.RoleResident | governance.RoleCounselor
	manager := governance.RoleManager
	testDefs := []struct {
		op      governance.Operation
		role    governance.Role
		wantErr error
	}{
		{governance.OpAddResident, manager, nil},
		{governance.OpAddResident, counselor, nil},
		{governance.OpAddResident, resident, governance.ErrNotManagerOrCounselor},
		{governance.OpAddResident, governance.RoleNone, governance.ErrNotManagerOrCounselor},
		{governance.OpRemoveResident, manager, nil},
		{governance.OpRemoveResident, counselor, governance.ErrNotManager},
		{governance.OpSetCounselor, manager, nil},
		{governance.OpSetCounselor, counselor, governance.ErrNotManager},
		{governance.OpAddTopic, resident, nil},
		{governance.OpAddTopic, manager, nil},
		{governance.OpAddTopic, governance.RoleNone, governance.ErrNotManagerOrResident},
		{governance.OpEditTopic, resident, governance.ErrNotManager},
		{governance.OpRemoveTopic, resident, governance.ErrNotManager},
		{governance.OpOpenVoting, counselor, governance.ErrNotManager},
		{governance.OpCloseVoting, counselor, governance.ErrNotManager},
		{governance.OpCloseVoting, manager, nil},
		{governance.OpVote, resident, nil},
		{governance.OpVote, manager, nil},
		{governance.OpVote, governance.RoleNone, governance.ErrNotManagerOrResident},
		{governance.OpTransfer, resident, governance.ErrNotManager},
		{governance.OpUpgrade, manager, nil},
		{governance.OpUpgrade, counselor, governance.ErrNotManager},
		{governance.Operation("bogus"), manager, governance.ErrNotManager},
	}
	for _, testDef := range testDefs {
		err := governance.Authorize(testDef.role, testDef.op)
		if testDef.wantErr == nil {
			assert.NoError(t, err, "%s as %s", testDef.op, testDef.role)
			continue
		}
		assert.ErrorIs(t, err, testDef.wantErr, "%s as %s", testDef.op, testDef.role)
		assert.ErrorIs(t, err, governance.ErrPermissionDenied)
	}
}

func TestErrorKinds(t *testing.T) {
	testDefs := []struct {
		err  error
		kind error
	}{
		{governance.ErrNotManager, governance.ErrPermissionDenied},
		{governance.ErrResidenceNotFound, governance.ErrNotFound},
		{governance.ErrTopicNotIdle, governance.ErrInvalidState},
		{governance.ErrDuplicateVote, governance.ErrDuplicateEntry},
		{governance.ErrZeroAddress, governance.ErrInvalidInput},
		{governance.ErrNotEnoughVotes, governance.ErrInsufficientQuorum},
		{governance.ErrNotInitialized, governance.ErrUninitialized},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.kind, governance.Kind(testDef.err))
	}
	assert.Nil(t, governance.Kind(nil))
	assert.Nil(t, governance.Kind(errors.New("unrelated")))
	// Closing with too few votes and closing in the wrong state are distinguishable
	assert.NotEqual(
		t,
		governance.Kind(governance.ErrNotEnoughVotes),
		governance.Kind(governance.ErrTopicNotVoting),
	)
}

func TestParseAddress(t *testing.T) {
	addr, err := governance.ParseAddress("0x00000000000000000000000000000000000000ff")
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), addr[19])
	assert.Equal(t, "0x00000000000000000000000000000000000000ff", addr.String())
	_, err = governance.ParseAddress("0x1234")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = governance.ParseAddress("zz00000000000000000000000000000000000000")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "ok", governance.KindName(nil))
	assert.Equal(t, "permission_denied", governance.KindName(governance.ErrNotManager))
	assert.Equal(t, "insufficient_quorum", governance.KindName(governance.ErrNotEnoughVotes))
	assert.Equal(t, "uninitialized", governance.KindName(governance.ErrNotInitialized))
	assert.Equal(t, "error", governance.KindName(errors.New("unrelated")))
}
