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

func TestVote(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(2)
	env.openTopic(decisionTopic("topic"))
	require.NoError(t, env.engine.Vote(env.ctx, residents[0], "topic", governance.OptionYes))
	count, err := env.engine.VoteCount(env.ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}

func TestVoteErrors(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(1)
	env.addTopic(decisionTopic("idle"))
	env.openTopic(decisionTopic("voting"))
	require.NoError(t, env.engine.Vote(env.ctx, residents[0], "voting", governance.OptionNo))
	testDefs := []struct {
		name    string
		caller  governance.Address
		title   string
		option  governance.Option
		wantErr error
	}{
		{"outsider", testAddress(0x99, 1), "voting", governance.OptionYes, governance.ErrNotManagerOrResident},
		{"empty vote", residents[0], "voting", governance.OptionEmpty, governance.ErrEmptyVote},
		{"unknown option", residents[0], "voting", governance.Option(9), governance.ErrInvalidInput},
		{"missing topic", residents[0], "missing", governance.OptionYes, governance.ErrTopicNotFound},
		{"idle topic", residents[0], "idle", governance.OptionYes, governance.ErrTopicNotVoting},
		{"second vote", residents[0], "voting", governance.OptionYes, governance.ErrDuplicateVote},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := env.engine.Vote(env.ctx, testDef.caller, testDef.title, testDef.option)
			require.ErrorIs(t, err, testDef.wantErr)
		})
	}
	tally, err := env.engine.GetVotes(env.ctx, "voting")
	require.NoError(t, err)
	assert.Equal(t, governance.Tally{No: 1}, tally)
}

func TestCoOwnersShareOneVote(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	first := residentAddress(1)
	second := residentAddress(2)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, first, 1101))
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, second, 1101))
	env.openTopic(decisionTopic("shared"))
	require.NoError(t, env.engine.Vote(env.ctx, first, "shared", governance.OptionYes))
	err := env.engine.Vote(env.ctx, second, "shared", governance.OptionNo)
	require.ErrorIs(t, err, governance.ErrDuplicateEntry)
	count, err := env.engine.VoteCount(env.ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}

func TestRebindingDoesNotMultiplyVotes(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	resident := residentAddress(1)
	replacement := residentAddress(2)
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, resident, 1101))
	env.openTopic(decisionTopic("topic"))
	require.NoError(t, env.engine.Vote(env.ctx, resident, "topic", governance.OptionYes))
	require.NoError(t, env.engine.RemoveResident(env.ctx, env.manager, resident))
	require.NoError(t, env.engine.AddResident(env.ctx, env.manager, replacement, 1101))
	require.ErrorIs(
		t,
		env.engine.Vote(env.ctx, replacement, "topic", governance.OptionNo),
		governance.ErrDuplicateVote,
	)
}

func TestManagerVotesUnderManagementSeat(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(1)
	env.openTopic(decisionTopic("topic"))
	require.NoError(t, env.engine.Vote(env.ctx, env.manager, "topic", governance.OptionYes))
	require.NoError(t, env.engine.Vote(env.ctx, residents[0], "topic", governance.OptionYes))
	require.ErrorIs(
		t,
		env.engine.Vote(env.ctx, env.manager, "topic", governance.OptionNo),
		governance.ErrDuplicateVote,
	)
	tally, err := env.engine.GetVotes(env.ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, governance.Tally{Yes: 2}, tally)
}

func TestVoteCountMissingTopic(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	_, err := env.engine.VoteCount(env.ctx, "missing")
	require.ErrorIs(t, err, governance.ErrTopicNotFound)
}
