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

package ledger

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
)

// Vote records the caller's ballot under their residence. Co-owners of a
// residence share its single vote. A manager without a residence votes
// under the management seat.
func (e *Engine) Vote(
	ctx context.Context,
	caller governance.Address,
	title string,
	option governance.Option,
) error {
	return e.run(ctx, governance.OpVote, caller, func(c *call) error {
		if err := c.authorize(governance.OpVote); err != nil {
			return err
		}
		switch option {
		case governance.OptionEmpty:
			return governance.ErrEmptyVote
		case governance.OptionYes, governance.OptionNo, governance.OptionAbstention:
		default:
			return fmt.Errorf("%w: unknown option %d", governance.ErrInvalidInput, option)
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Status != governance.StatusVoting {
			return governance.ErrTopicNotVoting
		}
		residence := governance.ManagementSeat
		if c.resident != nil {
			residence = c.resident.Residence
		}
		existing, err := c.StoreTxn.Vote(title, residence)
		if err != nil {
			return err
		}
		if existing != governance.OptionEmpty {
			return governance.ErrDuplicateVote
		}
		if err := c.SetVote(title, residence, option); err != nil {
			return err
		}
		c.emit(
			event.VoteCastEventType,
			event.VoteCastEvent{
				Title:     title,
				Voter:     caller,
				Residence: residence,
				Option:    option,
			},
		)
		return nil
	})
}

func tallyVotes(txn governance.StoreTxn, title string) (governance.Tally, error) {
	var ret governance.Tally
	votes, err := txn.Votes(title)
	if err != nil {
		return ret, err
	}
	for _, option := range votes {
		ret.Add(option)
	}
	return ret, nil
}

// VoteCount returns the number of residences that voted on a topic
func (e *Engine) VoteCount(ctx context.Context, title string) (uint32, error) {
	tally, err := e.GetVotes(ctx, title)
	if err != nil {
		return 0, err
	}
	return tally.Total(), nil
}

func (e *Engine) GetVotes(ctx context.Context, title string) (governance.Tally, error) {
	var ret governance.Tally
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		if _, err := loadTopic(txn, title); err != nil {
			return err
		}
		var err error
		ret, err = tallyVotes(txn, title)
		return err
	})
	return ret, err
}
