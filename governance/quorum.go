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

package governance

import "fmt"

const basisPoints = 10000

// QuorumPolicy holds the fraction of enumerated residences (in basis
// points) that must vote before a topic of each category can be closed
type QuorumPolicy struct {
	Decision      uint32 `yaml:"decision"`
	Spent         uint32 `yaml:"spent"`
	ChangeQuota   uint32 `yaml:"changeQuota"`
	ChangeManager uint32 `yaml:"changeManager"`
}

// DefaultQuorumPolicy requires 10/20/40/30 percent of units for
// DECISION/SPENT/CHANGE_QUOTA/CHANGE_MANAGER. With the default 50-unit
// layout that is 5, 10, 20 and 15 votes.
func DefaultQuorumPolicy() QuorumPolicy {
	return QuorumPolicy{
		Decision:      1000,
		Spent:         2000,
		ChangeQuota:   4000,
		ChangeManager: 3000,
	}
}

func (q QuorumPolicy) Validate() error {
	for _, v := range []uint32{q.Decision, q.Spent, q.ChangeQuota, q.ChangeManager} {
		if v == 0 || v > basisPoints {
			return fmt.Errorf(
				"%w: quorum fraction %d outside (0, %d] basis points",
				ErrInvalidInput,
				v,
				basisPoints,
			)
		}
	}
	return nil
}

func (q QuorumPolicy) fraction(c Category) uint32 {
	switch c {
	case CategorySpent:
		return q.Spent
	case CategoryChangeQuota:
		return q.ChangeQuota
	case CategoryChangeManager:
		return q.ChangeManager
	default:
		return q.Decision
	}
}

// MinimumVotes returns ceil(fraction * residences), never less than one
func (q QuorumPolicy) MinimumVotes(c Category, residences int) uint32 {
	if residences <= 0 {
		return 1
	}
	num := uint64(q.fraction(c)) * uint64(residences)
	ret := uint32((num + basisPoints - 1) / basisPoints)
	if ret == 0 {
		ret = 1
	}
	return ret
}

// Resolve returns the outcome of a vote. Closing below the minimum fails
// with ErrNotEnoughVotes. Abstentions count toward quorum only.
func (q QuorumPolicy) Resolve(c Category, residences int, tally Tally) (Status, error) {
	if tally.Total() < q.MinimumVotes(c, residences) {
		return StatusVoting, ErrNotEnoughVotes
	}
	if tally.Yes > tally.No {
		return StatusApproved, nil
	}
	return StatusDenied, nil
}
