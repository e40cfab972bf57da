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

package router

import (
	"context"
	"time"

	"github.com/blinklabs-io/condo/governance"
)

func (r *Router) AddResident(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
	residence governance.ResidenceID,
) error {
	return forwardCall(r, ctx, "addResident", func(ctx context.Context, e governance.Engine) error {
		return e.AddResident(ctx, caller, resident, residence)
	})
}

func (r *Router) RemoveResident(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
) error {
	return forwardCall(r, ctx, "removeResident", func(ctx context.Context, e governance.Engine) error {
		return e.RemoveResident(ctx, caller, resident)
	})
}

func (r *Router) SetCounselor(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
	isEntering bool,
) error {
	return forwardCall(r, ctx, "setCounselor", func(ctx context.Context, e governance.Engine) error {
		return e.SetCounselor(ctx, caller, resident, isEntering)
	})
}

func (r *Router) AddTopic(
	ctx context.Context,
	caller governance.Address,
	req governance.TopicRequest,
) error {
	return forwardCall(r, ctx, "addTopic", func(ctx context.Context, e governance.Engine) error {
		return e.AddTopic(ctx, caller, req)
	})
}

func (r *Router) EditTopic(
	ctx context.Context,
	caller governance.Address,
	title string,
	update governance.TopicUpdate,
) error {
	return forwardCall(r, ctx, "editTopic", func(ctx context.Context, e governance.Engine) error {
		return e.EditTopic(ctx, caller, title, update)
	})
}

func (r *Router) RemoveTopic(ctx context.Context, caller governance.Address, title string) error {
	return forwardCall(r, ctx, "removeTopic", func(ctx context.Context, e governance.Engine) error {
		return e.RemoveTopic(ctx, caller, title)
	})
}

func (r *Router) OpenVoting(ctx context.Context, caller governance.Address, title string) error {
	return forwardCall(r, ctx, "openVoting", func(ctx context.Context, e governance.Engine) error {
		return e.OpenVoting(ctx, caller, title)
	})
}

func (r *Router) Vote(
	ctx context.Context,
	caller governance.Address,
	title string,
	option governance.Option,
) error {
	return forwardCall(r, ctx, "vote", func(ctx context.Context, e governance.Engine) error {
		return e.Vote(ctx, caller, title, option)
	})
}

func (r *Router) CloseVoting(ctx context.Context, caller governance.Address, title string) error {
	return forwardCall(r, ctx, "closeVoting", func(ctx context.Context, e governance.Engine) error {
		return e.CloseVoting(ctx, caller, title)
	})
}

func (r *Router) Transfer(
	ctx context.Context,
	caller governance.Address,
	title string,
	amount governance.Amount,
) error {
	return forwardCall(r, ctx, "transfer", func(ctx context.Context, e governance.Engine) error {
		return e.Transfer(ctx, caller, title, amount)
	})
}

func (r *Router) PayQuota(
	ctx context.Context,
	caller governance.Address,
	residence governance.ResidenceID,
	value governance.Amount,
) error {
	return forwardCall(r, ctx, "payQuota", func(ctx context.Context, e governance.Engine) error {
		return e.PayQuota(ctx, caller, residence, value)
	})
}

func (r *Router) ResidenceExists(ctx context.Context, residence governance.ResidenceID) (bool, error) {
	return forward(r, ctx, "residenceExists", func(ctx context.Context, e governance.Engine) (bool, error) {
		return e.ResidenceExists(ctx, residence)
	})
}

func (r *Router) IsResident(ctx context.Context, addr governance.Address) (bool, error) {
	return forward(r, ctx, "isResident", func(ctx context.Context, e governance.Engine) (bool, error) {
		return e.IsResident(ctx, addr)
	})
}

func (r *Router) IsCounselor(ctx context.Context, addr governance.Address) (bool, error) {
	return forward(r, ctx, "isCounselor", func(ctx context.Context, e governance.Engine) (bool, error) {
		return e.IsCounselor(ctx, addr)
	})
}

func (r *Router) GetResident(ctx context.Context, addr governance.Address) (*governance.Resident, error) {
	return forward(r, ctx, "getResident", func(ctx context.Context, e governance.Engine) (*governance.Resident, error) {
		return e.GetResident(ctx, addr)
	})
}

func (r *Router) ResidentsOf(
	ctx context.Context,
	residence governance.ResidenceID,
) ([]governance.Resident, error) {
	return forward(r, ctx, "residentsOf", func(ctx context.Context, e governance.Engine) ([]governance.Resident, error) {
		return e.ResidentsOf(ctx, residence)
	})
}

func (r *Router) TopicExists(ctx context.Context, title string) (bool, error) {
	return forward(r, ctx, "topicExists", func(ctx context.Context, e governance.Engine) (bool, error) {
		return e.TopicExists(ctx, title)
	})
}

func (r *Router) GetTopic(ctx context.Context, title string) (*governance.Topic, error) {
	return forward(r, ctx, "getTopic", func(ctx context.Context, e governance.Engine) (*governance.Topic, error) {
		return e.GetTopic(ctx, title)
	})
}

func (r *Router) GetTopics(ctx context.Context) ([]governance.Topic, error) {
	return forward(r, ctx, "getTopics", func(ctx context.Context, e governance.Engine) ([]governance.Topic, error) {
		return e.GetTopics(ctx)
	})
}

func (r *Router) VoteCount(ctx context.Context, title string) (uint32, error) {
	return forward(r, ctx, "voteCount", func(ctx context.Context, e governance.Engine) (uint32, error) {
		return e.VoteCount(ctx, title)
	})
}

func (r *Router) GetVotes(ctx context.Context, title string) (governance.Tally, error) {
	return forward(r, ctx, "getVotes", func(ctx context.Context, e governance.Engine) (governance.Tally, error) {
		return e.GetVotes(ctx, title)
	})
}

func (r *Router) MonthlyQuota(ctx context.Context) (governance.Amount, error) {
	return forward(r, ctx, "monthlyQuota", func(ctx context.Context, e governance.Engine) (governance.Amount, error) {
		return e.MonthlyQuota(ctx)
	})
}

func (r *Router) Manager(ctx context.Context) (governance.Address, error) {
	return forward(r, ctx, "manager", func(ctx context.Context, e governance.Engine) (governance.Address, error) {
		return e.Manager(ctx)
	})
}

func (r *Router) NextPayment(ctx context.Context, residence governance.ResidenceID) (time.Time, error) {
	return forward(r, ctx, "nextPayment", func(ctx context.Context, e governance.Engine) (time.Time, error) {
		return e.NextPayment(ctx, residence)
	})
}

func (r *Router) TreasuryBalance(ctx context.Context) (governance.Amount, error) {
	return forward(r, ctx, "treasuryBalance", func(ctx context.Context, e governance.Engine) (governance.Amount, error) {
		return e.TreasuryBalance(ctx)
	})
}
