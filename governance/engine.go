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

import (
	"context"
	"time"
)

// Engine is the governance logic that the router delegates to. Every
// mutating call runs to completion or leaves no trace. The caller is the
// original sender of the call and is never rewritten by the router.
type Engine interface {
	AddResident(ctx context.Context, caller Address, resident Address, residence ResidenceID) error
	RemoveResident(ctx context.Context, caller Address, resident Address) error
	SetCounselor(ctx context.Context, caller Address, resident Address, isEntering bool) error
	AddTopic(ctx context.Context, caller Address, req TopicRequest) error
	EditTopic(ctx context.Context, caller Address, title string, update TopicUpdate) error
	RemoveTopic(ctx context.Context, caller Address, title string) error
	OpenVoting(ctx context.Context, caller Address, title string) error
	Vote(ctx context.Context, caller Address, title string, option Option) error
	CloseVoting(ctx context.Context, caller Address, title string) error
	Transfer(ctx context.Context, caller Address, title string, amount Amount) error
	PayQuota(ctx context.Context, caller Address, residence ResidenceID, value Amount) error

	ResidenceExists(ctx context.Context, residence ResidenceID) (bool, error)
	IsResident(ctx context.Context, addr Address) (bool, error)
	IsCounselor(ctx context.Context, addr Address) (bool, error)
	GetResident(ctx context.Context, addr Address) (*Resident, error)
	ResidentsOf(ctx context.Context, residence ResidenceID) ([]Resident, error)
	TopicExists(ctx context.Context, title string) (bool, error)
	GetTopic(ctx context.Context, title string) (*Topic, error)
	GetTopics(ctx context.Context) ([]Topic, error)
	VoteCount(ctx context.Context, title string) (uint32, error)
	GetVotes(ctx context.Context, title string) (Tally, error)
	MonthlyQuota(ctx context.Context) (Amount, error)
	Manager(ctx context.Context) (Address, error)
	NextPayment(ctx context.Context, residence ResidenceID) (time.Time, error)
	TreasuryBalance(ctx context.Context) (Amount, error)
}

// MaxTitleLength bounds topic titles in bytes. Titles are embedded in
// store keys, which the blob store limits in size.
const MaxTitleLength = 1024

// TopicRequest carries the arguments of addTopic
type TopicRequest struct {
	Title       string
	Description string
	Category    Category
	Amount      Amount
	Responsible Address
}

// TopicUpdate carries the editable fields of an idle topic
type TopicUpdate struct {
	Description string
	Amount      Amount
	Responsible Address
}

// QuotaPayment is a deposit recorded against a residence
type QuotaPayment struct {
	Residence   ResidenceID `json:"residence"`
	Payer       Address     `json:"payer"`
	Amount      Amount      `json:"amount"`
	PaidAt      time.Time   `json:"paidAt"`
	NextPayment time.Time   `json:"nextPayment"`
}

// TransferReceipt records a completed treasury transfer
type TransferReceipt struct {
	Title     string    `json:"title"`
	Recipient Address   `json:"recipient"`
	Amount    Amount    `json:"amount"`
	At        time.Time `json:"at"`
}

// Store is the stable storage shared by every engine version. Engines own
// no state of their own so that swapping an engine never moves data.
type Store interface {
	// Update runs fn in a read-write transaction. Any error returned by fn
	// discards everything fn wrote.
	Update(ctx context.Context, fn func(StoreTxn) error) error
	// View runs fn in a read-only transaction
	View(ctx context.Context, fn func(StoreTxn) error) error
}

// StoreTxn is the persisted state layout visible inside a transaction.
// Lookups of absent records return a nil pointer or zero value and no error.
type StoreTxn interface {
	Manager() (Address, error)
	SetManager(Address) error
	MonthlyQuota() (Amount, error)
	SetMonthlyQuota(Amount) error
	TreasuryBalance() (Amount, error)
	SetTreasuryBalance(Amount) error

	Resident(Address) (*Resident, error)
	SetResident(Resident) error
	DeleteResident(Address) error
	ResidentsOf(ResidenceID) ([]Resident, error)

	Topic(title string) (*Topic, error)
	SetTopic(Topic) error
	DeleteTopic(title string) error
	Topics() ([]Topic, error)

	Vote(title string, residence ResidenceID) (Option, error)
	SetVote(title string, residence ResidenceID, option Option) error
	Votes(title string) (map[ResidenceID]Option, error)

	NextPayment(ResidenceID) (time.Time, error)
	RecordPayment(QuotaPayment) error
	Credit(Address, Amount) error
	RecordTransfer(TransferReceipt) error
}

// Payout moves released treasury funds to a recipient inside the
// transaction that marks the topic spent. Returning an error aborts the
// whole call.
type Payout interface {
	Pay(txn StoreTxn, recipient Address, amount Amount) error
}

// DefaultMonthlyQuota is 0.01 native unit
var DefaultMonthlyQuota = NewAmount(10_000_000_000_000_000)

// Genesis is the initial state written to an empty store
type Genesis struct {
	Manager      Address
	MonthlyQuota Amount
}
