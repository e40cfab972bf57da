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

package event

import "github.com/blinklabs-io/condo/governance"

// Governance event types. Each is published once the call that caused it
// has committed.
const (
	ResidentAddedEventType    EventType = "resident.added"
	ResidentRemovedEventType  EventType = "resident.removed"
	CounselorChangedEventType EventType = "counselor.changed"
	TopicAddedEventType       EventType = "topic.added"
	TopicEditedEventType      EventType = "topic.edited"
	TopicRemovedEventType     EventType = "topic.removed"
	VotingOpenedEventType     EventType = "voting.opened"
	VotingClosedEventType     EventType = "voting.closed"
	VoteCastEventType         EventType = "vote.cast"
	FundsTransferredEventType EventType = "funds.transferred"
	QuotaPaidEventType        EventType = "quota.paid"
	ManagerChangedEventType   EventType = "manager.changed"
	QuotaChangedEventType     EventType = "quota.changed"
	RouterUpgradedEventType   EventType = "router.upgraded"
)

// GovernanceEventTypes lists every governance event type
var GovernanceEventTypes = []EventType{
	ResidentAddedEventType,
	ResidentRemovedEventType,
	CounselorChangedEventType,
	TopicAddedEventType,
	TopicEditedEventType,
	TopicRemovedEventType,
	VotingOpenedEventType,
	VotingClosedEventType,
	VoteCastEventType,
	FundsTransferredEventType,
	QuotaPaidEventType,
	ManagerChangedEventType,
	QuotaChangedEventType,
	RouterUpgradedEventType,
}

type ResidentEvent struct {
	Caller    governance.Address     `json:"caller"`
	Resident  governance.Address     `json:"resident"`
	Residence governance.ResidenceID `json:"residence"`
}

type CounselorChangedEvent struct {
	Caller      governance.Address `json:"caller"`
	Resident    governance.Address `json:"resident"`
	IsCounselor bool               `json:"isCounselor"`
}

// TopicEvent carries the topic as stored after the change
type TopicEvent struct {
	Caller governance.Address `json:"caller"`
	Topic  governance.Topic   `json:"topic"`
}

type VoteCastEvent struct {
	Title     string                 `json:"title"`
	Voter     governance.Address     `json:"voter"`
	Residence governance.ResidenceID `json:"residence"`
	Option    governance.Option      `json:"option"`
}

type VotingClosedEvent struct {
	Title    string              `json:"title"`
	Category governance.Category `json:"category"`
	Status   governance.Status   `json:"status"`
	Tally    governance.Tally    `json:"tally"`
}

type FundsTransferredEvent struct {
	Receipt governance.TransferReceipt `json:"receipt"`
}

type QuotaPaidEvent struct {
	Payment governance.QuotaPayment `json:"payment"`
}

type ManagerChangedEvent struct {
	Previous governance.Address `json:"previous"`
	Manager  governance.Address `json:"manager"`
}

type QuotaChangedEvent struct {
	Previous governance.Amount `json:"previous"`
	Quota    governance.Amount `json:"quota"`
}

type RouterUpgradedEvent struct {
	Caller         governance.Address `json:"caller"`
	Previous       governance.Address `json:"previous"`
	Implementation governance.Address `json:"implementation"`
	Name           string             `json:"name"`
	Version        string             `json:"version"`
}
