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

// Role is a set of role flags held by a caller
type Role uint8

const RoleNone Role = 0

const (
	RoleResident Role = 1 << iota
	RoleCounselor
	RoleManager
)

func (r Role) Has(flag Role) bool {
	return r&flag != 0
}

func (r Role) String() string {
	switch {
	case r.Has(RoleManager):
		return "manager"
	case r.Has(RoleCounselor):
		return "counselor"
	case r.Has(RoleResident):
		return "resident"
	default:
		return "none"
	}
}

// Operation names a guarded operation
type Operation string

const (
	OpAddResident    Operation = "addResident"
	OpRemoveResident Operation = "removeResident"
	OpSetCounselor   Operation = "setCounselor"
	OpAddTopic       Operation = "addTopic"
	OpEditTopic      Operation = "editTopic"
	OpRemoveTopic    Operation = "removeTopic"
	OpOpenVoting     Operation = "openVoting"
	OpCloseVoting    Operation = "closeVoting"
	OpVote           Operation = "vote"
	OpTransfer       Operation = "transfer"
	OpUpgrade        Operation = "upgrade"
)

// Authorize decides whether a caller holding role may run op. It is pure:
// target checks (counselor removal, counselor must be a resident) belong to
// the registry.
func Authorize(role Role, op Operation) error {
	switch op {
	case OpAddResident:
		if role.Has(RoleManager) || role.Has(RoleCounselor) {
			return nil
		}
		return ErrNotManagerOrCounselor
	case OpAddTopic, OpVote:
		if role.Has(RoleManager) || role.Has(RoleResident) {
			return nil
		}
		return ErrNotManagerOrResident
	case OpRemoveResident,
		OpSetCounselor,
		OpEditTopic,
		OpRemoveTopic,
		OpOpenVoting,
		OpCloseVoting,
		OpTransfer,
		OpUpgrade:
		if role.Has(RoleManager) {
			return nil
		}
		return ErrNotManager
	}
	// Unknown operations are never allowed
	return ErrNotManager
}
