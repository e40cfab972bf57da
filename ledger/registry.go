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

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
)

// AddResident binds an address to a residence. Several addresses may share
// a residence, but an address is bound to at most one.
func (e *Engine) AddResident(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
	residence governance.ResidenceID,
) error {
	return e.run(ctx, governance.OpAddResident, caller, func(c *call) error {
		if err := c.authorize(governance.OpAddResident); err != nil {
			return err
		}
		if resident.IsZero() {
			return governance.ErrZeroAddress
		}
		if !e.config.Layout.Exists(residence) {
			return governance.ErrResidenceNotFound
		}
		existing, err := c.Resident(resident)
		if err != nil {
			return err
		}
		if existing != nil {
			return governance.ErrAlreadyResident
		}
		if err := c.SetResident(governance.Resident{
			Wallet:    resident,
			Residence: residence,
		}); err != nil {
			return err
		}
		c.emit(
			event.ResidentAddedEventType,
			event.ResidentEvent{
				Caller:    caller,
				Resident:  resident,
				Residence: residence,
			},
		)
		return nil
	})
}

// RemoveResident unbinds an address. Counselor status must be cleared first.
func (e *Engine) RemoveResident(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
) error {
	return e.run(ctx, governance.OpRemoveResident, caller, func(c *call) error {
		if err := c.authorize(governance.OpRemoveResident); err != nil {
			return err
		}
		existing, err := c.Resident(resident)
		if err != nil {
			return err
		}
		if existing == nil {
			return governance.ErrResidentNotFound
		}
		if existing.IsCounselor {
			return governance.ErrCounselorRemoval
		}
		if err := c.DeleteResident(resident); err != nil {
			return err
		}
		c.emit(
			event.ResidentRemovedEventType,
			event.ResidentEvent{
				Caller:    caller,
				Resident:  resident,
				Residence: existing.Residence,
			},
		)
		return nil
	})
}

func (e *Engine) SetCounselor(
	ctx context.Context,
	caller governance.Address,
	resident governance.Address,
	isEntering bool,
) error {
	return e.run(ctx, governance.OpSetCounselor, caller, func(c *call) error {
		if err := c.authorize(governance.OpSetCounselor); err != nil {
			return err
		}
		existing, err := c.Resident(resident)
		if err != nil {
			return err
		}
		if existing == nil {
			return governance.ErrResidentNotFound
		}
		existing.IsCounselor = isEntering
		if err := c.SetResident(*existing); err != nil {
			return err
		}
		c.emit(
			event.CounselorChangedEventType,
			event.CounselorChangedEvent{
				Caller:      caller,
				Resident:    resident,
				IsCounselor: isEntering,
			},
		)
		return nil
	})
}

// ResidenceExists reports whether the id belongs to the enumerated layout
func (e *Engine) ResidenceExists(
	_ context.Context,
	residence governance.ResidenceID,
) (bool, error) {
	return e.config.Layout.Exists(residence), nil
}

func (e *Engine) IsResident(ctx context.Context, addr governance.Address) (bool, error) {
	resident, err := e.lookupResident(ctx, addr)
	if err != nil {
		return false, err
	}
	return resident != nil, nil
}

func (e *Engine) IsCounselor(ctx context.Context, addr governance.Address) (bool, error) {
	resident, err := e.lookupResident(ctx, addr)
	if err != nil {
		return false, err
	}
	return resident != nil && resident.IsCounselor, nil
}

func (e *Engine) GetResident(
	ctx context.Context,
	addr governance.Address,
) (*governance.Resident, error) {
	resident, err := e.lookupResident(ctx, addr)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, governance.ErrResidentNotFound
	}
	return resident, nil
}

// ResidentsOf returns the addresses bound to a residence
func (e *Engine) ResidentsOf(
	ctx context.Context,
	residence governance.ResidenceID,
) ([]governance.Resident, error) {
	if !e.config.Layout.Exists(residence) {
		return nil, governance.ErrResidenceNotFound
	}
	var ret []governance.Resident
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.ResidentsOf(residence)
		return err
	})
	return ret, err
}

func (e *Engine) lookupResident(
	ctx context.Context,
	addr governance.Address,
) (*governance.Resident, error) {
	var ret *governance.Resident
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.Resident(addr)
		return err
	})
	return ret, err
}
