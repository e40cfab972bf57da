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

	"github.com/blinklabs-io/condo/governance"
)

// Bootstrap writes the genesis manager and monthly quota to a store that
// has none. Values already present are left alone, so it is safe to call on
// every start.
func Bootstrap(ctx context.Context, store governance.Store, genesis governance.Genesis) error {
	return store.Update(ctx, func(txn governance.StoreTxn) error {
		manager, err := txn.Manager()
		if err != nil {
			return err
		}
		if manager.IsZero() {
			if genesis.Manager.IsZero() {
				return governance.ErrZeroAddress
			}
			if err := txn.SetManager(genesis.Manager); err != nil {
				return err
			}
		}
		quota, err := txn.MonthlyQuota()
		if err != nil {
			return err
		}
		if quota.IsZero() {
			if genesis.MonthlyQuota.IsZero() {
				genesis.MonthlyQuota = governance.DefaultMonthlyQuota
			}
			if err := txn.SetMonthlyQuota(genesis.MonthlyQuota); err != nil {
				return err
			}
		}
		return nil
	})
}
