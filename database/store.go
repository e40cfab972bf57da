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

package database

import (
	"context"

	"github.com/blinklabs-io/condo/database/types"
	"github.com/blinklabs-io/condo/governance"
)

// Update runs fn in a read-write transaction. The transaction is rolled back
// if fn returns an error, so no partial change is ever committed.
func (d *Database) Update(
	ctx context.Context,
	fn func(governance.StoreTxn) error,
) error {
	return d.update(ctx, func(txn *storeTxn) error {
		return fn(txn)
	})
}

// View runs fn in a read-only transaction
func (d *Database) View(
	ctx context.Context,
	fn func(governance.StoreTxn) error,
) error {
	return d.view(ctx, func(txn *storeTxn) error {
		return fn(txn)
	})
}

func (d *Database) update(ctx context.Context, fn func(*storeTxn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.rwMutex.Lock()
	defer d.rwMutex.Unlock()
	if d.blob == nil || d.metadata == nil {
		return types.ErrNoStoreAvailable
	}
	return d.Transaction(true).Do(func(txn *Txn) error {
		return fn(newStoreTxn(txn))
	})
}

func (d *Database) view(ctx context.Context, fn func(*storeTxn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.rwMutex.RLock()
	defer d.rwMutex.RUnlock()
	if d.blob == nil || d.metadata == nil {
		return types.ErrNoStoreAvailable
	}
	txn := d.Transaction(false)
	defer txn.Release()
	return fn(newStoreTxn(txn))
}

type implementationRecord struct {
	Address governance.Address `cbor:"0,keyasint"`
}

// LoadImplementation returns the address the router delegates to. The
// second return value is false until an implementation has been stored.
func (d *Database) LoadImplementation(
	ctx context.Context,
) (governance.Address, bool, error) {
	var ret implementationRecord
	var found bool
	err := d.view(ctx, func(txn *storeTxn) error {
		var err error
		found, err = txn.getRecord(
			types.RouterBlobKey(types.RouterImplementationKey),
			&ret,
		)
		return err
	})
	if err != nil {
		return governance.ZeroAddress, false, err
	}
	return ret.Address, found, nil
}

// StoreImplementation swaps the implementation pointer. A non-zero manager
// is written in the same transaction, so the pointer and the authority
// change together or not at all.
func (d *Database) StoreImplementation(
	ctx context.Context,
	impl governance.Address,
	manager governance.Address,
) error {
	return d.update(ctx, func(txn *storeTxn) error {
		if !manager.IsZero() {
			if err := txn.SetManager(manager); err != nil {
				return err
			}
		}
		return txn.putRecord(
			types.RouterBlobKey(types.RouterImplementationKey),
			implementationRecord{Address: impl},
		)
	})
}
