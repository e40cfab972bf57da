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

package sqlite

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"gorm.io/gorm"
)

// GetAccount gets an account, returning nil if the address was never credited
func (d *MetadataStoreSqlite) GetAccount(
	address []byte,
	txn types.Txn,
) (*models.Account, error) {
	ret := &models.Account{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("address = ?", address).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// CreditAccount adds amount to the balance of an address
func (d *MetadataStoreSqlite) CreditAccount(
	address []byte,
	amount types.Uint256,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	// Find or create account for this address (accounts are unique per address)
	account := &models.Account{}
	result := db.FirstOrCreate(account, models.Account{Address: address})
	if result.Error != nil {
		return fmt.Errorf("failed to find or create account: %w", result.Error)
	}
	balance, overflow := account.Balance.AddOverflow(amount)
	if overflow {
		return errors.New("account balance overflow")
	}
	result = db.Model(account).Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}
