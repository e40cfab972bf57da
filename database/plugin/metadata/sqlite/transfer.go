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

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"gorm.io/gorm"
)

// AddTreasuryTransfer stores the receipt of a treasury transfer
func (d *MetadataStoreSqlite) AddTreasuryTransfer(
	transfer *models.TreasuryTransfer,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	return db.Create(transfer).Error
}

// GetTreasuryTransfer returns the receipt for a topic, or nil if no funds
// were released for it
func (d *MetadataStoreSqlite) GetTreasuryTransfer(
	title string,
	txn types.Txn,
) (*models.TreasuryTransfer, error) {
	ret := &models.TreasuryTransfer{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where("title = ?", title).First(ret); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTreasuryTransfers returns every transfer receipt, oldest first
func (d *MetadataStoreSqlite) GetTreasuryTransfers(
	txn types.Txn,
) ([]models.TreasuryTransfer, error) {
	var ret []models.TreasuryTransfer
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Order("transferred_at ASC, id ASC").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
