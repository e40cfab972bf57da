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

package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetAccount gets an account, returning nil if the address was never credited
func (d *MetadataStorePostgres) GetAccount(
	address []byte,
	txn types.Txn,
) (*models.Account, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Account{}
	if result := db.Where("address = ?", address).First(ret); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// CreditAccount adds amount to the balance of an address
func (d *MetadataStorePostgres) CreditAccount(
	address []byte,
	amount types.Uint256,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	account := &models.Account{}
	// Lock the row so concurrent credits cannot lose an update
	result := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		FirstOrCreate(account, models.Account{Address: address})
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

// GetNextPayment returns when the next quota payment of a residence is due.
// A residence that never paid returns the zero time.
func (d *MetadataStorePostgres) GetNextPayment(
	residence uint16,
	txn types.Txn,
) (time.Time, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return time.Time{}, err
	}
	var tmpQuota models.ResidenceQuota
	if result := db.Where("residence = ?", residence).First(&tmpQuota); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, result.Error
	}
	return tmpQuota.NextPayment, nil
}

// AddQuotaPayment records a payment and moves the due date of its residence
func (d *MetadataStorePostgres) AddQuotaPayment(
	payment *models.QuotaPayment,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(payment); result.Error != nil {
		return result.Error
	}
	tmpQuota := models.ResidenceQuota{
		Residence:   payment.Residence,
		NextPayment: payment.NextPayment,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "residence"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_payment"}),
	}).Create(&tmpQuota).Error
}

// GetQuotaPayments returns the payments of a residence, oldest first
func (d *MetadataStorePostgres) GetQuotaPayments(
	residence uint16,
	txn types.Txn,
) ([]models.QuotaPayment, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.QuotaPayment
	result := db.Where("residence = ?", residence).
		Order("paid_at ASC, id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// AddTreasuryTransfer stores the receipt of a treasury transfer
func (d *MetadataStorePostgres) AddTreasuryTransfer(
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
func (d *MetadataStorePostgres) GetTreasuryTransfer(
	title string,
	txn types.Txn,
) (*models.TreasuryTransfer, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.TreasuryTransfer{}
	if result := db.Where("title = ?", title).First(ret); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTreasuryTransfers returns every transfer receipt, oldest first
func (d *MetadataStorePostgres) GetTreasuryTransfers(
	txn types.Txn,
) ([]models.TreasuryTransfer, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.TreasuryTransfer
	if result := db.Order("transferred_at ASC, id ASC").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
