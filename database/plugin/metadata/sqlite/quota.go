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
	"time"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetNextPayment returns when the next quota payment of a residence is due.
// A residence that never paid returns the zero time.
func (d *MetadataStoreSqlite) GetNextPayment(
	residence uint16,
	txn types.Txn,
) (time.Time, error) {
	var tmpQuota models.ResidenceQuota
	db, err := d.resolveDB(txn)
	if err != nil {
		return time.Time{}, err
	}
	if result := db.Where("residence = ?", residence).First(&tmpQuota); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, result.Error
	}
	return tmpQuota.NextPayment, nil
}

// AddQuotaPayment records a payment and moves the due date of its residence
func (d *MetadataStoreSqlite) AddQuotaPayment(
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
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "residence"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_payment"}),
	}).Create(&tmpQuota)
	return result.Error
}

// GetQuotaPayments returns the payments of a residence, oldest first
func (d *MetadataStoreSqlite) GetQuotaPayments(
	residence uint16,
	txn types.Txn,
) ([]models.QuotaPayment, error) {
	var ret []models.QuotaPayment
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("residence = ?", residence).
		Order("paid_at ASC, id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
