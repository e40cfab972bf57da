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

package models

import (
	"time"

	"github.com/blinklabs-io/condo/database/types"
)

// QuotaPayment is a single monthly quota deposit against a residence
type QuotaPayment struct {
	PaidAt      time.Time `gorm:"index;not null"`
	NextPayment time.Time `gorm:"not null"`
	Payer       []byte    `gorm:"index;size:20;not null"`
	ID          uint      `gorm:"primarykey"`
	Amount      types.Uint256
	Residence   uint16 `gorm:"index;not null"`
}

func (QuotaPayment) TableName() string {
	return "quota_payment"
}

// ResidenceQuota tracks when the next quota payment of a residence is due
type ResidenceQuota struct {
	NextPayment time.Time `gorm:"not null"`
	Residence   uint16    `gorm:"primarykey;autoIncrement:false"`
}

func (ResidenceQuota) TableName() string {
	return "residence_quota"
}
