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

package metadata

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/plugin/metadata/postgres"
	"github.com/blinklabs-io/condo/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/condo/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Quota payments
	GetNextPayment(uint16, types.Txn) (time.Time, error)
	AddQuotaPayment(*models.QuotaPayment, types.Txn) error
	GetQuotaPayments(uint16, types.Txn) ([]models.QuotaPayment, error)

	// Treasury
	GetAccount([]byte, types.Txn) (*models.Account, error)
	CreditAccount([]byte, types.Uint256, types.Txn) error
	AddTreasuryTransfer(*models.TreasuryTransfer, types.Txn) error
	GetTreasuryTransfer(string, types.Txn) (*models.TreasuryTransfer, error)
	GetTreasuryTransfers(types.Txn) ([]models.TreasuryTransfer, error)
}

// New returns the metadata store selected by name. The sqlite store lives in
// dataDir while the postgres store connects to dsn.
func New(
	pluginName, dataDir, dsn string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	switch pluginName {
	case "sqlite":
		return sqlite.New(
			sqlite.WithDataDir(dataDir),
			sqlite.WithLogger(logger),
			sqlite.WithPromRegistry(promRegistry),
		)
	case "postgres":
		return postgres.New(
			postgres.WithDsn(dsn),
			postgres.WithLogger(logger),
			postgres.WithPromRegistry(promRegistry),
		)
	default:
		return nil, fmt.Errorf("metadata plugin '%s' not found", pluginName)
	}
}
