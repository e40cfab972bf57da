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
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const postgresMetricNamePrefix = "database_metadata_"

// postgresTxn wraps a gorm transaction and implements types.Txn
type postgresTxn struct {
	store    *MetadataStorePostgres
	tx       *gorm.DB
	finished bool
}

func (t *postgresTxn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Commit().Error
}

func (t *postgresTxn) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Rollback().Error
}

// MetadataStorePostgres keeps the relational side of the ledger in an
// external Postgres server. The governance records still live in the local
// blob store, so the data dir lock remains the single-writer guard.
type MetadataStorePostgres struct {
	promRegistry prometheus.Registerer
	db           *gorm.DB
	logger       *slog.Logger

	host     string
	port     uint
	user     string
	password string
	database string
	sslMode  string
	dsn      string
}

// New connects to Postgres and creates the table schemas
func New(opts ...PostgresOptionFunc) (*MetadataStorePostgres, error) {
	db := &MetadataStorePostgres{}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	metadataDb, err := gorm.Open(
		postgres.Open(db.dsnString()),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
	if err != nil {
		return nil, err
	}
	db.logger.Info(
		"connected to postgres metadata store",
		"component", "database",
		"host", db.host,
		"database", db.database,
	)
	db.db = metadataDb
	// Configure connection pool
	sqlDB, err := db.db.DB()
	if err != nil {
		return db, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if err := db.init(); err != nil {
		// MetadataStorePostgres is available for recovery, so return it with error
		return db, err
	}
	// Create table schemas
	db.logger.Debug(fmt.Sprintf("creating table: %#v", &CommitTimestamp{}))
	if err := db.db.AutoMigrate(&CommitTimestamp{}); err != nil {
		return db, err
	}
	for _, model := range models.MigrateModels {
		db.logger.Debug(fmt.Sprintf("creating table: %#v", model))
		if err := db.db.AutoMigrate(model); err != nil {
			return db, err
		}
	}
	return db, nil
}

// dsnString returns the explicit DSN, or one assembled from the individual
// connection options with their defaults applied
func (d *MetadataStorePostgres) dsnString() string {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		return dsn
	}
	if d.host == "" {
		d.host = "localhost"
	}
	if d.port == 0 {
		d.port = 5432
	}
	if d.user == "" {
		d.user = "postgres"
	}
	if d.database == "" {
		d.database = "condo"
	}
	if d.sslMode == "" {
		d.sslMode = "disable"
	}
	parts := []string{
		"host=" + d.host,
		"user=" + d.user,
		"dbname=" + d.database,
		"port=" + strconv.FormatUint(uint64(d.port), 10),
		"sslmode=" + d.sslMode,
		"TimeZone=UTC",
	}
	if d.password != "" {
		parts = append(parts, "password="+d.password)
	}
	return strings.Join(parts, " ")
}

func (d *MetadataStorePostgres) init() error {
	// Configure tracing for GORM
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	if d.promRegistry != nil {
		openConns := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: postgresMetricNamePrefix + "open_connections",
				Help: "Number of open connections to the postgres metadata database",
			},
			func() float64 {
				sqlDb, err := d.db.DB()
				if err != nil {
					return 0
				}
				return float64(sqlDb.Stats().OpenConnections)
			},
		)
		d.promRegistry.MustRegister(openConns)
	}
	return nil
}

// Close closes the connection pool
func (d *MetadataStorePostgres) Close() error {
	if d.db == nil {
		return nil
	}
	db, err := d.DB().DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return db.Close()
}

// DB returns the underlying GORM database handle.
func (d *MetadataStorePostgres) DB() *gorm.DB {
	return d.db
}

// Transaction creates a new database transaction.
func (d *MetadataStorePostgres) Transaction() types.Txn {
	return &postgresTxn{store: d, tx: d.DB().Begin()}
}

// resolveDB returns the gorm handle to use for txn, falling back to the
// shared handle when txn is nil
func (d *MetadataStorePostgres) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return d.DB(), nil
	}
	tmpTxn, ok := txn.(*postgresTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if tmpTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if tmpTxn.finished {
		return nil, errors.New("transaction already finished")
	}
	if tmpTxn.tx.Error != nil {
		return nil, tmpTxn.tx.Error
	}
	return tmpTxn.tx, nil
}
