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
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/blinklabs-io/condo/database/plugin/blob"
	"github.com/blinklabs-io/condo/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// Config holds the storage settings. An empty DataDir keeps everything in
// memory.
type Config struct {
	PromRegistry   prometheus.Registerer
	Logger         *slog.Logger
	BlobPlugin     string
	MetadataPlugin string
	// MetadataDsn is the connection string of an external metadata store
	MetadataDsn string
	DataDir     string
}

// Database is the stable store shared by every engine version. Governance
// records live in the blob store while payments, balances and receipts live
// in the metadata store. Both are written in one coordinated transaction.
type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dirLock  *os.File
	dataDir  string
	// Writers are exclusive, readers observe only committed state
	rwMutex sync.RWMutex
}

// Blob returns the underling blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	d.rwMutex.Lock()
	defer d.rwMutex.Unlock()
	var err error
	// Close metadata
	if d.metadata != nil {
		err = errors.Join(err, d.metadata.Close())
		d.metadata = nil
	}
	// Close blob
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
		d.blob = nil
	}
	if d.dirLock != nil {
		err = errors.Join(err, unlockDataDir(d.dirLock))
		d.dirLock = nil
	}
	return err
}

func (d *Database) init() error {
	// Check commit timestamp
	if err := d.checkCommitTimestamp(); err != nil {
		return err
	}
	return nil
}

// New creates a new database instance with optional persistence using the provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	blobPlugin := cfg.BlobPlugin
	if blobPlugin == "" {
		blobPlugin = DefaultBlobPlugin
	}
	metadataPlugin := cfg.MetadataPlugin
	if metadataPlugin == "" {
		metadataPlugin = DefaultMetadataPlugin
	}
	db := &Database{
		logger:  logger,
		dataDir: cfg.DataDir,
	}
	if cfg.DataDir != "" {
		dirLock, err := lockDataDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		db.dirLock = dirLock
	}
	metadataDb, err := metadata.New(
		metadataPlugin,
		cfg.DataDir,
		cfg.MetadataDsn,
		logger,
		cfg.PromRegistry,
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	db.metadata = metadataDb
	blobDb, err := blob.New(
		blobPlugin,
		cfg.DataDir,
		logger,
		cfg.PromRegistry,
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	db.blob = blobDb
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
