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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Uint256 stores a 256-bit unsigned integer as a decimal string, since SQL
// integers are signed and at most 64 bits
//
//nolint:recvcheck
type Uint256 uint256.Int

// NewUint256 returns v as a Uint256
func NewUint256(v uint64) Uint256 {
	var ret Uint256
	(*uint256.Int)(&ret).SetUint64(v)
	return ret
}

// Int returns a copy of the value as a uint256.Int
func (u Uint256) Int() *uint256.Int {
	ret := uint256.Int(u)
	return &ret
}

func (u Uint256) String() string {
	return u.Int().Dec()
}

// AddOverflow returns u+v and whether the sum overflowed
func (u Uint256) AddOverflow(v Uint256) (Uint256, bool) {
	sum, overflow := new(uint256.Int).AddOverflow(u.Int(), v.Int())
	return Uint256(*sum), overflow
}

// GormDataType keeps the column textual on every metadata backend
func (Uint256) GormDataType() string {
	return "string"
}

func (u Uint256) Value() (driver.Value, error) {
	return u.String(), nil
}

func (u *Uint256) Scan(val any) error {
	var v string
	switch tmp := val.(type) {
	case int64:
		if tmp < 0 {
			return fmt.Errorf("negative value %d", tmp)
		}
		(*uint256.Int)(u).SetUint64(uint64(tmp))
		return nil
	case string:
		v = tmp
	case []byte:
		v = string(tmp)
	default:
		return fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
	return (*uint256.Int)(u).SetFromDecimal(v)
}

// ErrBlobKeyNotFound is returned by blob operations when a key is missing
var ErrBlobKeyNotFound = errors.New("blob key not found")

// ErrTxnWrongType is returned when a transaction has the wrong type
var ErrTxnWrongType = errors.New("invalid transaction type")

// ErrNilTxn is returned when a nil transaction is provided where a valid transaction is required
var ErrNilTxn = errors.New("nil transaction")

// ErrNoStoreAvailable is returned when no blob or metadata store is available
var ErrNoStoreAvailable = errors.New("no store available")

// ErrBlobStoreUnavailable is returned when blob store cannot be accessed
var ErrBlobStoreUnavailable = errors.New("blob store unavailable")

// ErrReadOnlyTxn is returned when writing through a read-only transaction
var ErrReadOnlyTxn = errors.New("write in read-only transaction")

// BlobItem represents a value returned by an iterator
type BlobItem interface {
	Key() []byte
	ValueCopy(dst []byte) ([]byte, error)
}

// BlobIterator provides key iteration over the blob store.
//
// Items returned by Item() must only be accessed while the transaction used
// to create the iterator is still active.
type BlobIterator interface {
	Rewind()
	Seek(prefix []byte)
	Valid() bool
	ValidForPrefix(prefix []byte) bool
	Next()
	Item() BlobItem
	Close()
	Err() error
}

// BlobIteratorOptions configures blob iterator creation
type BlobIteratorOptions struct {
	Prefix  []byte
	Reverse bool
}

// Txn is a simple transaction handle for commit/rollback only.
// Database layer (Txn) coordinates metadata and blob operations separately.
type Txn interface {
	Commit() error
	Rollback() error
}
