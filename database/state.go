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
	"fmt"
	"time"

	"github.com/blinklabs-io/condo/database/models"
	"github.com/blinklabs-io/condo/database/types"
	"github.com/blinklabs-io/condo/governance"
)

// storeTxn exposes the governance state layout on top of a coordinated
// transaction
type storeTxn struct {
	db  *Database
	txn *Txn
}

func newStoreTxn(txn *Txn) *storeTxn {
	return &storeTxn{db: txn.DB(), txn: txn}
}

func (s *storeTxn) getRecord(key []byte, dst any) (bool, error) {
	val, err := s.db.Blob().Get(s.txn.Blob(), key)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := cborUnmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode record %x: %w", key, err)
	}
	return true, nil
}

func (s *storeTxn) putRecord(key []byte, val any) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	data, err := cborMarshal(val)
	if err != nil {
		return fmt.Errorf("encode record %x: %w", key, err)
	}
	return s.db.Blob().Set(s.txn.Blob(), key, data)
}

func (s *storeTxn) deleteKey(key []byte) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	return s.db.Blob().Delete(s.txn.Blob(), key)
}

// scanPrefix calls fn with every key and value stored under prefix
func (s *storeTxn) scanPrefix(prefix []byte, fn func(key, val []byte) error) error {
	iter := s.db.Blob().NewIterator(
		s.txn.Blob(),
		types.BlobIteratorOptions{Prefix: prefix},
	)
	defer iter.Close()
	for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.Key(), val); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *storeTxn) Manager() (governance.Address, error) {
	var ret governance.Address
	if _, err := s.getRecord(types.SettingBlobKey(types.SettingManager), &ret); err != nil {
		return governance.ZeroAddress, err
	}
	return ret, nil
}

func (s *storeTxn) SetManager(addr governance.Address) error {
	return s.putRecord(types.SettingBlobKey(types.SettingManager), addr)
}

func (s *storeTxn) MonthlyQuota() (governance.Amount, error) {
	var ret governance.Amount
	if _, err := s.getRecord(types.SettingBlobKey(types.SettingMonthlyQuota), &ret); err != nil {
		return governance.Amount{}, err
	}
	return ret, nil
}

func (s *storeTxn) SetMonthlyQuota(amount governance.Amount) error {
	return s.putRecord(types.SettingBlobKey(types.SettingMonthlyQuota), amount)
}

func (s *storeTxn) TreasuryBalance() (governance.Amount, error) {
	var ret governance.Amount
	if _, err := s.getRecord(types.SettingBlobKey(types.SettingTreasury), &ret); err != nil {
		return governance.Amount{}, err
	}
	return ret, nil
}

func (s *storeTxn) SetTreasuryBalance(amount governance.Amount) error {
	return s.putRecord(types.SettingBlobKey(types.SettingTreasury), amount)
}

func (s *storeTxn) Resident(addr governance.Address) (*governance.Resident, error) {
	var ret governance.Resident
	found, err := s.getRecord(types.ResidentBlobKey(addr.Bytes()), &ret)
	if err != nil || !found {
		return nil, err
	}
	return &ret, nil
}

func (s *storeTxn) SetResident(resident governance.Resident) error {
	prev, err := s.Resident(resident.Wallet)
	if err != nil {
		return err
	}
	if prev != nil && prev.Residence != resident.Residence {
		if err := s.deleteKey(types.UnitBlobKey(uint16(prev.Residence), prev.Wallet.Bytes())); err != nil {
			return err
		}
	}
	if err := s.putRecord(types.ResidentBlobKey(resident.Wallet.Bytes()), resident); err != nil {
		return err
	}
	// Unit index entries carry no value, the address is the key suffix
	return s.db.Blob().Set(
		s.txn.Blob(),
		types.UnitBlobKey(uint16(resident.Residence), resident.Wallet.Bytes()),
		[]byte{},
	)
}

func (s *storeTxn) DeleteResident(addr governance.Address) error {
	prev, err := s.Resident(addr)
	if err != nil || prev == nil {
		return err
	}
	if err := s.deleteKey(types.UnitBlobKey(uint16(prev.Residence), addr.Bytes())); err != nil {
		return err
	}
	return s.deleteKey(types.ResidentBlobKey(addr.Bytes()))
}

func (s *storeTxn) ResidentsOf(residence governance.ResidenceID) ([]governance.Resident, error) {
	prefix := types.UnitBlobKeyPrefixFor(uint16(residence))
	var addrs []governance.Address
	err := s.scanPrefix(prefix, func(key, _ []byte) error {
		addrs = append(addrs, governance.AddressFromBytes(key[len(prefix):]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	ret := make([]governance.Resident, 0, len(addrs))
	for _, addr := range addrs {
		resident, err := s.Resident(addr)
		if err != nil {
			return nil, err
		}
		if resident == nil {
			return nil, fmt.Errorf("dangling unit index entry for %s", addr)
		}
		ret = append(ret, *resident)
	}
	return ret, nil
}

func (s *storeTxn) Topic(title string) (*governance.Topic, error) {
	var ret governance.Topic
	found, err := s.getRecord(types.TopicBlobKey(title), &ret)
	if err != nil || !found {
		return nil, err
	}
	return &ret, nil
}

func (s *storeTxn) SetTopic(topic governance.Topic) error {
	return s.putRecord(types.TopicBlobKey(topic.Title), topic)
}

func (s *storeTxn) DeleteTopic(title string) error {
	votes, err := s.Votes(title)
	if err != nil {
		return err
	}
	for residence := range votes {
		if err := s.deleteKey(types.VoteBlobKey(title, uint16(residence))); err != nil {
			return err
		}
	}
	return s.deleteKey(types.TopicBlobKey(title))
}

// Topics returns every topic ordered by title
func (s *storeTxn) Topics() ([]governance.Topic, error) {
	var ret []governance.Topic
	err := s.scanPrefix([]byte(types.TopicBlobKeyPrefix), func(_, val []byte) error {
		var topic governance.Topic
		if err := cborUnmarshal(val, &topic); err != nil {
			return fmt.Errorf("decode topic: %w", err)
		}
		ret = append(ret, topic)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *storeTxn) Vote(title string, residence governance.ResidenceID) (governance.Option, error) {
	val, err := s.db.Blob().Get(s.txn.Blob(), types.VoteBlobKey(title, uint16(residence)))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return governance.OptionEmpty, nil
		}
		return governance.OptionEmpty, err
	}
	if len(val) != 1 {
		return governance.OptionEmpty, fmt.Errorf("malformed vote record of %d bytes", len(val))
	}
	return governance.Option(val[0]), nil
}

func (s *storeTxn) SetVote(title string, residence governance.ResidenceID, option governance.Option) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	return s.db.Blob().Set(
		s.txn.Blob(),
		types.VoteBlobKey(title, uint16(residence)),
		[]byte{byte(option)},
	)
}

func (s *storeTxn) Votes(title string) (map[governance.ResidenceID]governance.Option, error) {
	ret := make(map[governance.ResidenceID]governance.Option)
	err := s.scanPrefix(types.VoteBlobKeyPrefixFor(title), func(key, val []byte) error {
		if len(val) != 1 {
			return fmt.Errorf("malformed vote record of %d bytes", len(val))
		}
		ret[governance.ResidenceID(types.VoteBlobKeyResidence(key))] = governance.Option(val[0])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *storeTxn) NextPayment(residence governance.ResidenceID) (time.Time, error) {
	return s.db.Metadata().GetNextPayment(uint16(residence), s.txn.Metadata())
}

func (s *storeTxn) RecordPayment(payment governance.QuotaPayment) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	return s.db.Metadata().AddQuotaPayment(
		&models.QuotaPayment{
			Residence:   uint16(payment.Residence),
			Payer:       payment.Payer.Bytes(),
			Amount:      types.Uint256(payment.Amount.Int()),
			PaidAt:      payment.PaidAt,
			NextPayment: payment.NextPayment,
		},
		s.txn.Metadata(),
	)
}

func (s *storeTxn) Credit(addr governance.Address, amount governance.Amount) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	return s.db.Metadata().CreditAccount(addr.Bytes(), types.Uint256(amount.Int()), s.txn.Metadata())
}

func (s *storeTxn) RecordTransfer(receipt governance.TransferReceipt) error {
	if !s.txn.ReadWrite() {
		return types.ErrReadOnlyTxn
	}
	return s.db.Metadata().AddTreasuryTransfer(
		&models.TreasuryTransfer{
			Title:         receipt.Title,
			Recipient:     receipt.Recipient.Bytes(),
			Amount:        types.Uint256(receipt.Amount.Int()),
			TransferredAt: receipt.At,
		},
		s.txn.Metadata(),
	)
}
