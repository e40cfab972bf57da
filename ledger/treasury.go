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

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
)

const opPayQuota governance.Operation = "payQuota"

// CreditPayout credits the recipient's account balance in the store
type CreditPayout struct{}

func (CreditPayout) Pay(
	txn governance.StoreTxn,
	recipient governance.Address,
	amount governance.Amount,
) error {
	return txn.Credit(recipient, amount)
}

// Transfer releases the authorized amount of an approved SPENT topic to its
// responsible address and marks the topic spent. A failed payout reverts
// the whole call.
func (e *Engine) Transfer(
	ctx context.Context,
	caller governance.Address,
	title string,
	amount governance.Amount,
) error {
	return e.run(ctx, governance.OpTransfer, caller, func(c *call) error {
		if err := c.authorize(governance.OpTransfer); err != nil {
			return err
		}
		topic, err := loadTopic(c, title)
		if err != nil {
			return err
		}
		if topic.Category != governance.CategorySpent {
			return governance.ErrNotSpendingTopic
		}
		if topic.Status != governance.StatusApproved {
			return governance.ErrTopicNotApproved
		}
		if amount.Cmp(topic.Amount) != 0 {
			return fmt.Errorf(
				"%w: requested %s, authorized %s",
				governance.ErrAmountMismatch,
				amount,
				topic.Amount,
			)
		}
		balance, err := c.TreasuryBalance()
		if err != nil {
			return err
		}
		remaining, underflow := balance.Sub(amount)
		if underflow {
			return fmt.Errorf(
				"%w: balance %s, requested %s",
				governance.ErrInsufficientFunds,
				balance,
				amount,
			)
		}
		if err := c.SetTreasuryBalance(remaining); err != nil {
			return err
		}
		if err := e.config.Payout.Pay(c, topic.Responsible, amount); err != nil {
			if governance.Kind(err) == nil {
				err = fmt.Errorf("%w: %w", governance.ErrTransferRejected, err)
			}
			return err
		}
		topic.Status = governance.StatusSpent
		if err := c.SetTopic(*topic); err != nil {
			return err
		}
		receipt := governance.TransferReceipt{
			Title:     title,
			Recipient: topic.Responsible,
			Amount:    amount,
			At:        c.now,
		}
		if err := c.RecordTransfer(receipt); err != nil {
			return err
		}
		c.emit(event.FundsTransferredEventType, event.FundsTransferredEvent{Receipt: receipt})
		return nil
	})
}

// PayQuota records a deposit of value against a residence and credits the
// treasury. Anyone may pay for any residence, once per quota period.
func (e *Engine) PayQuota(
	ctx context.Context,
	caller governance.Address,
	residence governance.ResidenceID,
	value governance.Amount,
) error {
	return e.run(ctx, opPayQuota, caller, func(c *call) error {
		if !e.config.Layout.Exists(residence) {
			return governance.ErrResidenceNotFound
		}
		quota, err := c.MonthlyQuota()
		if err != nil {
			return err
		}
		if value.Lt(quota) {
			return fmt.Errorf(
				"%w: paid %s, quota %s",
				governance.ErrInsufficientPayment,
				value,
				quota,
			)
		}
		next, err := c.NextPayment(residence)
		if err != nil {
			return err
		}
		if !next.IsZero() && c.now.Before(next) {
			return fmt.Errorf(
				"%w: next payment due %s",
				governance.ErrQuotaAlreadyPaid,
				next.Format(time.RFC3339),
			)
		}
		balance, err := c.TreasuryBalance()
		if err != nil {
			return err
		}
		newBalance, overflow := balance.Add(value)
		if overflow {
			return fmt.Errorf("%w: treasury balance overflow", governance.ErrInvalidInput)
		}
		payment := governance.QuotaPayment{
			Residence:   residence,
			Payer:       caller,
			Amount:      value,
			PaidAt:      c.now,
			NextPayment: c.now.Add(QuotaPeriod),
		}
		if err := c.RecordPayment(payment); err != nil {
			return err
		}
		if err := c.SetTreasuryBalance(newBalance); err != nil {
			return err
		}
		c.emit(event.QuotaPaidEventType, event.QuotaPaidEvent{Payment: payment})
		return nil
	})
}

// NextPayment returns when the residence's next quota is due. The zero
// time means no payment has been recorded.
func (e *Engine) NextPayment(
	ctx context.Context,
	residence governance.ResidenceID,
) (time.Time, error) {
	if !e.config.Layout.Exists(residence) {
		return time.Time{}, governance.ErrResidenceNotFound
	}
	var ret time.Time
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.NextPayment(residence)
		return err
	})
	return ret, err
}

func (e *Engine) TreasuryBalance(ctx context.Context) (governance.Amount, error) {
	var ret governance.Amount
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.TreasuryBalance()
		return err
	})
	return ret, err
}

func (e *Engine) MonthlyQuota(ctx context.Context) (governance.Amount, error) {
	var ret governance.Amount
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.MonthlyQuota()
		return err
	})
	return ret, err
}

func (e *Engine) Manager(ctx context.Context) (governance.Address, error) {
	var ret governance.Address
	err := e.view(ctx, func(txn governance.StoreTxn) error {
		var err error
		ret, err = txn.Manager()
		return err
	})
	return ret, err
}
