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

package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/blinklabs-io/condo/governance"
	"github.com/blinklabs-io/condo/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fundTreasury has the first n residences pay the monthly quota
func (e *testEnv) fundTreasury(payers []governance.Address) {
	e.t.Helper()
	residences := e.engine.Layout().Residences()
	for i, payer := range payers {
		require.NoError(
			e.t,
			e.engine.PayQuota(e.ctx, payer, residences[i], governance.DefaultMonthlyQuota),
		)
	}
}

// approvedSpending opens and approves a SPENT topic with ten YES votes
func (e *testEnv) approvedSpending(
	title string,
	voters []governance.Address,
	amount governance.Amount,
	responsible governance.Address,
) {
	e.t.Helper()
	e.openTopic(governance.TopicRequest{
		Title:       title,
		Description: "spending",
		Category:    governance.CategorySpent,
		Amount:      amount,
		Responsible: responsible,
	})
	e.voteAll(title, voters, governance.OptionYes)
	require.NoError(e.t, e.engine.CloseVoting(e.ctx, e.manager, title))
	require.Equal(e.t, governance.StatusApproved, e.topic(title).Status)
}

func (e *testEnv) accountBalance(addr governance.Address) governance.Amount {
	e.t.Helper()
	account, err := e.db.Metadata().GetAccount(addr.Bytes(), nil)
	require.NoError(e.t, err)
	if account == nil {
		return governance.Amount{}
	}
	return governance.AmountFromInt(*account.Balance.Int())
}

func TestTransfer(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(10)
	env.fundTreasury(residents)
	contractor := testAddress(0x77, 1)
	amount := quotas(5)
	env.approvedSpending("repair", residents, amount, contractor)

	require.ErrorIs(
		t,
		env.engine.Transfer(env.ctx, residents[0], "repair", amount),
		governance.ErrNotManager,
	)
	require.NoError(t, env.engine.Transfer(env.ctx, env.manager, "repair", amount))
	assert.Equal(t, governance.StatusSpent, env.topic("repair").Status)
	assert.Equal(t, amount, env.accountBalance(contractor))
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	remaining, _ := quotas(10).Sub(amount)
	assert.Equal(t, remaining, balance)

	receipt, err := env.db.Metadata().GetTreasuryTransfer("repair", nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, contractor.Bytes(), receipt.Recipient)
	assert.Equal(t, amount.BaseUnits(), receipt.Amount.String())

	// A spent topic cannot pay out twice
	err = env.engine.Transfer(env.ctx, env.manager, "repair", amount)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	assert.Equal(t, amount, env.accountBalance(contractor))
}

func TestTransferErrors(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(10)
	env.fundTreasury(residents[:2])
	contractor := testAddress(0x77, 1)
	env.approvedSpending("big", residents, quotas(5), contractor)
	env.openTopic(governance.TopicRequest{
		Title:       "pending",
		Category:    governance.CategorySpent,
		Amount:      governance.DefaultMonthlyQuota,
		Responsible: contractor,
	})
	env.openTopic(decisionTopic("decision"))
	env.voteAll("decision", residents[:5], governance.OptionYes)
	require.NoError(t, env.engine.CloseVoting(env.ctx, env.manager, "decision"))

	testDefs := []struct {
		name    string
		title   string
		amount  governance.Amount
		wantErr error
	}{
		{"missing topic", "missing", governance.NewAmount(1), governance.ErrTopicNotFound},
		{"not approved", "pending", governance.DefaultMonthlyQuota, governance.ErrTopicNotApproved},
		{"not a spending topic", "decision", governance.Amount{}, governance.ErrNotSpendingTopic},
		{"amount mismatch", "big", governance.DefaultMonthlyQuota, governance.ErrAmountMismatch},
		{"insufficient funds", "big", quotas(5), governance.ErrInsufficientFunds},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := env.engine.Transfer(env.ctx, env.manager, testDef.title, testDef.amount)
			require.ErrorIs(t, err, testDef.wantErr)
		})
	}
	assert.Equal(t, governance.StatusApproved, env.topic("big").Status)
	assert.Equal(t, governance.Amount{}, env.accountBalance(contractor))
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, quotas(2), balance)
}

// rejectingPayout credits the recipient and then refuses the transfer
type rejectingPayout struct{}

func (rejectingPayout) Pay(
	txn governance.StoreTxn,
	recipient governance.Address,
	amount governance.Amount,
) error {
	if err := txn.Credit(recipient, amount); err != nil {
		return err
	}
	return errors.New("recipient refused funds")
}

func TestTransferRejectedRevertsEverything(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{Payout: rejectingPayout{}})
	residents := env.addResidents(10)
	env.fundTreasury(residents)
	contractor := testAddress(0x77, 1)
	amount := quotas(3)
	env.approvedSpending("repair", residents, amount, contractor)

	err := env.engine.Transfer(env.ctx, env.manager, "repair", amount)
	require.ErrorIs(t, err, governance.ErrTransferRejected)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	assert.Equal(t, governance.StatusApproved, env.topic("repair").Status)
	assert.Equal(t, governance.Amount{}, env.accountBalance(contractor))
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, quotas(10), balance)
	receipt, err := env.db.Metadata().GetTreasuryTransfer("repair", nil)
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestPayQuota(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	payer := testAddress(0x55, 1)
	next, err := env.engine.NextPayment(env.ctx, 1101)
	require.NoError(t, err)
	assert.True(t, next.IsZero())

	require.NoError(t, env.engine.PayQuota(env.ctx, payer, 1101, governance.DefaultMonthlyQuota))
	next, err = env.engine.NextPayment(env.ctx, 1101)
	require.NoError(t, err)
	assert.True(t, next.Equal(env.now.Add(ledger.QuotaPeriod)), "next payment %s", next)
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, governance.DefaultMonthlyQuota, balance)

	err = env.engine.PayQuota(env.ctx, payer, 1101, governance.DefaultMonthlyQuota)
	require.ErrorIs(t, err, governance.ErrQuotaAlreadyPaid)
	require.ErrorIs(t, err, governance.ErrInvalidState)

	// Other residences are independent
	require.NoError(t, env.engine.PayQuota(env.ctx, payer, 1102, quotas(2)))

	env.now = env.now.Add(ledger.QuotaPeriod + time.Hour)
	require.NoError(t, env.engine.PayQuota(env.ctx, payer, 1101, governance.DefaultMonthlyQuota))
	balance, err = env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, quotas(4), balance)

	payments, err := env.db.Metadata().GetQuotaPayments(1101, nil)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestPayQuotaErrors(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	payer := testAddress(0x55, 1)
	require.ErrorIs(
		t,
		env.engine.PayQuota(env.ctx, payer, 9999, governance.DefaultMonthlyQuota),
		governance.ErrResidenceNotFound,
	)
	short, _ := governance.DefaultMonthlyQuota.Sub(governance.NewAmount(1))
	require.ErrorIs(
		t,
		env.engine.PayQuota(env.ctx, payer, 1101, short),
		governance.ErrInsufficientPayment,
	)
	_, err := env.engine.NextPayment(env.ctx, 9999)
	require.ErrorIs(t, err, governance.ErrNotFound)
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestTreasuryBeyondUint64(t *testing.T) {
	env := newTestEnv(t, ledger.EngineConfig{})
	residents := env.addResidents(20)
	residences := env.engine.Layout().Residences()
	// 20 native units exceed 2^64 base units
	for i, payer := range residents {
		require.NoError(
			t,
			env.engine.PayQuota(env.ctx, payer, residences[i], nativeUnit),
			"payment %d", i+1,
		)
	}
	balance, err := env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, governance.NativeUnits(20), balance)
	assert.Equal(t, "20000000000000000000", balance.BaseUnits())

	amount, err := governance.ParseAmount("19")
	require.NoError(t, err)
	contractor := testAddress(0x77, 1)
	env.approvedSpending("roof", residents[:10], amount, contractor)
	require.NoError(t, env.engine.Transfer(env.ctx, env.manager, "roof", amount))

	assert.Equal(t, governance.NativeUnits(19), env.accountBalance(contractor))
	balance, err = env.engine.TreasuryBalance(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, nativeUnit, balance)
	receipt, err := env.db.Metadata().GetTreasuryTransfer("roof", nil)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "19000000000000000000", receipt.Amount.String())
	assert.Equal(t, "19", env.topic("roof").Amount.String())
}
