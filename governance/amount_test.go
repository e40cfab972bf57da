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

package governance_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/blinklabs-io/condo/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	amount, err := governance.ParseAmount("0.02")
	require.NoError(t, err)
	assert.Equal(t, governance.NewAmount(20_000_000_000_000_000), amount)
	assert.Equal(t, "0.02", amount.String())
	amount, err = governance.ParseAmount("1")
	require.NoError(t, err)
	assert.Equal(t, governance.NativeUnits(1), amount)
	assert.Equal(t, "1", amount.String())
	_, err = governance.ParseAmount("-1")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = governance.ParseAmount("0.0000000000000000001")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = governance.ParseAmount("ten")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
}

func TestParseAmountBeyondUint64(t *testing.T) {
	// 19 native units no longer fit in 64 bits of base units
	amount, err := governance.ParseAmount("19")
	require.NoError(t, err)
	assert.Equal(t, "19000000000000000000", amount.BaseUnits())
	assert.Equal(t, "19", amount.String())

	amount, err = governance.ParseAmount("1000000.5")
	require.NoError(t, err)
	assert.Equal(t, "1000000500000000000000000", amount.BaseUnits())

	// 2^256 base units is out of range
	tooLarge := new(big.Rat).SetFrac(
		new(big.Int).Lsh(big.NewInt(1), 256),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(governance.NativeUnitDecimals), nil),
	)
	_, err = governance.ParseAmount(tooLarge.FloatString(governance.NativeUnitDecimals))
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
}

func TestAmountArithmetic(t *testing.T) {
	a := governance.NativeUnits(15)
	b := governance.NativeUnits(10)
	sum, overflow := a.Add(b)
	require.False(t, overflow)
	assert.Equal(t, governance.NativeUnits(25), sum)
	assert.Equal(t, 1, sum.Cmp(a))
	assert.True(t, b.Lt(a))

	diff, underflow := a.Sub(b)
	require.False(t, underflow)
	assert.Equal(t, governance.NativeUnits(5), diff)
	_, underflow = b.Sub(a)
	assert.True(t, underflow)

	maxAmount, err := governance.ParseBaseUnits(
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)).String(),
	)
	require.NoError(t, err)
	_, overflow = maxAmount.Add(governance.NewAmount(1))
	assert.True(t, overflow)

	product, overflow := governance.NativeUnits(2).Mul(10)
	require.False(t, overflow)
	assert.Equal(t, governance.NativeUnits(20), product)
	_, overflow = maxAmount.Mul(2)
	assert.True(t, overflow)

	assert.True(t, governance.Amount{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestAmountText(t *testing.T) {
	amount := governance.NativeUnits(40)
	data, err := json.Marshal(amount)
	require.NoError(t, err)
	assert.JSONEq(t, `"40000000000000000000"`, string(data))

	var decoded governance.Amount
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, amount, decoded)

	assert.ErrorIs(t, decoded.UnmarshalText([]byte("-5")), governance.ErrInvalidInput)
}

func TestParseResidenceID(t *testing.T) {
	id, err := governance.ParseResidenceID("2505")
	require.NoError(t, err)
	assert.Equal(t, governance.ResidenceID(2505), id)

	_, err = governance.ParseResidenceID("65536")
	assert.ErrorIs(t, err, governance.ErrResidenceNotFound)
	assert.ErrorIs(t, err, governance.ErrNotFound)
	_, err = governance.ParseResidenceID("99999999999999999999999")
	assert.ErrorIs(t, err, governance.ErrNotFound)

	_, err = governance.ParseResidenceID("abc")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = governance.ParseResidenceID("-1")
	assert.ErrorIs(t, err, governance.ErrInvalidInput)
}
