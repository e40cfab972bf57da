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

package governance

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

const NativeUnitDecimals = 18

var nativeUnitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(NativeUnitDecimals), nil)

// Amount is a value in base units. One native unit is 10^18 base units.
// The zero value is zero, and amounts compare with ==.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of base units
func NewAmount(base uint64) Amount {
	var ret Amount
	ret.v.SetUint64(base)
	return ret
}

// NativeUnits returns n whole native units
func NativeUnits(n uint64) Amount {
	ret, _ := NewAmount(n).Mul(nativeUnitScale.Uint64())
	return ret
}

// AmountFromInt wraps a 256-bit base-unit value
func AmountFromInt(v uint256.Int) Amount {
	return Amount{v: v}
}

// Int returns the base-unit value
func (a Amount) Int() uint256.Int {
	return a.v
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Lt(b Amount) bool {
	return a.v.Lt(&b.v)
}

// Add returns a+b and whether the sum overflowed 256 bits
func (a Amount) Add(b Amount) (Amount, bool) {
	var ret Amount
	_, overflow := ret.v.AddOverflow(&a.v, &b.v)
	return ret, overflow
}

// Sub returns a-b and whether it underflowed
func (a Amount) Sub(b Amount) (Amount, bool) {
	var ret Amount
	_, underflow := ret.v.SubOverflow(&a.v, &b.v)
	return ret, underflow
}

// Mul returns a*n and whether the product overflowed 256 bits
func (a Amount) Mul(n uint64) (Amount, bool) {
	var ret Amount
	_, overflow := ret.v.MulOverflow(&a.v, uint256.NewInt(n))
	return ret, overflow
}

// BaseUnits returns the decimal base-unit representation
func (a Amount) BaseUnits() string {
	return a.v.Dec()
}

// Float64 approximates the base-unit value, for metrics
func (a Amount) Float64() float64 {
	ret, _ := new(big.Float).SetInt(a.v.ToBig()).Float64()
	return ret
}

// String formats the amount in native units, such as "0.01"
func (a Amount) String() string {
	r := new(big.Rat).SetFrac(a.v.ToBig(), nativeUnitScale)
	return strings.TrimRight(strings.TrimRight(r.FloatString(NativeUnitDecimals), "0"), ".")
}

// ParseAmount parses a decimal native-unit amount such as "0.02"
func ParseAmount(s string) (Amount, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: invalid amount %q", ErrInvalidInput, s)
	}
	r.Mul(r, new(big.Rat).SetInt(nativeUnitScale))
	if !r.IsInt() {
		return Amount{}, fmt.Errorf("%w: amount %q is finer than one base unit", ErrInvalidInput, s)
	}
	var ret Amount
	if overflow := ret.v.SetFromBig(r.Num()); overflow {
		return Amount{}, fmt.Errorf("%w: amount out of range %q", ErrInvalidInput, s)
	}
	return ret, nil
}

// ParseBaseUnits parses a decimal base-unit amount
func ParseBaseUnits(s string) (Amount, error) {
	var ret Amount
	if err := ret.v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("%w: invalid base-unit amount %q: %w", ErrInvalidInput, s, err)
	}
	return ret, nil
}

// MarshalText encodes base units, so stored records and JSON keep full precision
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalText(data []byte) error {
	tmp, err := ParseBaseUnits(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}
