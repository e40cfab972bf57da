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
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const AddressLength = 20

// Address identifies an account (resident, manager, payee or deployed engine)
type Address [AddressLength]byte

// ZeroAddress is the unset address
var ZeroAddress Address

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	tmp, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// ParseAddress parses a hex address with an optional 0x prefix
func ParseAddress(s string) (Address, error) {
	var ret Address
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != AddressLength*2 {
		return ret, fmt.Errorf(
			"%w: address must be %d hex characters, got %d",
			ErrInvalidInput,
			AddressLength*2,
			len(s),
		)
	}
	if _, err := hex.Decode(ret[:], []byte(s)); err != nil {
		return ret, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return ret, nil
}

// AddressFromBytes copies the trailing AddressLength bytes of b
func AddressFromBytes(b []byte) Address {
	var ret Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(ret[AddressLength-len(b):], b)
	return ret
}

// ResidenceID is a unit code: block*1000 + floor*100 + unit
type ResidenceID uint16

// ManagementSeat is the residence a manager without a unit votes under
const ManagementSeat ResidenceID = 0

func (r ResidenceID) String() string {
	return strconv.FormatUint(uint64(r), 10)
}

// ParseResidenceID parses a unit code. Numbers too large to be a unit code
// cannot name an enumerated residence and return ErrResidenceNotFound.
func ParseResidenceID(s string) (ResidenceID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrResidenceNotFound, s)
		}
		return 0, fmt.Errorf("%w: invalid residence id %q", ErrInvalidInput, s)
	}
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %d", ErrResidenceNotFound, v)
	}
	return ResidenceID(v), nil
}

// Category is the kind of proposal. Resolution differs per category.
type Category uint8

const (
	CategoryDecision Category = iota
	CategorySpent
	CategoryChangeQuota
	CategoryChangeManager
)

var categoryNames = map[Category]string{
	CategoryDecision:      "DECISION",
	CategorySpent:         "SPENT",
	CategoryChangeQuota:   "CHANGE_QUOTA",
	CategoryChangeManager: "CHANGE_MANAGER",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", c)
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(data []byte) error {
	tmp, err := ParseCategory(string(data))
	if err != nil {
		return err
	}
	*c = tmp
	return nil
}

// Status is the lifecycle state of a topic
type Status uint8

const (
	StatusIdle Status = iota
	StatusVoting
	StatusApproved
	StatusDenied
	StatusSpent
)

var statusNames = map[Status]string{
	StatusIdle:     "IDLE",
	StatusVoting:   "VOTING",
	StatusApproved: "APPROVED",
	StatusDenied:   "DENIED",
	StatusSpent:    "SPENT",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", s)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	for status, name := range statusNames {
		if name == string(data) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(data))
}

// Option is a ballot choice. OptionEmpty is never stored.
type Option uint8

const (
	OptionEmpty Option = iota
	OptionYes
	OptionNo
	OptionAbstention
)

var optionNames = map[Option]string{
	OptionEmpty:      "EMPTY",
	OptionYes:        "YES",
	OptionNo:         "NO",
	OptionAbstention: "ABSTENTION",
}

func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Option(%d)", o)
}

func (o Option) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Option) UnmarshalText(data []byte) error {
	tmp, err := ParseOption(string(data))
	if err != nil {
		return err
	}
	*o = tmp
	return nil
}

func ParseOption(s string) (Option, error) {
	for o, name := range optionNames {
		if strings.EqualFold(name, s) {
			return o, nil
		}
	}
	return OptionEmpty, fmt.Errorf("%w: unknown option %q", ErrInvalidInput, s)
}

// Topic is a proposal keyed by its title
type Topic struct {
	Title       string    `cbor:"1,keyasint" json:"title"`
	Description string    `cbor:"2,keyasint" json:"description"`
	Category    Category  `cbor:"3,keyasint" json:"category"`
	Amount      Amount    `cbor:"4,keyasint" json:"amount"`
	Responsible Address   `cbor:"5,keyasint" json:"responsible"`
	Status      Status    `cbor:"6,keyasint" json:"status"`
	CreatedDate time.Time `cbor:"7,keyasint" json:"createdDate"`
	StartDate   time.Time `cbor:"8,keyasint" json:"startDate,omitzero"`
	EndDate     time.Time `cbor:"9,keyasint" json:"endDate,omitzero"`
}

// Tally is the aggregate of votes cast on a topic
type Tally struct {
	Yes        uint32 `cbor:"1,keyasint" json:"yes"`
	No         uint32 `cbor:"2,keyasint" json:"no"`
	Abstention uint32 `cbor:"3,keyasint" json:"abstention"`
}

func (t Tally) Total() uint32 {
	return t.Yes + t.No + t.Abstention
}

func (t *Tally) Add(o Option) {
	switch o {
	case OptionYes:
		t.Yes++
	case OptionNo:
		t.No++
	case OptionAbstention:
		t.Abstention++
	}
}

// Resident is an address bound to a residence
type Resident struct {
	Wallet      Address     `cbor:"1,keyasint" json:"wallet"`
	Residence   ResidenceID `cbor:"2,keyasint" json:"residence"`
	IsCounselor bool        `cbor:"3,keyasint" json:"isCounselor"`
}
