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
	"errors"
	"fmt"
)

// Error kinds. Every error returned by an engine or the router matches
// exactly one of these with errors.Is.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientQuorum = errors.New("insufficient quorum")
	ErrUninitialized      = errors.New("uninitialized")
)

var errorKinds = []error{
	ErrPermissionDenied,
	ErrNotFound,
	ErrInvalidState,
	ErrDuplicateEntry,
	ErrInvalidInput,
	ErrInsufficientQuorum,
	ErrUninitialized,
}

// Specific causes, each wrapping its kind
var (
	ErrNotManager             = fmt.Errorf("%w: only the manager can perform this operation", ErrPermissionDenied)
	ErrNotManagerOrCounselor  = fmt.Errorf("%w: only the manager or counselors can perform this operation", ErrPermissionDenied)
	ErrNotManagerOrResident   = fmt.Errorf("%w: only the manager or residents can perform this operation", ErrPermissionDenied)
	ErrResidenceNotFound      = fmt.Errorf("%w: residence does not exist", ErrNotFound)
	ErrResidentNotFound       = fmt.Errorf("%w: address is not a resident", ErrNotFound)
	ErrTopicNotFound          = fmt.Errorf("%w: topic does not exist", ErrNotFound)
	ErrImplementationNotFound = fmt.Errorf("%w: no implementation deployed at address", ErrNotFound)
	ErrCounselorRemoval       = fmt.Errorf("%w: a counselor cannot be removed", ErrInvalidState)
	ErrTopicNotIdle           = fmt.Errorf("%w: topic is not idle", ErrInvalidState)
	ErrTopicNotVoting         = fmt.Errorf("%w: topic is not open for voting", ErrInvalidState)
	ErrTopicNotApproved       = fmt.Errorf("%w: topic is not approved", ErrInvalidState)
	ErrNotSpendingTopic       = fmt.Errorf("%w: topic is not a spending topic", ErrInvalidState)
	ErrInsufficientFunds      = fmt.Errorf("%w: insufficient custodied balance", ErrInvalidState)
	ErrTransferRejected       = fmt.Errorf("%w: recipient rejected the transfer", ErrInvalidState)
	ErrQuotaAlreadyPaid       = fmt.Errorf("%w: quota already paid for the current period", ErrInvalidState)
	ErrAlreadyInitialized     = fmt.Errorf("%w: router already initialized", ErrInvalidState)
	ErrDuplicateTopic         = fmt.Errorf("%w: topic already exists", ErrDuplicateEntry)
	ErrDuplicateVote          = fmt.Errorf("%w: a residence can only vote once", ErrDuplicateEntry)
	ErrAlreadyResident        = fmt.Errorf("%w: address is already bound to a residence", ErrDuplicateEntry)
	ErrZeroAddress            = fmt.Errorf("%w: zero address not allowed", ErrInvalidInput)
	ErrEmptyTitle             = fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	ErrTitleTooLong           = fmt.Errorf("%w: title exceeds %d bytes", ErrInvalidInput, MaxTitleLength)
	ErrEmptyVote              = fmt.Errorf("%w: vote cannot be empty", ErrInvalidInput)
	ErrInvalidCategory        = fmt.Errorf("%w: invalid category", ErrInvalidInput)
	ErrAmountMismatch         = fmt.Errorf("%w: amount does not match the authorized amount", ErrInvalidInput)
	ErrInsufficientPayment    = fmt.Errorf("%w: payment is below the monthly quota", ErrInvalidInput)
	ErrNotEnoughVotes         = fmt.Errorf("%w: voting has not reached the minimum number of votes", ErrInsufficientQuorum)
	ErrNotInitialized         = fmt.Errorf("%w: router has no implementation", ErrUninitialized)
)

// Kind returns the error kind matched by err, or nil if err is not a
// governance error
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

var errorKindNames = map[error]string{
	ErrPermissionDenied:   "permission_denied",
	ErrNotFound:           "not_found",
	ErrInvalidState:       "invalid_state",
	ErrDuplicateEntry:     "duplicate_entry",
	ErrInvalidInput:       "invalid_input",
	ErrInsufficientQuorum: "insufficient_quorum",
	ErrUninitialized:      "uninitialized",
}

// KindName returns a stable label for the kind of err: "ok" for nil and
// "error" for errors outside the taxonomy
func KindName(err error) string {
	if err == nil {
		return "ok"
	}
	if name, ok := errorKindNames[Kind(err)]; ok {
		return name
	}
	return "error"
}
