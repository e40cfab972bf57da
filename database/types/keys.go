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
	"encoding/binary"
	"slices"
)

const (
	SettingsBlobKeyPrefix = "s"
	ResidentBlobKeyPrefix = "r"
	UnitBlobKeyPrefix     = "n"
	TopicBlobKeyPrefix    = "t"
	VoteBlobKeyPrefix     = "v"
	RouterBlobKeyPrefix   = "p"

	SettingManager          = "manager"
	SettingMonthlyQuota     = "quota"
	SettingTreasury         = "treasury"
	RouterImplementationKey = "implementation"
)

func uint16ToBytes(input uint16) []byte {
	ret := make([]byte, 2)
	binary.BigEndian.PutUint16(ret, input)
	return ret
}

// lengthPrefixed encodes s with a 2-byte length so that keys built from
// arbitrary titles cannot collide with each other. Titles are capped well
// below 64KiB before they reach the store.
func lengthPrefixed(s string) []byte {
	return slices.Concat(uint16ToBytes(uint16(len(s))), []byte(s)) //nolint:gosec
}

func SettingBlobKey(name string) []byte {
	return slices.Concat([]byte(SettingsBlobKeyPrefix), []byte(name))
}

func ResidentBlobKey(addr []byte) []byte {
	return slices.Concat([]byte(ResidentBlobKeyPrefix), addr)
}

func UnitBlobKeyPrefixFor(residence uint16) []byte {
	return slices.Concat([]byte(UnitBlobKeyPrefix), uint16ToBytes(residence))
}

func UnitBlobKey(residence uint16, addr []byte) []byte {
	return slices.Concat(UnitBlobKeyPrefixFor(residence), addr)
}

func TopicBlobKey(title string) []byte {
	return slices.Concat([]byte(TopicBlobKeyPrefix), []byte(title))
}

func VoteBlobKeyPrefixFor(title string) []byte {
	return slices.Concat([]byte(VoteBlobKeyPrefix), lengthPrefixed(title))
}

func VoteBlobKey(title string, residence uint16) []byte {
	return slices.Concat(VoteBlobKeyPrefixFor(title), uint16ToBytes(residence))
}

// VoteBlobKeyResidence extracts the residence from a vote key
func VoteBlobKeyResidence(key []byte) uint16 {
	if len(key) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(key[len(key)-2:])
}

func RouterBlobKey(name string) []byte {
	return slices.Concat([]byte(RouterBlobKeyPrefix), []byte(name))
}
