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

import "fmt"

const (
	DefaultBlocks        = 2
	DefaultFloors        = 5
	DefaultUnitsPerFloor = 5
)

// Layout is the fixed set of residences in the association. Units are
// never created or destroyed at runtime.
type Layout struct {
	Blocks        uint16 `yaml:"blocks"`
	Floors        uint16 `yaml:"floors"`
	UnitsPerFloor uint16 `yaml:"unitsPerFloor"`
}

func DefaultLayout() Layout {
	return Layout{
		Blocks:        DefaultBlocks,
		Floors:        DefaultFloors,
		UnitsPerFloor: DefaultUnitsPerFloor,
	}
}

// Validate checks that every residence id fits the block/floor/unit encoding
func (l Layout) Validate() error {
	if l.Blocks == 0 || l.Floors == 0 || l.UnitsPerFloor == 0 {
		return fmt.Errorf("%w: layout dimensions must be non-zero", ErrInvalidInput)
	}
	if l.Blocks > 9 || l.Floors > 9 || l.UnitsPerFloor > 99 {
		return fmt.Errorf(
			"%w: layout %dx%dx%d does not fit residence id encoding",
			ErrInvalidInput,
			l.Blocks,
			l.Floors,
			l.UnitsPerFloor,
		)
	}
	return nil
}

// Size returns the number of enumerated residences
func (l Layout) Size() int {
	return int(l.Blocks) * int(l.Floors) * int(l.UnitsPerFloor)
}

// Exists reports whether id belongs to the enumerated set
func (l Layout) Exists(id ResidenceID) bool {
	block := uint16(id) / 1000
	floor := (uint16(id) % 1000) / 100
	unit := uint16(id) % 100
	return block >= 1 && block <= l.Blocks &&
		floor >= 1 && floor <= l.Floors &&
		unit >= 1 && unit <= l.UnitsPerFloor
}

// Residences returns every enumerated residence id in ascending order
func (l Layout) Residences() []ResidenceID {
	ret := make([]ResidenceID, 0, l.Size())
	for block := uint16(1); block <= l.Blocks; block++ {
		for floor := uint16(1); floor <= l.Floors; floor++ {
			for unit := uint16(1); unit <= l.UnitsPerFloor; unit++ {
				ret = append(ret, ResidenceID(block*1000+floor*100+unit))
			}
		}
	}
	return ret
}
