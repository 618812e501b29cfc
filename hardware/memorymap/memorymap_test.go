// This file is part of spiram.
//
// spiram is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spiram is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spiram.  If not, see <https://www.gnu.org/licenses/>.

package memorymap_test

import (
	"testing"

	"github.com/jetsetilly/spiram/hardware/memorymap"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/test"
)

func TestModels(t *testing.T) {
	mmap := memorymap.NewMap(logger.Allow, memorymap.STM32H7A3, 0x800000)
	test.ExpectEquality(t, mmap.Peripheral, "OCTOSPI1")
	test.ExpectEquality(t, mmap.Device.Base, uint32(0x90000000))
	test.ExpectEquality(t, mmap.Device.End(), uint32(0x90800000))
	test.ExpectEquality(t, mmap.Device.String(), "0x90000000-0x907fffff")
	test.ExpectSuccess(t, mmap.WriteStrobeErratum)

	mmap = memorymap.NewMap(logger.Allow, memorymap.STM32H750, 0x800000)
	test.ExpectEquality(t, mmap.Peripheral, "QUADSPI")
	test.ExpectFailure(t, mmap.WriteStrobeErratum)
}

func TestUnknownModel(t *testing.T) {
	mmap := memorymap.NewMap(logger.Allow, "PIC16F84", 0x800000)
	test.ExpectEquality(t, mmap.Model, memorymap.STM32H7A3)

	w := &test.CompareWriter{}
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "memorymap: unknown model (PIC16F84) defaulting to STM32H7A3\n")
}

func TestContains(t *testing.T) {
	r := memorymap.Region{Base: 0x90000000, Size: 0x10000}
	test.ExpectSuccess(t, r.Contains(0x90000000, 4))
	test.ExpectSuccess(t, r.Contains(0x9000fffc, 4))
	test.ExpectFailure(t, r.Contains(0x9000fffe, 4))
	test.ExpectFailure(t, r.Contains(0x8ffffffc, 4))
}

func TestOversized(t *testing.T) {
	mmap := memorymap.NewMap(logger.Allow, memorymap.STM32H7A3, 0x20000000)
	test.ExpectEquality(t, mmap.Device.Size, uint32(0x10000000))
}
