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

// Package memorymap defines the Map type, which describes where the bus
// controller's memory mapped window sits in the address space of the target
// microcontroller and how much of it is backed by the serial RAM.
package memorymap

import (
	"fmt"

	"github.com/jetsetilly/spiram/logger"
)

// Model of the target microcontroller.
type Model string

// List of valid Model values.
const (
	STM32H7A3 Model = "STM32H7A3"
	STM32H7B3 Model = "STM32H7B3"
	STM32H750 Model = "STM32H750"
)

// Region is a contiguous range of the address space.
type Region struct {
	Base uint32
	Size uint32
}

func (r Region) String() string {
	return fmt.Sprintf("%#08x-%#08x", r.Base, uint64(r.Base)+uint64(r.Size)-1)
}

// End returns the address immediately after the region.
func (r Region) End() uint32 {
	return r.Base + r.Size
}

// Contains returns true if n bytes starting at addr lie inside the region.
func (r Region) Contains(addr uint32, n int) bool {
	return addr >= r.Base && uint64(addr)+uint64(n) <= uint64(r.Base)+uint64(r.Size)
}

// Map of the differences between target models.
type Map struct {
	Model Model

	// the name of the bus controller peripheral
	Peripheral string

	// the entire address space decoded by the bus controller. this is the
	// range disabled in the MPU while the controller is being configured
	Window Region

	// the part of the window backed by the serial RAM
	Device Region

	// number of MPU regions
	MPURegions int

	// the controller requires the data strobe to be enabled for memory
	// mapped writes, even when the device has no strobe pin
	WriteStrobeErratum bool
}

// NewMap is the preferred method of initialisation for the Map type. The size
// argument is the size of the serial RAM. An unknown model is logged and
// replaced by the STM32H7A3.
func NewMap(perm logger.Permission, model Model, size uint32) Map {
	mmap := Map{
		Model: model,
	}

	switch mmap.Model {
	default:
		logger.Logf(perm, "memorymap", "unknown model (%s) defaulting to %s", model, STM32H7A3)
		mmap.Model = STM32H7A3
		fallthrough

	case STM32H7A3, STM32H7B3:
		mmap.Peripheral = "OCTOSPI1"
		mmap.Window = Region{Base: 0x90000000, Size: 0x10000000}
		mmap.MPURegions = 16

		// "Memory-mapped write error response when DQS output is disabled"
		// errata 2.7.8 in ES0478
		mmap.WriteStrobeErratum = true

	case STM32H750:
		mmap.Peripheral = "QUADSPI"
		mmap.Window = Region{Base: 0x90000000, Size: 0x10000000}
		mmap.MPURegions = 16
		mmap.WriteStrobeErratum = false
	}

	if size > mmap.Window.Size {
		logger.Logf(perm, "memorymap", "device size (%#x) larger than window. limiting to %#x", size, mmap.Window.Size)
		size = mmap.Window.Size
	}

	mmap.Device = Region{Base: mmap.Window.Base, Size: size}

	return mmap
}
