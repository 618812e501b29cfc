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

package spiram

import (
	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

// patterns written during the memory test. the quad data lines toggle
// between 1010 and 0101.
const (
	pattern8  = uint8(0xa5)
	pattern16 = uint16(0x5a5a)
	pattern32 = uint32(0xa5a5a5a5)
)

type word interface {
	~uint8 | ~uint16 | ~uint32
}

// memtest writes the pattern to every word of the mapped window and then
// reads it back. the first mismatch or fault is latched and the test stops.
//
// returns false if the test did not pass
func memtest[T word](dev *Device, width int, pattern T,
	write func(addr uint32, v T) error,
	read func(addr uint32) (T, error)) bool {

	step := uint32(width / 8)
	start := dev.MappedStart()
	end := dev.MappedEnd()

	for addr := start; addr < end; addr += step {
		if err := write(addr, pattern); err != nil {
			dev.latch(MemtestFault{Width: width, Address: addr, Err: err})
			return false
		}
	}

	for addr := start; addr < end; addr += step {
		v, err := read(addr)
		if err != nil {
			dev.latch(MemtestFault{Width: width, Address: addr, Err: err})
			return false
		}
		if v != pattern {
			dev.latch(MemtestFail{
				Width:   width,
				Address: addr,
				Written: uint32(pattern),
				Read:    uint32(v),
			})
			return false
		}
	}

	return true
}

func (dev *Device) memtest32() bool {
	return memtest(dev, 32, pattern32, dev.window.Write32, dev.window.Read32)
}

func (dev *Device) memtest16() bool {
	return memtest(dev, 16, pattern16, dev.window.Write16, dev.window.Read16)
}

func (dev *Device) memtest8() bool {
	return memtest(dev, 8, pattern8, dev.window.Write8, dev.window.Read8)
}

// SelfTest writes and reads every address of the memory mapped RAM, with
// 32bit, 16bit and 8bit accesses. All three widths are tested even if an
// earlier width fails. The contents of the RAM are lost.
//
// Returns true if the self test passed and no failure has been recorded at
// any time.
func (dev *Device) SelfTest() bool {
	if dev.window == nil {
		dev.latch(MemtestFault{Width: 32, Address: dev.MappedStart(), Err: curated.Errorf(NotMapped)})
		return false
	}

	for _, t := range []struct {
		width int
		fn    func() bool
	}{
		{width: 32, fn: dev.memtest32},
		{width: 16, fn: dev.memtest16},
		{width: 8, fn: dev.memtest8},
	} {
		if t.fn() {
			logger.Logf(dev.env, "spiram", "memtest%d ok", t.width)
		}
	}

	dev.latch(SelfTestPass{})

	_, ok := dev.record.Status.(SelfTestPass)
	return ok
}
