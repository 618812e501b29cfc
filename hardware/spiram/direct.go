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
	"encoding/binary"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

func (dev *Device) checkDirect(addr uint32, n int) error {
	if dev.mode != QuadLine {
		return curated.Errorf(NotReady, dev.mode)
	}
	if n < 0 || uint64(addr)+uint64(n) > uint64(dev.mmap.Device.Size) {
		return curated.Errorf(OutOfRange, addr, n)
	}
	return nil
}

// Read n bytes from the device, starting at the address. The address is an
// offset into the device and not an address in the memory mapped window.
func (dev *Device) Read(addr uint32, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := dev.ReadInto(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadInto fills the buffer with data from the device, starting at the
// address. Transfers longer than ospi.MaxData are made with more than one
// transaction.
func (dev *Device) ReadInto(addr uint32, buf []byte) error {
	if err := dev.checkDirect(addr, len(buf)); err != nil {
		return err
	}
	for len(buf) > 0 {
		n := min(len(buf), ospi.MaxData)
		if err := dev.execute(read(addr, n), buf[:n]); err != nil {
			return err
		}
		buf = buf[n:]
		addr += uint32(n)
	}
	return nil
}

// Write data to the device, starting at the address.
func (dev *Device) Write(addr uint32, data []byte) error {
	if err := dev.checkDirect(addr, len(data)); err != nil {
		return err
	}
	for len(data) > 0 {
		n := min(len(data), ospi.MaxData)
		if err := dev.execute(write(addr, n), data[:n]); err != nil {
			return err
		}
		data = data[n:]
		addr += uint32(n)
	}
	return nil
}

// value written by the clear pass
const clearValue = 0xdeadbeef

// size of each write during the clear pass
const clearBurst = 32

// clear fills the device with clearValue. the clear is attempted regardless
// of the mode the driver thinks the device is in.
func (dev *Device) clear() {
	var src [clearBurst]byte
	for i := 0; i < len(src); i += 4 {
		binary.LittleEndian.PutUint32(src[i:], clearValue)
	}

	var failures int

	for addr := uint32(0); addr < dev.mmap.Device.Size; addr += clearBurst {
		if err := dev.execute(write(addr, len(src)), src[:]); err != nil {
			dev.latch(ClearFail{Address: addr, Err: err})
			failures++
		}
	}

	if failures > 1 {
		logger.Logf(dev.env, "spiram", "clear failed for %d bursts", failures)
	}
}
