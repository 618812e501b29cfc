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

package emulated

import (
	"encoding/binary"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
)

// window is the memory mapped window of the emulated controller.
type window struct {
	ctl *Controller
}

// Origin implements the ospi.Window interface.
func (w *window) Origin() uint32 {
	return w.ctl.origin
}

func (w *window) access(addr uint32, data []byte, write bool) error {
	ctl := w.ctl

	if ctl.mpu != nil {
		if err := ctl.mpu.Check(addr, len(data)); err != nil {
			return curated.Errorf(ospi.HardFault, addr, err)
		}
	}

	size := uint64(1) << ctl.cfg.DeviceSize
	if addr < ctl.origin || uint64(addr-ctl.origin)+uint64(len(data)) > size {
		return curated.Errorf(ospi.HardFault, addr, "outside of device")
	}

	tmpl := *ctl.readTemplate
	if write {
		tmpl = *ctl.writeTemplate
	}

	if err := ctl.operation(Operation{Phase: ospi.PhaseWindow, Command: tmpl, Address: addr}); err != nil {
		return curated.Errorf(ospi.HardFault, addr, err)
	}

	if write && ctl.strobeErratum && !tmpl.DQS {
		return curated.Errorf(ospi.HardFault, addr, "memory mapped write with data strobe disabled")
	}

	devAddr := addr - ctl.origin

	if ctl.mappedCfg.TimeoutActivation {
		ctl.frames(tmpl, devAddr, data, write)
		return nil
	}

	// chip select is held after the access. the next sequential access in
	// the same direction continues the burst
	if ctl.held && ctl.heldNext == devAddr && ctl.heldOp == write && !ctl.crossesBoundary(devAddr, len(data)) {
		f := ospi.Frame{Continued: true, Data: data, Write: write}
		ctl.target.Transfer(&f)
	} else {
		ctl.release()
		f := ospi.FrameFromCommand(tmpl)
		f.Address = devAddr
		f.Data = data
		f.Write = write
		ctl.target.Transfer(&f)
	}

	ctl.held = true
	ctl.heldNext = devAddr + uint32(len(data))
	ctl.heldOp = write

	return nil
}

func (ctl *Controller) crossesBoundary(addr uint32, n int) bool {
	if ctl.cfg.ChipSelectBoundary == 0 {
		return false
	}
	boundary := uint32(1) << ctl.cfg.ChipSelectBoundary
	return addr%boundary == 0 || addr%boundary+uint32(n) > boundary
}

// Read8 implements the ospi.Window interface.
func (w *window) Read8(addr uint32) (uint8, error) {
	var b [1]byte
	err := w.access(addr, b[:], false)
	return b[0], err
}

// Read16 implements the ospi.Window interface.
func (w *window) Read16(addr uint32) (uint16, error) {
	var b [2]byte
	err := w.access(addr, b[:], false)
	return binary.LittleEndian.Uint16(b[:]), err
}

// Read32 implements the ospi.Window interface.
func (w *window) Read32(addr uint32) (uint32, error) {
	var b [4]byte
	err := w.access(addr, b[:], false)
	return binary.LittleEndian.Uint32(b[:]), err
}

// Write8 implements the ospi.Window interface.
func (w *window) Write8(addr uint32, v uint8) error {
	return w.access(addr, []byte{v}, true)
}

// Write16 implements the ospi.Window interface.
func (w *window) Write16(addr uint32, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.access(addr, b[:], true)
}

// Write32 implements the ospi.Window interface.
func (w *window) Write32(addr uint32, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.access(addr, b[:], true)
}
