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

package psram

import (
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/random"
)

// Mode of the serial RAM.
type Mode int

// List of valid Mode values.
const (
	SPI Mode = iota
	QPI
)

func (m Mode) String() string {
	switch m {
	case SPI:
		return "SPI"
	case QPI:
		return "QPI"
	}
	return "unknown"
}

// the number of lines an instruction must arrive on to be recognised
func (m Mode) lines() ospi.Lines {
	if m == QPI {
		return ospi.Lines4
	}
	return ospi.Lines1
}

// wrap sizes selected by the BURST_LEN instruction
const (
	wrapPage  = 1024
	wrapShort = 32
)

// value seen on the bus when the device is not driving the data lines
const floating = 0xff

type stuck struct {
	mask  uint8
	value uint8
}

// Device is an emulated serial RAM. It implements the ospi.Target interface.
type Device struct {
	perm logger.Permission
	part Part
	mode Mode

	mem  []uint8
	wrap uint32

	// the previous frame was RST_EN
	resetEnabled bool

	// state of the current assertion of chip select
	selected bool
	active   bool
	write    bool
	addr     uint32
	burst    int

	stuck map[uint32]stuck
}

// NewDevice is the preferred method of initialisation for the Device type.
// The powerOn argument is the mode the device is in when the driver first
// talks to it. A cold start will be in SPI mode but a warm reboot of the
// microcontroller will leave the device in whatever mode it was last in.
func NewDevice(perm logger.Permission, part Part, powerOn Mode) *Device {
	dev := &Device{
		perm:  perm,
		part:  part,
		mode:  powerOn,
		mem:   make([]uint8, part.Size),
		wrap:  wrapPage,
		stuck: make(map[uint32]stuck),
	}

	dev.Randomise(random.NewRandom())

	return dev
}

// Randomise the contents of the RAM. The contents of DRAM are undefined at
// power on.
func (dev *Device) Randomise(rnd *random.Random) {
	rnd.Fill(int64(dev.part.Size), dev.mem)
}

func (dev *Device) String() string {
	return dev.part.Name
}

// Part returns the part description of the device.
func (dev *Device) Part() Part {
	return dev.part
}

// Mode returns the current mode of the device.
func (dev *Device) Mode() Mode {
	return dev.mode
}

// StickBit causes a bit at the address to always read as the value given.
func (dev *Device) StickBit(addr uint32, bit int, value bool) {
	addr &= dev.part.Size - 1
	s := dev.stuck[addr]
	s.mask |= 1 << bit
	if value {
		s.value |= 1 << bit
	} else {
		s.value &^= 1 << bit
	}
	dev.stuck[addr] = s
}

// Peek returns the value at the address as it would be read by the bus.
func (dev *Device) Peek(addr uint32) uint8 {
	addr &= dev.part.Size - 1
	v := dev.mem[addr]
	if s, ok := dev.stuck[addr]; ok {
		v = (v &^ s.mask) | (s.value & s.mask)
	}
	return v
}

// Poke sets the value at the address without any bus activity.
func (dev *Device) Poke(addr uint32, v uint8) {
	dev.mem[addr&(dev.part.Size-1)] = v
}

func (dev *Device) reset() {
	dev.mode = SPI
	dev.wrap = wrapPage
	logger.Logf(dev.perm, "psram", "%s reset", dev.part.Name)
}

// Deselect implements the ospi.Target interface.
func (dev *Device) Deselect() {
	dev.selected = false
	dev.active = false
}

// Transfer implements the ospi.Target interface.
func (dev *Device) Transfer(f *ospi.Frame) {
	if f.Continued && dev.selected {
		if dev.active && f.Write == dev.write {
			dev.data(f.Data)
		} else {
			floatBus(f)
		}
		return
	}

	dev.selected = true
	dev.active = false
	dev.burst = 0

	resetEnabled := dev.resetEnabled
	dev.resetEnabled = false

	// instruction on the wrong number of lines is not recognised
	if f.InstructionLines != dev.mode.lines() {
		floatBus(f)
		return
	}

	switch f.Instruction {
	case CmdResetEn:
		dev.resetEnabled = true

	case CmdReset:
		if resetEnabled {
			dev.reset()
		}

	case CmdQuadOn:
		if dev.mode == SPI {
			dev.mode = QPI
			logger.Logf(dev.perm, "psram", "%s entered QPI mode", dev.part.Name)
		}

	case CmdQuadOff:
		if dev.mode == QPI {
			dev.mode = SPI
			logger.Logf(dev.perm, "psram", "%s entered SPI mode", dev.part.Name)
		}

	case CmdBurstLen:
		if dev.wrap == wrapPage {
			dev.wrap = wrapShort
		} else {
			dev.wrap = wrapPage
		}

	case CmdReadID:
		if dev.mode != SPI || !dev.accept(f, ospi.Lines1, ospi.Lines1, 0, false) {
			floatBus(f)
			return
		}
		for i := range f.Data {
			f.Data[i] = dev.part.ID[i%IDLength]
		}

	case CmdRead:
		if dev.mode != SPI || !dev.accept(f, ospi.Lines1, ospi.Lines1, 0, false) {
			floatBus(f)
			return
		}
		dev.data(f.Data)

	case CmdFastRead:
		var ok bool
		if dev.mode == SPI {
			ok = dev.accept(f, ospi.Lines1, ospi.Lines1, fastReadWaitSPI, false)
		} else {
			ok = dev.accept(f, ospi.Lines4, ospi.Lines4, fastReadWaitQPI, false)
		}
		if !ok {
			floatBus(f)
			return
		}
		dev.data(f.Data)

	case CmdQuadRead:
		if !dev.accept(f, ospi.Lines4, ospi.Lines4, dev.part.WaitCycles, false) {
			floatBus(f)
			return
		}
		dev.data(f.Data)

	case CmdWrite:
		if dev.mode != SPI || !dev.accept(f, ospi.Lines1, ospi.Lines1, 0, true) {
			return
		}
		dev.data(f.Data)

	case CmdQuadWrite:
		if !dev.accept(f, ospi.Lines4, ospi.Lines4, 0, true) {
			return
		}
		dev.data(f.Data)

	default:
		floatBus(f)
	}
}

// accept checks the shape of the frame against what the instruction requires
// and starts a data phase if it matches.
func (dev *Device) accept(f *ospi.Frame, addrLines ospi.Lines, dataLines ospi.Lines, wait int, write bool) bool {
	if f.AddressLines != addrLines || f.DataLines != dataLines || f.Write != write {
		logger.Logf(dev.perm, "psram", "instruction %#02x: unexpected frame shape", f.Instruction)
		return false
	}
	if f.DummyCycles != wait {
		logger.Logf(dev.perm, "psram", "instruction %#02x: expected %d wait cycles not %d", f.Instruction, wait, f.DummyCycles)
		return false
	}

	dev.active = true
	dev.write = write
	dev.addr = f.Address & (dev.part.Size - 1)
	return true
}

// data phase of the current assertion of chip select.
func (dev *Device) data(buf []uint8) {
	for i := range buf {
		if dev.part.RefreshBudget > 0 && dev.burst >= dev.part.RefreshBudget {
			if dev.burst == dev.part.RefreshBudget {
				logger.Logf(dev.perm, "psram", "%s chip select held too long. refresh lost", dev.part.Name)
			}
			dev.mem[dev.addr] = 0x00
			if !dev.write {
				buf[i] = 0x00
			}
		} else if dev.write {
			dev.mem[dev.addr] = buf[i]
		} else {
			buf[i] = dev.Peek(dev.addr)
		}

		dev.burst++
		dev.addr = ((dev.addr &^ (dev.wrap - 1)) | ((dev.addr + 1) & (dev.wrap - 1))) & (dev.part.Size - 1)
	}
}

// the device does not drive the data lines
func floatBus(f *ospi.Frame) {
	if f.Write {
		return
	}
	for i := range f.Data {
		f.Data[i] = floating
	}
}
