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

package psram_test

import (
	"testing"

	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/hardware/psram"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/random"
	"github.com/jetsetilly/spiram/test"
)

func newDevice(t *testing.T, mode psram.Mode) *psram.Device {
	t.Helper()
	part := psram.Parts["ESP-PSRAM64H"]
	part.Size = 0x10000
	return psram.NewDevice(logger.Allow, part, mode)
}

func instruction(dev *psram.Device, ins byte, lines ospi.Lines) {
	dev.Transfer(&ospi.Frame{Instruction: ins, InstructionLines: lines})
	dev.Deselect()
}

func quadWrite(dev *psram.Device, addr uint32, data []byte) {
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdQuadWrite,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		Address:          addr,
		DataLines:        ospi.Lines4,
		Data:             data,
		Write:            true,
	})
	dev.Deselect()
}

func quadRead(dev *psram.Device, addr uint32, n int) []byte {
	data := make([]byte, n)
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdQuadRead,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		Address:          addr,
		DummyCycles:      6,
		DataLines:        ospi.Lines4,
		Data:             data,
	})
	dev.Deselect()
	return data
}

func TestReset(t *testing.T) {
	dev := newDevice(t, psram.QPI)

	// single line reset is not recognised in QPI mode
	instruction(dev, psram.CmdResetEn, ospi.Lines1)
	instruction(dev, psram.CmdReset, ospi.Lines1)
	test.ExpectEquality(t, dev.Mode(), psram.QPI)

	// reset without reset enable is ignored
	instruction(dev, psram.CmdReset, ospi.Lines4)
	test.ExpectEquality(t, dev.Mode(), psram.QPI)

	// reset enable must immediately precede reset
	instruction(dev, psram.CmdResetEn, ospi.Lines4)
	instruction(dev, psram.CmdBurstLen, ospi.Lines4)
	instruction(dev, psram.CmdReset, ospi.Lines4)
	test.ExpectEquality(t, dev.Mode(), psram.QPI)

	instruction(dev, psram.CmdResetEn, ospi.Lines4)
	instruction(dev, psram.CmdReset, ospi.Lines4)
	test.ExpectEquality(t, dev.Mode(), psram.SPI)
}

func TestQuadOnOff(t *testing.T) {
	dev := newDevice(t, psram.SPI)

	instruction(dev, psram.CmdQuadOn, ospi.Lines4)
	test.ExpectEquality(t, dev.Mode(), psram.SPI)

	instruction(dev, psram.CmdQuadOn, ospi.Lines1)
	test.ExpectEquality(t, dev.Mode(), psram.QPI)

	instruction(dev, psram.CmdQuadOff, ospi.Lines4)
	test.ExpectEquality(t, dev.Mode(), psram.SPI)
}

func TestReadID(t *testing.T) {
	dev := newDevice(t, psram.SPI)

	id := make([]byte, psram.IDLength)
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdReadID,
		InstructionLines: ospi.Lines1,
		AddressLines:     ospi.Lines1,
		DataLines:        ospi.Lines1,
		Data:             id,
	})
	dev.Deselect()
	test.ExpectEquality(t, [psram.IDLength]byte(id), psram.Parts["ESP-PSRAM64H"].ID)

	// READ_ID does not work in QPI mode
	instruction(dev, psram.CmdQuadOn, ospi.Lines1)
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdReadID,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		DataLines:        ospi.Lines4,
		Data:             id,
	})
	dev.Deselect()
	test.ExpectEquality(t, [psram.IDLength]byte(id), [psram.IDLength]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
}

func TestReadWrite(t *testing.T) {
	dev := newDevice(t, psram.SPI)
	instruction(dev, psram.CmdQuadOn, ospi.Lines1)

	quadWrite(dev, 0x100, []byte{0x01, 0x02, 0x03, 0x04})
	test.ExpectEquality(t, string(quadRead(dev, 0x100, 4)), string([]byte{0x01, 0x02, 0x03, 0x04}))
	test.ExpectEquality(t, dev.Peek(0x102), uint8(0x03))

	// wrong number of wait cycles
	data := make([]byte, 2)
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdQuadRead,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		Address:          0x100,
		DummyCycles:      4,
		DataLines:        ospi.Lines4,
		Data:             data,
	})
	dev.Deselect()
	test.ExpectEquality(t, string(data), string([]byte{0xff, 0xff}))
}

func TestWrap(t *testing.T) {
	dev := newDevice(t, psram.SPI)
	instruction(dev, psram.CmdQuadOn, ospi.Lines1)

	// a burst wraps at the end of the 1KiB page
	quadWrite(dev, 0x3fe, []byte{0xaa, 0xbb, 0xcc, 0xdd})
	test.ExpectEquality(t, dev.Peek(0x3ff), uint8(0xbb))
	test.ExpectEquality(t, dev.Peek(0x000), uint8(0xcc))
	test.ExpectEquality(t, dev.Peek(0x001), uint8(0xdd))

	// short wrap
	instruction(dev, psram.CmdBurstLen, ospi.Lines4)
	quadWrite(dev, 0x41f, []byte{0x11, 0x22})
	test.ExpectEquality(t, dev.Peek(0x41f), uint8(0x11))
	test.ExpectEquality(t, dev.Peek(0x400), uint8(0x22))
}

func TestStuckBit(t *testing.T) {
	dev := newDevice(t, psram.QPI)

	dev.StickBit(0x20, 0, false)
	quadWrite(dev, 0x20, []byte{0xa5})
	test.ExpectEquality(t, quadRead(dev, 0x20, 1)[0], uint8(0xa4))

	dev.StickBit(0x21, 7, true)
	quadWrite(dev, 0x21, []byte{0x5a})
	test.ExpectEquality(t, quadRead(dev, 0x21, 1)[0], uint8(0xda))
}

func TestRefresh(t *testing.T) {
	dev := newDevice(t, psram.QPI)
	budget := dev.Part().RefreshBudget

	data := make([]byte, budget)
	for i := range data {
		data[i] = 0xa5
	}
	quadWrite(dev, 0, data)

	// chip select is held for longer than the budget
	dev.Transfer(&ospi.Frame{
		Instruction:      psram.CmdQuadWrite,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		Address:          0x2000,
		DataLines:        ospi.Lines4,
		Data:             data,
		Write:            true,
	})
	dev.Transfer(&ospi.Frame{Continued: true, Data: []byte{0x5a}, Write: true})
	dev.Deselect()

	// the burst has wrapped around the page back to the start address. the
	// cell decays rather than taking the new value
	test.ExpectEquality(t, dev.Peek(0x2000), uint8(0x00))
	test.ExpectEquality(t, dev.Peek(0x2001), uint8(0xa5))
}

func TestRandomise(t *testing.T) {
	a := newDevice(t, psram.SPI)
	b := newDevice(t, psram.SPI)

	rnd := random.NewRandom()
	rnd.ZeroSeed = true
	a.Randomise(rnd)
	b.Randomise(rnd)

	same := true
	var zero int
	for addr := uint32(0); addr < 0x10000; addr++ {
		same = same && a.Peek(addr) == b.Peek(addr)
		if a.Peek(addr) == 0 {
			zero++
		}
	}
	test.ExpectSuccess(t, same)
	test.ExpectInequality(t, zero, 0x10000)
}
