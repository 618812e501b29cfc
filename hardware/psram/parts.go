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

// Instructions understood by the serial RAM.
const (
	CmdRead      = 0x03
	CmdFastRead  = 0x0b
	CmdQuadRead  = 0xeb
	CmdWrite     = 0x02
	CmdQuadWrite = 0x38
	CmdQuadOn    = 0x35
	CmdQuadOff   = 0xf5
	CmdResetEn   = 0x66
	CmdReset     = 0x99
	CmdBurstLen  = 0xc0
	CmdReadID    = 0x9f
)

// wait cycles for the fast read instruction in SPI and QPI mode
const (
	fastReadWaitSPI = 8
	fastReadWaitQPI = 4
)

// IDLength is the number of bytes returned by the READ_ID instruction.
const IDLength = 8

// Part describes a serial RAM part.
type Part struct {
	Name string

	// response to READ_ID. the first byte is the manufacturer ID and the
	// second is the known good die value. the remaining bytes are the EID
	ID [IDLength]byte

	Size uint32

	// wait cycles between the address and data phases of QUAD_READ
	WaitCycles int

	// number of data bytes that can be transferred in a single assertion of
	// chip select before refresh is lost. zero means unlimited
	RefreshBudget int
}

// KnownGoodDie is the value of the second ID byte for a part that passed
// the manufacturer's test.
const KnownGoodDie = 0x5d

// Parts is the catalogue of supported parts.
var Parts = map[string]Part{
	"ESP-PSRAM64H": {
		Name:          "ESP-PSRAM64H",
		ID:            [IDLength]byte{0x0d, 0x5d, 0x52, 0xa2, 0x64, 0x31, 0x91, 0x31},
		Size:          0x00800000,
		WaitCycles:    6,
		RefreshBudget: 4096,
	},
	"APS6404L": {
		Name:          "APS6404L",
		ID:            [IDLength]byte{0x0d, 0x5d, 0x53, 0x1a, 0x40, 0x87, 0x24, 0x6b},
		Size:          0x00800000,
		WaitCycles:    6,
		RefreshBudget: 4096,
	},
	"APS1604M": {
		Name:          "APS1604M",
		ID:            [IDLength]byte{0x0d, 0x5d, 0x41, 0x02, 0x16, 0x90, 0x33, 0x0c},
		Size:          0x00200000,
		WaitCycles:    6,
		RefreshBudget: 4096,
	},
}
