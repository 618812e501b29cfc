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

package ospi

// Frame is what a device sees during a single assertion of chip select.
type Frame struct {
	// the frame is a continuation of the previous frame. chip select has
	// been held and the data phase continues from where it left off. all
	// fields other than Data and Write should be ignored
	Continued bool

	Instruction      byte
	InstructionLines Lines

	AddressLines Lines
	Address      uint32

	DummyCycles int

	// the data phase. Data is filled in by the device if Write is false
	DataLines Lines
	Data      []byte
	Write     bool
}

// Target is implemented by devices attached to an emulated bus.
type Target interface {
	// Transfer is called with chip select asserted
	Transfer(f *Frame)

	// Deselect is called when chip select is released
	Deselect()
}

// FrameFromCommand creates a frame with the instruction, address and dummy
// phases of the command.
func FrameFromCommand(cmd Command) Frame {
	return Frame{
		Instruction:      cmd.Instruction,
		InstructionLines: cmd.InstructionLines,
		AddressLines:     cmd.AddressLines,
		Address:          cmd.Address,
		DummyCycles:      cmd.DummyCycles,
		DataLines:        cmd.DataLines,
	}
}
