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

// Phase of a bus transaction.
type Phase int

// List of valid Phase values.
const (
	PhaseInit Phase = iota
	PhaseCommand
	PhaseTransmit
	PhaseReceive
	PhaseMapped
	PhaseWindow
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseCommand:
		return "command"
	case PhaseTransmit:
		return "transmit"
	case PhaseReceive:
		return "receive"
	case PhaseMapped:
		return "memory mapped"
	case PhaseWindow:
		return "window"
	}
	return "unknown"
}

// Sentinal error patterns returned by controllers.
const (
	Timeout        = "ospi: timeout during %s phase"
	NotInitialised = "ospi: controller not initialised"
	Busy           = "ospi: controller is memory mapped"
	NoCommand      = "ospi: %s phase without command"
	DataLength     = "ospi: data length %d does not match command (%d)"
	NoTemplate     = "ospi: no %s template"
	InvalidConfig  = "ospi: invalid configuration: %v"
	InvalidCommand = "ospi: invalid command: %v"
	HardFault      = "ospi: hard fault at %#08x: %v"
)
