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

import (
	"fmt"
	"strings"
	"time"
)

// Lines is the number of data lines used by one phase of a command.
type Lines int

// List of valid Lines values.
const (
	LinesNone Lines = 0
	Lines1    Lines = 1
	Lines4    Lines = 4
)

func (l Lines) String() string {
	if l == LinesNone {
		return "none"
	}
	return fmt.Sprintf("%d-line", int(l))
}

// OperationType distinguishes regular commands from the configuration of the
// memory mapped templates.
type OperationType int

// List of valid OperationType values.
const (
	CommonCfg OperationType = iota
	ReadCfg
	WriteCfg
)

func (o OperationType) String() string {
	switch o {
	case CommonCfg:
		return "common"
	case ReadCfg:
		return "read cfg"
	case WriteCfg:
		return "write cfg"
	}
	return "unknown"
}

// MaxData is the largest data phase that every Controller implementation
// accepts. Longer transfers must be split into more than one command.
const MaxData = 1 << 16

// AddressSize24 is the only address size used by serial RAM devices.
const AddressSize24 = 24

// Command describes the instruction, address and dummy phases of a bus
// transaction and the shape of the data phase that follows it.
type Command struct {
	OperationType OperationType

	Instruction      byte
	InstructionLines Lines

	AddressLines Lines
	AddressSize  int
	Address      uint32

	DataLines Lines
	NbData    int

	// data strobe
	DQS bool

	DummyCycles int
}

func (cmd Command) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %#02x (%s)", cmd.OperationType, cmd.Instruction, cmd.InstructionLines))
	if cmd.AddressLines != LinesNone {
		s.WriteString(fmt.Sprintf(" addr %#06x (%s)", cmd.Address, cmd.AddressLines))
	}
	if cmd.DummyCycles > 0 {
		s.WriteString(fmt.Sprintf(" dummy %d", cmd.DummyCycles))
	}
	if cmd.DataLines != LinesNone {
		s.WriteString(fmt.Sprintf(" data %d (%s)", cmd.NbData, cmd.DataLines))
	}
	if cmd.DQS {
		s.WriteString(" dqs")
	}
	return s.String()
}

func validLines(l Lines) bool {
	return l == LinesNone || l == Lines1 || l == Lines4
}

// Validate checks the command for consistency. It does not check whether the
// command makes sense to the device on the bus.
func (cmd Command) Validate() error {
	if cmd.InstructionLines == LinesNone || !validLines(cmd.InstructionLines) {
		return fmt.Errorf("instruction lines (%d)", cmd.InstructionLines)
	}
	if !validLines(cmd.AddressLines) {
		return fmt.Errorf("address lines (%d)", cmd.AddressLines)
	}
	if !validLines(cmd.DataLines) {
		return fmt.Errorf("data lines (%d)", cmd.DataLines)
	}
	if cmd.AddressLines != LinesNone {
		if cmd.AddressSize != AddressSize24 {
			return fmt.Errorf("address size (%d)", cmd.AddressSize)
		}
		if cmd.Address >= 1<<AddressSize24 {
			return fmt.Errorf("address out of range (%#x)", cmd.Address)
		}
	}
	if cmd.DummyCycles < 0 || cmd.DummyCycles > 31 {
		return fmt.Errorf("dummy cycles (%d)", cmd.DummyCycles)
	}
	if cmd.OperationType == CommonCfg {
		if cmd.DataLines == LinesNone && cmd.NbData != 0 {
			return fmt.Errorf("data length without data lines")
		}
		if cmd.DataLines != LinesNone && cmd.NbData <= 0 {
			return fmt.Errorf("data lines without data length")
		}
		if cmd.NbData > MaxData {
			return fmt.Errorf("data length (%d) exceeds %d", cmd.NbData, MaxData)
		}
	}
	return nil
}

// Config is the controller configuration given to Controller.Init().
type Config struct {
	// log2 of the device size in bytes
	DeviceSize int

	// minimum number of cycles chip select is high between commands
	ChipSelectHighTime int

	// the bus clock is the kernel clock divided by the prescaler
	ClockPrescaler int

	// log2 of the number of bytes after which chip select is released and
	// the command reissued. zero disables the boundary
	ChipSelectBoundary int

	// sample data half a cycle later
	SampleShifting bool
}

// Validate checks the configuration values are in range.
func (cfg Config) Validate() error {
	if cfg.DeviceSize < 1 || cfg.DeviceSize > 32 {
		return fmt.Errorf("device size (%d)", cfg.DeviceSize)
	}
	if cfg.ChipSelectHighTime < 1 || cfg.ChipSelectHighTime > 8 {
		return fmt.Errorf("chip select high time (%d)", cfg.ChipSelectHighTime)
	}
	if cfg.ClockPrescaler < 1 || cfg.ClockPrescaler > 256 {
		return fmt.Errorf("clock prescaler (%d)", cfg.ClockPrescaler)
	}
	if cfg.ChipSelectBoundary < 0 || cfg.ChipSelectBoundary > 31 {
		return fmt.Errorf("chip select boundary (%d)", cfg.ChipSelectBoundary)
	}
	return nil
}

// MappedConfig is given to Controller.MemoryMapped().
type MappedConfig struct {
	// release chip select when the bus has been idle for TimeoutPeriod
	// cycles. serial RAM will not refresh while chip select is held
	TimeoutActivation bool
	TimeoutPeriod     int
}

// Controller is the interface to a bus controller.
type Controller interface {
	Init(cfg Config) error

	// Command issues the instruction, address and dummy phases. If the
	// command has a data phase then it must be followed by a call to
	// Transmit() or Receive() with a buffer of exactly NbData bytes
	Command(cmd Command, timeout time.Duration) error
	Transmit(data []byte, timeout time.Duration) error
	Receive(data []byte, timeout time.Duration) error

	// MemoryMapped switches the controller into memory mapped mode using
	// the most recent read and write templates
	MemoryMapped(cfg MappedConfig) (Window, error)
}

// Window is the memory mapped address range of the controller. Addresses are
// absolute and values are little-endian, as seen by the CPU. Errors are hard
// faults.
type Window interface {
	Origin() uint32
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)
	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error
}
