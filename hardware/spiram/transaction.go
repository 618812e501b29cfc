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
	"fmt"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
)

// instructions sent to the serial RAM.
const (
	cmdQuadRead  = 0xeb
	cmdQuadWrite = 0x38
	cmdQuadOn    = 0x35
	cmdResetEn   = 0x66
	cmdReset     = 0x99
	cmdReadID    = 0x9f
)

// wait cycles between address and data phases of a quad read
const readDummyCycles = 6

// IDLength is the number of identity bytes read from the device.
const IDLength = 8

// Kind of transaction.
type Kind int

// List of valid Kind values.
const (
	Identify Kind = iota
	Read
	Write
	ReadTemplate
	WriteTemplate
	Control
)

func (k Kind) String() string {
	switch k {
	case Identify:
		return "identify"
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadTemplate:
		return "read template"
	case WriteTemplate:
		return "write template"
	case Control:
		return "control"
	}
	return "unknown"
}

// writes to the device must have the data strobe enabled and reads must have
// it disabled. see errata 2.7.8 in ES0478
func (k Kind) isWrite() bool {
	return k == Write || k == WriteTemplate
}

// Transaction describes a single bus operation. Transactions are created by
// the functions in this file and are not changed once created.
type Transaction struct {
	Kind Kind

	Instruction      byte
	InstructionLines ospi.Lines
	AddressLines     ospi.Lines
	AddressBits      int
	DataLines        ospi.Lines
	DataStrobe       bool

	Address     uint32
	Length      int
	DummyCycles int
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %#02x addr %#06x len %d", tx.Kind, tx.Instruction, tx.Address, tx.Length)
}

// control transactions have no address or data phase.
func control(instruction byte, lines ospi.Lines) Transaction {
	return Transaction{
		Kind:             Control,
		Instruction:      instruction,
		InstructionLines: lines,
		AddressBits:      ospi.AddressSize24,
	}
}

// identification is only possible in single line mode.
func identify() Transaction {
	return Transaction{
		Kind:             Identify,
		Instruction:      cmdReadID,
		InstructionLines: ospi.Lines1,
		AddressLines:     ospi.Lines1,
		AddressBits:      ospi.AddressSize24,
		DataLines:        ospi.Lines1,
		Length:           IDLength,
	}
}

func quad(kind Kind, instruction byte, addr uint32, n int, dummy int) Transaction {
	return Transaction{
		Kind:             kind,
		Instruction:      instruction,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		AddressBits:      ospi.AddressSize24,
		DataLines:        ospi.Lines4,
		DataStrobe:       kind.isWrite(),
		Address:          addr,
		Length:           n,
		DummyCycles:      dummy,
	}
}

func read(addr uint32, n int) Transaction {
	return quad(Read, cmdQuadRead, addr, n, readDummyCycles)
}

func write(addr uint32, n int) Transaction {
	return quad(Write, cmdQuadWrite, addr, n, 0)
}

func readTemplate() Transaction {
	return quad(ReadTemplate, cmdQuadRead, 0, 0, readDummyCycles)
}

func writeTemplate() Transaction {
	return quad(WriteTemplate, cmdQuadWrite, 0, 0, 0)
}

func (tx Transaction) validate() error {
	if tx.DataStrobe != tx.Kind.isWrite() {
		return fmt.Errorf("%s with data strobe %v", tx.Kind, tx.DataStrobe)
	}
	if tx.AddressBits != ospi.AddressSize24 {
		return fmt.Errorf("address size of %d bits", tx.AddressBits)
	}
	if tx.Address >= 1<<ospi.AddressSize24 {
		return fmt.Errorf("address %#x out of range", tx.Address)
	}

	switch tx.Kind {
	case Control:
		if tx.InstructionLines != ospi.Lines1 && tx.InstructionLines != ospi.Lines4 {
			return fmt.Errorf("control on %s", tx.InstructionLines)
		}
		if tx.AddressLines != ospi.LinesNone || tx.DataLines != ospi.LinesNone || tx.Length != 0 {
			return fmt.Errorf("control with address or data phase")
		}

	case Identify:
		if tx.InstructionLines != ospi.Lines1 || tx.AddressLines != ospi.Lines1 || tx.DataLines != ospi.Lines1 {
			return fmt.Errorf("identify must be single line")
		}
		if tx.Length != IDLength {
			return fmt.Errorf("identify length %d", tx.Length)
		}

	case Read, Write, ReadTemplate, WriteTemplate:
		if tx.InstructionLines != ospi.Lines4 || tx.AddressLines != ospi.Lines4 || tx.DataLines != ospi.Lines4 {
			return fmt.Errorf("%s must be quad line", tx.Kind)
		}
		if tx.Kind == Read || tx.Kind == Write {
			if tx.Length <= 0 {
				return fmt.Errorf("%s length %d", tx.Kind, tx.Length)
			}
		} else if tx.Length != 0 {
			return fmt.Errorf("%s with length", tx.Kind)
		}

	default:
		return fmt.Errorf("unknown kind (%d)", tx.Kind)
	}

	return nil
}

func (tx Transaction) command() ospi.Command {
	cmd := ospi.Command{
		Instruction:      tx.Instruction,
		InstructionLines: tx.InstructionLines,
		AddressLines:     tx.AddressLines,
		AddressSize:      tx.AddressBits,
		Address:          tx.Address,
		DataLines:        tx.DataLines,
		NbData:           tx.Length,
		DQS:              tx.DataStrobe,
		DummyCycles:      tx.DummyCycles,
	}

	switch tx.Kind {
	case ReadTemplate:
		cmd.OperationType = ospi.ReadCfg
	case WriteTemplate:
		cmd.OperationType = ospi.WriteCfg
	default:
		cmd.OperationType = ospi.CommonCfg
	}

	return cmd
}

// execute the transaction. the buffer must be exactly the length of the
// transaction. errors from the command phase are wrapped in the CommandPhase
// pattern and errors from the data phase in the DataPhase pattern.
func (dev *Device) execute(tx Transaction, buf []byte) error {
	if err := dev.issue(tx, buf); err != nil {
		return err
	}
	return dev.transfer(tx, buf)
}

// issue the command phase of the transaction.
func (dev *Device) issue(tx Transaction, buf []byte) error {
	if err := tx.validate(); err != nil {
		return curated.Errorf(InvalidTransaction, err)
	}
	if len(buf) != tx.Length {
		return curated.Errorf(InvalidTransaction, fmt.Errorf("buffer length %d for %s", len(buf), tx))
	}

	if err := dev.ctl.Command(tx.command(), dev.env.Prefs.PhaseTimeout()); err != nil {
		return curated.Errorf(CommandPhase, err)
	}

	return nil
}

// transfer performs the data phase of a transaction that has been issued.
func (dev *Device) transfer(tx Transaction, buf []byte) error {
	if tx.Length == 0 {
		return nil
	}

	timeout := dev.env.Prefs.PhaseTimeout()

	var err error
	if tx.Kind == Write {
		err = dev.ctl.Transmit(buf, timeout)
	} else {
		err = dev.ctl.Receive(buf, timeout)
	}
	if err != nil {
		return curated.Errorf(DataPhase, err)
	}

	return nil
}
