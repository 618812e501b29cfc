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

package bridge

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
)

// ProtocolVersion is the version of the protocol spoken by this package.
const ProtocolVersion = 1

const (
	headerSize = 64
	blockSize  = 64

	// the largest data phase accepted by the responder
	maxData = ospi.MaxData
)

var magic = [4]byte{'O', 'S', 'P', 'I'}

// header offsets
const (
	offOpcode  = 4
	offStatus  = 5
	offArg0    = 8
	offArg1    = 12
	offLength  = 16
	offParams  = 20
	offDetail  = 20
	offTimeout = 60
)

// Opcode identifies the request.
type Opcode byte

// List of valid Opcode values.
const (
	OpHello Opcode = iota
	OpInit
	OpCommand
	OpTransmit
	OpReceive
	OpMapped
	OpMPUDisable
	OpMPUEnable
	OpWindowRead
	OpWindowWrite
)

func (op Opcode) String() string {
	switch op {
	case OpHello:
		return "hello"
	case OpInit:
		return "init"
	case OpCommand:
		return "command"
	case OpTransmit:
		return "transmit"
	case OpReceive:
		return "receive"
	case OpMapped:
		return "memory mapped"
	case OpMPUDisable:
		return "mpu disable"
	case OpMPUEnable:
		return "mpu enable"
	case OpWindowRead:
		return "window read"
	case OpWindowWrite:
		return "window write"
	}
	return "unknown opcode"
}

// the bus phase performed by the request
func (op Opcode) phase() ospi.Phase {
	switch op {
	case OpInit:
		return ospi.PhaseInit
	case OpTransmit:
		return ospi.PhaseTransmit
	case OpReceive:
		return ospi.PhaseReceive
	case OpMapped:
		return ospi.PhaseMapped
	case OpWindowRead, OpWindowWrite:
		return ospi.PhaseWindow
	}
	return ospi.PhaseCommand
}

// status of a response.
type status byte

const (
	statusOK status = iota
	statusTimeout
	statusNotInitialised
	statusBusy
	statusNoCommand
	statusDataLength
	statusNoTemplate
	statusInvalidConfig
	statusInvalidCommand
	statusHardFault
	statusMPU
	statusProtocol
)

type header [headerSize]byte

func newHeader(op Opcode) header {
	var h header
	copy(h[:], magic[:])
	h[offOpcode] = byte(op)
	return h
}

func (h *header) valid() bool {
	return bytes.Equal(h[:len(magic)], magic[:])
}

func (h *header) opcode() Opcode {
	return Opcode(h[offOpcode])
}

func (h *header) status() status {
	return status(h[offStatus])
}

func (h *header) arg0() uint32 {
	return binary.BigEndian.Uint32(h[offArg0:])
}

func (h *header) arg1() uint32 {
	return binary.BigEndian.Uint32(h[offArg1:])
}

func (h *header) length() int {
	return int(binary.BigEndian.Uint32(h[offLength:]))
}

func (h *header) timeout() time.Duration {
	return time.Duration(binary.BigEndian.Uint32(h[offTimeout:])) * time.Millisecond
}

func (h *header) setArgs(arg0 uint32, arg1 uint32) {
	binary.BigEndian.PutUint32(h[offArg0:], arg0)
	binary.BigEndian.PutUint32(h[offArg1:], arg1)
}

func (h *header) setLength(n int) {
	binary.BigEndian.PutUint32(h[offLength:], uint32(n))
}

func (h *header) setTimeout(t time.Duration) {
	binary.BigEndian.PutUint32(h[offTimeout:], uint32(t.Milliseconds()))
}

// detail is the NUL terminated text in the parameter area
func (h *header) detail() string {
	d := h[offDetail:offTimeout]
	if i := bytes.IndexByte(d, 0); i >= 0 {
		d = d[:i]
	}
	return string(d)
}

func (h *header) setDetail(s string) {
	d := h[offDetail:offTimeout]
	for i := range d {
		d[i] = 0
	}
	copy(d[:len(d)-1], s)
}

// command parameters are packed into the parameter area. the address and
// data length are the arguments of the header
func (h *header) setCommand(cmd ospi.Command) {
	p := h[offParams:]
	p[0] = byte(cmd.OperationType)
	p[1] = cmd.Instruction
	p[2] = byte(cmd.InstructionLines)
	p[3] = byte(cmd.AddressLines)
	p[4] = byte(cmd.AddressSize)
	p[5] = byte(cmd.DataLines)
	if cmd.DQS {
		p[6] = 1
	}
	p[7] = byte(cmd.DummyCycles)
	h.setArgs(cmd.Address, uint32(cmd.NbData))
}

func (h *header) command() ospi.Command {
	p := h[offParams:]
	return ospi.Command{
		OperationType:    ospi.OperationType(p[0]),
		Instruction:      p[1],
		InstructionLines: ospi.Lines(p[2]),
		AddressLines:     ospi.Lines(p[3]),
		AddressSize:      int(p[4]),
		DataLines:        ospi.Lines(p[5]),
		DQS:              p[6] != 0,
		DummyCycles:      int(p[7]),
		Address:          h.arg0(),
		NbData:           int(h.arg1()),
	}
}

func (h *header) setConfig(cfg ospi.Config) {
	p := h[offParams:]
	p[0] = byte(cfg.DeviceSize)
	p[1] = byte(cfg.ChipSelectHighTime)
	p[2] = byte(cfg.ChipSelectBoundary)
	if cfg.SampleShifting {
		p[3] = 1
	}
	h.setArgs(uint32(cfg.ClockPrescaler), 0)
}

func (h *header) config() ospi.Config {
	p := h[offParams:]
	return ospi.Config{
		DeviceSize:         int(p[0]),
		ChipSelectHighTime: int(p[1]),
		ChipSelectBoundary: int(p[2]),
		SampleShifting:     p[3] != 0,
		ClockPrescaler:     int(h.arg0()),
	}
}

func (h *header) setMappedConfig(cfg ospi.MappedConfig) {
	if cfg.TimeoutActivation {
		h[offParams] = 1
	}
	h.setArgs(uint32(cfg.TimeoutPeriod), 0)
}

func (h *header) mappedConfig() ospi.MappedConfig {
	return ospi.MappedConfig{
		TimeoutActivation: h[offParams] != 0,
		TimeoutPeriod:     int(h.arg0()),
	}
}

// value of a window access is stored in the parameter area
func (h *header) setValue(v uint32) {
	binary.BigEndian.PutUint32(h[offParams:], v)
}

func (h *header) value() uint32 {
	return binary.BigEndian.Uint32(h[offParams:])
}

// send all of the buffer
func send(w io.Writer, buf []byte) error {
	sent := 0
	for sent < len(buf) {
		n, err := w.Write(buf[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}

// recv fills the buffer. a read that returns nothing is a timeout.
func recv(r io.Reader, buf []byte) error {
	o := 0
	for o < len(buf) {
		n, err := r.Read(buf[o:])
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return curated.Errorf(NoResponse)
			}
			return err
		}
		if n <= 0 {
			return curated.Errorf(NoResponse)
		}
		o += n
	}
	return nil
}

// number of bytes needed to send n bytes of data in whole blocks
func blocks(n int) int {
	return (n + blockSize - 1) / blockSize * blockSize
}

// sendData sends the data padded to a whole number of blocks
func sendData(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	buf := make([]byte, blocks(len(data)))
	copy(buf, data)
	return send(w, buf)
}

// recvData receives n bytes of data sent in whole blocks
func recvData(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, blocks(n))
	if err := recv(r, buf); err != nil {
		return nil, err
	}
	return buf[:n], nil
}
