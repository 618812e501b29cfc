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
	"io"
	"sync"
	"time"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// Port is the connection to the bridge.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// DefaultLatency is added to the timeout of every request to allow for the
// time it takes for the request and response to cross the serial line.
const DefaultLatency = 500 * time.Millisecond

// timeout for requests that have no timeout of their own
const defaultTimeout = time.Second

// Bridge is the host end of the connection to a bridge. It implements the
// ospi.Controller and mpu.Unit interfaces.
type Bridge struct {
	perm logger.Permission

	// requests are sent one at a time
	crit    sync.Mutex
	port    Port
	latency time.Duration
}

// NewBridge is the preferred method of initialisation for the Bridge type.
// The bridge must respond to the hello request.
func NewBridge(perm logger.Permission, port Port) (*Bridge, error) {
	b := &Bridge{
		perm:    perm,
		port:    port,
		latency: DefaultLatency,
	}

	rsp, _, err := b.request(newHeader(OpHello), nil, 0, defaultTimeout)
	if err != nil {
		return nil, err
	}
	if rsp.arg0() != ProtocolVersion {
		return nil, curated.Errorf(Version, rsp.arg0())
	}

	logger.Logf(b.perm, "bridge", "connected: %s", rsp.detail())

	return b, nil
}

// SetLatency changes the time added to the timeout of every request.
func (b *Bridge) SetLatency(latency time.Duration) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.latency = latency
}

// Close the connection to the bridge.
func (b *Bridge) Close() error {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.port.Close()
}

// request sends the header and any data and waits for the response. if the
// response is successful then n bytes of data are received.
func (b *Bridge) request(req header, data []byte, n int, timeout time.Duration) (header, []byte, error) {
	b.crit.Lock()
	defer b.crit.Unlock()

	var rsp header

	op := req.opcode()
	req.setLength(len(data) + n)
	req.setTimeout(timeout)

	if err := b.port.SetReadTimeout(timeout + b.latency); err != nil {
		return rsp, nil, curated.Errorf(Protocol, err)
	}

	if err := send(b.port, req[:]); err != nil {
		return rsp, nil, curated.Errorf(Protocol, err)
	}
	if err := sendData(b.port, data); err != nil {
		return rsp, nil, curated.Errorf(Protocol, err)
	}

	if err := recv(b.port, rsp[:]); err != nil {
		if curated.Is(err, NoResponse) {
			logger.Logf(b.perm, "bridge", "%s: no response", op)
			return rsp, nil, curated.Errorf(ospi.Timeout, op.phase())
		}
		return rsp, nil, curated.Errorf(Protocol, err)
	}

	if !rsp.valid() {
		return rsp, nil, curated.Errorf(Protocol, "response without magic")
	}
	if rsp.opcode() != op {
		return rsp, nil, curated.Errorf(Protocol, "response for wrong request")
	}

	if rsp.status() != statusOK {
		if rsp.length() > maxData {
			return rsp, nil, curated.Errorf(Protocol, "error detail too long")
		}
		detail, err := recvData(b.port, rsp.length())
		if err != nil {
			return rsp, nil, curated.Errorf(Protocol, err)
		}
		return rsp, nil, b.remoteError(req, rsp, string(detail))
	}

	rspData, err := recvData(b.port, n)
	if err != nil {
		if curated.Is(err, NoResponse) {
			return rsp, nil, curated.Errorf(ospi.Timeout, op.phase())
		}
		return rsp, nil, curated.Errorf(Protocol, err)
	}

	return rsp, rspData, nil
}

// remoteError converts the status of the response to an error with the same
// pattern an emulated controller would have returned.
func (b *Bridge) remoteError(req header, rsp header, detail string) error {
	op := req.opcode()

	switch rsp.status() {
	case statusTimeout:
		return curated.Errorf(ospi.Timeout, op.phase())
	case statusNotInitialised:
		return curated.Errorf(ospi.NotInitialised)
	case statusBusy:
		return curated.Errorf(ospi.Busy)
	case statusNoCommand:
		return curated.Errorf(ospi.NoCommand, op.phase())
	case statusDataLength:
		return curated.Errorf(ospi.DataLength, rsp.arg0(), rsp.arg1())
	case statusNoTemplate:
		return curated.Errorf(ospi.NoTemplate, detail)
	case statusInvalidConfig:
		return curated.Errorf(ospi.InvalidConfig, detail)
	case statusInvalidCommand:
		return curated.Errorf(ospi.InvalidCommand, detail)
	case statusHardFault:
		return curated.Errorf(ospi.HardFault, rsp.arg0(), detail)
	case statusProtocol:
		return curated.Errorf(Protocol, detail)
	}

	return curated.Errorf(Remote, op, detail)
}

// Init implements the ospi.Controller interface.
func (b *Bridge) Init(cfg ospi.Config) error {
	if err := cfg.Validate(); err != nil {
		return curated.Errorf(ospi.InvalidConfig, err)
	}
	req := newHeader(OpInit)
	req.setConfig(cfg)
	_, _, err := b.request(req, nil, 0, defaultTimeout)
	return err
}

// Command implements the ospi.Controller interface.
func (b *Bridge) Command(cmd ospi.Command, timeout time.Duration) error {
	if err := cmd.Validate(); err != nil {
		return curated.Errorf(ospi.InvalidCommand, err)
	}
	req := newHeader(OpCommand)
	req.setCommand(cmd)
	_, _, err := b.request(req, nil, 0, timeout)
	return err
}

// Transmit implements the ospi.Controller interface.
func (b *Bridge) Transmit(data []byte, timeout time.Duration) error {
	if len(data) > maxData {
		return curated.Errorf(TooLong, len(data), maxData)
	}
	_, _, err := b.request(newHeader(OpTransmit), data, 0, timeout)
	return err
}

// Receive implements the ospi.Controller interface.
func (b *Bridge) Receive(data []byte, timeout time.Duration) error {
	if len(data) > maxData {
		return curated.Errorf(TooLong, len(data), maxData)
	}
	_, rsp, err := b.request(newHeader(OpReceive), nil, len(data), timeout)
	if err != nil {
		return err
	}
	copy(data, rsp)
	return nil
}

// MemoryMapped implements the ospi.Controller interface.
func (b *Bridge) MemoryMapped(cfg ospi.MappedConfig) (ospi.Window, error) {
	req := newHeader(OpMapped)
	req.setMappedConfig(cfg)
	rsp, _, err := b.request(req, nil, 0, defaultTimeout)
	if err != nil {
		return nil, err
	}
	return &window{b: b, origin: rsp.arg0()}, nil
}

// DisableRegion implements the mpu.Unit interface.
func (b *Bridge) DisableRegion(base uint32, size uint32) error {
	return b.region(OpMPUDisable, base, size)
}

// EnableRegion implements the mpu.Unit interface.
func (b *Bridge) EnableRegion(base uint32, size uint32) error {
	return b.region(OpMPUEnable, base, size)
}

func (b *Bridge) region(op Opcode, base uint32, size uint32) error {
	req := newHeader(op)
	req.setArgs(base, size)
	_, _, err := b.request(req, nil, 0, defaultTimeout)
	return err
}

// window is the memory mapped window of the microcontroller. every access is
// a separate request.
type window struct {
	b      *Bridge
	origin uint32
}

// Origin implements the ospi.Window interface.
func (w *window) Origin() uint32 {
	return w.origin
}

func (w *window) read(addr uint32, width uint32) (uint32, error) {
	req := newHeader(OpWindowRead)
	req.setArgs(addr, width)
	rsp, _, err := w.b.request(req, nil, 0, defaultTimeout)
	if err != nil {
		return 0, err
	}
	return rsp.value(), nil
}

func (w *window) write(addr uint32, width uint32, v uint32) error {
	req := newHeader(OpWindowWrite)
	req.setArgs(addr, width)
	req.setValue(v)
	_, _, err := w.b.request(req, nil, 0, defaultTimeout)
	return err
}

// Read8 implements the ospi.Window interface.
func (w *window) Read8(addr uint32) (uint8, error) {
	v, err := w.read(addr, 1)
	return uint8(v), err
}

// Read16 implements the ospi.Window interface.
func (w *window) Read16(addr uint32) (uint16, error) {
	v, err := w.read(addr, 2)
	return uint16(v), err
}

// Read32 implements the ospi.Window interface.
func (w *window) Read32(addr uint32) (uint32, error) {
	return w.read(addr, 4)
}

// Write8 implements the ospi.Window interface.
func (w *window) Write8(addr uint32, v uint8) error {
	return w.write(addr, 1, uint32(v))
}

// Write16 implements the ospi.Window interface.
func (w *window) Write16(addr uint32, v uint16) error {
	return w.write(addr, 2, uint32(v))
}

// Write32 implements the ospi.Window interface.
func (w *window) Write32(addr uint32, v uint32) error {
	return w.write(addr, 4, v)
}
