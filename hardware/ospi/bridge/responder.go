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
	"errors"
	"fmt"
	"io"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/mpu"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// Responder serves bridge requests with a controller and an MPU.
type Responder struct {
	perm   logger.Permission
	name   string
	ctl    ospi.Controller
	unit   mpu.Unit
	window ospi.Window

	// data length of the most recent command
	nbData int
}

// NewResponder is the preferred method of initialisation for the Responder
// type. The name is sent to the host in response to the hello request.
func NewResponder(perm logger.Permission, name string, ctl ospi.Controller, unit mpu.Unit) *Responder {
	return &Responder{
		perm: perm,
		name: name,
		ctl:  ctl,
		unit: unit,
	}
}

// Serve requests until the connection is closed. Returns nil if the
// connection was closed between requests.
func (r *Responder) Serve(rw io.ReadWriter) error {
	for {
		var req header
		if err := recv(rw, req[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}

		// data sent with the request is always received, even if the
		// request is going to fail
		var data []byte
		if req.valid() && req.opcode() == OpTransmit {
			var err error
			if req.length() > maxData {
				_, err = io.CopyN(io.Discard, rw, int64(blocks(req.length())))
			} else {
				data, err = recvData(rw, req.length())
			}
			if err != nil {
				return err
			}
		}

		rsp, rspData := r.handle(req, data)

		if err := send(rw, rsp[:]); err != nil {
			return err
		}
		if err := sendData(rw, rspData); err != nil {
			return err
		}
	}
}

// handle the request. the data returned with the response is the detail of
// the error if the request failed
func (r *Responder) handle(req header, data []byte) (header, []byte) {
	rsp := newHeader(req.opcode())

	if !req.valid() {
		return r.protocolFailure(rsp, "request without magic")
	}

	var rspData []byte
	var err error

	switch req.opcode() {
	case OpHello:
		rsp.setArgs(ProtocolVersion, 0)
		rsp.setDetail(r.name)

	case OpInit:
		err = r.ctl.Init(req.config())
		r.window = nil

	case OpCommand:
		cmd := req.command()
		err = r.ctl.Command(cmd, req.timeout())
		if err == nil {
			r.nbData = cmd.NbData
		}

	case OpTransmit:
		if req.length() > maxData {
			return r.protocolFailure(rsp, fmt.Sprintf("transmit of %d bytes", req.length()))
		}
		err = r.ctl.Transmit(data, req.timeout())

	case OpReceive:
		if req.length() > maxData {
			return r.protocolFailure(rsp, fmt.Sprintf("receive of %d bytes", req.length()))
		}
		rspData = make([]byte, req.length())
		err = r.ctl.Receive(rspData, req.timeout())

	case OpMapped:
		var w ospi.Window
		w, err = r.ctl.MemoryMapped(req.mappedConfig())
		if err == nil {
			r.window = w
			rsp.setArgs(w.Origin(), 0)
		}

	case OpMPUDisable:
		err = r.unit.DisableRegion(req.arg0(), req.arg1())

	case OpMPUEnable:
		err = r.unit.EnableRegion(req.arg0(), req.arg1())

	case OpWindowRead:
		if !validWidth(req.arg1()) {
			return r.protocolFailure(rsp, fmt.Sprintf("access width of %d bytes", req.arg1()))
		}
		var v uint32
		v, err = r.read(req.arg0(), req.arg1())
		rsp.setValue(v)

	case OpWindowWrite:
		if !validWidth(req.arg1()) {
			return r.protocolFailure(rsp, fmt.Sprintf("access width of %d bytes", req.arg1()))
		}
		err = r.write(req.arg0(), req.arg1(), req.value())

	default:
		return r.protocolFailure(rsp, fmt.Sprintf("unknown opcode (%d)", req.opcode()))
	}

	if err != nil {
		logger.Logf(r.perm, "bridge", "%s: %v", req.opcode(), err)
		return r.failure(rsp, req, err)
	}

	rsp.setLength(len(rspData))
	return rsp, rspData
}

func (r *Responder) protocolFailure(rsp header, detail string) (header, []byte) {
	logger.Logf(r.perm, "bridge", "%s: %s", rsp.opcode(), detail)
	rsp[offStatus] = byte(statusProtocol)
	rsp.setLength(len(detail))
	return rsp, []byte(detail)
}

// failure sets the status of the response from the error. the detail of the
// error is returned as the response data
func (r *Responder) failure(rsp header, req header, err error) (header, []byte) {
	st := statusProtocol

	// the host recreates the error from the status and the reason
	detail := curated.Reason(err)

	switch {
	case curated.Is(err, ospi.Timeout):
		st = statusTimeout
	case curated.Is(err, ospi.NotInitialised):
		st = statusNotInitialised
	case curated.Is(err, ospi.Busy):
		st = statusBusy
	case curated.Is(err, ospi.NoCommand):
		st = statusNoCommand
	case curated.Is(err, ospi.DataLength):
		st = statusDataLength
		rsp.setArgs(uint32(req.length()), uint32(r.nbData))
	case curated.Is(err, ospi.NoTemplate):
		st = statusNoTemplate
	case curated.Is(err, ospi.InvalidConfig):
		st = statusInvalidConfig
	case curated.Is(err, ospi.InvalidCommand):
		st = statusInvalidCommand
	case curated.Is(err, ospi.HardFault):
		st = statusHardFault
		rsp.setArgs(req.arg0(), 0)
	case curated.Is(err, mpu.InvalidRegion), curated.Is(err, mpu.NoFreeRegions):
		st = statusMPU
		detail = err.Error()
	default:
		detail = err.Error()
	}

	rsp[offStatus] = byte(st)
	rsp.setLength(len(detail))
	return rsp, []byte(detail)
}

func validWidth(width uint32) bool {
	return width == 1 || width == 2 || width == 4
}

func (r *Responder) read(addr uint32, width uint32) (uint32, error) {
	if r.window == nil {
		return 0, curated.Errorf(ospi.HardFault, addr, "not memory mapped")
	}
	switch width {
	case 1:
		v, err := r.window.Read8(addr)
		return uint32(v), err
	case 2:
		v, err := r.window.Read16(addr)
		return uint32(v), err
	}
	return r.window.Read32(addr)
}

func (r *Responder) write(addr uint32, width uint32, v uint32) error {
	if r.window == nil {
		return curated.Errorf(ospi.HardFault, addr, "not memory mapped")
	}
	switch width {
	case 1:
		return r.window.Write8(addr, uint8(v))
	case 2:
		return r.window.Write16(addr, uint16(v))
	}
	return r.window.Write32(addr, v)
}
