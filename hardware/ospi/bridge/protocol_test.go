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
	"net"
	"testing"

	"github.com/jetsetilly/spiram/hardware/mpu"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/hardware/ospi/emulated"
	"github.com/jetsetilly/spiram/hardware/psram"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/test"
)

func TestHeader(t *testing.T) {
	cmd := ospi.Command{
		OperationType:    ospi.ReadCfg,
		Instruction:      0xeb,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		AddressSize:      ospi.AddressSize24,
		Address:          0x123456,
		DataLines:        ospi.Lines4,
		NbData:           300,
		DummyCycles:      6,
	}

	h := newHeader(OpCommand)
	test.ExpectSuccess(t, h.valid())
	h.setCommand(cmd)
	test.ExpectEquality(t, h.command(), cmd)

	// arguments are big endian
	test.ExpectEquality(t, h[offArg0+1], byte(0x12))
	test.ExpectEquality(t, h[offArg0+3], byte(0x56))

	h.setDetail("a detail longer than the space available for the detail in the header")
	test.ExpectEquality(t, len(h.detail()), offTimeout-offDetail-1)
	test.ExpectEquality(t, h[offTimeout-1], byte(0))

	test.ExpectEquality(t, blocks(0), 0)
	test.ExpectEquality(t, blocks(1), 64)
	test.ExpectEquality(t, blocks(64), 64)
	test.ExpectEquality(t, blocks(65), 128)
}

func TestBadRequest(t *testing.T) {
	ram := psram.NewDevice(logger.Allow, psram.Parts["ESP-PSRAM64H"], psram.SPI)
	m := mpu.NewEmulated(logger.Allow, 16)
	ctl := emulated.NewController(logger.Allow, 0x90000000, ram, m)

	host, mcu := net.Pipe()
	defer host.Close()

	done := make(chan error, 1)
	go func() {
		done <- NewResponder(logger.Allow, "test", ctl, m).Serve(mcu)
	}()

	var req header
	test.DemandSuccess(t, send(host, req[:]))

	var rsp header
	test.DemandSuccess(t, recv(host, rsp[:]))
	test.ExpectSuccess(t, rsp.valid())
	test.ExpectEquality(t, rsp.status(), statusProtocol)
	detail, err := recvData(host, rsp.length())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(detail), "request without magic")

	req = newHeader(Opcode(0xf0))
	test.DemandSuccess(t, send(host, req[:]))
	test.DemandSuccess(t, recv(host, rsp[:]))
	test.ExpectEquality(t, rsp.status(), statusProtocol)
	test.ExpectEquality(t, rsp.opcode(), Opcode(0xf0))
	detail, err = recvData(host, rsp.length())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(detail), "unknown opcode (240)")

	// the data of an overlong transmit is discarded without being stored
	req = newHeader(OpTransmit)
	req.setLength(maxData + 1)
	test.DemandSuccess(t, send(host, req[:]))
	test.DemandSuccess(t, send(host, make([]byte, blocks(maxData+1))))
	test.DemandSuccess(t, recv(host, rsp[:]))
	test.ExpectEquality(t, rsp.status(), statusProtocol)
	detail, err = recvData(host, rsp.length())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(detail), "transmit of 65537 bytes")

	req = newHeader(OpReceive)
	req.setLength(maxData + 1)
	test.DemandSuccess(t, send(host, req[:]))
	test.DemandSuccess(t, recv(host, rsp[:]))
	test.ExpectEquality(t, rsp.status(), statusProtocol)
	detail, err = recvData(host, rsp.length())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(detail), "receive of 65537 bytes")

	req = newHeader(OpHello)
	test.DemandSuccess(t, send(host, req[:]))
	test.DemandSuccess(t, recv(host, rsp[:]))
	test.ExpectEquality(t, rsp.status(), statusOK)
	test.ExpectEquality(t, rsp.arg0(), uint32(ProtocolVersion))
	test.ExpectEquality(t, rsp.detail(), "test")

	host.Close()
	test.ExpectSuccess(t, <-done)
}
