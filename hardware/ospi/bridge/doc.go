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

// Package bridge implements the ospi.Controller and mpu.Unit interfaces for
// a real microcontroller attached to the host by a serial line. The
// microcontroller runs a small firmware that performs each request on its bus
// controller and MPU and replies with the result.
//
// Every request and every response starts with a 64 byte header:
//
//	0..3    "OSPI"
//	4       opcode
//	5       status (responses only)
//	8..11   first argument (big endian)
//	12..15  second argument (big endian)
//	16..19  length of the data that follows the header
//	20..59  parameters of the request, or the name of the bridge in the
//	        response to the hello request
//	60..63  timeout in milliseconds (requests only)
//
// Data following a header is sent in 64 byte blocks. The last block is padded
// with zeroes. No data phase is longer than ospi.MaxData bytes.
//
// A response with a status other than zero is followed by the text of the
// error instead of the data for the request.
//
// The Responder type is the other end of the protocol. It serves requests
// with any ospi.Controller and mpu.Unit and is used to expose an emulated
// board over a network connection.
//
// Serial ports are opened with OpenSerial() or, on unix-like systems, with
// OpenTTY(). DetectPort() finds the first USB serial port that looks like a
// bridge.
package bridge
