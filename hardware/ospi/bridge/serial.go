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
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

// BaudRates are the rates tried by OpenSerial(), in the order they are
// tried.
var BaudRates = []int{
	921600,
	460800,
	256000,
	230400,
	153600,
	128000,
	115200,
	76800,
	57600,
	38400,
	28800,
	19200,
	14400,
	9600,
}

// USB vendor and product ID of the virtual COM port of an STM32
const (
	vendorST     = "0483"
	productSTVCP = "5740"
)

// DetectPort returns the name of the first USB serial port that looks like a
// bridge.
func DetectPort(perm logger.Permission) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", curated.Errorf(OpenFailed, "port list", err)
	}

	for _, port := range ports {
		if !port.IsUSB {
			continue
		}

		logger.Logf(perm, "bridge", "%s: USB ID %s:%s (%s)", port.Name, port.VID, port.PID, port.Product)

		if strings.EqualFold(port.VID, vendorST) && strings.EqualFold(port.PID, productSTVCP) {
			return port.Name, nil
		}
		if strings.Contains(strings.ToUpper(port.Product), "OSPI") {
			return port.Name, nil
		}
	}

	return "", curated.Errorf(NoPort)
}

type serialPort struct {
	serial.Port
}

// Close clears DTR before closing the port.
func (p serialPort) Close() error {
	// error ignored because the port is closing
	_ = p.Port.SetDTR(false)
	return p.Port.Close()
}

// OpenSerial opens the named serial port. If the port cannot be opened at
// the requested baud rate then lower rates from the BaudRates list are tried.
func OpenSerial(perm logger.Permission, name string, baud int) (Port, error) {
	var err error
	var p serial.Port

	for _, rate := range BaudRates {
		if rate > baud {
			continue
		}

		p, err = serial.Open(name, &serial.Mode{
			BaudRate: rate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err == nil {
			logger.Logf(perm, "bridge", "%s: opened at %d baud", name, rate)
			break
		}

		logger.Logf(perm, "bridge", "%s: %v", name, err)
	}

	if p == nil {
		if err == nil {
			err = curated.Errorf("no baud rate at or below %d", baud)
		}
		return nil, curated.Errorf(OpenFailed, name, err)
	}

	if err := p.SetDTR(true); err != nil {
		p.Close()
		return nil, curated.Errorf(OpenFailed, name, err)
	}

	// discard anything sent by the bridge before the port was opened
	if err := p.ResetInputBuffer(); err != nil {
		logger.Logf(perm, "bridge", "%s: %v", name, err)
	}

	return serialPort{Port: p}, nil
}
