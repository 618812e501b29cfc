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

//go:build !windows

package bridge

import (
	"github.com/pkg/term"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

type ttyPort struct {
	*term.Term
}

// Close clears DTR before closing the terminal.
func (p ttyPort) Close() error {
	// error ignored because the terminal is closing
	_ = p.Term.SetDTR(false)
	return p.Term.Close()
}

// OpenTTY opens the named terminal device in raw mode. It is an alternative
// to OpenSerial() for systems where the serial package does not work with
// the device, such as pseudo-terminals.
func OpenTTY(perm logger.Permission, name string, baud int) (Port, error) {
	t, err := term.Open(name, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, curated.Errorf(OpenFailed, name, err)
	}

	// not all terminals support DTR
	if err := t.SetDTR(true); err != nil {
		logger.Logf(perm, "bridge", "%s: %v", name, err)
	}

	if err := t.Flush(); err != nil {
		logger.Logf(perm, "bridge", "%s: %v", name, err)
	}

	logger.Logf(perm, "bridge", "%s: opened terminal at %d baud", name, baud)

	return ttyPort{Term: t}, nil
}
