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
	"time"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

type netPort struct {
	net.Conn
}

// SetReadTimeout implements the Port interface.
func (p netPort) SetReadTimeout(t time.Duration) error {
	return p.Conn.SetReadDeadline(time.Now().Add(t))
}

// NewNetPort returns a Port for the network connection.
func NewNetPort(conn net.Conn) Port {
	return netPort{Conn: conn}
}

// Dial a bridge that is listening on a TCP address.
func Dial(addr string) (Port, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, curated.Errorf(OpenFailed, addr, err)
	}
	return netPort{Conn: conn}, nil
}

// Listen for connections on the TCP address and serve each one with the
// Responder, one connection at a time. Listen only returns if the listener
// fails.
func (r *Responder) Listen(addr string, ready func(net.Addr)) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return curated.Errorf(OpenFailed, addr, err)
	}
	defer l.Close()

	if ready != nil {
		ready(l.Addr())
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		if err := r.Serve(conn); err != nil {
			logger.Logf(r.perm, "bridge", "%s: %v", conn.RemoteAddr(), err)
		}
		conn.Close()
	}
}
