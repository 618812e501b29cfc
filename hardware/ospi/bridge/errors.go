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

// Sentinal error patterns.
const (
	NoPort      = "bridge: no bridge found among serial ports"
	OpenFailed  = "bridge: cannot open %s: %v"
	Protocol    = "bridge: protocol error: %v"
	NoResponse  = "bridge: no response"
	Remote      = "bridge: %s: %s"
	Version     = "bridge: unsupported protocol version (%d)"
	UnknownPort = "bridge: unknown port type (%s)"
	TooLong     = "bridge: data phase of %d bytes is longer than %d"
)
