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
	"io"
)

// Dmesg writes the identity of the device and the status of the diagnostics
// record. The identity is all zeroes if it was never read.
func (dev *Device) Dmesg(w io.Writer) {
	dev.record.Dmesg(w)
}

// Dmesg writes the record in the same format as Device.Dmesg().
func (r Record) Dmesg(w io.Writer) {
	io.WriteString(w, "spiram eid")
	for _, b := range r.ID {
		fmt.Fprintf(w, " %02x", b)
	}
	io.WriteString(w, "\n")

	s := r.Status
	if s == nil {
		s = OK{}
	}
	io.WriteString(w, s.String())
	io.WriteString(w, "\n")
}
