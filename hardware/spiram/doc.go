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

// Package spiram is a driver for serial pseudo-static RAM attached to an
// octo/quad SPI bus controller. It brings the RAM into quad mode, memory maps
// it into the address space of the microcontroller and tests it.
//
// The power-on mode of the RAM is unknown. It will be in SPI mode after a
// cold start but will be in QPI mode after a warm reboot of the
// microcontroller. Initialise() therefore resets the device twice, first with
// instructions on four lines and then on a single line. The reset sent in the
// wrong mode is ignored by the RAM. After the resets the RAM is in SPI mode
// and the identity is read, before the RAM is switched to QPI mode.
//
// Failures during initialisation and during the self test are recorded in
// the diagnostics Record. Only the first failure is kept but all remaining
// steps are still attempted. The Record can be printed with Dmesg() at a
// later time, once a console is available:
//
//	spiram eid 0d 5d 52 a2 64 31 91 31
//	spiram self-test pass
//
// Direct access with Read() and Write() is only possible once the RAM is in
// quad mode and before it has been memory mapped. Errors from direct access
// are returned to the caller and are not recorded.
package spiram
