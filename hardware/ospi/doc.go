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

// Package ospi defines the interface to an octo/quad SPI bus controller, of
// the type found in the STM32H7 family of microcontrollers.
//
// The Controller interface is the set of primitives the spiram driver needs:
// initialisation, the issuing of a command, the transmission or reception of
// the data phase of the command, and the switch to memory mapped mode. Every
// primitive blocks until the bus has finished or until the timeout has
// expired.
//
// Once memory mapped, the controller replays the read and write templates
// (commands issued with the ReadCfg and WriteCfg operation types) for every
// access to the Window.
//
// The Frame and Target types describe what a device on the bus sees during a
// single assertion of chip select. They are used by emulated controllers to
// drive emulated devices.
package ospi
