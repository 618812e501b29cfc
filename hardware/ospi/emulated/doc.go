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

// Package emulated implements the ospi.Controller interface by driving an
// emulated device (an ospi.Target) directly.
//
// The controller behaves like the OCTOSPI peripheral of the STM32H7A3 in the
// ways that matter to the spiram driver:
//
//   - data phases are split into separate chip select assertions at the chip
//     select boundary
//   - memory mapped accesses replay the read or write template
//   - a memory mapped write with the data strobe disabled in the write
//     template is a hard fault (errata 2.7.8 in ES0478)
//   - without timeout activation, chip select is held between sequential
//     memory mapped accesses
//   - memory mapped accesses are checked by the MPU before reaching the bus
//
// Faults can be injected with FailWhen(). The observer function set with
// Observe() sees every operation.
package emulated
