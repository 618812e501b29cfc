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

// Package psram emulates a serial pseudo-static RAM device of the type
// manufactured by Espressif (ESP-PSRAM64H) and AP Memory (APS6404L), attached
// to an emulated bus controller.
//
// The device powers up in SPI mode, where instructions are received on a
// single line. The QUAD_ON instruction switches the device to QPI mode, where
// instructions are received on four lines. An instruction sent on the wrong
// number of lines is not recognised and the frame is ignored.
//
// Bursts wrap within a page. The page size is 1KiB by default and can be
// toggled to 32 bytes with the BURST_LEN instruction.
//
// Because the device is DRAM internally it must be refreshed. Refresh can
// only occur when chip select is high. If chip select is held for longer than
// the refresh budget of the part then data is lost.
package psram
