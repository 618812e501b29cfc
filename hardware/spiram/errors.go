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

// Sentinal error patterns.
const (
	AlreadyClaimed     = "spiram: controller already in use"
	InvalidRegion      = "spiram: invalid region: %v"
	InvalidTransaction = "spiram: invalid transaction: %v"
	CommandPhase       = "spiram: command phase: %v"
	DataPhase          = "spiram: data phase: %v"
	OutOfRange         = "spiram: access out of range (address %#06x, length %d)"
	NotReady           = "spiram: direct access in %s mode"
	NotMapped          = "spiram: not memory mapped"
)
