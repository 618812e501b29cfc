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

//go:build windows

package bridge

import (
	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

// OpenTTY is not available on windows. Use OpenSerial() instead.
func OpenTTY(_ logger.Permission, name string, _ int) (Port, error) {
	return nil, curated.Errorf(OpenFailed, name, "terminal devices not supported on windows")
}
