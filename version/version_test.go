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

package version

import (
	"strings"
	"testing"

	"github.com/jetsetilly/spiram/test"
)

func TestVersion(t *testing.T) {
	v, r := fromBuildInfo("v1.2.3")
	test.ExpectEquality(t, v, "v1.2.3")
	test.ExpectInequality(t, r, "")

	// test binaries have no version number
	v, _, release := Version()
	test.ExpectFailure(t, release)
	test.ExpectInequality(t, v, "")
	test.ExpectSuccess(t, strings.HasPrefix(String(), ApplicationName+" "))
}
