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

package main

import (
	"testing"

	"github.com/jetsetilly/spiram/test"
)

func TestLaunch(t *testing.T) {
	test.ExpectEquality(t, launch([]string{"-help"}), 0)
	test.ExpectEquality(t, launch([]string{"-nosuchflag"}), 10)
	test.ExpectEquality(t, launch([]string{"TEST", "-nosuchflag"}), 20)

	// arguments are checked before the system is created
	test.ExpectEquality(t, launch([]string{"DUMP", "0x100"}), 20)
	test.ExpectEquality(t, launch([]string{"DUMP", "zero", "16"}), 20)
	test.ExpectEquality(t, launch([]string{"TEST", "extra"}), 20)
}
