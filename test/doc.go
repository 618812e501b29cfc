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

// Package test contains helper functions to remove common boilerplate from
// the tests in the spiram packages.
//
// The Expect functions test for success or failure under generic conditions.
// The documentation for ExpectSuccess() describes the currently supported
// types. A nil value is considered a success because of how errors usually
// work in Go (nil to indicate no error).
//
// The Demand functions are the same as the Expect functions except that a
// failed test is fatal. They are useful when the value being tested is used
// later in the test and so must be correct.
//
// The CompareWriter and RingWriter types implement io.Writer and are used to
// capture output, for example the output of the diagnostics dump or of the
// central logger.
package test
