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

package random_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/spiram/random"
	"github.com/jetsetilly/spiram/test"
)

func TestZeroSeed(t *testing.T) {
	a := random.NewRandom()
	b := random.NewRandom()
	a.ZeroSeed = true
	b.ZeroSeed = true

	x := make([]byte, 64)
	y := make([]byte, 64)
	a.Fill(100, x)
	b.Fill(100, y)
	test.ExpectSuccess(t, bytes.Equal(x, y))

	// a different salt gives different data
	b.Fill(101, y)
	test.ExpectFailure(t, bytes.Equal(x, y))
}

func TestBaseSeed(t *testing.T) {
	a := random.NewRandom()
	b := random.NewRandom()
	b.ZeroSeed = true

	// the base seed is added to the salt unless ZeroSeed is set
	x := make([]byte, 64)
	y := make([]byte, 64)
	a.Fill(100, x)
	b.Fill(100, y)
	test.ExpectFailure(t, bytes.Equal(x, y))

	// instances without ZeroSeed share the base seed
	c := random.NewRandom()
	c.Fill(100, y)
	test.ExpectSuccess(t, bytes.Equal(x, y))
}
