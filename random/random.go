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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Random is a source of random data for emulated devices.
type Random struct {
	// use zero seed rather than the random base seed. the data for a salt
	// value will be the same every time
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom() *Random {
	return &Random{}
}

func (rnd *Random) rand(salt int64) *rand.Rand {
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(salt))
	}
	return rand.New(rand.NewSource(baseSeed + salt))
}

// Fill the buffer with random data.
func (rnd *Random) Fill(salt int64, buf []byte) {
	// Read() from a rand.Rand never fails
	_, _ = rnd.rand(salt).Read(buf)
}
