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

package curated_test

import (
	"errors"
	"io"
	"testing"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/test"
)

const testPattern = "test: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("spiram: %v", curated.Errorf("spiram: timeout"))
	test.ExpectEquality(t, e.Error(), "spiram: timeout")

	// duplicates that are not adjacent are kept
	f := curated.Errorf("a: b: %v", curated.Errorf("a: c"))
	test.ExpectEquality(t, f.Error(), "a: b: a: c")
}

func TestIsAndHas(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testPattern))
	test.ExpectSuccess(t, curated.Has(e, testPattern))

	f := curated.Errorf("wrapped: %v", e)
	test.ExpectFailure(t, curated.Is(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, testPattern))

	// uncurated errors are never matched
	test.ExpectFailure(t, curated.IsAny(io.EOF))
	test.ExpectFailure(t, curated.Has(io.EOF, testPattern))
	test.ExpectFailure(t, curated.Is(nil, testPattern))
}

func TestUnwrap(t *testing.T) {
	e := curated.Errorf("bridge: %v", io.ErrUnexpectedEOF)
	test.ExpectSuccess(t, errors.Is(e, io.ErrUnexpectedEOF))

	f := curated.Errorf("no wrapped error %d", 10)
	test.ExpectEquality(t, errors.Unwrap(f), nil)
}

func TestReason(t *testing.T) {
	e := curated.Errorf("ospi: hard fault at %#08x: %v", 0x90000100, curated.Errorf("mpu: protection fault at %#08x", 0x90000100))
	test.ExpectEquality(t, curated.Reason(e), "mpu: protection fault at 0x90000100")

	f := curated.Errorf("ospi: no %s template", "read")
	test.ExpectEquality(t, curated.Reason(f), "read")

	// errors without values
	test.ExpectEquality(t, curated.Reason(curated.Errorf("spiram: timeout")), "spiram: timeout")
	test.ExpectEquality(t, curated.Reason(io.EOF), "EOF")
	test.ExpectEquality(t, curated.Reason(nil), "")
}
