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

package performance_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/performance"
	"github.com/jetsetilly/spiram/test"
)

func TestProfiles(t *testing.T) {
	dir := t.TempDir()

	var ran bool
	cpu := filepath.Join(dir, "cpu.profile")
	test.ExpectSuccess(t, performance.ProfileCPU(cpu, func() error {
		ran = true
		return nil
	}))
	test.ExpectSuccess(t, ran)

	mem := filepath.Join(dir, "mem.profile")
	test.ExpectSuccess(t, performance.ProfileMem(mem))

	for _, f := range []string{cpu, mem} {
		_, err := os.Stat(f)
		test.ExpectSuccess(t, err, f)
	}

	err := performance.ProfileMem(filepath.Join(dir, "missing", "mem.profile"))
	test.ExpectSuccess(t, curated.Is(err, performance.ProfileError))
}

func TestTimed(t *testing.T) {
	s := &strings.Builder{}
	test.ExpectSuccess(t, performance.Timed(s, "memtest", 1024, func() error {
		return nil
	}))
	test.ExpectSuccess(t, strings.HasPrefix(s.String(), "memtest: "))

	// the error from the run is returned after the time is reported
	s.Reset()
	err := performance.Timed(s, "memtest", 1024, func() error {
		return io.ErrUnexpectedEOF
	})
	test.ExpectEquality(t, err, io.ErrUnexpectedEOF)
	test.ExpectSuccess(t, strings.HasPrefix(s.String(), "memtest: "))
}
