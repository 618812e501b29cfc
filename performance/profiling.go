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

package performance

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/jetsetilly/spiram/curated"
)

// Sentinal error patterns.
const (
	ProfileError = "performance: %v"
)

// ProfileCPU runs the function with the CPU profiler writing to outFile.
func ProfileCPU(outFile string, run func() error) error {
	f, err := os.Create(outFile)
	if err != nil {
		return curated.Errorf(ProfileError, err)
	}
	defer f.Close()

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return curated.Errorf(ProfileError, err)
	}
	defer pprof.StopCPUProfile()

	return run()
}

// ProfileMem writes a heap profile to outFile.
func ProfileMem(outFile string) error {
	f, err := os.Create(outFile)
	if err != nil {
		return curated.Errorf(ProfileError, err)
	}
	defer f.Close()

	runtime.GC()
	err = pprof.WriteHeapProfile(f)
	if err != nil {
		return curated.Errorf(ProfileError, err)
	}

	return nil
}

// Timed runs the function and writes the time taken and the rate at which
// the number of bytes were processed.
func Timed(output io.Writer, label string, bytes int, run func() error) error {
	start := time.Now()
	err := run()
	d := time.Since(start)

	if d > 0 && bytes > 0 {
		rate := float64(bytes) / d.Seconds() / 1024
		fmt.Fprintf(output, "%s: %v (%.1f KiB/s)\n", label, d.Round(time.Millisecond), rate)
	} else {
		fmt.Fprintf(output, "%s: %v\n", label, d.Round(time.Millisecond))
	}

	return err
}
