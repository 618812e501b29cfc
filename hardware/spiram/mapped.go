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

import (
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// memoryMap installs the read and write templates, switches the controller
// into memory mapped mode and opens the MPU for the part of the window backed
// by the device. Every stage is attempted even if an earlier stage fails.
func (dev *Device) memoryMap() {
	// stop speculative accesses to the window while the controller is being
	// reconfigured
	if err := dev.mpu.DisableRegion(dev.mmap.Window.Base, dev.mmap.Window.Size); err != nil {
		dev.latch(MappingFail{Stage: StageMPUDisable, Err: err})
	}

	if err := dev.execute(writeTemplate(), nil); err != nil {
		dev.latch(MappingFail{Stage: StageWriteTemplate, Err: err})
	}

	if err := dev.execute(readTemplate(), nil); err != nil {
		dev.latch(MappingFail{Stage: StageReadTemplate, Err: err})
	}

	// chip select must be released after every access or the device will
	// not refresh
	win, err := dev.ctl.MemoryMapped(ospi.MappedConfig{
		TimeoutActivation: true,
		TimeoutPeriod:     1,
	})
	if err != nil {
		dev.latch(MappingFail{Stage: StageActivate, Err: err})
	} else {
		// the window is kept even if the device is not in quad line mode so
		// that the self test can still be run
		dev.window = win
		if dev.mode == QuadLine {
			dev.setMode(QuadLineMapped)
		} else {
			logger.Logf(dev.env, "spiram", "memory mapped while in %s", dev.mode)
		}
	}

	if err := dev.mpu.EnableRegion(dev.mmap.Device.Base, dev.mmap.Device.Size); err != nil {
		dev.latch(MappingFail{Stage: StageMPUEnable, Err: err})
	}
}
