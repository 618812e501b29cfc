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
	"math/bits"
	"sync"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/environment"
	"github.com/jetsetilly/spiram/hardware/memorymap"
	"github.com/jetsetilly/spiram/hardware/mpu"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// controllers that have been claimed by a Device.
var claimed = struct {
	crit sync.Mutex
	ctls map[ospi.Controller]bool
}{
	ctls: make(map[ospi.Controller]bool),
}

// Device is the driver for a single serial RAM device.
type Device struct {
	env  *environment.Environment
	ctl  ospi.Controller
	mpu  mpu.Unit
	mmap memorymap.Map

	mode   Mode
	record Record
	window ospi.Window
}

// NewDevice is the preferred method of initialisation for the Device type.
//
// The device is the only user of the controller. A second Device on the same
// controller will not be created until Release() has been called on the
// first.
func NewDevice(env *environment.Environment, ctl ospi.Controller, unit mpu.Unit, mmap memorymap.Map) (*Device, error) {
	if mmap.Device.Size < 1024 || bits.OnesCount32(mmap.Device.Size) != 1 {
		return nil, curated.Errorf(InvalidRegion, "size must be a power of two and at least 1KiB")
	}
	if mmap.Device.Size > 1<<ospi.AddressSize24 {
		return nil, curated.Errorf(InvalidRegion, "size exceeds 24bit addressing")
	}
	if mmap.Device.Base != mmap.Window.Base || mmap.Device.Size > mmap.Window.Size {
		return nil, curated.Errorf(InvalidRegion, "device must be at the start of the window")
	}

	claimed.crit.Lock()
	defer claimed.crit.Unlock()

	if claimed.ctls[ctl] {
		return nil, curated.Errorf(AlreadyClaimed)
	}
	claimed.ctls[ctl] = true

	dev := &Device{
		env:  env,
		ctl:  ctl,
		mpu:  unit,
		mmap: mmap,
		mode: Unknown,
		record: Record{
			Status: OK{},
		},
	}

	return dev, nil
}

// Release the controller so that another Device can use it.
func (dev *Device) Release() {
	claimed.crit.Lock()
	defer claimed.crit.Unlock()
	delete(claimed.ctls, dev.ctl)
}

// Mode returns the current mode of the device.
func (dev *Device) Mode() Mode {
	return dev.mode
}

// Record returns a copy of the diagnostics record.
func (dev *Device) Record() Record {
	return dev.record
}

// Window returns the memory mapped window. It is nil until the device has
// been memory mapped.
func (dev *Device) Window() ospi.Window {
	return dev.window
}

// MappedStart returns the lowest address of the mapped RAM.
func (dev *Device) MappedStart() uint32 {
	return dev.mmap.Device.Base
}

// MappedEnd returns the address immediately after the mapped RAM.
func (dev *Device) MappedEnd() uint32 {
	return dev.mmap.Device.End()
}

// Size of the RAM in bytes.
func (dev *Device) Size() uint32 {
	return dev.mmap.Device.Size
}

func (dev *Device) latch(s Status) {
	if dev.record.latch(s) {
		logger.Log(dev.env, "spiram", s.String())
	} else if s.failure() {
		logger.Logf(dev.env, "spiram", "%s (not latched)", s)
	}
}

func (dev *Device) config() ospi.Config {
	return ospi.Config{
		DeviceSize:         bits.TrailingZeros32(dev.mmap.Device.Size),
		ChipSelectHighTime: 1,
		ClockPrescaler:     dev.env.Prefs.Prescaler.Get().(int),

		// chip select is released at the end of the device page
		ChipSelectBoundary: 10,

		SampleShifting: true,
	}
}

// Initialise the controller and the device, leaving the device memory mapped.
// If the startup test preference is set then the self test is also run.
//
// Returns true if no failure has been recorded.
func (dev *Device) Initialise() bool {
	if dev.window != nil {
		logger.Log(dev.env, "spiram", "already memory mapped")
		return !dev.record.Failed()
	}

	dev.QuadMode()
	dev.MemoryMap()

	if dev.env.Prefs.StartupTest.Get().(bool) {
		dev.SelfTest()
	}

	return !dev.record.Failed()
}

// QuadMode initialises the controller and brings the device into quad line
// mode without memory mapping it. The device is cleared if the clear
// preference is set. Use this instead of Initialise() when only direct access
// is wanted.
//
// Returns true if no failure has been recorded.
func (dev *Device) QuadMode() bool {
	if dev.window != nil {
		logger.Log(dev.env, "spiram", "already memory mapped")
		return !dev.record.Failed()
	}

	if err := dev.ctl.Init(dev.config()); err != nil {
		dev.latch(ControllerInitFail{Err: err})
	}

	dev.modeSequence()

	if dev.env.Prefs.Clear.Get().(bool) {
		dev.clear()
	}

	return !dev.record.Failed()
}

// MemoryMap the device. The device should be in quad line mode.
//
// Returns true if no failure has been recorded.
func (dev *Device) MemoryMap() bool {
	if dev.window != nil {
		logger.Log(dev.env, "spiram", "already memory mapped")
		return !dev.record.Failed()
	}

	dev.memoryMap()

	return !dev.record.Failed()
}
