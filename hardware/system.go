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

package hardware

import (
	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/environment"
	"github.com/jetsetilly/spiram/hardware/memorymap"
	"github.com/jetsetilly/spiram/hardware/mpu"
	"github.com/jetsetilly/spiram/hardware/ospi/bridge"
	"github.com/jetsetilly/spiram/hardware/ospi/emulated"
	"github.com/jetsetilly/spiram/hardware/psram"
	"github.com/jetsetilly/spiram/hardware/spiram"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/random"
)

// Sentinal error patterns.
const (
	UnknownPart = "hardware: unknown part (%s)"
)

// System is a serial RAM attached to a microcontroller together with the
// driver for the RAM.
type System struct {
	Env *environment.Environment
	Map memorymap.Map
	RAM *spiram.Device

	// the emulated parts of the system. nil if the system is bridged
	Controller *emulated.Controller
	PSRAM      *psram.Device
	MPU        *mpu.Emulated

	// source of the power on contents of the emulated RAM
	Random *random.Random

	// nil if the system is emulated
	Bridge *bridge.Bridge
}

// NewEmulatedSystem creates a system in which every part is emulated. The
// target and part are taken from the preferences in the environment. The
// emulated RAM starts in the powerOn mode with random contents, which are the
// same every time if the ZeroSeed preference is set.
func NewEmulatedSystem(env *environment.Environment, powerOn psram.Mode) (*System, error) {
	name := env.Prefs.Part.String()
	part, ok := psram.Parts[name]
	if !ok {
		return nil, curated.Errorf(UnknownPart, name)
	}

	size := uint32(env.Prefs.Size.Get().(int))
	if size > part.Size {
		logger.Logf(env, "hardware", "size preference (%#x) larger than %s. using %#x", size, part.Name, part.Size)
		size = part.Size
	}
	part.Size = size

	sys := &System{Env: env}
	sys.Map = memorymap.NewMap(env, memorymap.Model(env.Prefs.Target.String()), size)

	sys.Random = random.NewRandom()
	sys.Random.ZeroSeed = env.Prefs.ZeroSeed.Get().(bool)

	sys.PSRAM = psram.NewDevice(env, part, powerOn)
	sys.PSRAM.Randomise(sys.Random)
	sys.MPU = mpu.NewEmulated(env, sys.Map.MPURegions)
	sys.Controller = emulated.NewController(env, sys.Map.Window.Base, sys.PSRAM, sys.MPU)
	sys.Controller.SetWriteStrobeErratum(sys.Map.WriteStrobeErratum)

	var err error
	sys.RAM, err = spiram.NewDevice(env, sys.Controller, sys.MPU, sys.Map)
	if err != nil {
		return nil, err
	}

	return sys, nil
}

// NewBridgedSystem creates a system for a real microcontroller connected by
// the port. The size of the RAM is taken from the preferences.
func NewBridgedSystem(env *environment.Environment, port bridge.Port) (*System, error) {
	b, err := bridge.NewBridge(env, port)
	if err != nil {
		return nil, err
	}
	b.SetLatency(env.Prefs.Latency())

	sys := &System{
		Env:    env,
		Bridge: b,
	}

	size := uint32(env.Prefs.Size.Get().(int))
	sys.Map = memorymap.NewMap(env, memorymap.Model(env.Prefs.Target.String()), size)

	sys.RAM, err = spiram.NewDevice(env, b, b, sys.Map)
	if err != nil {
		b.Close()
		return nil, err
	}

	return sys, nil
}

// IsEmulated returns true if the system is emulated.
func (sys *System) IsEmulated() bool {
	return sys.Bridge == nil
}

// Responder returns a bridge responder for the emulated parts of the system.
// Returns nil if the system is not emulated.
func (sys *System) Responder(name string) *bridge.Responder {
	if !sys.IsEmulated() {
		return nil
	}
	return bridge.NewResponder(sys.Env, name, sys.Controller, sys.MPU)
}

// Close releases the driver and closes the connection to the bridge.
func (sys *System) Close() error {
	sys.RAM.Release()
	if sys.Bridge != nil {
		return sys.Bridge.Close()
	}
	return nil
}
