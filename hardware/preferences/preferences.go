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

// Package preferences collates the preference values used by the spiram
// driver and the bus controllers it runs on. Values are stored on disk with
// the prefs package and can be overridden from the command line with the prefs
// command line stack.
package preferences

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/prefs"
	"github.com/jetsetilly/spiram/resources"
)

// Preferences defines and collates all the preference values used by the
// hardware packages.
type Preferences struct {
	dsk *prefs.Disk

	// target model. selects the memory map of the microcontroller
	Target prefs.String

	// part number of the serial RAM. only used by the emulated device
	Part prefs.String

	// size of the serial RAM in bytes. must be a power of two
	Size prefs.Int

	// fill the device with a known value during initialisation
	Clear prefs.Bool

	// run the self test at the end of initialisation
	StartupTest prefs.Bool

	// timeout in milliseconds for each bus phase
	Timeout prefs.Int

	// bus clock prescaler
	Prescaler prefs.Int

	// the emulated RAM has the same contents at power on every time
	ZeroSeed prefs.Bool

	// serial port of the bridge. the empty string means the system is
	// emulated and AUTO means detect
	BridgePort prefs.String

	// baud rate of the bridge serial port
	BridgeBaud prefs.Int

	// seconds added to the timeout of every bridge request
	BridgeLatency prefs.Float
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// Default values.
const (
	DefaultTarget     = "STM32H7A3"
	DefaultPart       = "ESP-PSRAM64H"
	DefaultSize       = 0x00800000
	DefaultTimeout    = 5000
	DefaultPrescaler  = 2
	DefaultBridgeBaud = 921600

	DefaultBridgeLatency = 0.5
)

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path will store preferences in the default
// preferences file.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.Size.SetHookPre(func(v prefs.Value) error {
		sz := v.(int)
		if sz < 1024 || bits.OnesCount(uint(sz)) != 1 {
			return fmt.Errorf("size must be a power of two and at least 1024 bytes (%#x)", sz)
		}
		return nil
	})
	p.Prescaler.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 || v.(int) > 256 {
			return fmt.Errorf("prescaler must be between 1 and 256 (%d)", v.(int))
		}
		return nil
	})
	p.BridgeLatency.SetHookPre(func(v prefs.Value) error {
		if v.(float64) < 0 {
			return fmt.Errorf("latency cannot be negative (%v)", v)
		}
		return nil
	})
	p.Timeout.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("timeout must be positive (%d)", v.(int))
		}
		return nil
	})

	var err error

	if path == "" {
		path, err = resources.JoinPath(prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		v   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"spiram.target", &p.Target},
		{"spiram.part", &p.Part},
		{"spiram.size", &p.Size},
		{"spiram.clear", &p.Clear},
		{"spiram.startuptest", &p.StartupTest},
		{"spiram.timeout", &p.Timeout},
		{"spiram.prescaler", &p.Prescaler},
		{"psram.zeroseed", &p.ZeroSeed},
		{"bridge.port", &p.BridgePort},
		{"bridge.baud", &p.BridgeBaud},
		{"bridge.latency", &p.BridgeLatency},
	} {
		if err := p.dsk.Add(e.key, e.v); err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load()
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	// hooks are not set when SetDefaults() is first called and the default
	// values are always valid so errors can be ignored
	_ = p.Target.Set(DefaultTarget)
	_ = p.Part.Set(DefaultPart)
	_ = p.Size.Set(DefaultSize)
	_ = p.Clear.Set(true)
	_ = p.StartupTest.Set(false)
	_ = p.Timeout.Set(DefaultTimeout)
	_ = p.Prescaler.Set(DefaultPrescaler)
	_ = p.ZeroSeed.Set(false)
	_ = p.BridgePort.Set("")
	_ = p.BridgeBaud.Set(DefaultBridgeBaud)
	_ = p.BridgeLatency.Set(DefaultBridgeLatency)
}

// PhaseTimeout returns the Timeout value as a time.Duration.
func (p *Preferences) PhaseTimeout() time.Duration {
	return time.Duration(p.Timeout.Get().(int)) * time.Millisecond
}

// Latency returns the bridge latency preference as a duration.
func (p *Preferences) Latency() time.Duration {
	return time.Duration(p.BridgeLatency.Get().(float64) * float64(time.Second))
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
