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

package environment

import (
	"github.com/jetsetilly/spiram/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainDriver is the label of the environment used by the driver that the
// user is interacting with.
const MainDriver = Label("")

// Environment is used to provide context for a driver instance. Particularly
// useful when more than one driver (and emulated device) exists at the same
// time, as happens during testing.
type Environment struct {
	Label Label

	// the hardware preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type.
//
// The prefs argument can be nil, in which case a new Preferences instance will
// be created using the default preferences file. Providing a non-nil value
// allows the preferences of more than one driver to be synchronised.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences("")
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// IsMainDriver returns true if the environment is intended for the main
// driver.
func (env *Environment) IsMainDriver() bool {
	return env.Label == MainDriver
}

// AllowLogging implements the logger.Permission interface. Only the main
// driver is allowed to create log entries.
func (env *Environment) AllowLogging() bool {
	return env.IsMainDriver()
}
