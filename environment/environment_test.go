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

package environment_test

import (
	"path/filepath"
	"testing"

	"github.com/jetsetilly/spiram/environment"
	"github.com/jetsetilly/spiram/hardware/preferences"
	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/test"
)

func TestPermission(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	main, err := environment.NewEnvironment(environment.MainDriver, p)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, main.IsMainDriver())

	shadow, err := environment.NewEnvironment("shadow", p)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, shadow.IsMainDriver())

	// both environments share the preferences
	test.ExpectSuccess(t, p.Clear.Set(false))
	test.ExpectEquality(t, shadow.Prefs.Clear.Get().(bool), false)

	l := logger.NewLogger(10)
	w := &test.CompareWriter{}

	l.Log(shadow, "test", "hidden")
	l.Log(main, "test", "visible")
	l.Write(w)
	test.ExpectEquality(t, w.String(), "test: visible\n")
}
