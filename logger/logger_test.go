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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/spiram/logger"
	"github.com/jetsetilly/spiram/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "spiram", "quad on")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "spiram: quad on\n")

	w.Reset()
	log.Log(logger.Allow, "mpu", "region enabled")
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "spiram: quad on\nmpu: region enabled\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "mpu: region enabled\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeatedEntries(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "ospi", "timeout on %s", "receive")
	log.Logf(logger.Allow, "ospi", "timeout on %s", "receive")
	log.Logf(logger.Allow, "ospi", "timeout on %s", "receive")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "ospi: timeout on receive (repeat x3)\n")
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "b: 2\nc: 3\n")
}

type prohibit struct{}

func (prohibit) AllowLogging() bool {
	return false
}

func TestPermission(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(prohibit{}, "spiram", "not logged")
	log.Logf(prohibit{}, "spiram", "not logged %d", 10)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	// echo writer sees every allowed entry
	echo := &strings.Builder{}
	log.SetEcho(echo)
	log.Log(logger.Allow, "spiram", "logged")
	test.ExpectEquality(t, echo.String(), "spiram: logged\n")
}
