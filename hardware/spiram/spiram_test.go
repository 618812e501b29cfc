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
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/environment"
	"github.com/jetsetilly/spiram/hardware/memorymap"
	"github.com/jetsetilly/spiram/hardware/mpu"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/hardware/ospi/emulated"
	"github.com/jetsetilly/spiram/hardware/preferences"
	"github.com/jetsetilly/spiram/hardware/psram"
	"github.com/jetsetilly/spiram/test"
)

// a small device keeps the memory tests quick
const testSize = 0x10000

const testOrigin = 0x90000000

type board struct {
	env  *environment.Environment
	mmap memorymap.Map
	ram  *psram.Device
	mpu  *mpu.Emulated
	ctl  *emulated.Controller
	dev  *Device
}

func newBoard(t *testing.T, powerOn psram.Mode) *board {
	t.Helper()
	return newSizedBoard(t, powerOn, testSize)
}

func newSizedBoard(t *testing.T, powerOn psram.Mode, size uint32) *board {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Size.Set(int(size)))
	test.DemandSuccess(t, p.Clear.Set(false))

	b := &board{}

	b.env, err = environment.NewEnvironment(environment.MainDriver, p)
	test.DemandSuccess(t, err)

	b.mmap = memorymap.NewMap(b.env, memorymap.STM32H7A3, size)

	part := psram.Parts["ESP-PSRAM64H"]
	part.Size = size
	b.ram = psram.NewDevice(b.env, part, powerOn)
	b.mpu = mpu.NewEmulated(b.env, b.mmap.MPURegions)
	b.ctl = emulated.NewController(b.env, b.mmap.Window.Base, b.ram, b.mpu)

	b.dev, err = NewDevice(b.env, b.ctl, b.mpu, b.mmap)
	test.DemandSuccess(t, err)
	t.Cleanup(b.dev.Release)

	return b
}

func dmesg(dev *Device) string {
	s := &strings.Builder{}
	dev.Dmesg(s)
	return s.String()
}

func TestInitialise(t *testing.T) {
	b := newBoard(t, psram.SPI)
	test.ExpectEquality(t, b.dev.Mode(), Unknown)
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 00 00 00 00 00 00 00 00\nspiram ok\n")

	test.ExpectSuccess(t, b.dev.Initialise())
	test.ExpectEquality(t, b.dev.Mode(), QuadLineMapped)
	test.ExpectEquality(t, b.ram.Mode(), psram.QPI)
	test.ExpectSuccess(t, b.ctl.IsMapped())
	test.ExpectInequality(t, b.dev.Window(), nil)
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 0d 5d 52 a2 64 31 91 31\nspiram ok\n")

	// initialising a second time does nothing
	test.ExpectSuccess(t, b.dev.Initialise())
	test.ExpectEquality(t, b.dev.Mode(), QuadLineMapped)

	test.ExpectSuccess(t, b.dev.SelfTest())
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 0d 5d 52 a2 64 31 91 31\nspiram self-test pass\n")
}

func TestStartupTest(t *testing.T) {
	b := newBoard(t, psram.QPI)
	test.DemandSuccess(t, b.env.Prefs.StartupTest.Set(true))

	test.ExpectSuccess(t, b.dev.Initialise())
	test.ExpectEquality(t, b.dev.Record().Status, Status(SelfTestPass{}))
}

// the result of initialisation does not depend on the mode the device was in
// when the driver started
func TestPowerOnMode(t *testing.T) {
	for _, m := range []psram.Mode{psram.SPI, psram.QPI} {
		b := newBoard(t, m)
		test.ExpectSuccess(t, b.dev.Initialise(), m)
		test.ExpectEquality(t, b.dev.Mode(), QuadLineMapped, m)
		test.ExpectEquality(t, b.ram.Mode(), psram.QPI, m)
		test.ExpectEquality(t, b.dev.Record().ID, b.ram.Part().ID, m)
		test.ExpectSuccess(t, b.dev.SelfTest(), m)
	}
}

func TestBounds(t *testing.T) {
	b := newBoard(t, psram.SPI)
	test.ExpectEquality(t, b.dev.MappedStart(), uint32(testOrigin))
	test.ExpectEquality(t, b.dev.MappedEnd()-b.dev.MappedStart(), uint32(testSize))
	test.ExpectEquality(t, b.dev.Size(), uint32(testSize))

	test.DemandSuccess(t, b.dev.Initialise())

	// the rest of the window is protected by the MPU
	w := b.dev.Window()
	test.ExpectSuccess(t, w.Write32(b.dev.MappedEnd()-4, 0x01020304))
	err := w.Write32(b.dev.MappedEnd(), 0x01020304)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, ospi.HardFault))
	test.ExpectSuccess(t, curated.Has(err, mpu.ProtectionFault))
}

func TestClaim(t *testing.T) {
	b := newBoard(t, psram.SPI)

	_, err := NewDevice(b.env, b.ctl, b.mpu, b.mmap)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, AlreadyClaimed))

	b.dev.Release()

	dev, err := NewDevice(b.env, b.ctl, b.mpu, b.mmap)
	test.ExpectSuccess(t, err)
	if dev != nil {
		dev.Release()
	}
}

func TestInvalidRegion(t *testing.T) {
	b := newBoard(t, psram.SPI)

	for _, r := range []memorymap.Region{
		{Base: testOrigin, Size: 1000},
		{Base: testOrigin, Size: 512},
		{Base: testOrigin, Size: 0x2000000},
		{Base: testOrigin + 0x10000, Size: testSize},
	} {
		mmap := b.mmap
		mmap.Device = r
		_, err := NewDevice(b.env, emulated.NewController(b.env, testOrigin, b.ram, b.mpu), b.mpu, mmap)
		test.ExpectFailure(t, err, r)
		test.ExpectSuccess(t, curated.Is(err, InvalidRegion), r)
	}
}

func TestControllerInitFail(t *testing.T) {
	b := newBoard(t, psram.SPI)
	b.ctl.FailWhen(func(op emulated.Operation) bool {
		return op.Phase == ospi.PhaseInit
	})

	test.ExpectFailure(t, b.dev.Initialise())
	test.ExpectEquality(t, b.dev.Mode(), Unknown)

	r := b.dev.Record()
	_, ok := r.Status.(ControllerInitFail)
	test.ExpectSuccess(t, ok)

	// every following step also failed
	test.ExpectInequality(t, r.Suppressed, 0)

	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 00 00 00 00 00 00 00 00\nspiram ospi init fail\n")
}

func TestFirstFailureWins(t *testing.T) {
	b := newBoard(t, psram.SPI)
	b.ctl.FailWhen(func(op emulated.Operation) bool {
		if op.Phase != ospi.PhaseCommand {
			return false
		}
		if op.Command.Instruction == cmdResetEn && op.Command.InstructionLines == ospi.Lines4 {
			return true
		}
		return op.Command.Instruction == cmdQuadOn
	})

	test.ExpectFailure(t, b.dev.Initialise())

	r := b.dev.Record()
	s, ok := r.Status.(StepFail)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s.Step, StepResetEnableQuad)
	test.ExpectSuccess(t, curated.Is(s.Err, CommandPhase))
	test.ExpectSuccess(t, curated.Has(s.Err, ospi.Timeout))
	test.ExpectEquality(t, r.Suppressed, 1)

	// the identity was still read
	test.ExpectEquality(t, r.ID, b.ram.Part().ID)

	// remaining steps were attempted. the device did not enter quad mode but
	// memory mapping was still performed
	test.ExpectEquality(t, b.ram.Mode(), psram.SPI)
	test.ExpectEquality(t, b.dev.Mode(), SingleLine)
	test.ExpectSuccess(t, b.dev.Window() != nil)
	test.ExpectSuccess(t, b.ctl.IsMapped())

	// mapping is not repeated
	test.ExpectFailure(t, b.dev.Initialise())
	test.ExpectEquality(t, b.dev.Record().Suppressed, 1)

	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 0d 5d 52 a2 64 31 91 31\nspiram qspi rst_en fail\n")

	// a later self test does not replace the failure
	b.ctl.FailWhen(nil)
	test.ExpectFailure(t, b.dev.SelfTest())
	_, ok = b.dev.Record().Status.(StepFail)
	test.ExpectSuccess(t, ok)
}

func TestReadIDDataPhase(t *testing.T) {
	b := newBoard(t, psram.QPI)
	b.ctl.FailWhen(func(op emulated.Operation) bool {
		return op.Phase == ospi.PhaseReceive && op.Command.Instruction == cmdReadID
	})

	test.ExpectFailure(t, b.dev.Initialise())

	s, ok := b.dev.Record().Status.(StepFail)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s.Step, StepReadIDData)
	test.ExpectSuccess(t, curated.Is(s.Err, DataPhase))
	test.ExpectEquality(t, b.dev.Mode(), QuadLineMapped)
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 00 00 00 00 00 00 00 00\nspiram readid dta fail\n")
}

func TestReadIDCommandPhase(t *testing.T) {
	b := newBoard(t, psram.QPI)
	b.ctl.FailWhen(func(op emulated.Operation) bool {
		return op.Phase == ospi.PhaseCommand && op.Command.Instruction == cmdReadID
	})

	test.ExpectFailure(t, b.dev.Initialise())

	// the data phase was still attempted and its failure counted
	r := b.dev.Record()
	s, ok := r.Status.(StepFail)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s.Step, StepReadIDCommand)
	test.ExpectSuccess(t, curated.Is(s.Err, CommandPhase))
	test.ExpectEquality(t, r.Suppressed, 1)
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 00 00 00 00 00 00 00 00\nspiram readid cmd fail\n")

	// quad mode and memory mapping are unaffected
	test.ExpectEquality(t, b.dev.Mode(), QuadLineMapped)
}

func TestMappingFail(t *testing.T) {
	b := newBoard(t, psram.SPI)
	b.ctl.FailWhen(func(op emulated.Operation) bool {
		return op.Phase == ospi.PhaseCommand && op.Command.OperationType == ospi.WriteCfg
	})

	test.ExpectFailure(t, b.dev.Initialise())

	r := b.dev.Record()
	s, ok := r.Status.(MappingFail)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s.Stage, StageWriteTemplate)

	// activation fails without a write template
	test.ExpectEquality(t, r.Suppressed, 1)
	test.ExpectEquality(t, b.dev.Mode(), QuadLine)
	test.ExpectEquality(t, b.dev.Window(), nil)
	test.ExpectEquality(t, dmesg(b.dev), "spiram eid 0d 5d 52 a2 64 31 91 31\nspiram mmap write config fail\n")
}

// every write transaction has the data strobe enabled and every other
// transaction has it disabled
func TestWriteStrobe(t *testing.T) {
	b := newBoard(t, psram.QPI)
	test.DemandSuccess(t, b.env.Prefs.Clear.Set(true))

	var commands int
	b.ctl.Observe(func(op emulated.Operation) {
		if op.Phase != ospi.PhaseCommand && op.Phase != ospi.PhaseWindow {
			return
		}
		commands++
		write := op.Command.Instruction == cmdQuadWrite
		test.ExpectEquality(t, op.Command.DQS, write, op.Phase, op.Command)
	})

	test.ExpectSuccess(t, b.dev.Initialise())
	test.ExpectSuccess(t, b.dev.SelfTest())
	test.ExpectInequality(t, commands, 0)
}
