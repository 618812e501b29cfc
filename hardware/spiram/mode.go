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
	"fmt"
	"strings"

	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// Mode of the device as far as the driver knows.
type Mode int

// List of valid Mode values.
const (
	Unknown Mode = iota
	SingleLine
	QuadLine
	QuadLineMapped
)

func (m Mode) String() string {
	switch m {
	case Unknown:
		return "unknown"
	case SingleLine:
		return "single line"
	case QuadLine:
		return "quad line"
	case QuadLineMapped:
		return "quad line mapped"
	}
	return "invalid"
}

func (dev *Device) setMode(m Mode) {
	if dev.mode != m {
		logger.Logf(dev.env, "spiram", "%s -> %s", dev.mode, m)
		dev.mode = m
	}
}

// modeSequence brings the device from an unknown mode into quad line mode.
//
// The reset pair is sent in quad mode and then in single line mode because
// there is no way of knowing which mode the device is in. The pair sent in
// the wrong mode is ignored by the device. Every step is attempted even if an
// earlier step fails.
func (dev *Device) modeSequence() {
	for _, s := range []struct {
		step Step
		fn   func() error
	}{
		{step: StepResetEnableQuad, fn: dev.resetEnableQuad},
		{step: StepResetQuad, fn: dev.resetQuad},
		{step: StepResetEnableSingle, fn: dev.resetEnableSingle},
		{step: StepResetSingle, fn: dev.resetSingle},
		{step: StepReadIDCommand, fn: dev.readIDCommand},
		{step: StepReadIDData, fn: dev.readIDData},
		{step: StepQuadEnable, fn: dev.quadEnable},
	} {
		if err := s.fn(); err != nil {
			dev.latch(StepFail{Step: s.step, Err: err})
		}
	}
}

func (dev *Device) resetEnableQuad() error {
	return dev.execute(control(cmdResetEn, ospi.Lines4), nil)
}

func (dev *Device) resetQuad() error {
	return dev.execute(control(cmdReset, ospi.Lines4), nil)
}

func (dev *Device) resetEnableSingle() error {
	return dev.execute(control(cmdResetEn, ospi.Lines1), nil)
}

// after the single line reset the device is in single line mode whatever
// mode it was in before.
func (dev *Device) resetSingle() error {
	if err := dev.execute(control(cmdReset, ospi.Lines1), nil); err != nil {
		return err
	}
	dev.setMode(SingleLine)
	return nil
}

// the identity is for diagnostic purposes only. it does not affect any
// subsequent step.
func (dev *Device) readIDCommand() error {
	var id [IDLength]byte
	return dev.issue(identify(), id[:])
}

// the data phase is attempted even if the command phase failed.
func (dev *Device) readIDData() error {
	var id [IDLength]byte
	if err := dev.transfer(identify(), id[:]); err != nil {
		return err
	}

	dev.record.ID = id

	s := strings.Builder{}
	for _, b := range id {
		s.WriteString(fmt.Sprintf(" %02x", b))
	}
	logger.Logf(dev.env, "spiram", "eid%s", s.String())

	if id[1] != knownGoodDie {
		logger.Logf(dev.env, "spiram", "known good die value is %#02x not %#02x", id[1], knownGoodDie)
	}

	return nil
}

// second byte of the identity for a device that passed the manufacturer test
const knownGoodDie = 0x5d

// the quad enable instruction is sent in single line mode.
func (dev *Device) quadEnable() error {
	if err := dev.execute(control(cmdQuadOn, ospi.Lines1), nil); err != nil {
		return err
	}
	if dev.mode == SingleLine {
		dev.setMode(QuadLine)
	}
	return nil
}
