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
)

// Step of the mode sequence.
type Step int

// List of valid Step values, in the order they are performed.
const (
	StepResetEnableQuad Step = iota
	StepResetQuad
	StepResetEnableSingle
	StepResetSingle
	StepReadIDCommand
	StepReadIDData
	StepQuadEnable
)

func (s Step) String() string {
	switch s {
	case StepResetEnableQuad:
		return "qspi rst_en"
	case StepResetQuad:
		return "qspi rst"
	case StepResetEnableSingle:
		return "spi rst_en"
	case StepResetSingle:
		return "spi rst"
	case StepReadIDCommand:
		return "readid cmd"
	case StepReadIDData:
		return "readid dta"
	case StepQuadEnable:
		return "spi quad on"
	}
	return "unknown step"
}

// Stage of the memory mapping configuration.
type Stage int

// List of valid Stage values, in the order they are performed.
const (
	StageMPUDisable Stage = iota
	StageWriteTemplate
	StageReadTemplate
	StageActivate
	StageMPUEnable
)

func (s Stage) String() string {
	switch s {
	case StageMPUDisable:
		return "mpu disable"
	case StageWriteTemplate:
		return "mmap write config"
	case StageReadTemplate:
		return "mmap read config"
	case StageActivate:
		return "mmap"
	case StageMPUEnable:
		return "mpu enable"
	}
	return "unknown stage"
}

// Status is the state of the diagnostics record. The String() function
// returns the line printed by Dmesg().
type Status interface {
	fmt.Stringer

	// statuses that indicate a failure
	failure() bool
}

// OK is the status when nothing has gone wrong and the self test has not
// been run.
type OK struct{}

func (OK) String() string { return "spiram ok" }
func (OK) failure() bool  { return false }

// SelfTestPass is the status after a self test when nothing has gone wrong.
type SelfTestPass struct{}

func (SelfTestPass) String() string { return "spiram self-test pass" }
func (SelfTestPass) failure() bool  { return false }

// ControllerInitFail is the status when the bus controller could not be
// initialised.
type ControllerInitFail struct {
	Err error
}

func (ControllerInitFail) String() string { return "spiram ospi init fail" }
func (ControllerInitFail) failure() bool  { return true }

// StepFail is the status when a step of the mode sequence failed.
type StepFail struct {
	Step Step
	Err  error
}

func (s StepFail) String() string { return fmt.Sprintf("spiram %s fail", s.Step) }
func (StepFail) failure() bool    { return true }

// MappingFail is the status when a stage of the memory mapping failed.
type MappingFail struct {
	Stage Stage
	Err   error
}

func (s MappingFail) String() string { return fmt.Sprintf("spiram %s fail", s.Stage) }
func (MappingFail) failure() bool    { return true }

// ClearFail is the status when the device could not be cleared.
type ClearFail struct {
	Address uint32
	Err     error
}

func (ClearFail) String() string { return "spiram clear fail" }
func (ClearFail) failure() bool  { return true }

// MemtestFail is the status when a memory test found a value different to
// the value written. Width is in bits.
type MemtestFail struct {
	Width   int
	Address uint32
	Written uint32
	Read    uint32
}

func (s MemtestFail) String() string {
	digits := s.Width / 4
	return fmt.Sprintf("spiram memtest%d fail, address 0x%08x, written 0x%0*x, read 0x%0*x",
		s.Width, s.Address, digits, s.Written, digits, s.Read)
}
func (MemtestFail) failure() bool { return true }

// MemtestFault is the status when an access to the memory mapped window
// failed during a memory test.
type MemtestFault struct {
	Width   int
	Address uint32
	Err     error
}

func (s MemtestFault) String() string {
	return fmt.Sprintf("spiram memtest%d fault, address 0x%08x", s.Width, s.Address)
}
func (MemtestFault) failure() bool { return true }

// Record is the diagnostics record of the driver.
type Record struct {
	Status Status
	ID     [IDLength]byte

	// number of failures that happened after the first
	Suppressed int
}

// Failed returns true if a failure has been recorded.
func (r Record) Failed() bool {
	return r.Status != nil && r.Status.failure()
}

// latch the status. the first failure is kept. a failure replaces the
// SelfTestPass status. returns true if the status was latched
func (r *Record) latch(s Status) bool {
	if r.Status == nil {
		r.Status = OK{}
	}

	if r.Status.failure() {
		if s.failure() {
			r.Suppressed++
		}
		return false
	}

	switch s.(type) {
	case OK:
		return false
	case SelfTestPass:
		if _, ok := r.Status.(OK); !ok {
			return false
		}
	}

	r.Status = s
	return true
}
