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

package emulated

import (
	"time"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/logger"
)

// Checker is implemented by the emulated MPU.
type Checker interface {
	Check(addr uint32, n int) error
}

// Operation is passed to the FailWhen() and Observe() functions.
type Operation struct {
	Phase   ospi.Phase
	Command ospi.Command

	// address of a window access
	Address uint32
}

// Controller is an emulated bus controller.
type Controller struct {
	perm   logger.Permission
	origin uint32
	target ospi.Target
	mpu    Checker

	initialised bool
	cfg         ospi.Config

	// command waiting for its data phase
	pending *ospi.Command

	readTemplate  *ospi.Command
	writeTemplate *ospi.Command

	mapped    bool
	mappedCfg ospi.MappedConfig

	// chip select held after a memory mapped access
	held     bool
	heldNext uint32
	heldOp   bool

	// memory mapped writes fault if the data strobe is disabled
	strobeErratum bool

	failWhen func(Operation) bool
	observe  func(Operation)
}

// NewController is the preferred method of initialisation for the Controller
// type. The origin is the address of the memory mapped window. The mpu
// argument can be nil.
func NewController(perm logger.Permission, origin uint32, target ospi.Target, mpu Checker) *Controller {
	return &Controller{
		perm:   perm,
		origin: origin,
		target: target,
		mpu:    mpu,

		strobeErratum: true,
	}
}

// SetWriteStrobeErratum sets whether the controller suffers from the memory
// mapped write erratum. The erratum is present by default.
func (ctl *Controller) SetWriteStrobeErratum(erratum bool) {
	ctl.strobeErratum = erratum
}

// FailWhen sets a function that is called for every operation. If it
// returns true then the operation fails with a timeout.
func (ctl *Controller) FailWhen(f func(Operation) bool) {
	ctl.failWhen = f
}

// Observe sets a function that is called for every operation.
func (ctl *Controller) Observe(f func(Operation)) {
	ctl.observe = f
}

// IsMapped returns true if the controller is in memory mapped mode.
func (ctl *Controller) IsMapped() bool {
	return ctl.mapped
}

func (ctl *Controller) operation(op Operation) error {
	if ctl.observe != nil {
		ctl.observe(op)
	}
	if ctl.failWhen != nil && ctl.failWhen(op) {
		logger.Logf(ctl.perm, "ospi", "injected fault: %s", op.Phase)
		return curated.Errorf(ospi.Timeout, op.Phase)
	}
	return nil
}

// Init implements the ospi.Controller interface.
func (ctl *Controller) Init(cfg ospi.Config) error {
	if err := cfg.Validate(); err != nil {
		return curated.Errorf(ospi.InvalidConfig, err)
	}
	if err := ctl.operation(Operation{Phase: ospi.PhaseInit}); err != nil {
		return err
	}

	ctl.release()

	ctl.cfg = cfg
	ctl.initialised = true
	ctl.pending = nil
	ctl.readTemplate = nil
	ctl.writeTemplate = nil
	ctl.mapped = false

	return nil
}

// Command implements the ospi.Controller interface.
func (ctl *Controller) Command(cmd ospi.Command, _ time.Duration) error {
	if !ctl.initialised {
		return curated.Errorf(ospi.NotInitialised)
	}
	if ctl.mapped {
		return curated.Errorf(ospi.Busy)
	}
	if err := cmd.Validate(); err != nil {
		return curated.Errorf(ospi.InvalidCommand, err)
	}

	// a new command abandons any command waiting for a data phase
	ctl.pending = nil

	if err := ctl.operation(Operation{Phase: ospi.PhaseCommand, Command: cmd}); err != nil {
		return err
	}

	switch cmd.OperationType {
	case ospi.ReadCfg:
		ctl.readTemplate = &cmd
	case ospi.WriteCfg:
		ctl.writeTemplate = &cmd
	default:
		if cmd.DataLines == ospi.LinesNone {
			f := ospi.FrameFromCommand(cmd)
			ctl.target.Transfer(&f)
			ctl.target.Deselect()
		} else {
			ctl.pending = &cmd
		}
	}

	return nil
}

// Transmit implements the ospi.Controller interface.
func (ctl *Controller) Transmit(data []byte, _ time.Duration) error {
	return ctl.dataPhase(ospi.PhaseTransmit, data, true)
}

// Receive implements the ospi.Controller interface.
func (ctl *Controller) Receive(data []byte, _ time.Duration) error {
	return ctl.dataPhase(ospi.PhaseReceive, data, false)
}

func (ctl *Controller) dataPhase(phase ospi.Phase, data []byte, write bool) error {
	if !ctl.initialised {
		return curated.Errorf(ospi.NotInitialised)
	}
	if ctl.mapped {
		return curated.Errorf(ospi.Busy)
	}
	if ctl.pending == nil {
		return curated.Errorf(ospi.NoCommand, phase)
	}

	cmd := *ctl.pending
	ctl.pending = nil

	if len(data) != cmd.NbData {
		return curated.Errorf(ospi.DataLength, len(data), cmd.NbData)
	}
	if err := ctl.operation(Operation{Phase: phase, Command: cmd}); err != nil {
		return err
	}

	ctl.frames(cmd, cmd.Address, data, write)

	return nil
}

// frames sends the command and data to the target, releasing chip select
// and reissuing the command at every chip select boundary.
func (ctl *Controller) frames(cmd ospi.Command, addr uint32, data []byte, write bool) {
	for len(data) > 0 {
		n := len(data)
		if ctl.cfg.ChipSelectBoundary > 0 {
			boundary := uint32(1) << ctl.cfg.ChipSelectBoundary
			if r := int(boundary - addr%boundary); r < n {
				n = r
			}
		}

		f := ospi.FrameFromCommand(cmd)
		f.Address = addr
		f.Data = data[:n]
		f.Write = write
		ctl.target.Transfer(&f)
		ctl.target.Deselect()

		data = data[n:]
		addr += uint32(n)
	}
}

// MemoryMapped implements the ospi.Controller interface.
func (ctl *Controller) MemoryMapped(cfg ospi.MappedConfig) (ospi.Window, error) {
	if !ctl.initialised {
		return nil, curated.Errorf(ospi.NotInitialised)
	}
	if ctl.mapped {
		return nil, curated.Errorf(ospi.Busy)
	}
	if ctl.readTemplate == nil {
		return nil, curated.Errorf(ospi.NoTemplate, "read")
	}
	if ctl.writeTemplate == nil {
		return nil, curated.Errorf(ospi.NoTemplate, "write")
	}
	if err := ctl.operation(Operation{Phase: ospi.PhaseMapped}); err != nil {
		return nil, err
	}

	ctl.mapped = true
	ctl.mappedCfg = cfg

	if !cfg.TimeoutActivation {
		logger.Log(ctl.perm, "ospi", "memory mapped without timeout activation. chip select will be held")
	}

	return &window{ctl: ctl}, nil
}

// release chip select if it is being held
func (ctl *Controller) release() {
	if ctl.held {
		ctl.target.Deselect()
		ctl.held = false
	}
}
