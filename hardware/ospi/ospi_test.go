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

package ospi_test

import (
	"testing"

	"github.com/jetsetilly/spiram/hardware/ospi"
	"github.com/jetsetilly/spiram/test"
)

func TestCommandValidate(t *testing.T) {
	cmd := ospi.Command{
		Instruction:      0x38,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		AddressSize:      ospi.AddressSize24,
		Address:          0x7fffe0,
		DataLines:        ospi.Lines4,
		NbData:           32,
		DQS:              true,
	}
	test.ExpectSuccess(t, cmd.Validate())

	c := cmd
	c.Address = 0x1000000
	test.ExpectFailure(t, c.Validate(), "address")

	c = cmd
	c.AddressSize = 32
	test.ExpectFailure(t, c.Validate(), "address size")

	c = cmd
	c.NbData = 0
	test.ExpectFailure(t, c.Validate(), "data length")

	c = cmd
	c.NbData = ospi.MaxData
	test.ExpectSuccess(t, c.Validate(), "maximum data length")
	c.NbData = ospi.MaxData + 1
	test.ExpectFailure(t, c.Validate(), "data length too long")

	c = cmd
	c.InstructionLines = ospi.LinesNone
	test.ExpectFailure(t, c.Validate(), "instruction")

	c = cmd
	c.DataLines = 2
	test.ExpectFailure(t, c.Validate(), "data lines")

	// templates do not need a data length
	c = cmd
	c.OperationType = ospi.WriteCfg
	c.NbData = 0
	test.ExpectSuccess(t, c.Validate(), "template")
}

func TestCommandString(t *testing.T) {
	cmd := ospi.Command{
		OperationType:    ospi.ReadCfg,
		Instruction:      0xeb,
		InstructionLines: ospi.Lines4,
		AddressLines:     ospi.Lines4,
		AddressSize:      ospi.AddressSize24,
		DataLines:        ospi.Lines4,
		DummyCycles:      6,
	}
	test.ExpectEquality(t, cmd.String(), "read cfg 0xeb (4-line) addr 0x000000 (4-line) dummy 6 data 0 (4-line)")
}

func TestConfigValidate(t *testing.T) {
	cfg := ospi.Config{
		DeviceSize:         23,
		ChipSelectHighTime: 1,
		ClockPrescaler:     2,
		ChipSelectBoundary: 10,
		SampleShifting:     true,
	}
	test.ExpectSuccess(t, cfg.Validate())

	c := cfg
	c.ClockPrescaler = 0
	test.ExpectFailure(t, c.Validate())

	c = cfg
	c.DeviceSize = 0
	test.ExpectFailure(t, c.Validate())
}
