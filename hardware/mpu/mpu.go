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

// Package mpu defines the memory protection unit primitives used by the
// spiram driver and an emulation of a Cortex-M7 style MPU that enforces them.
//
// Regions must have a size that is a power of two, no smaller than 32 bytes,
// and a base address that is aligned to the size. When regions overlap, the
// region added most recently takes precedence. Addresses not covered by any
// region fall through to the default memory map and are allowed.
package mpu

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/jetsetilly/spiram/curated"
	"github.com/jetsetilly/spiram/logger"
)

// Unit is the interface to a memory protection unit.
type Unit interface {
	// DisableRegion prevents all access to the region
	DisableRegion(base uint32, size uint32) error

	// EnableRegion allows full access to the region
	EnableRegion(base uint32, size uint32) error
}

// Sentinal error patterns.
const (
	InvalidRegion   = "mpu: invalid region (base %#08x, size %#x): %s"
	NoFreeRegions   = "mpu: no free regions"
	ProtectionFault = "mpu: protection fault at %#08x"
)

// MinRegionSize is the smallest region size supported.
const MinRegionSize = 32

// ValidateRegion checks that the base and size describe a region that the
// MPU can represent.
func ValidateRegion(base uint32, size uint32) error {
	if size < MinRegionSize || bits.OnesCount32(size) != 1 {
		return curated.Errorf(InvalidRegion, base, size, "size must be a power of two")
	}
	if base&(size-1) != 0 {
		return curated.Errorf(InvalidRegion, base, size, "base not aligned to size")
	}
	return nil
}

type region struct {
	base    uint32
	size    uint32
	enabled bool
}

func (r region) contains(addr uint32, n int) bool {
	end := uint64(addr) + uint64(n)
	return addr >= r.base && end <= uint64(r.base)+uint64(r.size)
}

func (r region) overlaps(addr uint32, n int) bool {
	end := uint64(addr) + uint64(n)
	return uint64(addr) < uint64(r.base)+uint64(r.size) && end > uint64(r.base)
}

// Emulated is an emulation of an MPU with a fixed number of regions.
type Emulated struct {
	perm    logger.Permission
	regions []region
	max     int
}

// NewEmulated is the preferred method of initialisation for the Emulated type.
func NewEmulated(perm logger.Permission, numRegions int) *Emulated {
	return &Emulated{
		perm: perm,
		max:  numRegions,
	}
}

func (m *Emulated) String() string {
	s := strings.Builder{}
	for i, r := range m.regions {
		acc := "no access"
		if r.enabled {
			acc = "full access"
		}
		s.WriteString(fmt.Sprintf("%d: %#08x %#x %s\n", i, r.base, r.size, acc))
	}
	return s.String()
}

func (m *Emulated) set(base uint32, size uint32, enabled bool) error {
	if err := ValidateRegion(base, size); err != nil {
		return err
	}

	// a region with the same base and size is reconfigured. it moves to the
	// top of the precedence order
	for i, r := range m.regions {
		if r.base == base && r.size == size {
			m.regions = append(m.regions[:i], m.regions[i+1:]...)
			break // for loop
		}
	}

	if len(m.regions) >= m.max {
		return curated.Errorf(NoFreeRegions)
	}

	m.regions = append(m.regions, region{base: base, size: size, enabled: enabled})

	return nil
}

// DisableRegion implements the Unit interface.
func (m *Emulated) DisableRegion(base uint32, size uint32) error {
	if err := m.set(base, size, false); err != nil {
		return err
	}
	logger.Logf(m.perm, "mpu", "disabled %#08x size %#x", base, size)
	return nil
}

// EnableRegion implements the Unit interface.
func (m *Emulated) EnableRegion(base uint32, size uint32) error {
	if err := m.set(base, size, true); err != nil {
		return err
	}
	logger.Logf(m.perm, "mpu", "enabled %#08x size %#x", base, size)
	return nil
}

// Check returns a ProtectionFault error if an access of n bytes at addr is
// not allowed.
func (m *Emulated) Check(addr uint32, n int) error {
	for i := len(m.regions) - 1; i >= 0; i-- {
		r := m.regions[i]
		if r.contains(addr, n) {
			if r.enabled {
				return nil
			}
			return curated.Errorf(ProtectionFault, addr)
		}

		// access straddles the edge of a region. the part inside the region
		// is subject to the region's rules
		if r.overlaps(addr, n) && !r.enabled {
			return curated.Errorf(ProtectionFault, addr)
		}
	}
	return nil
}
