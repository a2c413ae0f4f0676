// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"errors"
	"fmt"
)

// Validate checks the static consistency of the register map:
//   - offsets are 4-byte aligned, unique and strictly increasing,
//   - fields fit in the register word and do not overlap,
//   - multiregister groups are complete and contiguous.
//
// All violations are reported.
func (m *Map) Validate() error {
	var (
		errs   []error
		errorf = func(format string, args ...interface{}) {
			errs = append(errs, fmt.Errorf("regmap: "+format, args...))
		}
	)

	if m.Width != RegWidth {
		errorf("invalid register width %d (want %d)", m.Width, RegWidth)
	}

	var (
		names = make(map[string]int, len(m.Regs))
		offs  = make(map[uint32]string, len(m.Regs))
	)
	for i, reg := range m.Regs {
		if reg.Offset%4 != 0 {
			errorf("register %s: unaligned offset 0x%x", reg.Name, reg.Offset)
		}
		if _, dup := names[reg.Name]; dup {
			errorf("register %s: duplicate name", reg.Name)
		}
		names[reg.Name] = i
		if prev, dup := offs[reg.Offset]; dup {
			errorf("register %s: offset 0x%x already used by %s", reg.Name, reg.Offset, prev)
		}
		offs[reg.Offset] = reg.Name
		if i > 0 && reg.Offset <= m.Regs[i-1].Offset {
			errorf(
				"register %s: offset 0x%x not increasing (previous=0x%x)",
				reg.Name, reg.Offset, m.Regs[i-1].Offset,
			)
		}
		errs = append(errs, checkFields(reg)...)
	}

	groups := make(map[string]bool, len(m.Multi))
	for _, g := range m.Multi {
		groups[g.Name] = true
		switch {
		case g.Count <= 0:
			errorf("group %s: invalid count %d", g.Name, g.Count)
			continue
		case g.FieldWidth <= 0 || g.FieldsPerReg <= 0:
			errorf(
				"group %s: invalid layout (width=%d, fields-per-reg=%d)",
				g.Name, g.FieldWidth, g.FieldsPerReg,
			)
		case g.FieldWidth*g.FieldsPerReg > m.Width:
			errorf(
				"group %s: %d fields of %d bits do not fit in a register",
				g.Name, g.FieldsPerReg, g.FieldWidth,
			)
		}

		for i := 0; i < g.Count; i++ {
			name := g.RegName(i)
			j, ok := names[name]
			if !ok {
				errorf("group %s: missing register %s", g.Name, name)
				continue
			}
			reg := m.Regs[j]
			if want := g.Base + 4*uint32(i); reg.Offset != want {
				errorf(
					"group %s: register %s at 0x%x (want 0x%x)",
					g.Name, name, reg.Offset, want,
				)
			}
			if reg.Group != g.Name || reg.Index != i {
				errorf(
					"group %s: register %s tagged as %s[%d]",
					g.Name, name, reg.Group, reg.Index,
				)
			}
		}
		if _, ok := names[g.RegName(g.Count)]; ok {
			errorf("group %s: extra register %s", g.Name, g.RegName(g.Count))
		}
	}

	for _, reg := range m.Regs {
		if reg.Group != "" && !groups[reg.Group] {
			errorf("register %s: unknown group %s", reg.Name, reg.Group)
		}
	}

	return errors.Join(errs...)
}

func checkFields(reg Register) []error {
	var (
		errs []error
		used uint32
		seen = make(map[string]bool, len(reg.Fields))
	)
	for _, f := range reg.Fields {
		switch {
		case f.Mask == 0:
			errs = append(errs, fmt.Errorf("regmap: field %s.%s: empty mask", reg.Name, f.Name))
			continue
		case f.Mask&(f.Mask+1) != 0:
			errs = append(errs, fmt.Errorf(
				"regmap: field %s.%s: non-contiguous mask 0x%x",
				reg.Name, f.Name, f.Mask,
			))
			continue
		case int(f.Offset)+f.Width() > RegWidth:
			errs = append(errs, fmt.Errorf(
				"regmap: field %s.%s: bits [%d:%d] out of register",
				reg.Name, f.Name, int(f.Offset)+f.Width()-1, f.Offset,
			))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("regmap: field %s.%s: duplicate name", reg.Name, f.Name))
		}
		seen[f.Name] = true
		if used&f.Bits() != 0 {
			errs = append(errs, fmt.Errorf(
				"regmap: field %s: overlaps with other fields (bits=0x%08x)",
				reg.Name+"."+f.String(), used&f.Bits(),
			))
		}
		used |= f.Bits()
	}
	return errs
}
