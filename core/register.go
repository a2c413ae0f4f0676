// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-lpc/lagd/regmap"
)

var (
	errClosed    = errors.New("core: device closed")
	errUnaligned = errors.New("core: unaligned register offset")
	errSpan      = errors.New("core: register offset out of window")
)

type reg32 struct {
	r func() uint32
	w func(v uint32)
}

func newReg32(dev *Device, offset uint32) reg32 {
	return reg32{
		r: func() uint32 {
			return dev.readU32(int64(offset))
		},
		w: func(v uint32) {
			dev.writeU32(int64(offset), v)
		},
	}
}

// field reads and writes a bitfield of a register.
type field struct {
	reg reg32
	f   regmap.Field
}

func newField(dev *Device, offset uint32, f regmap.Field) field {
	return field{reg: newReg32(dev, offset), f: f}
}

func (f field) r() uint32 {
	return f.f.Get(f.reg.r())
}

func (f field) w(v uint32) {
	f.reg.w(f.f.Set(f.reg.r(), v))
}

// group reads and writes the registers of a multiregister group.
type group struct {
	dev  *Device
	base uint32
	n    int
}

func newGroup(dev *Device, base uint32, n int) group {
	return group{dev: dev, base: base, n: n}
}

func (g group) r(i int) uint32 {
	return g.dev.readU32(int64(g.base) + 4*int64(i))
}

func (g group) w(i int, v uint32) {
	g.dev.writeU32(int64(g.base)+4*int64(i), v)
}

// wordRW is a register window with native 32-bit accessors.
type wordRW interface {
	ReadU32(off int64) (uint32, error)
	WriteU32(off int64, v uint32) error
}

// load32 reads the 32-bit word at off in a single access.
func load32(rw rwer, off int64) (uint32, error) {
	if w, ok := rw.(wordRW); ok {
		return w.ReadU32(off)
	}
	var buf [4]byte
	_, err := rw.ReadAt(buf[:], off)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// store32 writes the 32-bit word v at off in a single access.
func store32(rw rwer, off int64, v uint32) error {
	if w, ok := rw.(wordRW); ok {
		return w.WriteU32(off, v)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := rw.WriteAt(buf[:], off)
	return err
}

func (dev *Device) readU32(off int64) uint32 {
	if dev.err != nil {
		return 0
	}
	if dev.rw == nil {
		dev.err = errClosed
		return 0
	}
	v, err := load32(dev.rw, off)
	if err != nil {
		dev.err = fmt.Errorf("core: could not read register 0x%x: %w", off, err)
		return 0
	}
	return v
}

func (dev *Device) writeU32(off int64, v uint32) {
	if dev.err != nil {
		return
	}
	if dev.rw == nil {
		dev.err = errClosed
		return
	}
	err := store32(dev.rw, off, v)
	if err != nil {
		dev.err = fmt.Errorf("core: could not write register 0x%x: %w", off, err)
		return
	}
}

func (dev *Device) checkOffset(off uint32) error {
	switch {
	case off%4 != 0:
		return fmt.Errorf("%w 0x%x", errUnaligned, off)
	case int64(off)+4 > dev.span:
		return fmt.Errorf("%w 0x%x (span=0x%x)", errSpan, off, dev.span)
	}
	return nil
}

// Read32 reads the 32-bit register at byte offset off.
func (dev *Device) Read32(off uint32) (uint32, error) {
	if err := dev.checkOffset(off); err != nil {
		return 0, err
	}
	v := dev.readU32(int64(off))
	return v, dev.err
}

// Write32 writes v to the 32-bit register at byte offset off.
func (dev *Device) Write32(off, v uint32) error {
	if err := dev.checkOffset(off); err != nil {
		return err
	}
	dev.writeU32(int64(off), v)
	return dev.err
}

// ReadReg reads the named register.
func (dev *Device) ReadReg(name string) (uint32, error) {
	reg, err := dev.regs.Register(name)
	if err != nil {
		return 0, fmt.Errorf("core: could not read register: %w", err)
	}
	return dev.Read32(reg.Offset)
}

// WriteReg writes v to the named register.
func (dev *Device) WriteReg(name string, v uint32) error {
	reg, err := dev.regs.Register(name)
	if err != nil {
		return fmt.Errorf("core: could not write register: %w", err)
	}
	return dev.Write32(reg.Offset, v)
}

// ReadField reads the field fname of register rname.
func (dev *Device) ReadField(rname, fname string) (uint32, error) {
	reg, err := dev.regs.Register(rname)
	if err != nil {
		return 0, fmt.Errorf("core: could not read field: %w", err)
	}
	f, err := reg.Field(fname)
	if err != nil {
		return 0, fmt.Errorf("core: could not read field: %w", err)
	}
	v, err := dev.Read32(reg.Offset)
	if err != nil {
		return 0, err
	}
	return f.Get(v), nil
}

// WriteField sets the field fname of register rname to v, leaving the
// other bits of the register untouched.
func (dev *Device) WriteField(rname, fname string, v uint32) error {
	reg, err := dev.regs.Register(rname)
	if err != nil {
		return fmt.Errorf("core: could not write field: %w", err)
	}
	f, err := reg.Field(fname)
	if err != nil {
		return fmt.Errorf("core: could not write field: %w", err)
	}
	err = f.Check(v)
	if err != nil {
		return fmt.Errorf("core: could not write field %s.%s: %w", rname, fname, err)
	}
	old, err := dev.Read32(reg.Offset)
	if err != nil {
		return err
	}
	return dev.Write32(reg.Offset, f.Set(old, v))
}

// ReadGroup reads all the registers of the named multiregister group.
func (dev *Device) ReadGroup(name string) ([]uint32, error) {
	g, err := dev.regs.Group(name)
	if err != nil {
		return nil, fmt.Errorf("core: could not read group: %w", err)
	}
	if err := dev.checkOffset(g.Base + 4*uint32(g.Count-1)); err != nil {
		return nil, err
	}
	var (
		vs  = make([]uint32, g.Count)
		grp = newGroup(dev, g.Base, g.Count)
	)
	for i := range vs {
		vs[i] = grp.r(i)
	}
	if dev.err != nil {
		return nil, fmt.Errorf("core: could not read group %s: %w", name, dev.err)
	}
	return vs, nil
}

// WriteGroup writes vs to the registers of the named multiregister group.
// vs must hold exactly one value per register of the group.
func (dev *Device) WriteGroup(name string, vs []uint32) error {
	g, err := dev.regs.Group(name)
	if err != nil {
		return fmt.Errorf("core: could not write group: %w", err)
	}
	if len(vs) != g.Count {
		return fmt.Errorf(
			"core: could not write group %s: %w (got=%d values, want=%d)",
			name, regmap.ErrIndex, len(vs), g.Count,
		)
	}
	if err := dev.checkOffset(g.Base + 4*uint32(g.Count-1)); err != nil {
		return err
	}
	grp := newGroup(dev, g.Base, g.Count)
	for i, v := range vs {
		grp.w(i, v)
	}
	if dev.err != nil {
		return fmt.Errorf("core: could not write group %s: %w", name, dev.err)
	}
	return nil
}
