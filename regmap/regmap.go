// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regmap describes memory-mapped register maps: registers,
// bitfields and multiregister groups, with the lagd_core map as its
// main instance.
package regmap // import "github.com/go-lpc/lagd/regmap"

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

var (
	ErrUnknownRegister = errors.New("regmap: unknown register")
	ErrUnknownField    = errors.New("regmap: unknown field")
	ErrUnknownGroup    = errors.New("regmap: unknown multiregister group")
	ErrIndex           = errors.New("regmap: index out of range")
	ErrValueRange      = errors.New("regmap: value out of field range")
)

// Field describes a contiguous range of bits within a 32-bit register word.
// Single-bit fields have a mask of 1.
type Field struct {
	Name   string
	Mask   uint32 // mask of the field, right-aligned
	Offset uint   // bit index of the least significant bit of the field
}

// Bit returns a single-bit field at the provided bit index.
func Bit(name string, index uint) Field {
	return Field{Name: name, Mask: 1, Offset: index}
}

// NewField returns a field spanning mask, shifted by offset bits.
func NewField(name string, mask uint32, offset uint) Field {
	return Field{Name: name, Mask: mask, Offset: offset}
}

// Width returns the number of bits of the field.
func (f Field) Width() int {
	return bits.Len32(f.Mask)
}

// Bits returns the field mask, shifted into place.
func (f Field) Bits() uint32 {
	return f.Mask << f.Offset
}

// Get extracts the field value from the register word reg.
func (f Field) Get(reg uint32) uint32 {
	return (reg >> f.Offset) & f.Mask
}

// Set returns reg with the field replaced by v.
// Bits outside of the field are left untouched and bits of v outside
// of the field mask are discarded.
func (f Field) Set(reg, v uint32) uint32 {
	return (reg &^ f.Bits()) | (v&f.Mask)<<f.Offset
}

// Check returns ErrValueRange if v does not fit into the field.
func (f Field) Check(v uint32) error {
	if v&^f.Mask != 0 {
		return fmt.Errorf("%w: %s=0x%x (mask=0x%x)", ErrValueRange, f.Name, v, f.Mask)
	}
	return nil
}

func (f Field) String() string {
	if f.Width() == 1 {
		return fmt.Sprintf("%s[%d]", f.Name, f.Offset)
	}
	return fmt.Sprintf("%s[%d:%d]", f.Name, int(f.Offset)+f.Width()-1, f.Offset)
}

// Register describes a 32-bit register located at Offset bytes from the
// base of the register bank.
// A register without fields is accessed as a whole word.
type Register struct {
	Name   string
	Desc   string
	Offset uint32
	Fields []Field

	Group string // name of the multiregister group, if any
	Index int    // index within the multiregister group
}

// Field returns the named field of the register.
func (reg Register) Field(name string) (Field, error) {
	for _, f := range reg.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w %s.%s", ErrUnknownField, reg.Name, name)
}

// MultiReg describes a group of consecutively addressed registers
// holding the elements of one logical array.
type MultiReg struct {
	Name         string
	Desc         string
	FieldWidth   int // bits per element
	FieldsPerReg int // elements packed in one register
	Count        int // number of registers in the group
	Base         uint32
}

// RegName returns the name of the i-th register of the group.
func (g MultiReg) RegName(i int) string {
	return g.Name + "_" + strconv.Itoa(i)
}

// Offset returns the offset of the i-th register of the group.
func (g MultiReg) Offset(i int) (uint32, error) {
	if i < 0 || i >= g.Count {
		return 0, fmt.Errorf("%w: %s[%d] (n=%d)", ErrIndex, g.Name, i, g.Count)
	}
	return g.Base + 4*uint32(i), nil
}

// Registers expands the group into its registers.
func (g MultiReg) Registers() []Register {
	regs := make([]Register, g.Count)
	for i := range regs {
		regs[i] = Register{
			Name:   g.RegName(i),
			Desc:   g.Desc,
			Offset: g.Base + 4*uint32(i),
			Group:  g.Name,
			Index:  i,
		}
	}
	return regs
}

// Map is an ordered register map.
// Regs holds every register, multiregister groups expanded, in
// increasing offset order.
type Map struct {
	Name  string
	Width int // register width, in bits

	Copyright []string
	License   []string

	Regs  []Register
	Multi []MultiReg
}

// clone returns a deep copy of m.
func (m *Map) clone() *Map {
	o := *m
	o.Copyright = append([]string(nil), m.Copyright...)
	o.License = append([]string(nil), m.License...)
	o.Multi = append([]MultiReg(nil), m.Multi...)
	o.Regs = make([]Register, len(m.Regs))
	for i, reg := range m.Regs {
		reg.Fields = append([]Field(nil), reg.Fields...)
		o.Regs[i] = reg
	}
	return &o
}

func (m *Map) add(reg Register) {
	m.Regs = append(m.Regs, reg)
}

func (m *Map) addGroup(g MultiReg) {
	m.Multi = append(m.Multi, g)
	m.Regs = append(m.Regs, g.Registers()...)
}

// Register returns the named register.
func (m *Map) Register(name string) (Register, error) {
	for _, reg := range m.Regs {
		if reg.Name == name {
			return reg, nil
		}
	}
	return Register{}, fmt.Errorf("%w %q", ErrUnknownRegister, name)
}

// At returns the register located at offset.
func (m *Map) At(offset uint32) (Register, bool) {
	for _, reg := range m.Regs {
		if reg.Offset == offset {
			return reg, true
		}
	}
	return Register{}, false
}

// Group returns the named multiregister group.
func (m *Map) Group(name string) (MultiReg, error) {
	for _, g := range m.Multi {
		if g.Name == name {
			return g, nil
		}
	}
	return MultiReg{}, fmt.Errorf("%w %q", ErrUnknownGroup, name)
}

// Field returns the field named fname of register rname.
func (m *Map) Field(rname, fname string) (Field, error) {
	reg, err := m.Register(rname)
	if err != nil {
		return Field{}, err
	}
	return reg.Field(fname)
}

// Lookup resolves "REG" or "REG.FIELD" names.
// The returned field is nil when only a register was named.
func (m *Map) Lookup(name string) (Register, *Field, error) {
	rname, fname, ok := strings.Cut(strings.ToUpper(name), ".")
	reg, err := m.Register(rname)
	if err != nil {
		return reg, nil, err
	}
	if !ok {
		return reg, nil, nil
	}
	f, err := reg.Field(fname)
	if err != nil {
		return reg, nil, err
	}
	return reg, &f, nil
}

// Span returns the number of bytes covered by the map.
func (m *Map) Span() uint32 {
	if len(m.Regs) == 0 {
		return 0
	}
	return m.Regs[len(m.Regs)-1].Offset + uint32(m.Width/8)
}
