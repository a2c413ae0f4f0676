// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-lpc/lagd/regmap"
	"golang.org/x/sync/errgroup"
)

// bank holds the register bindings used by the accelerator operations.
type bank struct {
	flush  field
	cmptEn field
	status reg32
	energy [2]reg32
	spins  [2]group
	j      group
}

func newBank(dev *Device) bank {
	return bank{
		flush:  newField(dev, regmap.GlobalCfg1Offset, regmap.GlobalCfg1FlushEn),
		cmptEn: newField(dev, regmap.GlobalCfg2Offset, regmap.GlobalCfg2CMPTEn),
		status: newReg32(dev, regmap.OutputStatusOffset),
		energy: [2]reg32{
			newReg32(dev, regmap.EnergyFIFOData0Offset),
			newReg32(dev, regmap.EnergyFIFOData1Offset),
		},
		spins: [2]group{
			newGroup(dev, regmap.SpinFIFOData0Offset, regmap.SpinFIFOData0MultiregCount),
			newGroup(dev, regmap.SpinFIFOData1Offset, regmap.SpinFIFOData1MultiregCount),
		},
		j: newGroup(dev, regmap.DebugJReadDataOffset, regmap.DebugJReadDataMultiregCount),
	}
}

func (dev *Device) checkMap() error {
	if span := int64(dev.regs.Span()); dev.span < span {
		return fmt.Errorf("%w (span=0x%x, want>=0x%x)", errSpan, dev.span, span)
	}
	return nil
}

// Configure writes the run configuration to the device.
// The accelerator is left stopped.
func (dev *Device) Configure(cfg Config) error {
	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("core: could not configure device: %w", err)
	}
	err = dev.checkMap()
	if err != nil {
		return fmt.Errorf("core: could not configure device: %w", err)
	}

	dev.bank.cmptEn.w(0)
	if dev.err != nil {
		return fmt.Errorf("core: could not configure device: %w", dev.err)
	}

	for _, blk := range cfg.blocks() {
		err = dev.WriteGroup(blk.name, blk.vs)
		if err != nil {
			return fmt.Errorf("core: could not configure device: %w", err)
		}
	}

	for _, w := range cfg.words() {
		dev.writeU32(int64(w.off), w.encode(0))
	}
	if dev.err != nil {
		return fmt.Errorf("core: could not configure device: %w", dev.err)
	}

	dev.msg.Printf("configured (global-1=0x%08x, global-2=0x%08x)",
		dev.readU32(regmap.GlobalCfg1Offset),
		dev.readU32(regmap.GlobalCfg2Offset),
	)
	return dev.err
}

// ReadConfig reads back the run configuration from the device.
func (dev *Device) ReadConfig() (Config, error) {
	var cfg Config
	err := dev.checkMap()
	if err != nil {
		return cfg, fmt.Errorf("core: could not read configuration: %w", err)
	}

	for _, w := range cfg.words() {
		w.decode(dev.readU32(int64(w.off)))
	}
	for _, blk := range cfg.blocks() {
		vs, err := dev.ReadGroup(blk.name)
		if err != nil {
			return cfg, fmt.Errorf("core: could not read configuration: %w", err)
		}
		copy(blk.vs, vs)
	}
	if dev.err != nil {
		return cfg, fmt.Errorf("core: could not read configuration: %w", dev.err)
	}
	return cfg, nil
}

// Flush pulses GLOBAL_CFG_1.FLUSH_EN, flushing the accelerator FIFOs.
func (dev *Device) Flush() error {
	dev.bank.flush.w(1)
	dev.bank.flush.w(0)
	if dev.err != nil {
		return fmt.Errorf("core: could not flush device: %w", dev.err)
	}
	return nil
}

// Start enables the computation (GLOBAL_CFG_2.CMPT_EN).
func (dev *Device) Start() error {
	dev.bank.cmptEn.w(1)
	if dev.err != nil {
		return fmt.Errorf("core: could not start computation: %w", dev.err)
	}
	return nil
}

// Stop disables the computation (GLOBAL_CFG_2.CMPT_EN).
func (dev *Device) Stop() error {
	dev.bank.cmptEn.w(0)
	if dev.err != nil {
		return fmt.Errorf("core: could not stop computation: %w", dev.err)
	}
	return nil
}

// Status is the decoded content of the OUTPUT_STATUS register.
type Status struct {
	Raw uint32

	DTCfgIdle           bool
	CMPTIdle            bool
	EnergyFIFOUpdate    bool
	SpinFIFOUpdate      bool
	DebugJReadDataValid bool
	DebugAnalogDTWIdle  bool
	DebugAnalogDTRIdle  bool
	DebugSpinWIdle      bool
	DebugSpinRIdle      bool
	DebugSpinCMPTIdle   bool
	DebugFMUpstreamHS   bool
	DebugFMDownstreamHS bool
	DebugAWDownstreamHS bool
	DebugEMUpstreamHS   bool
}

func newStatus(v uint32) Status {
	bit := func(f regmap.Field) bool { return f.Get(v) == 1 }
	return Status{
		Raw:                 v,
		DTCfgIdle:           bit(regmap.OutputStatusDTCfgIdle),
		CMPTIdle:            bit(regmap.OutputStatusCMPTIdle),
		EnergyFIFOUpdate:    bit(regmap.OutputStatusEnergyFIFOUpdate),
		SpinFIFOUpdate:      bit(regmap.OutputStatusSpinFIFOUpdate),
		DebugJReadDataValid: bit(regmap.OutputStatusDebugJReadDataValid),
		DebugAnalogDTWIdle:  bit(regmap.OutputStatusDebugAnalogDTWIdle),
		DebugAnalogDTRIdle:  bit(regmap.OutputStatusDebugAnalogDTRIdle),
		DebugSpinWIdle:      bit(regmap.OutputStatusDebugSpinWIdle),
		DebugSpinRIdle:      bit(regmap.OutputStatusDebugSpinRIdle),
		DebugSpinCMPTIdle:   bit(regmap.OutputStatusDebugSpinCMPTIdle),
		DebugFMUpstreamHS:   bit(regmap.OutputStatusDebugFMUpstreamHandshake),
		DebugFMDownstreamHS: bit(regmap.OutputStatusDebugFMDownstreamHandshake),
		DebugAWDownstreamHS: bit(regmap.OutputStatusDebugAWDownstreamHandshake),
		DebugEMUpstreamHS:   bit(regmap.OutputStatusDebugEMUpstreamHandshake),
	}
}

// Idle reports whether both the configuration and the computation
// engines are idle.
func (st Status) Idle() bool {
	return st.DTCfgIdle && st.CMPTIdle
}

// Status reads the OUTPUT_STATUS register.
func (dev *Device) Status() (Status, error) {
	v := dev.bank.status.r()
	if dev.err != nil {
		return Status{}, fmt.Errorf("core: could not read status: %w", dev.err)
	}
	return newStatus(v), nil
}

// WaitIdle polls the status register until the accelerator is idle or
// ctx is done.
func (dev *Device) WaitIdle(ctx context.Context) error {
	tick := time.NewTicker(dev.cfg.poll)
	defer tick.Stop()

	for {
		st, err := dev.Status()
		if err != nil {
			return err
		}
		if st.Idle() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf(
				"core: accelerator not idle (status=0x%08x): %w",
				st.Raw, ctx.Err(),
			)
		case <-tick.C:
		}
	}
}

// Energy reads the 64-bit energy word from ENERGY_FIFO_DATA_1 (high)
// and ENERGY_FIFO_DATA_0 (low).
func (dev *Device) Energy() (uint64, error) {
	var (
		lo = dev.bank.energy[0].r()
		hi = dev.bank.energy[1].r()
	)
	if dev.err != nil {
		return 0, fmt.Errorf("core: could not read energy: %w", dev.err)
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// Spins reads the SPIN_FIFO_DATA_0 and SPIN_FIFO_DATA_1 groups.
func (dev *Device) Spins() ([2][regmap.SpinFIFOData0MultiregCount]uint32, error) {
	var spins [2][regmap.SpinFIFOData0MultiregCount]uint32
	for i := range spins {
		for j := range spins[i] {
			spins[i][j] = dev.bank.spins[i].r(j)
		}
	}
	if dev.err != nil {
		return spins, fmt.Errorf("core: could not read spins: %w", dev.err)
	}
	return spins, nil
}

// ReadJ reads the DEBUG_J_READ_DATA group.
func (dev *Device) ReadJ() ([regmap.DebugJReadDataMultiregCount]uint32, error) {
	var j [regmap.DebugJReadDataMultiregCount]uint32
	for i := range j {
		j[i] = dev.bank.j.r(i)
	}
	if dev.err != nil {
		return j, fmt.Errorf("core: could not read J data: %w", dev.err)
	}
	return j, nil
}

// Snapshot reads every register of the device, keyed by register name
// for standalone registers and by group name for multiregister groups.
func (dev *Device) Snapshot() (map[string][]uint32, error) {
	switch {
	case dev.err != nil:
		return nil, fmt.Errorf("core: could not snapshot device: %w", dev.err)
	case dev.rw == nil:
		return nil, fmt.Errorf("core: could not snapshot device: %w", errClosed)
	}
	err := dev.checkMap()
	if err != nil {
		return nil, fmt.Errorf("core: could not snapshot device: %w", err)
	}

	var (
		mu  sync.Mutex
		out = make(map[string][]uint32, len(dev.regs.Regs))
		grp errgroup.Group
	)

	for _, reg := range dev.regs.Regs {
		var (
			name = reg.Name
			off  = reg.Offset
			n    = 1
		)
		if reg.Group != "" {
			if reg.Index != 0 {
				continue
			}
			g, err := dev.regs.Group(reg.Group)
			if err != nil {
				return nil, fmt.Errorf("core: could not snapshot device: %w", err)
			}
			name = g.Name
			off = g.Base
			n = g.Count
		}

		grp.Go(func() error {
			vs := make([]uint32, n)
			for i := range vs {
				v, err := load32(dev.rw, int64(off)+4*int64(i))
				if err != nil {
					return fmt.Errorf("core: could not read %s: %w", name, err)
				}
				vs[i] = v
			}
			mu.Lock()
			out[name] = vs
			mu.Unlock()
			return nil
		})
	}

	err = grp.Wait()
	if err != nil {
		return nil, fmt.Errorf("core: could not snapshot device: %w", err)
	}

	return out, nil
}
